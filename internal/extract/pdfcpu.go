package extract

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// kerningSpace is the TJ displacement (thousandths of an em) past which a
// gap is rendered as a word break.
const kerningSpace = -200

type pdfcpuSource struct{}

func (pdfcpuSource) Name() string { return BackendPDFCPU }

func (pdfcpuSource) Pages(data []byte) ([]string, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages := make([]string, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			pages = append(pages, "")
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
		}
		text := contentStreamText(content)
		if !readable(text) {
			text = ""
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// contentStreamText renders the text-showing operators of a page content
// stream as lines of plain text.
func contentStreamText(stream []byte) string {
	var (
		out      strings.Builder
		strs     []string
		nums     []float64
		inArray  bool
		arrayBuf strings.Builder
	)

	newline := func() {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
	}
	space := func() {
		s := out.String()
		if len(s) > 0 && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			out.WriteByte(' ')
		}
	}

	lx := &lexer{src: stream}
	for {
		tok, ok := lx.next()
		if !ok {
			break
		}
		switch tok.kind {
		case tokString:
			if inArray {
				arrayBuf.WriteString(tok.text)
			} else {
				strs = append(strs, tok.text)
			}
		case tokNumber:
			if inArray {
				if tok.num < kerningSpace {
					arrayBuf.WriteByte(' ')
				}
			} else {
				nums = append(nums, tok.num)
			}
		case tokArrayStart:
			inArray = true
			arrayBuf.Reset()
		case tokArrayEnd:
			inArray = false
			strs = append(strs, arrayBuf.String())
		case tokOperator:
			switch tok.text {
			case "Tj", "TJ":
				for _, s := range strs {
					out.WriteString(s)
				}
			case "'", `"`:
				newline()
				for _, s := range strs {
					out.WriteString(s)
				}
			case "Td", "TD":
				if len(nums) >= 2 && nums[len(nums)-1] != 0 {
					newline()
				} else {
					space()
				}
			case "T*", "ET":
				newline()
			case "BI":
				lx.skipInlineImage()
			}
			strs = strs[:0]
			nums = nums[:0]
		}
	}
	return normalizeLines(out.String())
}

// normalizeLines collapses runs of spaces, drops control characters and
// removes blank lines.
func normalizeLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		var sb strings.Builder
		prevSpace := false
		for _, r := range line {
			switch {
			case unicode.IsSpace(r):
				if !prevSpace && sb.Len() > 0 {
					sb.WriteByte(' ')
					prevSpace = true
				}
			case unicode.IsPrint(r):
				sb.WriteRune(r)
				prevSpace = false
			}
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

type tokKind int

const (
	tokOperator tokKind = iota
	tokString
	tokNumber
	tokArrayStart
	tokArrayEnd
	tokOther
)

type token struct {
	kind tokKind
	text string
	num  float64
}

type lexer struct {
	src []byte
	pos int
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isWhite(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.src) {
		b := l.src[l.pos]
		switch {
		case isWhite(b):
			l.pos++
		case b == '%':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' && l.src[l.pos] != '\r' {
				l.pos++
			}
		case b == '(':
			return token{kind: tokString, text: l.literalString()}, true
		case b == '<':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '<' {
				l.pos += 2
				return token{kind: tokOther}, true
			}
			return token{kind: tokString, text: l.hexString()}, true
		case b == '>':
			l.pos++
			if l.pos < len(l.src) && l.src[l.pos] == '>' {
				l.pos++
			}
			return token{kind: tokOther}, true
		case b == '[':
			l.pos++
			return token{kind: tokArrayStart}, true
		case b == ']':
			l.pos++
			return token{kind: tokArrayEnd}, true
		case b == '/':
			l.pos++
			l.regular()
			return token{kind: tokOther}, true
		case b == '{' || b == '}' || b == ')':
			l.pos++
			return token{kind: tokOther}, true
		default:
			word := l.regular()
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				return token{kind: tokNumber, num: n}, true
			}
			return token{kind: tokOperator, text: word}, true
		}
	}
	return token{}, false
}

func (l *lexer) regular() string {
	start := l.pos
	for l.pos < len(l.src) && !isWhite(l.src[l.pos]) && !isDelimiter(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == start && l.pos < len(l.src) {
		l.pos++
	}
	return string(l.src[start:l.pos])
}

func (l *lexer) literalString() string {
	l.pos++ // opening paren
	var raw []byte
	depth := 1
	for l.pos < len(l.src) {
		b := l.src[l.pos]
		l.pos++
		switch b {
		case '\\':
			if l.pos >= len(l.src) {
				continue
			}
			esc := l.src[l.pos]
			l.pos++
			switch esc {
			case 'n':
				raw = append(raw, '\n')
			case 'r':
				raw = append(raw, '\r')
			case 't':
				raw = append(raw, '\t')
			case 'b', 'f':
			case '\r':
				if l.pos < len(l.src) && l.src[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if esc >= '0' && esc <= '7' {
					val := int(esc - '0')
					for i := 0; i < 2 && l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '7'; i++ {
						val = val*8 + int(l.src[l.pos]-'0')
						l.pos++
					}
					raw = append(raw, byte(val))
				} else {
					raw = append(raw, esc)
				}
			}
		case '(':
			depth++
			raw = append(raw, b)
		case ')':
			depth--
			if depth == 0 {
				return decodeText(raw)
			}
			raw = append(raw, b)
		default:
			raw = append(raw, b)
		}
	}
	return decodeText(raw)
}

func (l *lexer) hexString() string {
	l.pos++ // opening angle
	var digits []byte
	for l.pos < len(l.src) && l.src[l.pos] != '>' {
		if b := l.src[l.pos]; !isWhite(b) {
			digits = append(digits, b)
		}
		l.pos++
	}
	l.pos++ // closing angle
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return ""
		}
		raw = append(raw, byte(v))
	}
	return decodeText(raw)
}

// skipInlineImage advances past the binary payload of a BI ... ID ... EI block.
func (l *lexer) skipInlineImage() {
	idx := bytes.Index(l.src[l.pos:], []byte("ID"))
	if idx < 0 {
		l.pos = len(l.src)
		return
	}
	l.pos += idx + 2
	for l.pos+2 <= len(l.src) {
		if l.src[l.pos] == 'E' && l.src[l.pos+1] == 'I' &&
			l.pos > 0 && isWhite(l.src[l.pos-1]) &&
			(l.pos+2 == len(l.src) || isWhite(l.src[l.pos+2])) {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.pos = len(l.src)
}

// decodeText interprets string bytes as UTF-16BE when they carry a byte
// order mark, and as Latin-1 otherwise. Strings holding control bytes are
// glyph ids of a composite (CID) font; without the font's ToUnicode map they
// cannot be decoded, so they yield nothing.
func decodeText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		body := raw[2:]
		units := make([]uint16, 0, len(body)/2)
		for i := 0; i+1 < len(body); i += 2 {
			units = append(units, uint16(body[i])<<8|uint16(body[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(raw))
	for i, b := range raw {
		if isGlyphByte(b) {
			return ""
		}
		runes[i] = rune(b)
	}
	return string(runes)
}

func isGlyphByte(b byte) bool {
	return (b < 0x20 && b != '\t' && b != '\n' && b != '\r') || b == 0x7F
}

// minReadableRatio is the share of letters and digits among the non-space
// characters a page needs before its text is trusted.
const minReadableRatio = 0.5

// readable reports whether text looks like prose rather than glyph ids
// decoded through the wrong encoding.
func readable(text string) bool {
	var total, wordy int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			wordy++
		}
	}
	return total > 0 && float64(wordy) >= minReadableRatio*float64(total)
}
