package llm

import "strings"

const tripleQuote = `"""`

// Clean strips prompt delimiters the model echoed back, a code fence wrapping
// the whole reply, and surrounding whitespace. Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	out := raw
	for {
		next := cleanOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

func cleanOnce(s string) string {
	s = strings.ReplaceAll(s, tripleQuote, "")
	s = strings.TrimSpace(s)
	return unfence(s)
}

// unfence removes a ``` fence (with optional language tag) that encloses the
// entire text.
func unfence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := s[3 : len(s)-3]
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return s
	}
	tag := strings.TrimSpace(body[:nl])
	if strings.ContainsAny(tag, " \t`") {
		return s
	}
	return strings.TrimSpace(body[nl+1:])
}
