package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoText is the single failure mode of extraction: malformed documents,
// library errors and documents without any text all map to it.
var ErrNoText = errors.New("no extractable text")

// Backend names accepted by New.
const (
	BackendLedongthuc = "ledongthuc"
	BackendPDFCPU     = "pdfcpu"
	BackendAuto       = "auto"
)

// PageSource returns the text of every page of a PDF, in page order.
// Pages without text are returned as empty strings.
type PageSource interface {
	Name() string
	Pages(data []byte) ([]string, error)
}

// Extractor turns PDF bytes into normalized plain text.
type Extractor struct {
	sources []PageSource
}

// New builds an Extractor for the named backend. "auto" tries ledongthuc
// first and falls back to pdfcpu.
func New(backend string) (*Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendLedongthuc:
		return NewWithSources(ledongthucSource{}), nil
	case BackendPDFCPU:
		return NewWithSources(pdfcpuSource{}), nil
	case BackendAuto, "":
		return NewWithSources(ledongthucSource{}, pdfcpuSource{}), nil
	default:
		return nil, fmt.Errorf("unknown extractor backend %q", backend)
	}
}

// NewWithSources builds an Extractor that tries sources in order.
func NewWithSources(sources ...PageSource) *Extractor {
	return &Extractor{sources: sources}
}

// Extract reads size bytes from r and extracts their text.
func (e *Extractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", fmt.Errorf("%w: read document: %v", ErrNoText, err)
	}
	return e.ExtractBytes(ctx, data)
}

// ExtractBytes returns the page texts joined with "\n" and trimmed. The
// result is never empty when err is nil.
func (e *Extractor) ExtractBytes(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", ErrNoText)
	}
	if len(e.sources) == 0 {
		return "", fmt.Errorf("%w: no backend configured", ErrNoText)
	}

	var reasons []string
	for _, src := range e.sources {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoText, err)
		}
		pages, err := safePages(src, data)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", src.Name(), err))
			continue
		}
		if len(pages) == 0 {
			reasons = append(reasons, src.Name()+": document has no pages")
			continue
		}
		text := strings.TrimSpace(strings.Join(pages, "\n"))
		if text != "" {
			return text, nil
		}
		reasons = append(reasons, fmt.Sprintf("%s: no text on %d page(s)", src.Name(), len(pages)))
	}
	return "", fmt.Errorf("%w: %s", ErrNoText, strings.Join(reasons, "; "))
}

// safePages converts parser panics on malformed input into errors.
func safePages(src PageSource, data []byte) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("parser panic: %v", rec)
		}
	}()
	return src.Pages(data)
}
