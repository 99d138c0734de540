package util

import (
	"errors"
	"strings"
	"testing"
)

func TestDisplayFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "resume.pdf", want: "resume.pdf"},
		{name: "nested path", in: "docs/cv/resume.pdf", want: "resume.pdf"},
		{name: "windows path", in: `C:\cv\Jane Doe.pdf`, want: "Jane Doe.pdf"},
		{name: "control characters", in: "cv\x00\n.pdf", want: "cv.pdf"},
		{name: "traversal only", in: "../..", wantErr: true},
		{name: "trailing slash", in: "docs/", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := DisplayFileName(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadFileName) {
					t.Fatalf("expected ErrBadFileName for %q, got %v", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("DisplayFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplayFileNameTruncates(t *testing.T) {
	got, err := DisplayFileName(strings.Repeat("é", 200) + ".pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len([]rune(got)); n != maxFileNameLen {
		t.Fatalf("expected %d runes, got %d", maxFileNameLen, n)
	}
}
