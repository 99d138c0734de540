package util

import "testing"

func TestFingerprint(t *testing.T) {
	got := Fingerprint("google:12345")
	if got != Fingerprint("google:12345") {
		t.Fatalf("expected stable fingerprint, got %s", got)
	}
	if len(got) != fingerprintLen {
		t.Fatalf("expected %d characters, got %d", fingerprintLen, len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("fingerprint contains non-hex character: %c", ch)
		}
	}
	if Fingerprint("guest:a") == Fingerprint("guest:b") {
		t.Fatal("distinct keys must not collide")
	}
	if Fingerprint("") != "" {
		t.Fatal("empty key has no fingerprint")
	}
}
