package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("audit.generated", map[string]any{"duration_ms": 12.5, "state": "generated"})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode log json: %v (%s)", err, buf.String())
	}
	for _, key := range []string{"ts", "level", "msg", "duration_ms", "state"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field %q", key)
		}
	}
	if payload["level"] != "info" || payload["msg"] != "audit.generated" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestErrorStringifiesErrors(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("audit.failed", map[string]any{"error": errors.New("boom")})

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `"level":"error"`) {
		t.Fatalf("expected error level, got %s", line)
	}
	if !strings.Contains(line, `"error":"boom"`) {
		t.Fatalf("expected stringified error, got %s", line)
	}
}
