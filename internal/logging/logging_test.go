package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origOut := log.Writer()
	origFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(origOut)
		log.SetFlags(origFlags)
	})
	return &buf
}

func TestInfo(t *testing.T) {
	buf := captureLog(t)

	Info("chat", "reply generated", "request_id", "abc", "turns", 3)

	got := strings.TrimSpace(buf.String())
	want := "[CHAT] reply generated request_id=abc turns=3"
	if got != want {
		t.Errorf("Info() wrote %q, want %q", got, want)
	}
}

func TestError(t *testing.T) {
	buf := captureLog(t)

	Error("chat", "generation failed", "error", errors.New("quota exceeded"))

	got := strings.TrimSpace(buf.String())
	want := `[CHAT] ERROR generation failed error="quota exceeded"`
	if got != want {
		t.Errorf("Error() wrote %q, want %q", got, want)
	}
}

func TestFormatFields(t *testing.T) {
	tests := []struct {
		name string
		kv   []any
		want string
	}{
		{"empty", nil, ""},
		{"odd count", []any{"key"}, " key=(missing)"},
		{"multiline value", []any{"msg", "a\nb"}, ` msg="a b"`},
		{"plain", []any{"status", 200}, " status=200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatFields(tt.kv...); got != tt.want {
				t.Errorf("formatFields() = %q, want %q", got, tt.want)
			}
		})
	}
}
