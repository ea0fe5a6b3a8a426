package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/raysh454/fetchbutton/internal/logging"
)

type entry struct {
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component"`
	Fields    map[string]any `json:"fields"`
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []entry {
	t.Helper()
	var out []entry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, e)
	}
	return out
}

func TestWriterLogger_EmitsJSONLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewWriterLogger(&buf, "clickhandler", logging.LevelDebug)

	l.Info("redirected", logging.Field{Key: "url", Value: "http://x/api/data"})

	got := decodeLines(t, &buf)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Level != "info" || got[0].Msg != "redirected" || got[0].Component != "clickhandler" {
		t.Errorf("unexpected entry: %+v", got[0])
	}
	if got[0].Fields["url"] != "http://x/api/data" {
		t.Errorf("expected url field, got %v", got[0].Fields)
	}
}

func TestWriterLogger_DropsBelowLevel(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := logging.NewWriterLogger(&buf, "", logging.LevelWarn)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	got := decodeLines(t, &buf)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %s", len(got), buf.String())
	}
	if got[0].Msg != "w" || got[1].Msg != "e" {
		t.Errorf("unexpected messages: %+v", got)
	}
}

func TestWriterLogger_WithKeepsFieldsAndComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	root := logging.NewWriterLogger(&buf, "root", logging.LevelInfo)

	child := root.With(
		logging.Field{Key: "component", Value: "page"},
		logging.Field{Key: "session", Value: "abc"},
	)
	child.Info("hello", logging.Field{Key: "n", Value: 1})

	got := decodeLines(t, &buf)
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Component != "page" {
		t.Errorf("component = %q, want page", got[0].Component)
	}
	if got[0].Fields["session"] != "abc" {
		t.Errorf("persistent field missing: %v", got[0].Fields)
	}
	if _, ok := got[0].Fields["component"]; ok {
		t.Errorf("component should not be a regular field: %v", got[0].Fields)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want logging.Level
	}{
		{"debug", logging.LevelDebug},
		{"INFO", logging.LevelInfo},
		{" warn ", logging.LevelWarn},
		{"warning", logging.LevelWarn},
		{"Error", logging.LevelError},
		{"nonsense", logging.LevelInfo},
		{"", logging.LevelInfo},
	}
	for _, tt := range tests {
		if got := logging.ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
