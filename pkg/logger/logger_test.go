package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_LevelAndFields(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	var buf bytes.Buffer
	Init(Options{Level: "warn", Service: "hotel-api", Output: &buf})

	log := Component("auth")
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected one entry, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if entry["service"] != "hotel-api" || entry["component"] != "auth" || entry["message"] != "kept" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	first := Init(Options{Level: "error"})
	second := Init(Options{Level: "debug"})
	if first.GetLevel() != zerolog.ErrorLevel || second.GetLevel() != zerolog.ErrorLevel {
		t.Fatalf("expected error level to stick, got %v and %v", first.GetLevel(), second.GetLevel())
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	t.Cleanup(Reset)
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Get()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel, "DEBUG": zerolog.DebugLevel, " warning ": zerolog.WarnLevel,
		"error": zerolog.ErrorLevel, "": zerolog.InfoLevel, "bogus": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
