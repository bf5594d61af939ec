package shared

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    log.Level
		wantErr bool
	}{
		{name: "empty defaults to info", input: "", want: log.InfoLevel},
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "mixed case", input: "WaRn", want: log.WarnLevel},
		{name: "surrounding whitespace", input: "  error ", want: log.ErrorLevel},
		{name: "unknown", input: "verbose", want: log.InfoLevel, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMemoryDSN(t *testing.T) {
	a := MemoryDSN()
	b := MemoryDSN()

	if a == b {
		t.Error("expected distinct DSNs for separate calls")
	}

	if !strings.HasPrefix(a, "file:") || !strings.HasSuffix(a, "?mode=memory&cache=shared") {
		t.Errorf("unexpected DSN shape: %s", a)
	}
}
