package codec

import (
	"database/sql"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/goccy/go-json"
)

func text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func TestStrings(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		tc := []struct {
			name   string
			values []string
		}{
			{name: "empty", values: []string{}},
			{name: "single", values: []string{"/out/v1.wav"}},
			{name: "many", values: []string{"/out/v1.wav", "/out/v2.wav", "/out/v1.wav"}},
			{name: "unicode and quotes", values: []string{`/out/"ünïcode".wav`, ""}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				encoded, err := EncodeStrings(tt.values)
				if err != nil {
					t.Fatalf("encode failed: %v", err)
				}

				decoded, err := DecodeStrings("extended_paths", text(encoded))
				if err != nil {
					t.Fatalf("decode failed: %v", err)
				}

				if !reflect.DeepEqual(decoded, tt.values) {
					t.Errorf("round trip = %#v, want %#v", decoded, tt.values)
				}
			})
		}
	})

	t.Run("Nil encodes as empty array", func(t *testing.T) {
		encoded, err := EncodeStrings(nil)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if encoded != EmptyArray {
			t.Errorf("expected %q, got %q", EmptyArray, encoded)
		}
	})

	t.Run("Absent decodes as empty", func(t *testing.T) {
		for name, col := range map[string]sql.NullString{
			"null column": {},
			"empty text":  text(""),
			"json null":   text("null"),
		} {
			t.Run(name, func(t *testing.T) {
				decoded, err := DecodeStrings("extended_paths", col)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if decoded == nil || len(decoded) != 0 {
					t.Errorf("expected non-nil empty slice, got %#v", decoded)
				}
			})
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		for name, raw := range map[string]string{
			"truncated":     `["a.wav"`,
			"object":        `{"a":1}`,
			"wrong element": `[1, 2]`,
			"bare string":   `a.wav`,
			"null element":  `[null]`,
			"trailing null": `["a.wav", null]`,
		} {
			t.Run(name, func(t *testing.T) {
				_, err := DecodeStrings("extended_paths", text(raw))
				if !errors.Is(err, shared.ErrDecode) {
					t.Fatalf("expected ErrDecode, got %v", err)
				}

				var de *DecodeError
				if !errors.As(err, &de) {
					t.Fatalf("expected *DecodeError, got %T", err)
				}
				if de.Field != "extended_paths" {
					t.Errorf("expected field extended_paths, got %s", de.Field)
				}
			})
		}
	})
}

func TestNumbers(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		tc := []struct {
			name   string
			values []float64
		}{
			{name: "empty", values: []float64{}},
			{name: "single", values: []float64{180}},
			{name: "many", values: []float64{180, 212.5, 0, 1e-3, 3600.125}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				encoded, err := EncodeNumbers(tt.values)
				if err != nil {
					t.Fatalf("encode failed: %v", err)
				}

				decoded, err := DecodeNumbers("extended_durations", text(encoded))
				if err != nil {
					t.Fatalf("decode failed: %v", err)
				}

				if !reflect.DeepEqual(decoded, tt.values) {
					t.Errorf("round trip = %#v, want %#v", decoded, tt.values)
				}
			})
		}
	})

	t.Run("Encoding is a JSON array", func(t *testing.T) {
		encoded, err := EncodeNumbers([]float64{180, 200})
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if encoded != "[180,200]" {
			t.Errorf("expected [180,200], got %s", encoded)
		}
	})

	t.Run("Non-finite values", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			if _, err := EncodeNumbers([]float64{1, v}); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for %v, got %v", v, err)
			}
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, raw := range []string{`["180"]`, `[null]`, `[1, null]`, `[null, 2.5]`} {
			got, err := DecodeNumbers("extended_durations", text(raw))
			if !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode for %s, got %v (%v)", raw, err, got)
			}
			if got != nil {
				t.Errorf("expected no values for %s, got %v", raw, got)
			}
		}
	})
}

func TestSettings(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		tc := []struct {
			name     string
			settings *models.ProcessingSettings
		}{
			{name: "absent", settings: nil},
			{name: "empty object", settings: &models.ProcessingSettings{}},
			{name: "partial", settings: &models.ProcessingSettings{IntroLength: models.Ptr(32)}},
			{name: "full", settings: models.Ptr(models.DefaultProcessingSettings())},
			{name: "false kept", settings: &models.ProcessingSettings{PreserveVocals: models.Ptr(false)}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				encoded, err := EncodeSettings(tt.settings)
				if err != nil {
					t.Fatalf("encode failed: %v", err)
				}

				decoded, err := DecodeSettings("settings", encoded)
				if err != nil {
					t.Fatalf("decode failed: %v", err)
				}

				if !reflect.DeepEqual(decoded, tt.settings) {
					t.Errorf("round trip = %#v, want %#v", decoded, tt.settings)
				}
			})
		}
	})

	t.Run("Absent is NULL", func(t *testing.T) {
		encoded, err := EncodeSettings(nil)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if encoded.Valid {
			t.Errorf("expected NULL, got %q", encoded.String)
		}
	})

	t.Run("Empty object is not NULL", func(t *testing.T) {
		encoded, err := EncodeSettings(&models.ProcessingSettings{})
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if !encoded.Valid || encoded.String != "{}" {
			t.Errorf("expected {}, got %#v", encoded)
		}
	})

	t.Run("Unknown keys survive", func(t *testing.T) {
		raw := `{"introLength":16,"extra":1,"mix":{"gain":-3}}`

		decoded, err := DecodeSettings("settings", text(raw))
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if *decoded.IntroLength != 16 || len(decoded.Extra) != 2 {
			t.Fatalf("unexpected settings %#v", decoded)
		}

		encoded, err := EncodeSettings(decoded)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		for _, want := range []string{`"introLength":16`, `"extra":1`, `"mix":{"gain":-3}`} {
			if !strings.Contains(encoded.String, want) {
				t.Errorf("expected %s in %s", want, encoded.String)
			}
		}

		again, err := DecodeSettings("settings", encoded)
		if err != nil {
			t.Fatalf("second decode failed: %v", err)
		}
		if !reflect.DeepEqual(again, decoded) {
			t.Errorf("round trip = %#v, want %#v", again, decoded)
		}
	})

	t.Run("Known fields win over Extra", func(t *testing.T) {
		settings := &models.ProcessingSettings{
			IntroLength: models.Ptr(8),
			Extra:       map[string]json.RawMessage{"introLength": json.RawMessage(`99`), "tag": json.RawMessage(`"x"`)},
		}

		encoded, err := EncodeSettings(settings)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		want := `{"introLength":8,"tag":"x"}`
		if encoded.String != want {
			t.Errorf("expected %s, got %s", want, encoded.String)
		}
	})

	t.Run("Wire names", func(t *testing.T) {
		encoded, err := EncodeSettings(&models.ProcessingSettings{
			IntroLength:   models.Ptr(8),
			BeatDetection: models.Ptr(models.BeatDetectionLibrosa),
		})
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		want := `{"introLength":8,"beatDetection":"librosa"}`
		if encoded.String != want {
			t.Errorf("expected %s, got %s", want, encoded.String)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		for _, raw := range []string{`{"introLength":`, `[1,2]`, `"auto"`, `{"introLength":"long"}`} {
			if _, err := DecodeSettings("settings", text(raw)); !errors.Is(err, shared.ErrDecode) {
				t.Errorf("expected ErrDecode for %s, got %v", raw, err)
			}
		}
	})
}
