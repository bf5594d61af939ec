// Package codec maps the array and object shaped fields of an audio track onto single TEXT columns.
//
// Sequences are stored as JSON arrays and settings as a JSON object. A missing or NULL array column
// reads back as an empty sequence; a NULL settings column reads back as nil. Every value read
// from or written to those columns goes through this package.
package codec

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/goccy/go-json"
)

// EmptyArray is the stored form of an empty sequence and the column default.
const EmptyArray = "[]"

// DecodeError reports a stored value that is not valid for its column.
type DecodeError struct {
	Field string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: column %s holds %q: %v", shared.ErrDecode, e.Field, truncate(e.Value, 64), e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, shared.ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == shared.ErrDecode }

// EncodeStrings encodes an ordered sequence of strings. A nil slice encodes as [EmptyArray].
func EncodeStrings(values []string) (string, error) {
	return encodeSlice(values)
}

// DecodeStrings decodes a string sequence column.
func DecodeStrings(field string, col sql.NullString) ([]string, error) {
	return decodeSlice[string](field, col)
}

// EncodeNumbers encodes an ordered sequence of numbers. NaN and infinities have no JSON form and are rejected.
func EncodeNumbers(values []float64) (string, error) {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("%w: element %d is not a finite number", shared.ErrInvalidInput, i)
		}
	}
	return encodeSlice(values)
}

// DecodeNumbers decodes a numeric sequence column.
func DecodeNumbers(field string, col sql.NullString) ([]float64, error) {
	return decodeSlice[float64](field, col)
}

// EncodeSettings encodes optional settings. nil becomes SQL NULL, never "{}".
func EncodeSettings(settings *models.ProcessingSettings) (sql.NullString, error) {
	if settings == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%w: failed to encode settings: %w", shared.ErrInvalidInput, err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// DecodeSettings decodes the settings column. NULL, "" and "null" mean no settings.
func DecodeSettings(field string, col sql.NullString) (*models.ProcessingSettings, error) {
	text := strings.TrimSpace(col.String)
	if !col.Valid || text == "" || text == "null" {
		return nil, nil
	}

	if !strings.HasPrefix(text, "{") {
		return nil, &DecodeError{Field: field, Value: col.String, Err: fmt.Errorf("expected a JSON object")}
	}

	var settings models.ProcessingSettings
	if err := json.Unmarshal([]byte(text), &settings); err != nil {
		return nil, &DecodeError{Field: field, Value: col.String, Err: err}
	}
	return &settings, nil
}

func encodeSlice[T any](values []T) (string, error) {
	if len(values) == 0 {
		return EmptyArray, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode sequence: %w", shared.ErrInvalidInput, err)
	}
	return string(data), nil
}

func decodeSlice[T any](field string, col sql.NullString) ([]T, error) {
	text := strings.TrimSpace(col.String)
	if !col.Valid || text == "" || text == "null" {
		return []T{}, nil
	}

	if !strings.HasPrefix(text, "[") {
		return nil, &DecodeError{Field: field, Value: col.String, Err: fmt.Errorf("expected a JSON array")}
	}

	// Elements decode through pointers so a null element is caught instead of becoming a zero value.
	var elems []*T
	if err := json.Unmarshal([]byte(text), &elems); err != nil {
		return nil, &DecodeError{Field: field, Value: col.String, Err: err}
	}

	values := make([]T, 0, len(elems))
	for i, elem := range elems {
		if elem == nil {
			return nil, &DecodeError{Field: field, Value: col.String, Err: fmt.Errorf("element %d is null", i)}
		}
		values = append(values, *elem)
	}
	return values, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
