package models

import (
	"bytes"
	"fmt"

	"github.com/desertthunder/extendr/internal/shared"
	"github.com/goccy/go-json"
)

// BeatDetection selects the beat tracker used by the pipeline.
type BeatDetection string

const (
	BeatDetectionAuto    BeatDetection = "auto"
	BeatDetectionLibrosa BeatDetection = "librosa"
	BeatDetectionMadmom  BeatDetection = "madmom"
)

const (
	MinSectionLength     = 8
	MaxSectionLength     = 64
	DefaultSectionLength = 16
)

// ProcessingSettings configures how extended versions are generated.
//
// Every field is optional so that a stored "{}" reads back as an empty, non-nil value.
// Use [ProcessingSettings.WithDefaults] to obtain the effective configuration.
//
// Keys other than the four known ones are kept in Extra and written back unchanged.
type ProcessingSettings struct {
	IntroLength    *int           `json:"introLength,omitempty"`
	OutroLength    *int           `json:"outroLength,omitempty"`
	PreserveVocals *bool          `json:"preserveVocals,omitempty"`
	BeatDetection  *BeatDetection `json:"beatDetection,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// settingsFields has the layout of ProcessingSettings without its JSON methods.
type settingsFields ProcessingSettings

var settingsKeys = []string{"introLength", "outroLength", "preserveVocals", "beatDetection"}

// MarshalJSON writes the known fields merged over Extra.
func (s ProcessingSettings) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(settingsFields(s))
	if err != nil || len(s.Extra) == 0 {
		return data, err
	}

	known := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}

	merged := make(map[string]json.RawMessage, len(s.Extra)+len(known))
	for k, v := range s.Extra {
		merged[k] = v
	}
	for _, k := range settingsKeys {
		delete(merged, k)
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the known fields and keeps every other key in Extra.
func (s *ProcessingSettings) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var fields settingsFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range settingsKeys {
		delete(all, k)
	}
	if len(all) > 0 {
		fields.Extra = all
	} else {
		fields.Extra = nil
	}

	*s = ProcessingSettings(fields)
	return nil
}

// DefaultProcessingSettings returns settings with every field set to its default.
func DefaultProcessingSettings() ProcessingSettings {
	return ProcessingSettings{}.WithDefaults()
}

// WithDefaults returns a copy of s with unset fields filled in.
func (s ProcessingSettings) WithDefaults() ProcessingSettings {
	if s.IntroLength == nil {
		s.IntroLength = Ptr(DefaultSectionLength)
	}
	if s.OutroLength == nil {
		s.OutroLength = Ptr(DefaultSectionLength)
	}
	if s.PreserveVocals == nil {
		s.PreserveVocals = Ptr(true)
	}
	if s.BeatDetection == nil {
		s.BeatDetection = Ptr(BeatDetectionAuto)
	}
	return s
}

// Validate checks the fields that are set; unset fields are valid.
func (s ProcessingSettings) Validate() error {
	if s.IntroLength != nil && !validSectionLength(*s.IntroLength) {
		return fmt.Errorf("%w: introLength %d outside %d-%d", shared.ErrInvalidSettings, *s.IntroLength, MinSectionLength, MaxSectionLength)
	}
	if s.OutroLength != nil && !validSectionLength(*s.OutroLength) {
		return fmt.Errorf("%w: outroLength %d outside %d-%d", shared.ErrInvalidSettings, *s.OutroLength, MinSectionLength, MaxSectionLength)
	}
	if s.BeatDetection != nil {
		switch *s.BeatDetection {
		case BeatDetectionAuto, BeatDetectionLibrosa, BeatDetectionMadmom:
		default:
			return fmt.Errorf("%w: beatDetection %q", shared.ErrInvalidSettings, *s.BeatDetection)
		}
	}
	return nil
}

func validSectionLength(n int) bool {
	return n >= MinSectionLength && n <= MaxSectionLength
}

// Ptr returns a pointer to v. Handy for building patches and optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// SettingsFromConfig builds fully populated settings from the [processing] config section,
// falling back to defaults for zero values.
func SettingsFromConfig(c shared.ProcessingConfig) ProcessingSettings {
	s := ProcessingSettings{PreserveVocals: Ptr(c.PreserveVocals)}
	if c.IntroLength != 0 {
		s.IntroLength = Ptr(c.IntroLength)
	}
	if c.OutroLength != 0 {
		s.OutroLength = Ptr(c.OutroLength)
	}
	if c.BeatDetection != "" {
		s.BeatDetection = Ptr(BeatDetection(c.BeatDetection))
	}
	return s.WithDefaults()
}
