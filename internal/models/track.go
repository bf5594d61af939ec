package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/extendr/internal/shared"
)

// AudioTrack is an uploaded audio file and the extended versions derived from it.
//
// ExtendedPaths and ExtendedDurations are parallel: index i of each describes the same version.
// Their lengths are not forced to match; see [AudioTrack.VersionsAligned].
type AudioTrack struct {
	ID                int64               `json:"id"`
	OriginalFilename  string              `json:"originalFilename"`
	OriginalPath      string              `json:"originalPath"`
	ExtendedPaths     []string            `json:"extendedPaths"`
	Duration          *int64              `json:"duration"`
	ExtendedDurations []float64           `json:"extendedDurations"`
	BPM               *int64              `json:"bpm"`
	Key               *string             `json:"key"`
	Format            *string             `json:"format"`
	Bitrate           *int64              `json:"bitrate"`
	Status            Status              `json:"status"`
	Settings          *ProcessingSettings `json:"settings"`
	VersionCount      int                 `json:"versionCount"`
	UserID            *int64              `json:"userId"`
}

// Version pairs one extended path with its duration, when known.
type Version struct {
	Path     string   `json:"path"`
	Duration *float64 `json:"duration"`
}

// VersionsAligned reports whether every extended path has a matching duration.
func (t AudioTrack) VersionsAligned() bool {
	return len(t.ExtendedPaths) == len(t.ExtendedDurations)
}

// Versions zips ExtendedPaths with ExtendedDurations. Paths without a duration get a nil Duration;
// durations beyond the last path are dropped.
func (t AudioTrack) Versions() []Version {
	versions := make([]Version, len(t.ExtendedPaths))
	for i, p := range t.ExtendedPaths {
		versions[i] = Version{Path: p}
		if i < len(t.ExtendedDurations) {
			versions[i].Duration = Ptr(t.ExtendedDurations[i])
		}
	}
	return versions
}

// OwnedBy reports whether the track belongs to userID.
func (t AudioTrack) OwnedBy(userID int64) bool {
	return t.UserID != nil && *t.UserID == userID
}

// InsertAudioTrack is the creation payload for an [AudioTrack].
//
// Nil ExtendedPaths/ExtendedDurations are stored as empty sequences; nil Settings is stored as NULL.
type InsertAudioTrack struct {
	OriginalFilename  string              `json:"originalFilename"`
	OriginalPath      string              `json:"originalPath"`
	UserID            *int64              `json:"userId,omitempty"`
	ExtendedPaths     []string            `json:"extendedPaths,omitempty"`
	ExtendedDurations []float64           `json:"extendedDurations,omitempty"`
	Settings          *ProcessingSettings `json:"settings,omitempty"`
}

// Validate checks that the immutable original file fields are present.
func (t InsertAudioTrack) Validate() error {
	if strings.TrimSpace(t.OriginalFilename) == "" {
		return fmt.Errorf("%w: originalFilename is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(t.OriginalPath) == "" {
		return fmt.Errorf("%w: originalPath is required", shared.ErrInvalidInput)
	}
	return nil
}

// Field names an optional metadata column that a patch can reset to NULL.
type Field string

const (
	FieldDuration Field = "duration"
	FieldBPM      Field = "bpm"
	FieldKey      Field = "key"
	FieldFormat   Field = "format"
	FieldBitrate  Field = "bitrate"
)

// ParseField converts s into a [Field], rejecting columns that cannot be cleared.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FieldDuration, FieldBPM, FieldKey, FieldFormat, FieldBitrate:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q cannot be cleared", shared.ErrInvalidInput, s)
}

// UpdateAudioTrack is a partial update. A nil field is left untouched in storage.
//
// For the sequence fields a non-nil pointer to an empty slice overwrites the column with "[]",
// which is different from leaving the pointer nil. Clear lists metadata columns to set to NULL.
// The immutable fields (id, originalFilename, originalPath) have no place here.
type UpdateAudioTrack struct {
	ExtendedPaths     *[]string           `json:"extendedPaths,omitempty"`
	Duration          *int64              `json:"duration,omitempty"`
	ExtendedDurations *[]float64          `json:"extendedDurations,omitempty"`
	BPM               *int64              `json:"bpm,omitempty"`
	Key               *string             `json:"key,omitempty"`
	Format            *string             `json:"format,omitempty"`
	Bitrate           *int64              `json:"bitrate,omitempty"`
	Status            *Status             `json:"status,omitempty"`
	Settings          *ProcessingSettings `json:"settings,omitempty"`
	VersionCount      *int                `json:"versionCount,omitempty"`
	Clear             []Field             `json:"clear,omitempty"`
}

// IsEmpty reports whether the patch modifies nothing.
func (u UpdateAudioTrack) IsEmpty() bool {
	return u.ExtendedPaths == nil && u.Duration == nil && u.ExtendedDurations == nil &&
		u.BPM == nil && u.Key == nil && u.Format == nil && u.Bitrate == nil &&
		u.Status == nil && u.Settings == nil && u.VersionCount == nil && len(u.Clear) == 0
}

// Validate rejects unknown statuses and clears that are unknown or collide with a value
// set in the same patch. Transition rules are not checked here.
func (u UpdateAudioTrack) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidStatus, *u.Status)
	}
	for _, f := range u.Clear {
		if _, err := ParseField(string(f)); err != nil {
			return err
		}
		if u.sets(f) {
			return fmt.Errorf("%w: %s is both set and cleared", shared.ErrInvalidInput, f)
		}
	}
	return nil
}

func (u UpdateAudioTrack) sets(f Field) bool {
	switch f {
	case FieldDuration:
		return u.Duration != nil
	case FieldBPM:
		return u.BPM != nil
	case FieldKey:
		return u.Key != nil
	case FieldFormat:
		return u.Format != nil
	case FieldBitrate:
		return u.Bitrate != nil
	}
	return false
}
