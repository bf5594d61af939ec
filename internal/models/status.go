package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/extendr/internal/shared"
)

// Status is the processing state of an [AudioTrack].
type Status string

const (
	StatusUploaded   Status = "uploaded"   // original stored, nothing derived yet
	StatusProcessing Status = "processing" // pipeline is producing versions
	StatusRegenerate Status = "regenerate" // versions requested again with new settings
	StatusCompleted  Status = "completed"  // extended versions available
	StatusError      Status = "error"      // pipeline failed
)

// transitions lists the states each status may move to.
var transitions = map[Status][]Status{
	StatusUploaded:   {StatusProcessing, StatusError},
	StatusProcessing: {StatusCompleted, StatusError},
	StatusRegenerate: {StatusProcessing, StatusError},
	StatusCompleted:  {StatusRegenerate},
	StatusError:      {StatusProcessing, StatusRegenerate},
}

// Statuses returns every known status in workflow order.
func Statuses() []Status {
	return []Status{StatusUploaded, StatusProcessing, StatusRegenerate, StatusCompleted, StatusError}
}

// ParseStatus converts s into a [Status], rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", shared.ErrInvalidStatus, s)
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the workflow may move a track from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next when the move from s is allowed and [shared.ErrInvalidTransition] otherwise.
func (s Status) Transition(next Status) (Status, error) {
	if !next.Valid() {
		return s, fmt.Errorf("%w: %q", shared.ErrInvalidStatus, next)
	}
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", shared.ErrInvalidTransition, s, next)
	}
	return next, nil
}
