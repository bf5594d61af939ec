package tasks

import (
	"fmt"

	"github.com/desertthunder/extendr/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchTracks Phase = iota
	RequeueTracks
)

func (p Phase) String() string {
	switch p {
	case FetchTracks:
		return "fetch_tracks"
	case RequeueTracks:
		return "requeue_tracks"
	default:
		return ""
	}
}

func fetchTracksUpdate(status models.Status) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching %s tracks...", status),
	}
}

func requeuedUpdate(step, total int, track *models.AudioTrack) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RequeueTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (ID: %d)", step, total, track.OriginalFilename, track.ID),
		Data:    track,
	}
}

func requeueFailedUpdate(step, total int, id int64, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RequeueTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ track %d: %v", step, total, id, err),
	}
}
