package tasks

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/goccy/go-json"
)

// TrackStore is the slice of storage the workflow needs.
// The SQLite-backed repositories.Store satisfies it.
type TrackStore interface {
	GetAudioTrack(id int64) (*models.AudioTrack, error)
	UpdateAudioTrack(id int64, patch models.UpdateAudioTrack) (*models.AudioTrack, error)
	GetAudioTracksByStatus(status models.Status) ([]*models.AudioTrack, error)
}

// Output describes one finished processing run.
type Output struct {
	Path     string  // Location of the extended version
	Duration float64 // Length of the extended version in seconds

	// Metadata detected from the original file; nil leaves the stored value alone.
	SourceDuration *int64
	BPM            *int64
	Key            *string
	Format         *string
	Bitrate        *int64
}

// RequeueResult summarizes a [Workflow.RequeueFailed] run.
type RequeueResult struct {
	Requeued []*models.AudioTrack
	Failed   map[int64]error
	Total    int
}

// Workflow applies lifecycle steps to stored tracks.
type Workflow struct {
	store    TrackStore
	defaults models.ProcessingSettings
	logger   *log.Logger
}

// NewWorkflow creates a Workflow. defaults seeds the settings of regenerated tracks that have none.
func NewWorkflow(store TrackStore, defaults models.ProcessingSettings, logger *log.Logger) *Workflow {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Workflow{
		store:    store,
		defaults: defaults,
		logger:   shared.WithLogger(logger, "component", "workflow"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (w *Workflow) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Start moves a track into processing.
func (w *Workflow) Start(id int64) (*models.AudioTrack, error) {
	track, err := w.load(id)
	if err != nil {
		return nil, err
	}
	return w.advance(track, models.StatusProcessing, models.UpdateAudioTrack{})
}

// Complete records a finished run: the new version is appended, detected metadata is written and
// the track becomes completed.
func (w *Workflow) Complete(id int64, out Output) (*models.AudioTrack, error) {
	if strings.TrimSpace(out.Path) == "" {
		return nil, fmt.Errorf("%w: output path is required", shared.ErrInvalidInput)
	}

	track, err := w.load(id)
	if err != nil {
		return nil, err
	}

	patch := appendVersion(track, out.Path, out.Duration)
	patch.Duration = out.SourceDuration
	patch.BPM = out.BPM
	patch.Key = out.Key
	patch.Format = out.Format
	patch.Bitrate = out.Bitrate

	return w.advance(track, models.StatusCompleted, patch)
}

// Fail marks a track as errored. reason is logged, not stored.
func (w *Workflow) Fail(id int64, reason error) (*models.AudioTrack, error) {
	track, err := w.load(id)
	if err != nil {
		return nil, err
	}
	if reason != nil {
		w.logger.Warn("track failed", "id", id, "error", reason)
	}
	return w.advance(track, models.StatusError, models.UpdateAudioTrack{})
}

// Regenerate queues another run for a completed or errored track.
//
// Explicit settings win field by field over the stored settings, which win over the workflow defaults.
// The stored result is fully populated. VersionCount becomes the number of versions the track will have
// once the run completes.
func (w *Workflow) Regenerate(id int64, settings *models.ProcessingSettings) (*models.AudioTrack, error) {
	if settings != nil {
		if err := settings.Validate(); err != nil {
			return nil, err
		}
	}

	track, err := w.load(id)
	if err != nil {
		return nil, err
	}

	merged := overlay(w.defaults, track.Settings, settings).WithDefaults()
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	return w.advance(track, models.StatusRegenerate, models.UpdateAudioTrack{
		Settings:     &merged,
		VersionCount: models.Ptr(len(track.ExtendedPaths) + 1),
	})
}

// AddVersion appends an extended version without changing status.
func (w *Workflow) AddVersion(id int64, path string, duration float64) (*models.AudioTrack, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: version path is required", shared.ErrInvalidInput)
	}

	track, err := w.load(id)
	if err != nil {
		return nil, err
	}

	if !track.VersionsAligned() {
		w.logger.Warn("extended paths and durations differ in length", "id", id,
			"paths", len(track.ExtendedPaths), "durations", len(track.ExtendedDurations))
	}

	return w.write(track.ID, appendVersion(track, path, duration))
}

// RequeueFailed moves every errored track to regenerate.
//
// A track that cannot be requeued is recorded in the result and does not stop the run.
// Cancelling ctx stops before the next track.
func (w *Workflow) RequeueFailed(ctx context.Context, progress chan<- ProgressUpdate) (*RequeueResult, error) {
	w.sendProgress(progress, fetchTracksUpdate(models.StatusError))

	tracks, err := w.store.GetAudioTracksByStatus(models.StatusError)
	if err != nil {
		return nil, err
	}

	result := &RequeueResult{
		Requeued: make([]*models.AudioTrack, 0, len(tracks)),
		Failed:   make(map[int64]error),
		Total:    len(tracks),
	}

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		requeued, err := w.Regenerate(track.ID, nil)
		if err != nil {
			result.Failed[track.ID] = err
			w.sendProgress(progress, requeueFailedUpdate(i+1, len(tracks), track.ID, err))
			continue
		}

		result.Requeued = append(result.Requeued, requeued)
		w.sendProgress(progress, requeuedUpdate(i+1, len(tracks), requeued))
	}

	w.logger.Info("requeued failed tracks", "requeued", len(result.Requeued), "failed", len(result.Failed))
	return result, nil
}

func (w *Workflow) load(id int64) (*models.AudioTrack, error) {
	track, err := w.store.GetAudioTrack(id)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("%w: %d", shared.ErrTrackNotFound, id)
	}
	return track, nil
}

// advance checks the move from the track's current status and writes patch with the new status.
func (w *Workflow) advance(track *models.AudioTrack, next models.Status, patch models.UpdateAudioTrack) (*models.AudioTrack, error) {
	status, err := track.Status.Transition(next)
	if err != nil {
		return nil, fmt.Errorf("track %d: %w", track.ID, err)
	}
	patch.Status = &status

	updated, err := w.write(track.ID, patch)
	if err != nil {
		return nil, err
	}

	w.logger.Info("status changed", "id", track.ID, "from", track.Status, "to", status)
	return updated, nil
}

func (w *Workflow) write(id int64, patch models.UpdateAudioTrack) (*models.AudioTrack, error) {
	updated, err := w.store.UpdateAudioTrack(id, patch)
	if err != nil {
		return nil, err
	}
	// deleted between read and write
	if updated == nil {
		return nil, fmt.Errorf("%w: %d", shared.ErrTrackNotFound, id)
	}
	return updated, nil
}

// appendVersion builds a patch carrying both sequences with one more entry each.
func appendVersion(track *models.AudioTrack, path string, duration float64) models.UpdateAudioTrack {
	paths := append(append([]string{}, track.ExtendedPaths...), path)
	durations := append(append([]float64{}, track.ExtendedDurations...), duration)
	return models.UpdateAudioTrack{ExtendedPaths: &paths, ExtendedDurations: &durations}
}

// overlay returns base with every field set in a later layer replacing it. Nil layers are skipped.
// Unknown keys are merged the same way, key by key.
func overlay(base models.ProcessingSettings, layers ...*models.ProcessingSettings) models.ProcessingSettings {
	for _, l := range layers {
		if l == nil {
			continue
		}
		if len(l.Extra) > 0 {
			extra := make(map[string]json.RawMessage, len(base.Extra)+len(l.Extra))
			maps.Copy(extra, base.Extra)
			maps.Copy(extra, l.Extra)
			base.Extra = extra
		}
		if l.IntroLength != nil {
			base.IntroLength = l.IntroLength
		}
		if l.OutroLength != nil {
			base.OutroLength = l.OutroLength
		}
		if l.PreserveVocals != nil {
			base.PreserveVocals = l.PreserveVocals
		}
		if l.BeatDetection != nil {
			base.BeatDetection = l.BeatDetection
		}
	}
	return base
}
