package main

import (
	"context"
	"errors"

	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PipelineStart moves a track into processing.
func (r *Runner) PipelineStart(ctx context.Context, cmd *cli.Command) error {
	return r.runStep(func(w *tasks.Workflow) (*models.AudioTrack, error) {
		return w.Start(cmd.Int64("id"))
	})
}

// PipelineComplete records the output of a processing run.
func (r *Runner) PipelineComplete(ctx context.Context, cmd *cli.Command) error {
	out := tasks.Output{
		Path:     cmd.String("path"),
		Duration: cmd.Float("duration"),
	}
	if cmd.IsSet("source-duration") {
		out.SourceDuration = models.Ptr(cmd.Int64("source-duration"))
	}
	if cmd.IsSet("bpm") {
		out.BPM = models.Ptr(cmd.Int64("bpm"))
	}
	if cmd.IsSet("key") {
		out.Key = models.Ptr(cmd.String("key"))
	}
	if cmd.IsSet("format") {
		out.Format = models.Ptr(cmd.String("format"))
	}
	if cmd.IsSet("bitrate") {
		out.Bitrate = models.Ptr(cmd.Int64("bitrate"))
	}

	return r.runStep(func(w *tasks.Workflow) (*models.AudioTrack, error) {
		return w.Complete(cmd.Int64("id"), out)
	})
}

// PipelineFail marks a track as errored.
func (r *Runner) PipelineFail(ctx context.Context, cmd *cli.Command) error {
	var reason error
	if msg := cmd.String("reason"); msg != "" {
		reason = errors.New(msg)
	}

	return r.runStep(func(w *tasks.Workflow) (*models.AudioTrack, error) {
		return w.Fail(cmd.Int64("id"), reason)
	})
}

// PipelineRegenerate queues another run, optionally with new settings.
func (r *Runner) PipelineRegenerate(ctx context.Context, cmd *cli.Command) error {
	settings, err := parseSettings(cmd.String("settings"))
	if err != nil {
		return err
	}

	return r.runStep(func(w *tasks.Workflow) (*models.AudioTrack, error) {
		return w.Regenerate(cmd.Int64("id"), settings)
	})
}

// PipelineAddVersion appends a version produced outside the normal run.
func (r *Runner) PipelineAddVersion(ctx context.Context, cmd *cli.Command) error {
	return r.runStep(func(w *tasks.Workflow) (*models.AudioTrack, error) {
		return w.AddVersion(cmd.Int64("id"), cmd.String("path"), cmd.Float("duration"))
	})
}

// PipelineRequeue moves every errored track back to regenerate.
func (r *Runner) PipelineRequeue(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTracks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.RequeueTracks:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.workflow(store).RequeueFailed(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Requeue Complete!")
	r.writePlain("Requeued: %d/%d\n", len(result.Requeued), result.Total)
	if len(result.Failed) > 0 {
		r.writePlainln("Failed to requeue %d tracks:", len(result.Failed))
		for id, err := range result.Failed {
			r.writePlain("  - %d: %v\n", id, err)
		}
	}
	return nil
}

func (r *Runner) runStep(step func(*tasks.Workflow) (*models.AudioTrack, error)) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	track, err := step(r.workflow(store))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Track %d (%s) is now %s\n", track.ID, track.OriginalFilename, r.palette.Status(track.Status))
}
