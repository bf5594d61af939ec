package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/extendr/internal/formatter"
	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// TrackCreate records an uploaded file.
func (r *Runner) TrackCreate(ctx context.Context, cmd *cli.Command) error {
	insert := models.InsertAudioTrack{
		OriginalFilename: cmd.String("filename"),
		OriginalPath:     cmd.String("path"),
	}
	if cmd.IsSet("user-id") {
		insert.UserID = models.Ptr(cmd.Int64("user-id"))
	}

	settings, err := parseSettings(cmd.String("settings"))
	if err != nil {
		return err
	}
	insert.Settings = settings

	store, err := r.openStore()
	if err != nil {
		return err
	}

	track, err := store.CreateAudioTrack(insert)
	if err != nil {
		return err
	}

	r.logger.Info("created track", "id", track.ID, "filename", track.OriginalFilename)
	return r.writeJSON(track, true)
}

// TrackShow prints a single track.
func (r *Runner) TrackShow(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	track, err := store.GetAudioTrack(id)
	if err != nil {
		return err
	}
	if track == nil {
		return fmt.Errorf("%w: %d", shared.ErrTrackNotFound, id)
	}

	if !track.VersionsAligned() {
		r.logger.Warn("extended paths and durations differ in length", "id", id)
	}
	return r.writeJSON(track, true)
}

// TrackUpdate applies the flags that were set as a partial update.
func (r *Runner) TrackUpdate(ctx context.Context, cmd *cli.Command) error {
	patch, err := updateFromFlags(cmd)
	if err != nil {
		return err
	}
	if patch.IsEmpty() {
		r.logger.Warn("no fields to update")
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	track, err := store.UpdateAudioTrack(id, patch)
	if err != nil {
		return err
	}
	if track == nil {
		return fmt.Errorf("%w: %d", shared.ErrTrackNotFound, id)
	}

	r.logger.Info("updated track", "id", track.ID, "status", track.Status)
	return r.writeJSON(track, true)
}

// TrackList renders a user's tracks to stdout or, with --output, to a file.
func (r *Runner) TrackList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	store, err := r.openStore()
	if err != nil {
		return err
	}

	userID := cmd.Int64("user-id")
	tracks, err := store.GetAudioTracksByUserID(userID)
	if err != nil {
		return err
	}
	r.logger.Debug("listed tracks", "user_id", userID, "count", len(tracks))

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(tracks, format, path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), written)
	}

	data, err := formatter.Export(tracks, format, r.palette)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// TrackPurge deletes every track owned by a user.
func (r *Runner) TrackPurge(ctx context.Context, cmd *cli.Command) error {
	store, err := r.openStore()
	if err != nil {
		return err
	}

	userID := cmd.Int64("user-id")
	if err := store.DeleteAllUserTracks(userID); err != nil {
		return err
	}

	r.logger.Info("purged tracks", "user_id", userID)
	return r.writePlain("✓ Deleted all tracks for user %d\n", userID)
}

// updateFromFlags builds a patch containing only the flags that were set.
//
// --clear-versions writes empty sequences and cannot be combined with --extended-path or --extended-duration.
func updateFromFlags(cmd *cli.Command) (models.UpdateAudioTrack, error) {
	var patch models.UpdateAudioTrack

	if cmd.IsSet("status") {
		status, err := models.ParseStatus(cmd.String("status"))
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}
	if cmd.IsSet("duration") {
		patch.Duration = models.Ptr(cmd.Int64("duration"))
	}
	if cmd.IsSet("bpm") {
		patch.BPM = models.Ptr(cmd.Int64("bpm"))
	}
	if cmd.IsSet("key") {
		patch.Key = models.Ptr(cmd.String("key"))
	}
	if cmd.IsSet("format") {
		patch.Format = models.Ptr(cmd.String("format"))
	}
	if cmd.IsSet("bitrate") {
		patch.Bitrate = models.Ptr(cmd.Int64("bitrate"))
	}
	if cmd.IsSet("version-count") {
		patch.VersionCount = models.Ptr(int(cmd.Int64("version-count")))
	}

	clearVersions := cmd.Bool("clear-versions")
	if clearVersions && (cmd.IsSet("extended-path") || cmd.IsSet("extended-duration")) {
		return patch, fmt.Errorf("%w: --clear-versions cannot be combined with --extended-path or --extended-duration", shared.ErrInvalidArgument)
	}
	if clearVersions {
		patch.ExtendedPaths = &[]string{}
		patch.ExtendedDurations = &[]float64{}
	}
	if cmd.IsSet("extended-path") {
		patch.ExtendedPaths = models.Ptr(cmd.StringSlice("extended-path"))
	}
	if cmd.IsSet("extended-duration") {
		patch.ExtendedDurations = models.Ptr(cmd.FloatSlice("extended-duration"))
	}

	for _, name := range cmd.StringSlice("unset") {
		field, err := models.ParseField(name)
		if err != nil {
			return patch, err
		}
		patch.Clear = append(patch.Clear, field)
	}

	if cmd.IsSet("settings") {
		settings, err := parseSettings(cmd.String("settings"))
		if err != nil {
			return patch, err
		}
		if settings == nil {
			settings = &models.ProcessingSettings{}
		}
		patch.Settings = settings
	}

	return patch, nil
}

// parseSettings decodes a settings object given on the command line. An empty string means no settings.
func parseSettings(raw string) (*models.ProcessingSettings, error) {
	if raw == "" {
		return nil, nil
	}

	var settings models.ProcessingSettings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return nil, fmt.Errorf("%w: settings must be a JSON object: %w", shared.ErrInvalidSettings, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}
