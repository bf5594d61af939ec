package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/extendr/internal/codec"
	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
)

const trackColumns = `id, original_filename, original_path, extended_paths, duration, extended_durations,
	bpm, "key", format, bitrate, status, settings, version_count, user_id`

// AudioTrackRepository handles persistence for [models.AudioTrack].
//
// extended_paths, extended_durations and settings are TEXT columns; values are encoded on the way in
// and decoded on the way out so callers only ever see typed fields.
type AudioTrackRepository struct {
	db *sql.DB
}

// NewAudioTrackRepository creates a new AudioTrackRepository with the given database connection
func NewAudioTrackRepository(db *sql.DB) *AudioTrackRepository {
	return &AudioTrackRepository{db: db}
}

// Create inserts a new track and returns the decoded row, including column defaults
// (status "uploaded", version count 1).
func (r *AudioTrackRepository) Create(track models.InsertAudioTrack) (*models.AudioTrack, error) {
	if err := validate(track); err != nil {
		return nil, err
	}

	paths, err := codec.EncodeStrings(track.ExtendedPaths)
	if err != nil {
		return nil, fmt.Errorf("extended_paths: %w", err)
	}
	durations, err := codec.EncodeNumbers(track.ExtendedDurations)
	if err != nil {
		return nil, fmt.Errorf("extended_durations: %w", err)
	}
	settings, err := codec.EncodeSettings(track.Settings)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	query := `
		INSERT INTO audio_tracks (original_filename, original_path, extended_paths, extended_durations, settings, user_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING ` + trackColumns

	row := r.db.QueryRow(query,
		track.OriginalFilename,
		track.OriginalPath,
		paths,
		durations,
		settings,
		nullInt64(track.UserID),
	)

	created, err := r.scanOne(row)
	if err != nil {
		return nil, trackError("failed to insert track", err)
	}

	return created, nil
}

// Get retrieves a track by ID. Returns nil without error when no track matches.
func (r *AudioTrackRepository) Get(id int64) (*models.AudioTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM audio_tracks WHERE id = ?`

	track, err := r.scanOne(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, trackError("failed to query track", err)
	}

	return track, nil
}

// Update applies a partial update and returns the decoded row, or nil when no track matches.
//
// Only the fields set in patch are written. An empty patch reads the row back unchanged.
func (r *AudioTrackRepository) Update(id int64, patch models.UpdateAudioTrack) (*models.AudioTrack, error) {
	if err := validate(patch); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return r.Get(id)
	}

	sets, args, err := assignments(patch)
	if err != nil {
		return nil, err
	}

	query := `UPDATE audio_tracks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? RETURNING ` + trackColumns
	args = append(args, id)

	updated, err := r.scanOne(r.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, trackError("failed to update track", err)
	}

	return updated, nil
}

// DeleteByUserID removes every track owned by userID and returns how many were removed.
//
// Deleting for a user without tracks is not an error.
func (r *AudioTrackRepository) DeleteByUserID(userID int64) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM audio_tracks WHERE user_id = ?`, userID)
	if err != nil {
		return 0, storageError("failed to delete tracks", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, storageError("failed to get affected rows", err)
	}

	return rows, nil
}

// ListByUserID retrieves all tracks owned by userID in insertion order.
func (r *AudioTrackRepository) ListByUserID(userID int64) ([]*models.AudioTrack, error) {
	return r.List(map[string]any{"user_id": userID})
}

// List retrieves all tracks matching the given criteria, ordered by ID.
//
// Supported criteria: "user_id" (int64) and "status" ([models.Status]).
func (r *AudioTrackRepository) List(criteria map[string]any) ([]*models.AudioTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM audio_tracks WHERE 1 = 1`

	args := []any{}

	if userID, ok := criteria["user_id"].(int64); ok {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if status, ok := criteria["status"].(models.Status); ok && status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, storageError("failed to query tracks", err)
	}
	defer rows.Close()

	tracks := []*models.AudioTrack{}
	for rows.Next() {
		track, err := r.scanOne(rows)
		if err != nil {
			return nil, trackError("failed to scan track", err)
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("row iteration error", err)
	}

	return tracks, nil
}

// scanOne scans a single row into a [models.AudioTrack] and decodes its versioned fields.
//
// [sql.ErrNoRows] and [codec.DecodeError] are returned unwrapped.
func (r *AudioTrackRepository) scanOne(row rowScanner) (*models.AudioTrack, error) {
	var (
		track             models.AudioTrack
		extendedPaths     sql.NullString
		duration          sql.NullInt64
		extendedDurations sql.NullString
		bpm               sql.NullInt64
		key               sql.NullString
		format            sql.NullString
		bitrate           sql.NullInt64
		status            string
		settings          sql.NullString
		userID            sql.NullInt64
	)

	err := row.Scan(
		&track.ID,
		&track.OriginalFilename,
		&track.OriginalPath,
		&extendedPaths,
		&duration,
		&extendedDurations,
		&bpm,
		&key,
		&format,
		&bitrate,
		&status,
		&settings,
		&track.VersionCount,
		&userID,
	)
	if err != nil {
		return nil, err
	}

	if track.ExtendedPaths, err = codec.DecodeStrings("extended_paths", extendedPaths); err != nil {
		return nil, err
	}
	if track.ExtendedDurations, err = codec.DecodeNumbers("extended_durations", extendedDurations); err != nil {
		return nil, err
	}
	if track.Settings, err = codec.DecodeSettings("settings", settings); err != nil {
		return nil, err
	}

	track.Duration = int64Ptr(duration)
	track.BPM = int64Ptr(bpm)
	track.Key = stringPtr(key)
	track.Format = stringPtr(format)
	track.Bitrate = int64Ptr(bitrate)
	track.Status = models.Status(status)
	track.UserID = int64Ptr(userID)

	return &track, nil
}

// assignments builds the SET clause for the fields present in patch.
func assignments(patch models.UpdateAudioTrack) ([]string, []any, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.ExtendedPaths != nil {
		encoded, err := codec.EncodeStrings(*patch.ExtendedPaths)
		if err != nil {
			return nil, nil, fmt.Errorf("extended_paths: %w", err)
		}
		set("extended_paths", encoded)
	}
	if patch.Duration != nil {
		set("duration", *patch.Duration)
	}
	if patch.ExtendedDurations != nil {
		encoded, err := codec.EncodeNumbers(*patch.ExtendedDurations)
		if err != nil {
			return nil, nil, fmt.Errorf("extended_durations: %w", err)
		}
		set("extended_durations", encoded)
	}
	if patch.BPM != nil {
		set("bpm", *patch.BPM)
	}
	if patch.Key != nil {
		set(`"key"`, *patch.Key)
	}
	if patch.Format != nil {
		set("format", *patch.Format)
	}
	if patch.Bitrate != nil {
		set("bitrate", *patch.Bitrate)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Settings != nil {
		encoded, err := codec.EncodeSettings(patch.Settings)
		if err != nil {
			return nil, nil, fmt.Errorf("settings: %w", err)
		}
		set("settings", encoded)
	}
	if patch.VersionCount != nil {
		set("version_count", *patch.VersionCount)
	}

	for _, f := range patch.Clear {
		column := string(f)
		if f == models.FieldKey {
			column = `"key"`
		}
		sets = append(sets, column+" = NULL")
	}

	return sets, args, nil
}

// trackError wraps err for callers, leaving decode failures distinguishable from storage failures.
func trackError(action string, err error) error {
	if errors.Is(err, shared.ErrDecode) {
		return fmt.Errorf("%s: %w", action, err)
	}
	return storageError(action, err)
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
