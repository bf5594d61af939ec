package repositories

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
)

// Store implements [models.Storage] over a single owned SQLite handle.
//
// Construct it once at startup with [Open] (or [NewStore] for an existing handle), pass it to the
// components that need it, and release it with [Store.Close].
type Store struct {
	db     *sql.DB
	users  *UserRepository
	tracks *AudioTrackRepository
	logger *log.Logger
}

var _ models.Storage = (*Store)(nil)

// Open connects to the configured database, applies pending migrations and returns a ready [Store].
//
// A migration failure is logged and does not prevent the store from opening; the schema may already
// be in place from an earlier run.
func Open(cfg shared.DatabaseConfig, logger *log.Logger) (*Store, error) {
	db, err := shared.NewDatabase(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrStorage, err)
	}

	switch {
	case cfg.Path == ":memory:":
		// each pooled connection to ":memory:" would get its own empty database
		shared.ConfigureDatabase(db, 1, 1)
	case cfg.MaxOpenConns > 0:
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	}

	store := NewStore(db, logger)

	if applied, err := shared.RunMigrations(db); err != nil {
		store.logger.Warn("migration skipped", "error", err)
	} else if applied > 0 {
		store.logger.Info("applied migrations", "count", applied)
	}

	return store, nil
}

// NewStore wraps an open database handle. The store takes ownership of db.
//
// A nil logger discards store logs.
func NewStore(db *sql.DB, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Store{
		db:     db,
		users:  NewUserRepository(db),
		tracks: NewAudioTrackRepository(db),
		logger: shared.WithLogger(logger, "component", "store"),
	}
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for migrations and maintenance commands.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) GetUser(id int64) (*models.User, error) {
	return s.users.Get(id)
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	return s.users.GetByUsername(username)
}

// CreateUser registers a user. Duplicate usernames fail with [shared.ErrUniqueConstraint].
func (s *Store) CreateUser(user models.InsertUser) (*models.User, error) {
	created, err := s.users.Create(user)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("created user", "id", created.ID, "username", created.Username)
	return created, nil
}

func (s *Store) GetAudioTrack(id int64) (*models.AudioTrack, error) {
	return s.tracks.Get(id)
}

// CreateAudioTrack inserts a track; unset sequences are stored as "[]" and unset settings as NULL.
func (s *Store) CreateAudioTrack(track models.InsertAudioTrack) (*models.AudioTrack, error) {
	created, err := s.tracks.Create(track)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("created track", "id", created.ID, "filename", created.OriginalFilename)
	return created, nil
}

// UpdateAudioTrack applies patch to track id. Returns nil without error when the track does not exist.
func (s *Store) UpdateAudioTrack(id int64, patch models.UpdateAudioTrack) (*models.AudioTrack, error) {
	updated, err := s.tracks.Update(id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		s.logger.Debug("update matched no track", "id", id)
		return nil, nil
	}
	s.logger.Debug("updated track", "id", id, "status", updated.Status)
	return updated, nil
}

func (s *Store) GetAudioTracksByUserID(userID int64) ([]*models.AudioTrack, error) {
	return s.tracks.ListByUserID(userID)
}

// GetAudioTracksByStatus lists tracks in the given status, which is how the pipeline finds work.
func (s *Store) GetAudioTracksByStatus(status models.Status) ([]*models.AudioTrack, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidStatus, status)
	}
	return s.tracks.List(map[string]any{"status": status})
}

// DeleteAllUserTracks removes every track owned by userID. Safe to repeat.
func (s *Store) DeleteAllUserTracks(userID int64) error {
	removed, err := s.tracks.DeleteByUserID(userID)
	if err != nil {
		return err
	}
	s.logger.Debug("deleted user tracks", "user_id", userID, "count", removed)
	return nil
}
