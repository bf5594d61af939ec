package repositories

import (
	"errors"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/extendr/internal/codec"
	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
)

func TestUserRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			s := setupTestStore(t)

			_, err := s.CreateUser(models.InsertUser{Username: "", Password: "hash"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("DuplicateUsername", func(t *testing.T) {
			s := setupTestStore(t)

			if _, err := s.CreateUser(models.InsertUser{Username: "alice", Password: "one"}); err != nil {
				t.Fatalf("failed to create first user: %v", err)
			}

			_, err := s.CreateUser(models.InsertUser{Username: "alice", Password: "two"})
			if !errors.Is(err, shared.ErrUniqueConstraint) {
				t.Fatalf("expected ErrUniqueConstraint, got %v", err)
			}
			if errors.Is(err, shared.ErrStorage) {
				t.Error("unique violations should not also be reported as generic storage failures")
			}
			if !IsUniqueViolation(err) {
				t.Error("expected the driver error to stay reachable")
			}
		})
	})

	t.Run("Closed database", func(t *testing.T) {
		s := NewStore(setupTestDB(t), nil)
		s.Close()

		_, err := s.GetUser(1)
		if !errors.Is(err, shared.ErrStorage) {
			t.Fatalf("expected ErrStorage, got %v", err)
		}
	})
}

func TestAudioTrackRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			s := setupTestStore(t)

			_, err := s.CreateAudioTrack(models.InsertAudioTrack{OriginalPath: "/up/a.wav"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Unknown owner with foreign keys", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "fk.db")
			s, err := Open(shared.DatabaseConfig{Path: path, MaxOpenConns: 1, MaxIdleConns: 1, ForeignKeys: true}, nil)
			if err != nil {
				t.Fatalf("failed to open store: %v", err)
			}
			defer s.Close()

			_, err = s.CreateAudioTrack(models.InsertAudioTrack{
				OriginalFilename: "a.wav",
				OriginalPath:     "/up/a.wav",
				UserID:           models.Ptr(int64(404)),
			})
			if !errors.Is(err, shared.ErrStorage) {
				t.Fatalf("expected ErrStorage, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("InvalidStatus", func(t *testing.T) {
			s := setupTestStore(t)

			track := mustCreateTrack(t, s, models.InsertAudioTrack{OriginalFilename: "a.wav", OriginalPath: "/up/a.wav"})

			_, err := s.UpdateAudioTrack(track.ID, models.UpdateAudioTrack{Status: models.Ptr(models.Status("archived"))})
			if !errors.Is(err, shared.ErrInvalidStatus) {
				t.Fatalf("expected ErrInvalidStatus, got %v", err)
			}

			got, err := s.GetAudioTrack(track.ID)
			if err != nil {
				t.Fatalf("failed to get track: %v", err)
			}
			if got.Status != models.StatusUploaded {
				t.Errorf("rejected update should not be written, got %s", got.Status)
			}
		})

		t.Run("ClearConflicts", func(t *testing.T) {
			s := setupTestStore(t)

			track := mustCreateTrack(t, s, models.InsertAudioTrack{OriginalFilename: "a.wav", OriginalPath: "/up/a.wav"})

			for _, patch := range []models.UpdateAudioTrack{
				{BPM: models.Ptr(int64(90)), Clear: []models.Field{models.FieldBPM}},
				{Clear: []models.Field{"original_path"}},
			} {
				if _, err := s.UpdateAudioTrack(track.ID, patch); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput for %+v, got %v", patch, err)
				}
			}

			got, err := s.GetAudioTrack(track.ID)
			if err != nil {
				t.Fatalf("failed to get track: %v", err)
			}
			if got.BPM != nil || got.OriginalPath != "/up/a.wav" {
				t.Errorf("rejected update should not be written, got %+v", got)
			}
		})

		t.Run("NonFiniteDuration", func(t *testing.T) {
			s := setupTestStore(t)

			track := mustCreateTrack(t, s, models.InsertAudioTrack{OriginalFilename: "a.wav", OriginalPath: "/up/a.wav"})

			inf := []float64{1, math.Inf(1)}
			_, err := s.UpdateAudioTrack(track.ID, models.UpdateAudioTrack{ExtendedDurations: &inf})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("DecodeFailure", func(t *testing.T) {
		corrupt := []struct{ column, raw string }{
			{"extended_paths", `["/out/v1.wav"`},
			{"extended_paths", `["/out/v1.wav", null]`},
			{"extended_durations", `[180, "x"]`},
			{"extended_durations", `[180, null]`},
			{"settings", `{"introLength":`},
		}

		for _, tt := range corrupt {
			column, raw := tt.column, tt.raw
			t.Run(column+" "+raw, func(t *testing.T) {
				s := setupTestStore(t)

				owner := int64(1)
				track := mustCreateTrack(t, s, models.InsertAudioTrack{OriginalFilename: "a.wav", OriginalPath: "/up/a.wav", UserID: &owner})

				if _, err := s.DB().Exec("UPDATE audio_tracks SET "+column+" = ? WHERE id = ?", raw, track.ID); err != nil {
					t.Fatalf("failed to corrupt column: %v", err)
				}

				_, err := s.GetAudioTrack(track.ID)
				if !errors.Is(err, shared.ErrDecode) {
					t.Fatalf("expected ErrDecode, got %v", err)
				}
				if errors.Is(err, shared.ErrStorage) {
					t.Error("decode failures should be distinct from storage failures")
				}

				var de *codec.DecodeError
				if !errors.As(err, &de) || de.Field != column {
					t.Errorf("expected DecodeError for %s, got %v", column, err)
				}

				if _, err := s.GetAudioTracksByUserID(owner); !errors.Is(err, shared.ErrDecode) {
					t.Errorf("listing should surface the decode failure, got %v", err)
				}

				if _, err := s.UpdateAudioTrack(track.ID, models.UpdateAudioTrack{BPM: models.Ptr(int64(90))}); !errors.Is(err, shared.ErrDecode) {
					t.Errorf("update read-back should surface the decode failure, got %v", err)
				}
			})
		}
	})

	t.Run("NULL array columns decode as empty", func(t *testing.T) {
		s := setupTestStore(t)

		track := mustCreateTrack(t, s, models.InsertAudioTrack{OriginalFilename: "a.wav", OriginalPath: "/up/a.wav"})
		if _, err := s.DB().Exec("UPDATE audio_tracks SET extended_paths = NULL, extended_durations = NULL WHERE id = ?", track.ID); err != nil {
			t.Fatalf("failed to null columns: %v", err)
		}

		got, err := s.GetAudioTrack(track.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ExtendedPaths == nil || got.ExtendedDurations == nil {
			t.Errorf("expected empty sequences, got %#v / %#v", got.ExtendedPaths, got.ExtendedDurations)
		}
	})

	t.Run("GetAudioTracksByStatus rejects unknown status", func(t *testing.T) {
		s := setupTestStore(t)

		if _, err := s.GetAudioTracksByStatus(models.Status("archived")); !errors.Is(err, shared.ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})
}

func TestOpen(t *testing.T) {
	t.Run("Migrates a new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "extendr.db")

		s, err := Open(shared.DatabaseConfig{Path: path, MaxOpenConns: 2, MaxIdleConns: 1}, log.New(io.Discard))
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}

		user, err := s.CreateUser(models.InsertUser{Username: "alice", Password: "hash"})
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
		s.Close()

		reopened, err := Open(shared.DatabaseConfig{Path: path}, nil)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer reopened.Close()

		got, err := reopened.GetUser(user.ID)
		if err != nil || got == nil {
			t.Fatalf("expected persisted user, got %v (%v)", got, err)
		}
	})

	t.Run("Memory path", func(t *testing.T) {
		s, err := Open(shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 4}, nil)
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer s.Close()

		if _, err := s.CreateAudioTrack(models.InsertAudioTrack{OriginalFilename: "a.wav", OriginalPath: "/up/a.wav"}); err != nil {
			t.Fatalf("schema should be visible on the single memory connection: %v", err)
		}
	})
}
