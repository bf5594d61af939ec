// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/repositories"
	"github.com/desertthunder/extendr/internal/shared"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// NewStore opens an isolated, migrated in-memory [repositories.Store] closed when the test ends.
func NewStore(t *testing.T) *repositories.Store {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDSN())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	if _, err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	store := repositories.NewStore(db, nil)
	t.Cleanup(func() { store.Close() })
	return store
}

// MustCreateTrack inserts a track or fails the test
func MustCreateTrack(t *testing.T, s models.Storage, insert models.InsertAudioTrack) *models.AudioTrack {
	t.Helper()
	track, err := s.CreateAudioTrack(insert)
	if err != nil {
		t.Fatalf("Failed to create track: %v", err)
	}
	return track
}

// SampleTracks returns two tracks covering present and absent optional fields
func SampleTracks() []*models.AudioTrack {
	owner := int64(7)
	return []*models.AudioTrack{
		{
			ID:                1,
			OriginalFilename:  "song.wav",
			OriginalPath:      "/up/song.wav",
			ExtendedPaths:     []string{"/out/v1.wav", "/out/v2.wav"},
			ExtendedDurations: []float64{180, 245.6},
			Duration:          models.Ptr(int64(150)),
			BPM:               models.Ptr(int64(124)),
			Key:               models.Ptr("A minor"),
			Format:            models.Ptr("wav"),
			Bitrate:           models.Ptr(int64(1411)),
			Status:            models.StatusCompleted,
			VersionCount:      2,
			UserID:            &owner,
		},
		{
			ID:                2,
			OriginalFilename:  "demo, take 2.mp3",
			OriginalPath:      "/up/demo.mp3",
			ExtendedPaths:     []string{},
			ExtendedDurations: []float64{},
			Status:            models.StatusUploaded,
			VersionCount:      1,
		},
	}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
