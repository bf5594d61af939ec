// package formatter renders audio tracks in various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/extendr/internal/models"
	"github.com/desertthunder/extendr/internal/shared"
	"github.com/goccy/go-json"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user-supplied name to a [Format]. "md" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Extension returns the file extension used by [WriteExport].
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// Export renders tracks in the given format. p only affects [FormatText]; pass nil for uncoloured output.
func Export(tracks []*models.AudioTrack, format Format, p *Palette) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown:
		return ExportToMarkdown(tracks, "Tracks")
	case FormatJSON:
		return ExportToJSON(tracks, true)
	case FormatText:
		return ExportToText(tracks, p)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts tracks to CSV with columns: ID, Filename, Path, Status, Versions, Duration, BPM, Key, Format, Bitrate, UserID
func ExportToCSV(tracks []*models.AudioTrack) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Filename", "Path", "Status", "Versions", "Duration", "BPM", "Key", "Format", "Bitrate", "UserID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			strconv.FormatInt(track.ID, 10),
			track.OriginalFilename,
			track.OriginalPath,
			track.Status.String(),
			strconv.Itoa(len(track.ExtendedPaths)),
			optionalInt(track.Duration),
			optionalInt(track.BPM),
			optionalString(track.Key),
			optionalString(track.Format),
			optionalInt(track.Bitrate),
			optionalInt(track.UserID),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts tracks to a Markdown document with one section per track
func ExportToMarkdown(tracks []*models.AudioTrack, title string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	for _, track := range tracks {
		buf.WriteString(fmt.Sprintf("## %s\n\n", track.OriginalFilename))
		buf.WriteString(fmt.Sprintf("- **ID**: %d\n", track.ID))
		buf.WriteString(fmt.Sprintf("- **Status**: %s\n", track.Status))
		buf.WriteString(fmt.Sprintf("- **Path**: `%s`\n", track.OriginalPath))
		if track.Duration != nil {
			buf.WriteString(fmt.Sprintf("- **Duration**: %s\n", FormatDuration(float64(*track.Duration))))
		}
		if track.BPM != nil {
			buf.WriteString(fmt.Sprintf("- **BPM**: %d\n", *track.BPM))
		}
		if track.Key != nil {
			buf.WriteString(fmt.Sprintf("- **Key**: %s\n", *track.Key))
		}

		versions := track.Versions()
		if len(versions) == 0 {
			buf.WriteString("\n_No extended versions._\n\n")
			continue
		}

		buf.WriteString("\n| # | Path | Duration |\n|---|------|----------|\n")
		for i, v := range versions {
			buf.WriteString(fmt.Sprintf("| %d | `%s` | %s |\n", i+1, v.Path, versionDuration(v)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to a plain listing, colouring statuses when p is non-nil
func ExportToText(tracks []*models.AudioTrack, p *Palette) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(p.Title(fmt.Sprintf("Tracks: %d", len(tracks))))
	buf.WriteString("\n\n")

	for _, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", track.ID, track.OriginalFilename, p.Status(track.Status)))
		buf.WriteString(fmt.Sprintf("   %s\n", p.Help(track.OriginalPath)))
		for i, v := range track.Versions() {
			buf.WriteString(fmt.Sprintf("   v%d %s (%s)\n", i+1, v.Path, versionDuration(v)))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes tracks using their JSON field names
func ExportToJSON(tracks []*models.AudioTrack, pretty bool) ([]byte, error) {
	if tracks == nil {
		tracks = []*models.AudioTrack{}
	}

	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(tracks, "", "  ")
	} else {
		data, err = json.Marshal(tracks)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	return append(data, '\n'), nil
}

// WriteExport renders tracks and writes them to path.
//
// Defaults to tracks.{ext} in the working directory.
func WriteExport(tracks []*models.AudioTrack, format Format, path string) (string, error) {
	if path == "" {
		path = "tracks." + format.Extension()
	}

	data, err := Export(tracks, format, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// FormatDuration renders seconds as m:ss, rounding to the nearest second.
func FormatDuration(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func versionDuration(v models.Version) string {
	if v.Duration == nil {
		return "-"
	}
	return FormatDuration(*v.Duration)
}

func optionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
