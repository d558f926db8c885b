// Package media loads user-selected photos from disk and extracts the
// EXIF-derived metadata (GPS position, capture time) the upload pipeline
// attaches to each image. Both metadata fields are optional and independent:
// a photo may carry either, both, or neither.
package media

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Payload is one photo ready for upload: the raw bytes plus whatever
// metadata could be recovered from its EXIF block. Nil pointers mean the
// photo simply did not carry that tag — never an error.
//
// Payloads are transient: produced here, consumed once by the multipart
// encoder, and not retained afterward.
type Payload struct {
	Bytes      []byte
	Latitude   *float64
	Longitude  *float64
	CapturedAt *time.Time
}

// HasMetadata reports whether the payload carries any EXIF-derived metadata
// worth sending alongside the image bytes.
func (p Payload) HasMetadata() bool {
	return (p.Latitude != nil && p.Longitude != nil) || p.CapturedAt != nil
}

// Loader reads photo files sequentially and extracts their metadata.
type Loader struct {
	logger *slog.Logger
}

// NewLoader constructs a Loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads each path in order and returns the payloads that loaded
// successfully. A photo that fails to load is logged and skipped — one bad
// file must not abort the batch — so the result may be shorter than paths.
// An empty result means every photo failed; callers treat that as a hard
// stop before any network call.
//
// onItem, if non-nil, is invoked after each item (loaded or skipped) with
// the number of items processed so far and the total. Loads are sequential,
// so onItem calls arrive in order.
func (l *Loader) Load(ctx context.Context, paths []string, onItem func(done, total int)) ([]Payload, error) {
	payloads := make([]Payload, 0, len(paths))
	total := len(paths)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("media.Loader.Load: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn("skipping photo that failed to load", "path", path, "error", err)
			if onItem != nil {
				onItem(i+1, total)
			}
			continue
		}

		p := Payload{Bytes: data}
		l.extractMetadata(path, data, &p)
		payloads = append(payloads, p)

		if onItem != nil {
			onItem(i+1, total)
		}
	}

	return payloads, nil
}

// extractMetadata fills in lat/long and capture time from the photo's EXIF
// block when present. Absent or unreadable EXIF is normal — screenshots and
// messaging-app exports have none — so failures only log at debug level.
// The server re-extracts EXIF from the raw bytes anyway; client-side
// extraction just spares it the work when the tags are intact.
func (l *Loader) extractMetadata(path string, data []byte, p *Payload) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		l.logger.Debug("no EXIF metadata", "path", path, "error", err)
		return
	}

	if lat, long, err := x.LatLong(); err == nil {
		p.Latitude = &lat
		p.Longitude = &long
	}

	if taken, err := x.DateTime(); err == nil {
		p.CapturedAt = &taken
	}
}
