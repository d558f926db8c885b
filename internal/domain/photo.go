package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a server-hosted photo attached to a vacation location.
// CaptureDate and Coordinate come from EXIF metadata and may be absent.
type Photo struct {
	ID           uuid.UUID   `json:"id"`
	ImageURL     string      `json:"image_url"`
	ThumbnailURL string      `json:"thumbnail_url,omitempty"`
	CaptureDate  *time.Time  `json:"capture_date,omitempty"`
	Coordinate   *Coordinate `json:"coordinate,omitempty"`
}
