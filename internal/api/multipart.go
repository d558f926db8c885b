package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ekaravadi/roam/client/internal/media"
)

// photoMetadata is the JSON payload of a "metadata[{i}]" form part.
// Fields are omitted individually — a photo may have GPS but no timestamp,
// or the reverse.
type photoMetadata struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Timestamp *string  `json:"timestamp,omitempty"`
}

// EncodeUploadBody serializes a title and a photo batch into a single
// multipart/form-data body and returns it with the matching Content-Type
// header value.
//
// Part layout, in order: one "title" field; then per photo an image part
// named "photos" with filename "photo{i}.jpg" and content-type image/jpeg,
// followed by a "metadata[{i}]" JSON part when the photo carries any
// EXIF-derived metadata. The boundary is random per call; everything else is
// deterministic given the inputs. No I/O happens here.
//
// The body is written by hand rather than with mime/multipart.Writer because
// the backend was tested against the mobile app's exact byte layout, with
// bracketed part names, fixed filename order, and the title first. Writing
// the parts directly keeps the two wire-identical.
func EncodeUploadBody(title string, photos []media.Payload) ([]byte, string, error) {
	boundary := uuid.NewString()

	var body bytes.Buffer

	// Title field comes first, before any image part.
	fmt.Fprintf(&body, "--%s\r\n", boundary)
	body.WriteString("Content-Disposition: form-data; name=\"title\"\r\n\r\n")
	body.WriteString(title)
	body.WriteString("\r\n")

	for i, photo := range photos {
		fmt.Fprintf(&body, "--%s\r\n", boundary)
		fmt.Fprintf(&body, "Content-Disposition: form-data; name=\"photos\"; filename=\"photo%d.jpg\"\r\n", i)
		body.WriteString("Content-Type: image/jpeg\r\n\r\n")
		body.Write(photo.Bytes)
		body.WriteString("\r\n")

		if !photo.HasMetadata() {
			continue
		}

		meta := photoMetadata{
			Latitude:  photo.Latitude,
			Longitude: photo.Longitude,
		}
		if photo.CapturedAt != nil {
			ts := photo.CapturedAt.UTC().Format(time.RFC3339)
			meta.Timestamp = &ts
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return nil, "", fmt.Errorf("api.EncodeUploadBody: marshal metadata[%d]: %w", i, err)
		}

		fmt.Fprintf(&body, "--%s\r\n", boundary)
		fmt.Fprintf(&body, "Content-Disposition: form-data; name=\"metadata[%d]\"\r\n", i)
		body.WriteString("Content-Type: application/json\r\n\r\n")
		body.Write(metaJSON)
		body.WriteString("\r\n")
	}

	fmt.Fprintf(&body, "--%s--\r\n", boundary)

	return body.Bytes(), "multipart/form-data; boundary=" + boundary, nil
}
