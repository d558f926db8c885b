package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/ekaravadi/roam/client/internal/api"
)

// maxUploadMemory is the in-memory threshold for multipart parsing; larger
// parts spill to temp files.
const maxUploadMemory = 32 << 20

// uploadMetadata mirrors the client's per-photo "metadata[{i}]" JSON part.
type uploadMetadata struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Timestamp *string  `json:"timestamp,omitempty"`
}

// handleUploadBatch implements POST /api/photos/upload/batch.
//
// Like the real backend, it processes photos one by one and drops the ones
// it cannot read rather than failing the batch, so the response count may be
// smaller than the number of parts sent. Storage is faked: each accepted
// photo gets a stable-looking URL under storage.roam.local.
func (s *Server) handleUploadBatch(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No photos provided")
		return
	}

	processed := make([]api.UploadedPhoto, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			s.logger.Warn("dropping unreadable photo part", "index", i, "error", err)
			continue
		}
		size, err := io.Copy(io.Discard, f)
		f.Close() //nolint:errcheck
		if err != nil || size == 0 {
			s.logger.Warn("dropping empty photo part", "index", i, "error", err)
			continue
		}

		id := uuid.NewString()
		imageURL := fmt.Sprintf("https://storage.roam.local/photos/%s.jpg", id)
		thumbURL := fmt.Sprintf("https://storage.roam.local/thumbnails/%s.jpg", id)

		photo := api.UploadedPhoto{
			ID:           id,
			ImageURL:     imageURL,
			ThumbnailURL: &thumbURL,
		}

		// The real backend extracts EXIF from the bytes; the stub trusts the
		// client-supplied metadata part instead.
		if raw := r.MultipartForm.Value[fmt.Sprintf("metadata[%d]", i)]; len(raw) > 0 {
			var meta uploadMetadata
			if err := json.Unmarshal([]byte(raw[0]), &meta); err == nil {
				photo.CaptureDate = meta.Timestamp
				if meta.Latitude != nil && meta.Longitude != nil {
					photo.Location = &api.Coordinates{
						Latitude:  *meta.Latitude,
						Longitude: *meta.Longitude,
					}
				}
				photo.HasExif = meta.Timestamp != nil || (meta.Latitude != nil && meta.Longitude != nil)
			}
		}

		processed = append(processed, photo)
	}

	if len(processed) == 0 {
		writeError(w, http.StatusInternalServerError, "Failed to process any photos")
		return
	}

	writeJSON(w, http.StatusOK, api.UploadResponse{
		Photos:  processed,
		Count:   len(processed),
		Message: fmt.Sprintf("Successfully uploaded %d photos", len(processed)),
	})
}
