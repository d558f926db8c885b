package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ekaravadi/roam/client/internal/media"
)

// UploadPhotos POSTs the photo batch to /photos/upload/batch as multipart
// form data and returns the server-assigned descriptors.
//
// The returned list is exactly what the server reported — its count may be
// smaller than the number of photos sent when the server drops images it
// cannot process. The client trusts the server's count and does not
// reconcile the difference.
func (c *Client) UploadPhotos(ctx context.Context, title string, photos []media.Payload) ([]UploadedPhoto, error) {
	endpoint, err := c.endpoint("/photos/upload/batch")
	if err != nil {
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w", err)
	}

	body, contentType, err := EncodeUploadBody(title, photos)
	if err != nil {
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if err := c.authorize(req); err != nil {
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w: %v", ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w: %v", ErrInvalidResponse, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w", ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w",
			&StatusError{StatusCode: resp.StatusCode, Body: string(respBody)})
	}

	var decoded UploadResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		c.logger.Error("upload response did not match expected schema",
			"error", err, "body", string(respBody))
		return nil, fmt.Errorf("api.Client.UploadPhotos: %w", ErrDecoding)
	}

	c.logger.Info("photos uploaded",
		"sent", len(photos), "accepted", decoded.Count, "message", decoded.Message)

	return decoded.Photos, nil
}
