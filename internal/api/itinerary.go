package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GenerateItinerary POSTs the uploaded-photo descriptors to the AI itinerary
// endpoint and returns the raw vacation the server built. The call uses the
// client's extended timeout: the server runs AI vision over every photo
// before answering, and two minutes is a normal wait, not a hang.
//
// The raw DTO is returned as-is — dates stay strings, ids stay strings.
// Turning it into a domain.Vacation (and deciding what missing dates mean)
// is the reconciler's job.
func (c *Client) GenerateItinerary(ctx context.Context, title string, photos []UploadedPhoto) (RawVacation, error) {
	endpoint, err := c.endpoint(c.itineraryPath)
	if err != nil {
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w", err)
	}

	reqBody := GenerateRequest{
		Title:  title,
		Photos: make([]PhotoDescriptor, len(photos)),
	}
	for i, p := range photos {
		reqBody.Photos[i] = PhotoDescriptor{
			ImageURL:     p.ImageURL,
			ThumbnailURL: p.ThumbnailURL,
			CaptureDate:  p.CaptureDate,
			Coordinates:  p.Location,
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if err := c.authorize(req); err != nil {
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w", err)
	}

	resp, err := c.itineraryClient.Do(req)
	if err != nil {
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w: %v", ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w: %v", ErrInvalidResponse, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w", ErrUnauthorized)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w",
			&StatusError{StatusCode: resp.StatusCode, Body: string(respBody)})
	}

	var decoded GenerateResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		c.logger.Error("itinerary response did not match expected schema",
			"error", err, "body", string(respBody))
		return RawVacation{}, fmt.Errorf("api.Client.GenerateItinerary: %w", ErrDecoding)
	}

	c.logger.Info("itinerary generated",
		"vacation_id", decoded.Vacation.ID, "locations", len(decoded.Vacation.Locations))

	return decoded.Vacation, nil
}
