// Package domain contains the core data types for the Roam client.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (media, api, reconcile, pipeline, store).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vacation is the top-level aggregate: one trip the user took, with the
// locations the AI identified from their photos.
//
// StartDate and EndDate are pointers because the server may return a
// partially-dated itinerary (photos without timestamps, or processing still
// in flight). Nil means "unknown", and stays nil all the way through the
// model — display-time substitution is the presentation layer's job.
type Vacation struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	StartDate   *time.Time         `json:"start_date,omitempty"`
	EndDate     *time.Time         `json:"end_date,omitempty"`
	Locations   []VacationLocation `json:"locations"`
	AIItinerary string             `json:"ai_itinerary,omitempty"`
	Owner       *Owner             `json:"owner,omitempty"`
}

// Owner identifies the user a vacation belongs to. Color is the hex color
// used for that user's pins on the map.
type Owner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}
