package domain

import (
	"time"

	"github.com/google/uuid"
)

// VacationLocation is a single place visited during a vacation.
// The coordinate is always present: a location without a coordinate cannot be
// pinned on the map and is dropped during reconciliation, never stored.
type VacationLocation struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
	VisitDate  *time.Time `json:"visit_date,omitempty"` // nil when the AI could not date the visit
	Activities []Activity `json:"activities"`
	Photos     []Photo    `json:"photos"`
}

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
