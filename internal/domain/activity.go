package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity is one thing the traveller did at a location.
// AIGenerated distinguishes itinerary entries invented by the model from
// entries the user added by hand.
type Activity struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Time        *time.Time `json:"time,omitempty"`
	AIGenerated bool       `json:"ai_generated"`
}
