// Package reconcile maps the AI endpoint's raw vacation DTO into the local
// domain model. Its contract is deliberately strict about what it will NOT
// do: it never fails over a malformed id (a fresh UUID is substituted) and
// it never substitutes "now" for a missing date (nil stays nil — any
// display-time fallback belongs to the presentation layer).
package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/ekaravadi/roam/client/internal/api"
	"github.com/ekaravadi/roam/client/internal/domain"
)

// timestampLayouts are tried in order when parsing server dates. The backend
// emits RFC 3339, but older snapshots dropped the zone suffix or sent bare
// dates, so all three are tolerated.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Vacation converts a raw server vacation into a domain.Vacation.
//
// Locations without a coordinate are dropped: a pin that cannot be placed on
// the map is meaningless. Everything else is preserved, including absent
// dates — see ParseTimestamp.
func Vacation(raw api.RawVacation) domain.Vacation {
	locations := make([]domain.VacationLocation, 0, len(raw.Locations))
	for _, loc := range raw.Locations {
		if loc.Coordinate == nil {
			continue
		}

		activities := make([]domain.Activity, 0, len(loc.Activities))
		for _, act := range loc.Activities {
			activities = append(activities, domain.Activity{
				ID:          ParseID(act.ID),
				Title:       act.Title,
				Description: act.Description,
				Time:        ParseTimestamp(act.Time),
				// The backend stores aiGenerated=true when the field is
				// absent; mirror that here.
				AIGenerated: act.AIGenerated == nil || *act.AIGenerated,
			})
		}

		locations = append(locations, domain.VacationLocation{
			ID:   ParseID(loc.ID),
			Name: loc.Name,
			Coordinate: domain.Coordinate{
				Latitude:  loc.Coordinate.Latitude,
				Longitude: loc.Coordinate.Longitude,
			},
			VisitDate:  ParseTimestamp(loc.VisitDate),
			Activities: activities,
			Photos:     []domain.Photo{},
		})
	}

	v := domain.Vacation{
		ID:        ParseID(raw.ID),
		Title:     raw.Title,
		StartDate: ParseTimestamp(raw.StartDate),
		EndDate:   ParseTimestamp(raw.EndDate),
		Locations: locations,
	}
	if raw.AIGeneratedItinerary != nil {
		v.AIItinerary = *raw.AIGeneratedItinerary
	}
	if raw.Owner != nil {
		v.Owner = &domain.Owner{
			ID:    ParseID(raw.Owner.ID),
			Name:  raw.Owner.Name,
			Color: raw.Owner.Color,
		}
	}
	return v
}

// ParseID parses a server id string into a UUID, minting a fresh one when
// the string is empty or malformed. A bad id must never fail the whole
// operation — the vacation is still perfectly usable under a local id.
// Two calls with a bad input never return the same UUID.
func ParseID(s string) uuid.UUID {
	if id, err := uuid.Parse(s); err == nil {
		return id
	}
	return uuid.New()
}

// ParseTimestamp parses an optional ISO-8601 date string. Absent or
// unparseable values return nil — never the current time. "We don't know
// when" is information; erasing it with time.Now would turn every undated
// itinerary into a today trip.
func ParseTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}
