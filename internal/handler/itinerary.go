package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ekaravadi/roam/client/internal/api"
)

// demoOwner matches the fixed demo user the real backend attaches to
// generated vacations.
var demoOwner = api.RawOwner{
	ID:    "00000000-0000-0000-0000-000000000001",
	Name:  "Demo User",
	Color: "#FF6B6B",
}

// handleGenerateItinerary implements POST /api/ai/generate-itinerary.
//
// Instead of calling an AI model, the stub clusters photos by coordinate
// (~10 km grid, the same granularity the real backend uses to associate
// photos with locations) and emits one location per cluster with a
// placeholder activity. Date handling mirrors the backend exactly: the
// vacation's range is min/max of the photo capture dates, and absent dates
// stay absent.
func (s *Server) handleGenerateItinerary(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req api.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Photos) == 0 {
		writeError(w, http.StatusBadRequest, "No photos provided")
		return
	}

	title := req.Title
	if title == "" {
		title = "My Vacation"
	}

	locations := clusterLocations(req.Photos)
	startDate, endDate := dateRange(req.Photos)
	itinerary := fmt.Sprintf("A %d-stop trip reconstructed from %d photos.", len(locations), len(req.Photos))

	vacation := api.RawVacation{
		ID:                   uuid.NewString(),
		Title:                title,
		StartDate:            startDate,
		EndDate:              endDate,
		AIGeneratedItinerary: &itinerary,
		Locations:            locations,
		Owner:                &demoOwner,
	}

	writeJSON(w, http.StatusCreated, api.GenerateResponse{
		Vacation: vacation,
		Message:  "Itinerary generated successfully",
	})
}

// clusterLocations groups photos into locations on a 0.1-degree grid.
// Photos without coordinates contribute no location. Clusters are emitted
// in a stable order (by grid cell) so repeated calls agree.
func clusterLocations(photos []api.PhotoDescriptor) []api.RawLocation {
	type cell struct{ lat, lon int }

	clusters := map[cell][]api.PhotoDescriptor{}
	for _, p := range photos {
		if p.Coordinates == nil {
			continue
		}
		c := cell{
			lat: int(math.Floor(p.Coordinates.Latitude * 10)),
			lon: int(math.Floor(p.Coordinates.Longitude * 10)),
		}
		clusters[c] = append(clusters[c], p)
	}

	cells := make([]cell, 0, len(clusters))
	for c := range clusters {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].lat != cells[j].lat {
			return cells[i].lat < cells[j].lat
		}
		return cells[i].lon < cells[j].lon
	})

	locations := make([]api.RawLocation, 0, len(cells))
	for i, c := range cells {
		group := clusters[c]
		// Anchor the location at the first photo's exact coordinate rather
		// than the cell centre, so round-trips preserve the input values.
		anchor := *group[0].Coordinates

		visit := earliestDate(group)
		activity := api.RawActivity{
			ID:          uuid.NewString(),
			Title:       "Explore the area",
			Description: "Placeholder itinerary entry generated by the stub server.",
			Time:        visit,
		}

		locations = append(locations, api.RawLocation{
			ID:         uuid.NewString(),
			Name:       fmt.Sprintf("Stop %d", i+1),
			Coordinate: &api.Coordinates{Latitude: anchor.Latitude, Longitude: anchor.Longitude},
			VisitDate:  visit,
			Activities: []api.RawActivity{activity},
		})
	}

	return locations
}

// dateRange returns the earliest and latest parseable capture dates across
// the batch, or nils when no photo is dated.
func dateRange(photos []api.PhotoDescriptor) (start, end *string) {
	var dates []string
	for _, p := range photos {
		if p.CaptureDate != nil && parseable(*p.CaptureDate) {
			dates = append(dates, *p.CaptureDate)
		}
	}
	if len(dates) == 0 {
		return nil, nil
	}
	sort.Strings(dates)
	return &dates[0], &dates[len(dates)-1]
}

// earliestDate returns the earliest parseable capture date in a group.
func earliestDate(group []api.PhotoDescriptor) *string {
	var dates []string
	for _, p := range group {
		if p.CaptureDate != nil && parseable(*p.CaptureDate) {
			dates = append(dates, *p.CaptureDate)
		}
	}
	if len(dates) == 0 {
		return nil
	}
	sort.Strings(dates)
	return &dates[0]
}

func parseable(s string) bool {
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
