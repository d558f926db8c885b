package reconcile

import (
	"math"

	"github.com/ekaravadi/roam/client/internal/api"
	"github.com/ekaravadi/roam/client/internal/domain"
)

// photoProximityDegrees is the per-axis distance (roughly 10 km at the
// equator) within which an uploaded photo is considered to belong to a
// location. Matches the association rule the backend applies when it stores
// photos, so the local model agrees with what the server persisted.
const photoProximityDegrees = 0.1

// AttachPhotos assigns each uploaded photo descriptor to every location it
// was taken near. The itinerary response does not echo the photo
// associations back, so the client rebuilds them from the descriptors it
// already holds. Photos without GPS coordinates stay unattached.
func AttachPhotos(v *domain.Vacation, photos []api.UploadedPhoto) {
	for i := range v.Locations {
		loc := &v.Locations[i]
		for _, p := range photos {
			if p.Location == nil {
				continue
			}
			if math.Abs(p.Location.Latitude-loc.Coordinate.Latitude) >= photoProximityDegrees ||
				math.Abs(p.Location.Longitude-loc.Coordinate.Longitude) >= photoProximityDegrees {
				continue
			}
			loc.Photos = append(loc.Photos, domain.Photo{
				ID:           ParseID(p.ID),
				ImageURL:     p.ImageURL,
				ThumbnailURL: derefOrEmpty(p.ThumbnailURL),
				CaptureDate:  ParseTimestamp(p.CaptureDate),
				Coordinate: &domain.Coordinate{
					Latitude:  p.Location.Latitude,
					Longitude: p.Location.Longitude,
				},
			})
		}
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
