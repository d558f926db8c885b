package api

// Wire types for the two Roam endpoints. These are the single canonical set
// of DTOs shared by the encoder, the clients, and the reconciler — every
// schema detail of the backend contract lives here and nowhere else.
//
// Dates travel as ISO-8601 strings, not time.Time: the backend omits or
// truncates them freely, and deciding what an absent or unparseable date
// means is the reconciler's job, not the codec's.

// Coordinates is a latitude/longitude pair as the backend serializes it.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UploadedPhoto is the server-assigned descriptor for one uploaded photo:
// its storage URLs plus whatever EXIF the server extracted from the bytes.
// Immutable once received; held only until handed to GenerateItinerary.
type UploadedPhoto struct {
	ID           string       `json:"id"`
	ImageURL     string       `json:"imageURL"`
	ThumbnailURL *string      `json:"thumbnailURL,omitempty"`
	CaptureDate  *string      `json:"captureDate,omitempty"`
	Location     *Coordinates `json:"location,omitempty"`
	HasExif      bool         `json:"hasExif"`
}

// UploadResponse is the 200 body of POST /photos/upload/batch.
type UploadResponse struct {
	Photos  []UploadedPhoto `json:"photos"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
}

// PhotoDescriptor is one photo reference in the itinerary request body.
type PhotoDescriptor struct {
	ImageURL     string       `json:"imageURL"`
	ThumbnailURL *string      `json:"thumbnailURL,omitempty"`
	CaptureDate  *string      `json:"captureDate,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// GenerateRequest is the body of POST /ai/generate-itinerary.
type GenerateRequest struct {
	Title  string            `json:"title"`
	Photos []PhotoDescriptor `json:"photos"`
}

// GenerateResponse is the 200/201 body of POST /ai/generate-itinerary.
type GenerateResponse struct {
	Vacation RawVacation `json:"vacation"`
	Message  string      `json:"message,omitempty"`
}

// RawVacation is the vacation exactly as the AI endpoint returns it.
// IDs are plain strings (the backend has returned non-UUID ids before) and
// every date is optional. The reconciler turns this into a domain.Vacation.
type RawVacation struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	StartDate            *string       `json:"startDate,omitempty"`
	EndDate              *string       `json:"endDate,omitempty"`
	AIGeneratedItinerary *string       `json:"aiGeneratedItinerary,omitempty"`
	Locations            []RawLocation `json:"locations"`
	Owner                *RawOwner     `json:"owner,omitempty"`
}

// RawLocation is one location in the raw itinerary response. Coordinate is a
// pointer so a missing coordinate is distinguishable from (0, 0) — the
// reconciler drops coordinate-less locations rather than pinning them off
// the coast of Africa.
type RawLocation struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Coordinate *Coordinates  `json:"coordinate,omitempty"`
	VisitDate  *string       `json:"visitDate,omitempty"`
	Activities []RawActivity `json:"activities,omitempty"`
}

// RawActivity is one activity in the raw itinerary response.
// AIGenerated is a pointer because older backend versions omit it; the
// reconciler defaults it to true, matching what the server stores.
type RawActivity struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Time        *string `json:"time,omitempty"`
	AIGenerated *bool   `json:"aiGenerated,omitempty"`
}

// RawOwner is the owner block in the raw itinerary response.
type RawOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
