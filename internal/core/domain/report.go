package domain

import (
	"errors"
	"math"
	"time"
)

// ReportStatus represents the triage state of a waste report.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportAssigned   ReportStatus = "assigned"
	ReportInProgress ReportStatus = "in_progress"
	ReportCompleted  ReportStatus = "completed"
	ReportRejected   ReportStatus = "rejected"
)

// ReportPriority orders reports for triage and route planning.
type ReportPriority string

const (
	PriorityLow    ReportPriority = "low"
	PriorityMedium ReportPriority = "medium"
	PriorityHigh   ReportPriority = "high"
)

var priorityRank = map[ReportPriority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// Rank returns the priority's ordering weight; unknown priorities rank lowest.
func (p ReportPriority) Rank() int {
	return priorityRank[p]
}

// IsValid reports whether the status is one of the closed set.
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportPending, ReportAssigned, ReportInProgress, ReportCompleted, ReportRejected:
		return true
	default:
		return false
	}
}

var ErrReportNotFound = errors.New("report not found")
var ErrTeamNotFound = errors.New("team not found")

// GeoPoint is a GeoJSON point: coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude and longitude.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// Lat returns the point's latitude.
func (p GeoPoint) Lat() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

// Lng returns the point's longitude.
func (p GeoPoint) Lng() float64 {
	if len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

// ReportNote is a triage comment attached to a report.
type ReportNote struct {
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Note      string    `json:"note" bson:"note"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Report is a geotagged waste report filed by a citizen.
type Report struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	ReporterID     string         `json:"reporter_id" bson:"reporter_id"`
	Description    string         `json:"description" bson:"description"`
	Location       GeoPoint       `json:"location" bson:"location"`
	Address        string         `json:"address,omitempty" bson:"address,omitempty"`
	Images         []string       `json:"images,omitempty" bson:"images,omitempty"`
	Priority       ReportPriority `json:"priority" bson:"priority"`
	Status         ReportStatus   `json:"status" bson:"status"`
	AssignedTeamID string         `json:"assigned_team_id,omitempty" bson:"assigned_team_id,omitempty"`
	AssignedUserIDs []string      `json:"assigned_user_ids,omitempty" bson:"assigned_user_ids,omitempty"`
	Notes          []ReportNote   `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance in kilometres between two
// coordinate pairs.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
