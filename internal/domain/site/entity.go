package site

import "time"

type SiteStatus string

const (
	SiteActive    SiteStatus = "active"
	SiteOnHold    SiteStatus = "on_hold"
	SiteCompleted SiteStatus = "completed"
)

// Site is a registered construction work location. The geofence fields are
// advisory: attendance check-ins outside the radius are recorded anyway,
// with the computed distance attached for the project manager to judge.
type Site struct {
	ID                   string
	Code                 string
	Name                 string
	Address              *string
	Latitude             *float64
	Longitude            *float64
	GeofenceRadiusMeters *int
	Status               SiteStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
