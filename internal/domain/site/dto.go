package site

import (
	"strings"

	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
)

type CreateSiteRequest struct {
	Code                 string   `json:"code"`
	Name                 string   `json:"name"`
	Address              *string  `json:"address,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	GeofenceRadiusMeters *int     `json:"geofence_radius_meters,omitempty"`
}

func (r *CreateSiteRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if !validator.IsValidSiteCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 2-20 chars of A-Z, 0-9 and dashes",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude and longitude must be provided together",
		})
	}
	if r.GeofenceRadiusMeters != nil && *r.GeofenceRadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "geofence_radius_meters",
			Message: "geofence radius must be a positive number of meters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateSiteRequest struct {
	ID                   string   `json:"-"`
	Name                 *string  `json:"name,omitempty"`
	Address              *string  `json:"address,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	GeofenceRadiusMeters *int     `json:"geofence_radius_meters,omitempty"`
	Status               *string  `json:"status,omitempty"`
}

func (r *UpdateSiteRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil {
		valid := []string{string(SiteActive), string(SiteOnHold), string(SiteCompleted)}
		if !validator.IsInSlice(*r.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: active, on_hold, completed",
			})
		}
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SiteResponse struct {
	ID                   string   `json:"id"`
	Code                 string   `json:"code"`
	Name                 string   `json:"name"`
	Address              *string  `json:"address,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	GeofenceRadiusMeters *int     `json:"geofence_radius_meters,omitempty"`
	Status               string   `json:"status"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}
