package material

import (
	"strings"

	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
)

type CreateMaterialRequest struct {
	SiteCode string `json:"site_code"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
}

func (r *CreateMaterialRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidSiteCode(r.SiteCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_code",
			Message: "site_code must be 2-20 uppercase letters, digits or hyphens",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(r.Unit) {
		errs = append(errs, validator.ValidationError{
			Field:   "unit",
			Message: "unit is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordMovementRequest struct {
	MaterialID string  `json:"-"`
	Type       string  `json:"type"` // in | out
	Quantity   float64 `json:"quantity"`
	Note       *string `json:"note,omitempty"`
}

func (r *RecordMovementRequest) Validate() error {
	var errs validator.ValidationErrors

	movementType := strings.ToLower(strings.TrimSpace(r.Type))
	if movementType != string(MovementIn) && movementType != string(MovementOut) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be in or out",
		})
	}
	if r.Quantity <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "quantity",
			Message: "quantity must be greater than zero",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.Type = movementType
	return nil
}

type MaterialResponse struct {
	ID             string  `json:"id"`
	SiteCode       string  `json:"site_code"`
	Name           string  `json:"name"`
	Unit           string  `json:"unit"`
	QuantityOnHand float64 `json:"quantity_on_hand"`
	CreatedAt      string  `json:"created_at"`
}

type MovementResponse struct {
	ID         string  `json:"id"`
	MaterialID string  `json:"material_id"`
	Type       string  `json:"type"`
	Quantity   float64 `json:"quantity"`
	Note       *string `json:"note,omitempty"`
	RecordedBy string  `json:"recorded_by"`
	CreatedAt  string  `json:"created_at"`
}
