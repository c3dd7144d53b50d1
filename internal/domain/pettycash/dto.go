package pettycash

import (
	"strings"

	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
)

type CreateEntryRequest struct {
	SiteCode    string  `json:"site_code"`
	Type        string  `json:"type"` // top_up | expense
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	ReceiptURL  *string `json:"receipt_url,omitempty"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidSiteCode(r.SiteCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "site_code",
			Message: "site_code must be 2-20 uppercase letters, digits or hyphens",
		})
	}

	entryType := strings.ToLower(strings.TrimSpace(r.Type))
	if entryType != string(EntryTopUp) && entryType != string(EntryExpense) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be top_up or expense",
		})
	}

	if r.Amount <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be greater than zero",
		})
	}
	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	r.Type = entryType
	return nil
}

type EntryResponse struct {
	ID          string  `json:"id"`
	SiteCode    string  `json:"site_code"`
	Type        string  `json:"type"`
	Amount      int64   `json:"amount"`
	Description string  `json:"description"`
	ReceiptURL  *string `json:"receipt_url,omitempty"`
	RecordedBy  string  `json:"recorded_by"`
	CreatedAt   string  `json:"created_at"`
}

type LedgerResponse struct {
	SiteCode string          `json:"site_code"`
	Balance  int64           `json:"balance"`
	Entries  []EntryResponse `json:"entries"`
}
