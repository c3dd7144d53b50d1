package attendance

import (
	"testing"

	"github.com/buildform/siteops-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCheckInRequest() CheckInRequest {
	return CheckInRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Ken Adams",
		Role:         "engineer",
		Site:         "TOWER-A",
		PhotoURL:     "https://cdn.example.com/photos/in.jpg",
	}
}

func TestCheckInRequestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*CheckInRequest)
		wantErrs []string
	}{
		{
			name:   "valid request",
			mutate: func(r *CheckInRequest) {},
		},
		{
			name: "valid request with location",
			mutate: func(r *CheckInRequest) {
				r.Location = &LocationPayload{Latitude: -6.2, Longitude: 106.8}
			},
		},
		{
			name:     "missing employee_id",
			mutate:   func(r *CheckInRequest) { r.EmployeeID = "" },
			wantErrs: []string{"employee_id"},
		},
		{
			name:     "missing photo",
			mutate:   func(r *CheckInRequest) { r.PhotoURL = "" },
			wantErrs: []string{"photo_url"},
		},
		{
			name: "latitude out of range",
			mutate: func(r *CheckInRequest) {
				r.Location = &LocationPayload{Latitude: 91, Longitude: 0}
			},
			wantErrs: []string{"location.latitude"},
		},
		{
			name: "longitude out of range",
			mutate: func(r *CheckInRequest) {
				r.Location = &LocationPayload{Latitude: 0, Longitude: -181}
			},
			wantErrs: []string{"location.longitude"},
		},
		{
			name: "every required field missing",
			mutate: func(r *CheckInRequest) {
				*r = CheckInRequest{}
			},
			wantErrs: []string{"employee_id", "employee_name", "role", "site", "photo_url"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckInRequest()
			tt.mutate(&req)

			err := req.Validate()
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			for _, want := range tt.wantErrs {
				assert.Contains(t, fields, want)
			}
		})
	}
}

func TestReviewRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ReviewRequest
		wantErr error
	}{
		{
			name: "approve",
			req:  ReviewRequest{ID: "att-1", Decision: "approved"},
		},
		{
			name: "reject with reason",
			req:  ReviewRequest{ID: "att-1", Decision: "rejected", RejectionReason: "photo does not match site"},
		},
		{
			name: "decision is case insensitive",
			req:  ReviewRequest{ID: "att-1", Decision: "  Approved "},
		},
		{
			name:    "reject without reason",
			req:     ReviewRequest{ID: "att-1", Decision: "rejected"},
			wantErr: ErrMissingReason,
		},
		{
			name:    "unknown decision",
			req:     ReviewRequest{ID: "att-1", Decision: "maybe"},
			wantErr: ErrInvalidDecision,
		},
		{
			name:    "empty decision",
			req:     ReviewRequest{ID: "att-1"},
			wantErr: ErrInvalidDecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, []string{"approved", "rejected"}, tt.req.Decision)
		})
	}
}

func TestAttendanceFilterValidate(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		filter := AttendanceFilter{}
		require.NoError(t, filter.Validate())
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.Limit)
	})

	t.Run("limit capped at 100", func(t *testing.T) {
		filter := AttendanceFilter{Limit: 250}
		assert.Error(t, filter.Validate())
	})

	t.Run("invalid approval status", func(t *testing.T) {
		status := "maybe"
		filter := AttendanceFilter{ApprovalStatus: &status}
		assert.Error(t, filter.Validate())
	})

	t.Run("invalid start date format", func(t *testing.T) {
		date := "20-01-2026"
		filter := AttendanceFilter{StartDate: &date}
		assert.Error(t, filter.Validate())
	})

	t.Run("valid date range", func(t *testing.T) {
		start, end := "2026-01-01", "2026-01-31"
		filter := AttendanceFilter{StartDate: &start, EndDate: &end}
		assert.NoError(t, filter.Validate())
	})
}
