package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/attendance"
	"github.com/buildform/siteops-backend-go/internal/domain/employee"
	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/domain/site"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/buildform/siteops-backend-go/internal/pkg/utils"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	siteRepo       site.SiteRepository
	userRepo       user.UserRepository
	notifier       notification.NotificationService
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
	userRepo user.UserRepository,
	notifier notification.NotificationService,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		siteRepo:       siteRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// roundHours rounds elapsed hours to two decimal places.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	now := time.Now().UTC()

	record := attendance.AttendanceRecord{
		EmployeeID:     req.EmployeeID,
		EmployeeName:   req.EmployeeName,
		Role:           req.Role,
		Site:           req.Site,
		Status:         attendance.StatusCheckedIn,
		ApprovalStatus: attendance.ApprovalPending,
		CheckInTime:    now,
		InTimePhoto:    req.PhotoURL,
	}

	if req.Location != nil {
		record.Latitude = &req.Location.Latitude
		record.Longitude = &req.Location.Longitude
		if req.Location.Address != "" {
			record.Address = &req.Location.Address
		}
		record.DistanceFromSiteMeters = a.distanceFromSite(ctx, req.Site, req.Location)
	}

	created, err := a.attendanceRepo.CheckIn(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	a.notifyApprovers(ctx, notification.TypeAttendanceSubmitted,
		"New attendance submitted",
		fmt.Sprintf("%s checked in at %s", created.EmployeeName, created.Site))

	return mapRecordToResponse(created), nil
}

// distanceFromSite computes the advisory distance between the reported
// location and the registered site geofence center. Unknown sites and sites
// without coordinates yield no distance; the check-in proceeds either way.
func (a *AttendanceServiceImpl) distanceFromSite(ctx context.Context, siteCode string, loc *attendance.LocationPayload) *float64 {
	s, err := a.siteRepo.GetByCode(ctx, siteCode)
	if err != nil {
		return nil
	}
	if s.Latitude == nil || s.Longitude == nil {
		return nil
	}
	distance := utils.HaversineDistanceMeters(*s.Latitude, *s.Longitude, loc.Latitude, loc.Longitude)
	return &distance
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	open, err := a.attendanceRepo.GetOpenSession(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			return attendance.AttendanceResponse{}, attendance.ErrNoActiveCheckIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to find open session: %w", err)
	}

	now := time.Now().UTC()
	totalHours := roundHours(now.Sub(open.CheckInTime).Hours())

	closed, err := a.attendanceRepo.CloseSession(ctx, open.ID, now, req.PhotoURL, totalHours)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			return attendance.AttendanceResponse{}, attendance.ErrNoActiveCheckIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	return mapRecordToResponse(closed), nil
}

// Review implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Review(ctx context.Context, req attendance.ReviewRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return attendance.AttendanceResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	decision := attendance.ApprovalStatus(req.Decision)
	var reason *string
	if decision == attendance.ApprovalRejected {
		reason = &req.RejectionReason
	}

	reviewed, err := a.attendanceRepo.ApplyReview(ctx, req.ID, decision, reason, userID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrRecordNotFound):
			return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
		case errors.Is(err, attendance.ErrAlreadyReviewed):
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyReviewed
		default:
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to review attendance: %w", err)
		}
	}

	a.notifyEmployee(ctx, reviewed.EmployeeID, notification.TypeAttendanceReviewed,
		"Attendance reviewed",
		fmt.Sprintf("Your attendance at %s was %s", reviewed.Site, reviewed.ApprovalStatus))

	return mapRecordToResponse(reviewed), nil
}

// Get implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	rec, err := a.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return mapRecordToResponse(rec), nil
}

// List implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListAttendanceResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}

// Status implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Status(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	open, err := a.attendanceRepo.GetOpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNoActiveCheckIn) {
			return attendance.StatusResponse{
				HasOpenSession: false,
				CanCheckIn:     true,
				CanCheckOut:    false,
			}, nil
		}
		return attendance.StatusResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}

	resp := mapRecordToResponse(open)
	return attendance.StatusResponse{
		HasOpenSession: true,
		OpenSession:    &resp,
		CanCheckIn:     false,
		CanCheckOut:    true,
	}, nil
}

// SummarizeBySite implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SummarizeBySite(ctx context.Context, siteCode string, startDate, endDate *string) (attendance.SummaryResponse, error) {
	filter := attendance.AttendanceFilter{
		Site:      &siteCode,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	records, err := a.listAll(ctx, filter)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	resp := attendance.SummaryResponse{
		Site:      siteCode,
		Employees: summarize(records),
	}
	if startDate != nil {
		resp.StartDate = *startDate
	}
	if endDate != nil {
		resp.EndDate = *endDate
	}
	return resp, nil
}

// SummarizeByEmployee implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SummarizeByEmployee(ctx context.Context, employeeID string, startDate, endDate *string) (attendance.SummaryResponse, error) {
	filter := attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		StartDate:  startDate,
		EndDate:    endDate,
	}
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	records, err := a.listAll(ctx, filter)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	resp := attendance.SummaryResponse{
		Employees: summarize(records),
	}
	if startDate != nil {
		resp.StartDate = *startDate
	}
	if endDate != nil {
		resp.EndDate = *endDate
	}
	return resp, nil
}

// listAll pages through the repository until every matching record is read.
func (a *AttendanceServiceImpl) listAll(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, error) {
	filter.Page = 1
	filter.Limit = 100

	var all []attendance.AttendanceRecord
	for {
		records, total, err := a.attendanceRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list attendance records: %w", err)
		}
		all = append(all, records...)
		if int64(len(all)) >= total || len(records) == 0 {
			return all, nil
		}
		filter.Page++
	}
}

// summarize folds records into per-employee aggregates. Records arrive newest
// check-in first, so the first record seen per employee is the latest one.
func summarize(records []attendance.AttendanceRecord) []attendance.EmployeeSummary {
	index := make(map[string]int)
	days := make(map[string]map[string]struct{})
	summaries := make([]attendance.EmployeeSummary, 0)

	for _, rec := range records {
		i, seen := index[rec.EmployeeID]
		if !seen {
			i = len(summaries)
			index[rec.EmployeeID] = i
			days[rec.EmployeeID] = make(map[string]struct{})
			summaries = append(summaries, attendance.EmployeeSummary{
				EmployeeID:        rec.EmployeeID,
				EmployeeName:      rec.EmployeeName,
				Role:              rec.Role,
				LastCheckInTime:   rec.CheckInTime.Format(time.RFC3339),
				LastStatus:        string(rec.Status),
				LastApprovalState: string(rec.ApprovalStatus),
			})
		}

		days[rec.EmployeeID][rec.CheckInTime.Format("2006-01-02")] = struct{}{}
		summaries[i].DaysPresent = len(days[rec.EmployeeID])
		if rec.TotalHours != nil {
			summaries[i].TotalHours = roundHours(summaries[i].TotalHours + *rec.TotalHours)
		}
		if rec.ApprovalStatus == attendance.ApprovalPending {
			summaries[i].PendingApprovals++
		}
	}

	return summaries
}

// notifyApprovers pushes a notification to every project manager and admin.
// Best effort, a failed notification never fails the attendance operation.
func (a *AttendanceServiceImpl) notifyApprovers(ctx context.Context, t notification.NotificationType, title, message string) {
	approvers, err := a.userRepo.GetApprovers(ctx)
	if err != nil {
		return
	}
	userIDs := make([]string, 0, len(approvers))
	for _, approver := range approvers {
		userIDs = append(userIDs, approver.ID)
	}
	_ = a.notifier.NotifyMany(ctx, userIDs, t, title, message)
}

// notifyEmployee pushes a notification to the user linked to an employee, if any.
func (a *AttendanceServiceImpl) notifyEmployee(ctx context.Context, employeeID string, t notification.NotificationType, title, message string) {
	emp, err := a.employeeRepo.GetByID(ctx, employeeID)
	if err != nil || emp.UserID == nil {
		return
	}
	_ = a.notifier.Notify(ctx, *emp.UserID, t, title, message)
}

// mapRecordToResponse converts an AttendanceRecord entity to AttendanceResponse
func mapRecordToResponse(rec attendance.AttendanceRecord) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                     rec.ID,
		EmployeeID:             rec.EmployeeID,
		EmployeeName:           rec.EmployeeName,
		Role:                   rec.Role,
		Site:                   rec.Site,
		Status:                 string(rec.Status),
		ApprovalStatus:         string(rec.ApprovalStatus),
		CheckInTime:            rec.CheckInTime.Format(time.RFC3339),
		CheckOutTime:           timePtrToString(rec.CheckOutTime),
		TotalHours:             rec.TotalHours,
		InTimePhoto:            rec.InTimePhoto,
		OutTimePhoto:           rec.OutTimePhoto,
		DistanceFromSiteMeters: rec.DistanceFromSiteMeters,
		RejectionReason:        rec.RejectionReason,
		ReviewedBy:             rec.ReviewedBy,
		ReviewedAt:             timePtrToString(rec.ReviewedAt),
		CreatedAt:              rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              rec.UpdatedAt.Format(time.RFC3339),
	}

	if rec.Latitude != nil && rec.Longitude != nil {
		loc := &attendance.LocationPayload{
			Latitude:  *rec.Latitude,
			Longitude: *rec.Longitude,
		}
		if rec.Address != nil {
			loc.Address = *rec.Address
		}
		resp.Location = loc
	}

	return resp
}
