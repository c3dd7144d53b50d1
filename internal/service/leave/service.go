package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/employee"
	"github.com/buildform/siteops-backend-go/internal/domain/leave"
	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

type LeaveServiceImpl struct {
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	userRepo     user.UserRepository
	notifier     notification.NotificationService
}

func NewLeaveService(
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	userRepo user.UserRepository,
	notifier notification.NotificationService,
) leave.LeaveService {
	return &LeaveServiceImpl{
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// Submit implements leave.LeaveService.
func (s *LeaveServiceImpl) Submit(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	if endDate.Before(startDate) {
		return leave.LeaveResponse{}, leave.ErrInvalidDateRange
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.LeaveResponse{}, employee.ErrEmployeeNotFound
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	overlapping, err := s.leaveRepo.CheckOverlapping(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	if overlapping {
		return leave.LeaveResponse{}, leave.ErrOverlappingLeave
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1

	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID: req.EmployeeID,
		Type:       leave.LeaveType(strings.ToLower(req.Type)),
		StartDate:  startDate,
		EndDate:    endDate,
		TotalDays:  totalDays,
		Reason:     req.Reason,
		Status:     leave.LeaveWaitingApproval,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	s.notifyApprovers(ctx, notification.TypeLeaveSubmitted,
		"New leave request",
		fmt.Sprintf("Leave request for %s to %s awaits review", req.StartDate, req.EndDate))

	return mapLeaveToResponse(created), nil
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return leave.LeaveResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	status := leave.LeaveStatus(req.Status)
	var reason *string
	if status == leave.LeaveRejected {
		reason = &req.RejectionReason
	}

	decided, err := s.leaveRepo.ApplyDecision(ctx, req.ID, status, reason, userID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrLeaveRequestNotFound):
			return leave.LeaveResponse{}, leave.ErrLeaveRequestNotFound
		case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
			return leave.LeaveResponse{}, leave.ErrLeaveAlreadyProcessed
		default:
			return leave.LeaveResponse{}, fmt.Errorf("failed to decide leave request: %w", err)
		}
	}

	s.notifyEmployee(ctx, decided.EmployeeID, notification.TypeLeaveDecided,
		"Leave request decided",
		fmt.Sprintf("Your leave request was %s", decided.Status))

	return mapLeaveToResponse(decided), nil
}

// Get implements leave.LeaveService.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.LeaveResponse, error) {
	found, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveResponse{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return mapLeaveToResponse(found), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	requests, total, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, mapLeaveToResponse(req))
	}

	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   responses,
	}, nil
}

func (s *LeaveServiceImpl) notifyApprovers(ctx context.Context, t notification.NotificationType, title, message string) {
	approvers, err := s.userRepo.GetApprovers(ctx)
	if err != nil {
		return
	}
	userIDs := make([]string, 0, len(approvers))
	for _, approver := range approvers {
		userIDs = append(userIDs, approver.ID)
	}
	_ = s.notifier.NotifyMany(ctx, userIDs, t, title, message)
}

func (s *LeaveServiceImpl) notifyEmployee(ctx context.Context, employeeID string, t notification.NotificationType, title, message string) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil || emp.UserID == nil {
		return
	}
	_ = s.notifier.Notify(ctx, *emp.UserID, t, title, message)
}

func mapLeaveToResponse(req leave.LeaveRequest) leave.LeaveResponse {
	resp := leave.LeaveResponse{
		ID:              req.ID,
		EmployeeID:      req.EmployeeID,
		EmployeeName:    req.EmployeeName,
		Type:            string(req.Type),
		StartDate:       req.StartDate.Format("2006-01-02"),
		EndDate:         req.EndDate.Format("2006-01-02"),
		TotalDays:       req.TotalDays,
		Reason:          req.Reason,
		Status:          string(req.Status),
		RejectionReason: req.RejectionReason,
		ApprovedBy:      req.ApprovedBy,
		CreatedAt:       req.CreatedAt.Format(time.RFC3339),
	}
	if req.ApprovedAt != nil {
		approvedAt := req.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}
