package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/leave"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `
	l.id, l.employee_id, l.type, l.start_date, l.end_date, l.total_days,
	l.reason, l.status, l.rejection_reason, l.approved_by, l.approved_at,
	l.created_at, l.updated_at,
	e.full_name AS employee_name`

type leaveRequestRepository struct {
	db *database.DB
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.Type, &req.StartDate, &req.EndDate, &req.TotalDays,
		&req.Reason, &req.Status, &req.RejectionReason, &req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName,
	)
	return req, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (employee_id, type, start_date, end_date, total_days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.Type,
		req.StartDate,
		req.EndDate,
		req.TotalDays,
		req.Reason,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return req, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + leaveColumns + `
		FROM leave_requests l
		LEFT JOIN employees e ON e.id = l.employee_id
		WHERE l.id = $1
	`

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	return req, nil
}

// ApplyDecision implements leave.LeaveRequestRepository.
// Same first-decision-wins update as attendance review.
func (r *leaveRequestRepository) ApplyDecision(ctx context.Context, id string, status leave.LeaveStatus, reason *string, approvedBy string, approvedAt time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests l
		SET status = $2,
		    rejection_reason = $3,
		    approved_by = $4,
		    approved_at = $5,
		    updated_at = NOW()
		FROM employees e
		WHERE l.id = $1
		  AND l.status = $6
		  AND e.id = l.employee_id
		RETURNING` + leaveColumns

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id, status, reason, approvedBy, approvedAt, leave.LeaveWaitingApproval))
	if err == nil {
		return req, nil
	}
	if err != pgx.ErrNoRows {
		return leave.LeaveRequest{}, fmt.Errorf("failed to apply leave decision: %w", err)
	}

	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`
	if err := q.QueryRow(ctx, checkQuery, id).Scan(&exists); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check leave request: %w", err)
	}
	if !exists {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
}

// CheckOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) CheckOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM leave_requests
			WHERE employee_id = $1
			  AND status != $2
			  AND start_date <= $4
			  AND end_date >= $3
		)
	`

	var overlapping bool
	err := q.QueryRow(ctx, query, employeeID, leave.LeaveRejected, startDate, endDate).Scan(&overlapping)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}

	return overlapping, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND l.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM leave_requests l WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`SELECT`+leaveColumns+`
		FROM leave_requests l
		LEFT JOIN employees e ON e.id = l.employee_id
		WHERE %s
		ORDER BY l.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		req, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, nil
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}
