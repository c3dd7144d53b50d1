package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/attendance"
	"github.com/buildform/siteops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, employee_id, employee_name, role, site,
	status, approval_status,
	check_in_time, check_out_time, total_hours,
	in_time_photo, out_time_photo,
	latitude, longitude, address, distance_from_site_meters,
	rejection_reason, reviewed_by, reviewed_at,
	created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func scanAttendance(row pgx.Row) (attendance.AttendanceRecord, error) {
	var rec attendance.AttendanceRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Role, &rec.Site,
		&rec.Status, &rec.ApprovalStatus,
		&rec.CheckInTime, &rec.CheckOutTime, &rec.TotalHours,
		&rec.InTimePhoto, &rec.OutTimePhoto,
		&rec.Latitude, &rec.Longitude, &rec.Address, &rec.DistanceFromSiteMeters,
		&rec.RejectionReason, &rec.ReviewedBy, &rec.ReviewedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// CheckIn implements attendance.AttendanceRepository.
// The INSERT carries its own guard so two concurrent check-ins for the same
// employee cannot both create an open record.
func (a *attendanceRepository) CheckIn(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			employee_id, employee_name, role, site,
			status, approval_status,
			check_in_time, in_time_photo,
			latitude, longitude, address, distance_from_site_meters
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		WHERE NOT EXISTS (
			SELECT 1
			FROM attendance_records
			WHERE employee_id = $1
			  AND check_out_time IS NULL
		)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.EmployeeName,
		record.Role,
		record.Site,
		record.Status,
		record.ApprovalStatus,
		record.CheckInTime,
		record.InTimePhoto,
		record.Latitude,
		record.Longitude,
		record.Address,
		record.DistanceFromSiteMeters,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE id = $1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// GetOpenSession implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOpenSession(ctx context.Context, employeeID string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND check_out_time IS NULL
		ORDER BY check_in_time DESC
		LIMIT 1
	`

	rec, err := scanAttendance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrNoActiveCheckIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return rec, nil
}

// CloseSession implements attendance.AttendanceRepository.
// The WHERE clause is the compare-and-swap: a record that was closed by a
// concurrent request no longer matches and the update affects zero rows.
func (a *attendanceRepository) CloseSession(ctx context.Context, id string, checkOutTime time.Time, photoURL string, totalHours float64) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out_time = $2,
		    out_time_photo = $3,
		    total_hours = $4,
		    status = $5,
		    updated_at = NOW()
		WHERE id = $1
		  AND check_out_time IS NULL
		RETURNING` + attendanceColumns

	rec, err := scanAttendance(q.QueryRow(ctx, query, id, checkOutTime, photoURL, totalHours, attendance.StatusCheckedOut))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.AttendanceRecord{}, attendance.ErrNoActiveCheckIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to close attendance session: %w", err)
	}

	return rec, nil
}

// ApplyReview implements attendance.AttendanceRepository.
// Only a pending record matches the update, so the first decision wins and
// every later one reports ErrAlreadyReviewed.
func (a *attendanceRepository) ApplyReview(ctx context.Context, id string, decision attendance.ApprovalStatus, reason *string, reviewedBy string, reviewedAt time.Time) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET approval_status = $2,
		    rejection_reason = $3,
		    reviewed_by = $4,
		    reviewed_at = $5,
		    updated_at = NOW()
		WHERE id = $1
		  AND approval_status = $6
		RETURNING` + attendanceColumns

	rec, err := scanAttendance(q.QueryRow(ctx, query, id, decision, reason, reviewedBy, reviewedAt, attendance.ApprovalPending))
	if err == nil {
		return rec, nil
	}
	if err != pgx.ErrNoRows {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to apply review: %w", err)
	}

	// Zero rows: either the record does not exist or it was already reviewed.
	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM attendance_records WHERE id = $1)`
	if err := q.QueryRow(ctx, checkQuery, id).Scan(&exists); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to check attendance record: %w", err)
	}
	if !exists {
		return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
	}
	return attendance.AttendanceRecord{}, attendance.ErrAlreadyReviewed
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.ApprovalStatus != nil && *filter.ApprovalStatus != "" {
		baseWhere += fmt.Sprintf(" AND approval_status = $%d", argIdx)
		args = append(args, *filter.ApprovalStatus)
		argIdx++
	}
	if filter.Site != nil && *filter.Site != "" {
		baseWhere += fmt.Sprintf(" AND site = $%d", argIdx)
		args = append(args, *filter.Site)
		argIdx++
	}
	if filter.Role != nil && *filter.Role != "" {
		baseWhere += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, *filter.Role)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND check_in_time::date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND check_in_time::date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendance_records WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Build query with pagination, newest check-in first
	selectQuery := fmt.Sprintf(`SELECT`+attendanceColumns+`
		FROM attendance_records
		WHERE %s
		ORDER BY check_in_time DESC
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
	offset := (page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// SiteDigest implements attendance.AttendanceRepository.
func (a *attendanceRepository) SiteDigest(ctx context.Context) ([]attendance.SiteActivity, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT site,
			   COUNT(*) FILTER (WHERE approval_status = 'pending') AS pending_approval,
			   COUNT(*) FILTER (WHERE check_out_time IS NULL) AS open_sessions
		FROM attendance_records
		GROUP BY site
		ORDER BY site
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query site digest: %w", err)
	}
	defer rows.Close()

	var digest []attendance.SiteActivity
	for rows.Next() {
		var activity attendance.SiteActivity
		if err := rows.Scan(&activity.Site, &activity.PendingApproval, &activity.OpenSessions); err != nil {
			return nil, fmt.Errorf("failed to scan site digest row: %w", err)
		}
		digest = append(digest, activity)
	}

	return digest, nil
}

// FindStaleOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendance_records
		WHERE check_out_time IS NULL
		  AND check_in_time < $1
		ORDER BY check_in_time ASC
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale open sessions: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
