package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/attendance"
	"github.com/buildform/siteops-backend-go/internal/domain/employee"
	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/domain/site"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAttendanceRepo is an in-memory AttendanceRepository that enforces the
// same conditional-write semantics as the PostgreSQL implementation.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]attendance.AttendanceRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.AttendanceRecord)}
}

func (f *fakeAttendanceRepo) CheckIn(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.records {
		if existing.EmployeeID == record.EmployeeID && existing.CheckOutTime == nil {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
	}

	f.seq++
	record.ID = fmt.Sprintf("rec-%d", f.seq)
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[record.ID] = record
	return record, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (f *fakeAttendanceRepo) GetOpenSession(ctx context.Context, employeeID string) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var open *attendance.AttendanceRecord
	for _, rec := range f.records {
		rec := rec
		if rec.EmployeeID == employeeID && rec.CheckOutTime == nil {
			if open == nil || rec.CheckInTime.After(open.CheckInTime) {
				open = &rec
			}
		}
	}
	if open == nil {
		return attendance.AttendanceRecord{}, attendance.ErrNoActiveCheckIn
	}
	return *open, nil
}

func (f *fakeAttendanceRepo) CloseSession(ctx context.Context, id string, checkOutTime time.Time, photoURL string, totalHours float64) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok || rec.CheckOutTime != nil {
		return attendance.AttendanceRecord{}, attendance.ErrNoActiveCheckIn
	}

	rec.CheckOutTime = &checkOutTime
	rec.OutTimePhoto = &photoURL
	rec.TotalHours = &totalHours
	rec.Status = attendance.StatusCheckedOut
	rec.UpdatedAt = time.Now()
	f.records[id] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) ApplyReview(ctx context.Context, id string, decision attendance.ApprovalStatus, reason *string, reviewedBy string, reviewedAt time.Time) (attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok {
		return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
	}
	if rec.ApprovalStatus != attendance.ApprovalPending {
		return attendance.AttendanceRecord{}, attendance.ErrAlreadyReviewed
	}

	rec.ApprovalStatus = decision
	rec.RejectionReason = reason
	rec.ReviewedBy = &reviewedBy
	rec.ReviewedAt = &reviewedAt
	rec.UpdatedAt = time.Now()
	f.records[id] = rec
	return rec, nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []attendance.AttendanceRecord
	for _, rec := range f.records {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.ApprovalStatus != nil && string(rec.ApprovalStatus) != *filter.ApprovalStatus {
			continue
		}
		if filter.Site != nil && rec.Site != *filter.Site {
			continue
		}
		if filter.Role != nil && rec.Role != *filter.Role {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CheckInTime.After(matched[j].CheckInTime)
	})

	total := int64(len(matched))
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakeAttendanceRepo) SiteDigest(ctx context.Context) ([]attendance.SiteActivity, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) FindStaleOpenSessions(ctx context.Context, cutoff time.Time) ([]attendance.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var stale []attendance.AttendanceRecord
	for _, rec := range f.records {
		if rec.CheckOutTime == nil && rec.CheckInTime.Before(cutoff) {
			stale = append(stale, rec)
		}
	}
	return stale, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e employee.Employee) error { return nil }

func (f *fakeEmployeeRepo) List(ctx context.Context, siteCode *string, role *string) ([]employee.Employee, error) {
	return nil, nil
}

type fakeSiteRepo struct {
	sites map[string]site.Site
}

func (f *fakeSiteRepo) Create(ctx context.Context, s site.Site) (site.Site, error) { return s, nil }

func (f *fakeSiteRepo) GetByID(ctx context.Context, id string) (site.Site, error) {
	return site.Site{}, site.ErrSiteNotFound
}

func (f *fakeSiteRepo) GetByCode(ctx context.Context, code string) (site.Site, error) {
	s, ok := f.sites[code]
	if !ok {
		return site.Site{}, site.ErrSiteNotFound
	}
	return s, nil
}

func (f *fakeSiteRepo) Update(ctx context.Context, s site.Site) error { return nil }

func (f *fakeSiteRepo) List(ctx context.Context, status *site.SiteStatus) ([]site.Site, error) {
	return nil, nil
}

type fakeUserRepo struct {
	approvers []user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetApprovers(ctx context.Context) ([]user.User, error) {
	return f.approvers, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) Notify(ctx context.Context, userID string, t notification.NotificationType, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, userID)
	return nil
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, userIDs []string, t notification.NotificationType, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, userIDs...)
	return nil
}

func (f *fakeNotifier) List(ctx context.Context, userID string, limit int) (notification.ListNotificationResponse, error) {
	return notification.ListNotificationResponse{}, nil
}

func (f *fakeNotifier) MarkRead(ctx context.Context, id, userID string) error { return nil }

func (f *fakeNotifier) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (f *fakeNotifier) Subscribe(ctx context.Context, userID string) (<-chan notification.SSEEvent, func()) {
	ch := make(chan notification.SSEEvent)
	return ch, func() { close(ch) }
}

func (f *fakeNotifier) Stop() {}

func newTestService() (attendance.AttendanceService, *fakeAttendanceRepo, *fakeNotifier) {
	repo := newFakeAttendanceRepo()
	notifier := &fakeNotifier{}
	svc := NewAttendanceService(
		repo,
		&fakeEmployeeRepo{employees: map[string]employee.Employee{}},
		&fakeSiteRepo{sites: map[string]site.Site{}},
		&fakeUserRepo{},
		notifier,
	)
	return svc, repo, notifier
}

// reviewerContext builds a context carrying JWT claims the way the Verifier
// middleware does in production.
func reviewerContext(t *testing.T, userID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": userID})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func validCheckIn(employeeID string) attendance.CheckInRequest {
	return attendance.CheckInRequest{
		EmployeeID:   employeeID,
		EmployeeName: "Dian Prasetyo",
		Role:         "engineer",
		Site:         "JKT-TOWER-1",
		PhotoURL:     "https://cdn.example.com/in.jpg",
	}
}

func TestCheckIn_Success(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.CheckIn(ctx, validCheckIn("emp-1"))

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(attendance.StatusCheckedIn), resp.Status)
	assert.Equal(t, string(attendance.ApprovalPending), resp.ApprovalStatus)
	assert.Nil(t, resp.CheckOutTime)
	assert.Nil(t, resp.TotalHours)
}

func TestCheckIn_SecondOpenSessionRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, validCheckIn("emp-1"))
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, validCheckIn("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// A different employee is unaffected.
	_, err = svc.CheckIn(ctx, validCheckIn("emp-2"))
	assert.NoError(t, err)
}

func TestCheckIn_AllowedAgainAfterCheckOut(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, validCheckIn("emp-1"))
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, attendance.CheckOutRequest{
		EmployeeID: "emp-1",
		PhotoURL:   "https://cdn.example.com/out.jpg",
	})
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, validCheckIn("emp-1"))
	assert.NoError(t, err)
}

func TestCheckIn_ValidationFailure(t *testing.T) {
	svc, _, _ := newTestService()

	req := validCheckIn("emp-1")
	req.PhotoURL = ""
	_, err := svc.CheckIn(context.Background(), req)
	assert.Error(t, err)
}

func TestCheckIn_NotifiesApprovers(t *testing.T) {
	repo := newFakeAttendanceRepo()
	notifier := &fakeNotifier{}
	svc := NewAttendanceService(
		repo,
		&fakeEmployeeRepo{employees: map[string]employee.Employee{}},
		&fakeSiteRepo{sites: map[string]site.Site{}},
		&fakeUserRepo{approvers: []user.User{{ID: "pm-1", Role: user.RoleProjectManager}}},
		notifier,
	)

	_, err := svc.CheckIn(context.Background(), validCheckIn("emp-1"))
	require.NoError(t, err)
	assert.Contains(t, notifier.sent, "pm-1")
}

func TestCheckIn_AttachesDistanceWhenSiteHasGeofence(t *testing.T) {
	repo := newFakeAttendanceRepo()
	lat, lng := -6.2088, 106.8456
	svc := NewAttendanceService(
		repo,
		&fakeEmployeeRepo{employees: map[string]employee.Employee{}},
		&fakeSiteRepo{sites: map[string]site.Site{
			"JKT-TOWER-1": {Code: "JKT-TOWER-1", Latitude: &lat, Longitude: &lng},
		}},
		&fakeUserRepo{},
		&fakeNotifier{},
	)

	req := validCheckIn("emp-1")
	req.Location = &attendance.LocationPayload{Latitude: -6.2088, Longitude: 106.8456}
	resp, err := svc.CheckIn(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, resp.DistanceFromSiteMeters)
	assert.InDelta(t, 0, *resp.DistanceFromSiteMeters, 1)
}

func TestCheckOut_ComputesRoundedTotalHours(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	// Seed an open session that started nine hours ago.
	seeded, err := repo.CheckIn(ctx, attendance.AttendanceRecord{
		EmployeeID:     "emp-1",
		EmployeeName:   "Dian Prasetyo",
		Role:           "engineer",
		Site:           "JKT-TOWER-1",
		Status:         attendance.StatusCheckedIn,
		ApprovalStatus: attendance.ApprovalPending,
		CheckInTime:    time.Now().UTC().Add(-9 * time.Hour),
		InTimePhoto:    "https://cdn.example.com/in.jpg",
	})
	require.NoError(t, err)

	resp, err := svc.CheckOut(ctx, attendance.CheckOutRequest{
		EmployeeID: "emp-1",
		PhotoURL:   "https://cdn.example.com/out.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, seeded.ID, resp.ID)
	assert.Equal(t, string(attendance.StatusCheckedOut), resp.Status)
	require.NotNil(t, resp.TotalHours)
	assert.InDelta(t, 9.0, *resp.TotalHours, 0.01)
	// Closing the session never touches the review axis.
	assert.Equal(t, string(attendance.ApprovalPending), resp.ApprovalStatus)
}

func TestCheckOut_NoActiveCheckIn(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{
		EmployeeID: "emp-1",
		PhotoURL:   "https://cdn.example.com/out.jpg",
	})
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)
}

func TestCheckOut_TwiceFails(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, validCheckIn("emp-1"))
	require.NoError(t, err)

	out := attendance.CheckOutRequest{EmployeeID: "emp-1", PhotoURL: "https://cdn.example.com/out.jpg"}
	_, err = svc.CheckOut(ctx, out)
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, out)
	assert.ErrorIs(t, err, attendance.ErrNoActiveCheckIn)
}

func TestReview_Approve(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := reviewerContext(t, "pm-1")

	created, err := svc.CheckIn(context.Background(), validCheckIn("emp-1"))
	require.NoError(t, err)

	resp, err := svc.Review(ctx, attendance.ReviewRequest{ID: created.ID, Decision: "approved"})

	require.NoError(t, err)
	assert.Equal(t, string(attendance.ApprovalApproved), resp.ApprovalStatus)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, "pm-1", *resp.ReviewedBy)
	assert.Nil(t, resp.RejectionReason)
	// Review leaves the presence axis alone: the record can still be open.
	assert.Equal(t, string(attendance.StatusCheckedIn), resp.Status)
}

func TestReview_RejectRequiresReason(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := reviewerContext(t, "pm-1")

	created, err := svc.CheckIn(context.Background(), validCheckIn("emp-1"))
	require.NoError(t, err)

	_, err = svc.Review(ctx, attendance.ReviewRequest{ID: created.ID, Decision: "rejected"})
	assert.ErrorIs(t, err, attendance.ErrMissingReason)

	resp, err := svc.Review(ctx, attendance.ReviewRequest{
		ID:              created.ID,
		Decision:        "rejected",
		RejectionReason: "no site photo",
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.ApprovalRejected), resp.ApprovalStatus)
	require.NotNil(t, resp.RejectionReason)
	assert.Equal(t, "no site photo", *resp.RejectionReason)
}

func TestReview_InvalidDecision(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := reviewerContext(t, "pm-1")

	created, err := svc.CheckIn(context.Background(), validCheckIn("emp-1"))
	require.NoError(t, err)

	_, err = svc.Review(ctx, attendance.ReviewRequest{ID: created.ID, Decision: "maybe"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDecision)
}

func TestReview_IsTerminal(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := reviewerContext(t, "pm-1")

	created, err := svc.CheckIn(context.Background(), validCheckIn("emp-1"))
	require.NoError(t, err)

	_, err = svc.Review(ctx, attendance.ReviewRequest{ID: created.ID, Decision: "approved"})
	require.NoError(t, err)

	_, err = svc.Review(ctx, attendance.ReviewRequest{
		ID:              created.ID,
		Decision:        "rejected",
		RejectionReason: "changed my mind",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyReviewed)
}

func TestReview_RecordNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := reviewerContext(t, "pm-1")

	_, err := svc.Review(ctx, attendance.ReviewRequest{ID: "missing", Decision: "approved"})
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	status, err := svc.Status(ctx, "emp-1")
	require.NoError(t, err)
	assert.False(t, status.HasOpenSession)
	assert.True(t, status.CanCheckIn)
	assert.False(t, status.CanCheckOut)

	_, err = svc.CheckIn(ctx, validCheckIn("emp-1"))
	require.NoError(t, err)

	status, err = svc.Status(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, status.HasOpenSession)
	require.NotNil(t, status.OpenSession)
	assert.False(t, status.CanCheckIn)
	assert.True(t, status.CanCheckOut)
}

func TestList_NewestFirstWithPagination(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	base := time.Now().UTC().Add(-48 * time.Hour)
	for i := 0; i < 5; i++ {
		checkIn := base.Add(time.Duration(i) * time.Hour)
		out := checkIn.Add(8 * time.Hour)
		hours := 8.0
		_, err := repo.CheckIn(ctx, attendance.AttendanceRecord{
			EmployeeID:     fmt.Sprintf("emp-%d", i),
			EmployeeName:   "Worker",
			Role:           "engineer",
			Site:           "JKT-TOWER-1",
			Status:         attendance.StatusCheckedOut,
			ApprovalStatus: attendance.ApprovalPending,
			CheckInTime:    checkIn,
			CheckOutTime:   &out,
			TotalHours:     &hours,
			InTimePhoto:    "p",
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, attendance.AttendanceFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TotalCount)
	assert.Equal(t, 3, resp.TotalPages)
	require.Len(t, resp.Records, 2)
	// Newest check-in first.
	assert.Equal(t, "emp-4", resp.Records[0].EmployeeID)
	assert.Equal(t, "emp-3", resp.Records[1].EmployeeID)
}

func TestSummarizeByEmployee(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	day1 := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	hours1, hours2 := 8.0, 7.5
	out1 := day1.Add(8 * time.Hour)
	out2 := day2.Add(7*time.Hour + 30*time.Minute)

	for _, rec := range []attendance.AttendanceRecord{
		{
			EmployeeID: "emp-1", EmployeeName: "Dian", Role: "engineer", Site: "JKT-TOWER-1",
			Status: attendance.StatusCheckedOut, ApprovalStatus: attendance.ApprovalApproved,
			CheckInTime: day1, CheckOutTime: &out1, TotalHours: &hours1, InTimePhoto: "p",
		},
		{
			EmployeeID: "emp-1", EmployeeName: "Dian", Role: "engineer", Site: "JKT-TOWER-1",
			Status: attendance.StatusCheckedOut, ApprovalStatus: attendance.ApprovalPending,
			CheckInTime: day2, CheckOutTime: &out2, TotalHours: &hours2, InTimePhoto: "p",
		},
	} {
		_, err := repo.CheckIn(ctx, rec)
		require.NoError(t, err)
	}

	resp, err := svc.SummarizeByEmployee(ctx, "emp-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Employees, 1)

	summary := resp.Employees[0]
	assert.Equal(t, "emp-1", summary.EmployeeID)
	assert.Equal(t, 2, summary.DaysPresent)
	assert.InDelta(t, 15.5, summary.TotalHours, 0.01)
	assert.Equal(t, 1, summary.PendingApprovals)
	assert.Equal(t, string(attendance.ApprovalPending), summary.LastApprovalState)
	assert.Equal(t, day2.Format(time.RFC3339), summary.LastCheckInTime)
}

func TestSummarizeBySite_GroupsByEmployee(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	now := time.Now().UTC()
	hours := 8.0
	out := now.Add(8 * time.Hour)
	for _, id := range []string{"emp-1", "emp-2", "emp-1"} {
		_, err := repo.CheckIn(ctx, attendance.AttendanceRecord{
			EmployeeID: id, EmployeeName: "W", Role: "engineer", Site: "JKT-TOWER-1",
			Status: attendance.StatusCheckedOut, ApprovalStatus: attendance.ApprovalApproved,
			CheckInTime: now, CheckOutTime: &out, TotalHours: &hours, InTimePhoto: "p",
		})
		require.NoError(t, err)
	}

	resp, err := svc.SummarizeBySite(ctx, "JKT-TOWER-1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "JKT-TOWER-1", resp.Site)
	assert.Len(t, resp.Employees, 2)
}
