package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/buildform/siteops-backend-go/internal/domain/employee"
	"github.com/buildform/siteops-backend-go/internal/domain/leave"
	"github.com/buildform/siteops-backend-go/internal/domain/notification"
	"github.com/buildform/siteops-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveRepo struct {
	mu       sync.Mutex
	requests map[string]leave.LeaveRequest
	seq      int
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: make(map[string]leave.LeaveRequest)}
}

func (f *fakeLeaveRepo) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	req.ID = fmt.Sprintf("leave-%d", f.seq)
	req.CreatedAt = time.Now().UTC()
	req.UpdatedAt = req.CreatedAt
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (f *fakeLeaveRepo) ApplyDecision(ctx context.Context, id string, status leave.LeaveStatus, reason *string, approvedBy string, approvedAt time.Time) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if req.Status != leave.LeaveWaitingApproval {
		return leave.LeaveRequest{}, leave.ErrLeaveAlreadyProcessed
	}
	req.Status = status
	req.RejectionReason = reason
	req.ApprovedBy = &approvedBy
	req.ApprovedAt = &approvedAt
	req.UpdatedAt = approvedAt
	f.requests[id] = req
	return req, nil
}

func (f *fakeLeaveRepo) CheckOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.EmployeeID != employeeID || req.Status == leave.LeaveRejected {
			continue
		}
		if !req.StartDate.After(endDate) && !req.EndDate.Before(startDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []leave.LeaveRequest
	for _, req := range f.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(req.Status) != *filter.Status {
			continue
		}
		matched = append(matched, req)
	}
	return matched, int64(len(matched)), nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e employee.Employee) error { return nil }

func (f *fakeEmployeeRepo) List(ctx context.Context, siteCode *string, role *string) ([]employee.Employee, error) {
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

type sentNotification struct {
	userID string
	ntype  notification.NotificationType
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (f *fakeNotifier) Notify(ctx context.Context, userID string, t notification.NotificationType, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{userID: userID, ntype: t})
	return nil
}

func (f *fakeNotifier) NotifyMany(ctx context.Context, userIDs []string, t notification.NotificationType, title, message string) error {
	for _, id := range userIDs {
		_ = f.Notify(ctx, id, t, title, message)
	}
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

func newTestService(t *testing.T) (leave.LeaveService, *fakeLeaveRepo, *fakeNotifier) {
	t.Helper()
	userID := "user-emp-1"
	leaveRepo := newFakeLeaveRepo()
	employeeRepo := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", Code: "2024-0001", FullName: "Ken Adams", Role: "engineer", UserID: &userID},
	}}
	userRepo := &fakeUserRepo{approvers: []user.User{
		{ID: "user-pm", Role: user.RoleProjectManager},
	}}
	notifier := &fakeNotifier{}
	return NewLeaveService(leaveRepo, employeeRepo, userRepo, notifier), leaveRepo, notifier
}

// approverContext builds a context carrying verified claims, the same shape
// the jwtauth middleware produces.
func approverContext(t *testing.T, userID string) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": userID})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func submitRequest() leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{
		EmployeeID: "emp-1",
		Type:       "annual",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-04",
		Reason:     "family event",
	}
}

func TestSubmit_Success(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	assert.Equal(t, "emp-1", resp.EmployeeID)
	assert.Equal(t, string(leave.LeaveWaitingApproval), resp.Status)
	assert.Equal(t, 3, resp.TotalDays)
	assert.Equal(t, "2026-03-02", resp.StartDate)
	assert.Equal(t, "2026-03-04", resp.EndDate)
}

func TestSubmit_SingleDayCountsOne(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := submitRequest()
	req.EndDate = req.StartDate
	resp, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalDays)
}

func TestSubmit_InvalidDateRange(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := submitRequest()
	req.StartDate = "2026-03-10"
	req.EndDate = "2026-03-05"
	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestSubmit_OverlappingRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	overlapping := submitRequest()
	overlapping.StartDate = "2026-03-04"
	overlapping.EndDate = "2026-03-06"
	_, err = svc.Submit(context.Background(), overlapping)
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}

func TestSubmit_UnknownEmployee(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := submitRequest()
	req.EmployeeID = "emp-missing"
	_, err := svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestSubmit_NotifiesApprovers(t *testing.T) {
	svc, _, notifier := newTestService(t)

	_, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "user-pm", notifier.sent[0].userID)
	assert.Equal(t, notification.TypeLeaveSubmitted, notifier.sent[0].ntype)
}

func TestDecide_Approve(t *testing.T) {
	svc, _, notifier := newTestService(t)

	created, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	ctx := approverContext(t, "user-pm")
	decided, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, Status: "approved"})
	require.NoError(t, err)

	assert.Equal(t, string(leave.LeaveApproved), decided.Status)
	require.NotNil(t, decided.ApprovedBy)
	assert.Equal(t, "user-pm", *decided.ApprovedBy)
	assert.NotNil(t, decided.ApprovedAt)

	// Submit notification plus the decision notification to the employee
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "user-emp-1", notifier.sent[1].userID)
	assert.Equal(t, notification.TypeLeaveDecided, notifier.sent[1].ntype)
}

func TestDecide_RejectStoresReason(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	ctx := approverContext(t, "user-pm")
	decided, err := svc.Decide(ctx, leave.DecideLeaveRequest{
		ID:              created.ID,
		Status:          "rejected",
		RejectionReason: "site is short-staffed that week",
	})
	require.NoError(t, err)

	assert.Equal(t, string(leave.LeaveRejected), decided.Status)
	require.NotNil(t, decided.RejectionReason)
	assert.Equal(t, "site is short-staffed that week", *decided.RejectionReason)
}

func TestDecide_RejectWithoutReasonFails(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	ctx := approverContext(t, "user-pm")
	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, Status: "rejected"})
	assert.Error(t, err)
}

func TestDecide_IsTerminal(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	ctx := approverContext(t, "user-pm")
	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, Status: "approved"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, Status: "rejected", RejectionReason: "changed my mind"})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)
}

func TestDecide_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	ctx := approverContext(t, "user-pm")
	_, err := svc.Decide(ctx, leave.DecideLeaveRequest{ID: "leave-missing", Status: "approved"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestList_FiltersByStatus(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	second := submitRequest()
	second.StartDate = "2026-04-06"
	second.EndDate = "2026-04-07"
	_, err = svc.Submit(context.Background(), second)
	require.NoError(t, err)

	ctx := approverContext(t, "user-pm")
	_, err = svc.Decide(ctx, leave.DecideLeaveRequest{ID: created.ID, Status: "approved"})
	require.NoError(t, err)

	status := string(leave.LeaveWaitingApproval)
	list, err := svc.List(context.Background(), leave.LeaveFilter{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.TotalCount)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, string(leave.LeaveWaitingApproval), list.Requests[0].Status)
}
