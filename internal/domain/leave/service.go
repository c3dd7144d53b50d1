package leave

import "context"

type LeaveService interface {
	// Submit files a leave request after checking for overlapping requests.
	Submit(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)

	// Decide applies an approver's decision. The decision is terminal.
	Decide(ctx context.Context, req DecideLeaveRequest) (LeaveResponse, error)

	Get(ctx context.Context, id string) (LeaveResponse, error)
	List(ctx context.Context, filter LeaveFilter) (ListLeaveResponse, error)
}
