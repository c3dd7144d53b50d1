package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/buildform/siteops-backend-go/internal/domain/leave"
	"github.com/buildform/siteops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// Submit implements LeaveHandler.
func (h *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var submitReq leave.CreateLeaveRequest

	if err := json.NewDecoder(r.Body).Decode(&submitReq); err != nil {
		slog.Error("Submit leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.leaveService.Submit(r.Context(), submitReq)
	if err != nil {
		slog.Error("Submit leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// Decide implements LeaveHandler.
func (h *LeaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var decideReq leave.DecideLeaveRequest

	if err := json.NewDecoder(r.Body).Decode(&decideReq); err != nil {
		slog.Error("Decide leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	decideReq.ID = chi.URLParam(r, "id")

	decided, err := h.leaveService.Decide(r.Context(), decideReq)
	if err != nil {
		slog.Error("Decide leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request decided successfully", decided)
}

// Get implements LeaveHandler.
func (h *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		Status:     queryPtr(r, "status"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	list, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List leave service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Requests, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
	})
}
