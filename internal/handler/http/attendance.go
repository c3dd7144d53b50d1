package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/buildform/siteops-backend-go/internal/domain/attendance"
	"github.com/buildform/siteops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	SummaryBySite(w http.ResponseWriter, r *http.Request)
	SummaryByEmployee(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// queryPtr returns a pointer to the query value, or nil when absent.
func queryPtr(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var checkInReq attendance.CheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.CheckIn(r.Context(), checkInReq)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var checkOutReq attendance.CheckOutRequest

	if err := json.NewDecoder(r.Body).Decode(&checkOutReq); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.CheckOut(r.Context(), checkOutReq)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// Review implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var reviewReq attendance.ReviewRequest

	if err := json.NewDecoder(r.Body).Decode(&reviewReq); err != nil {
		slog.Error("Review decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	reviewReq.ID = chi.URLParam(r, "id")

	record, err := h.attendanceService.Review(r.Context(), reviewReq)
	if err != nil {
		slog.Error("Review service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance reviewed successfully", record)
}

// Get implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.attendanceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.AttendanceFilter{
		EmployeeID:     queryPtr(r, "employee_id"),
		ApprovalStatus: queryPtr(r, "approval_status"),
		Site:           queryPtr(r, "site"),
		Role:           queryPtr(r, "role"),
		StartDate:      queryPtr(r, "start_date"),
		EndDate:        queryPtr(r, "end_date"),
		Page:           queryInt(r, "page"),
		Limit:          queryInt(r, "limit"),
	}

	list, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		slog.Error("List attendance service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, list.Records, &response.Meta{
		Page:       list.Page,
		Limit:      list.Limit,
		TotalItems: list.TotalCount,
		TotalPages: list.TotalPages,
	})
}

// Status implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.attendanceService.Status(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// SummaryBySite implements AttendanceHandler.
func (h *AttendanceHandlerImpl) SummaryBySite(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")

	summary, err := h.attendanceService.SummarizeBySite(r.Context(), site, queryPtr(r, "start_date"), queryPtr(r, "end_date"))
	if err != nil {
		slog.Error("SummaryBySite service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// SummaryByEmployee implements AttendanceHandler.
func (h *AttendanceHandlerImpl) SummaryByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	summary, err := h.attendanceService.SummarizeByEmployee(r.Context(), employeeID, queryPtr(r, "start_date"), queryPtr(r, "end_date"))
	if err != nil {
		slog.Error("SummaryByEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
