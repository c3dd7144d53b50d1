package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/buildform/siteops-backend-go/internal/domain/site"
	"github.com/buildform/siteops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SiteHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetByCode(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type SiteHandlerImpl struct {
	siteService site.SiteService
}

func NewSiteHandler(siteService site.SiteService) SiteHandler {
	return &SiteHandlerImpl{siteService: siteService}
}

// Create implements SiteHandler.
func (h *SiteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq site.CreateSiteRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create site decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.siteService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Create site service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Site created successfully", created)
}

// Get implements SiteHandler.
func (h *SiteHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.siteService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// GetByCode implements SiteHandler.
func (h *SiteHandlerImpl) GetByCode(w http.ResponseWriter, r *http.Request) {
	found, err := h.siteService.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Update implements SiteHandler.
func (h *SiteHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var updateReq site.UpdateSiteRequest

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update site decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	updateReq.ID = chi.URLParam(r, "id")

	updated, err := h.siteService.Update(r.Context(), updateReq)
	if err != nil {
		slog.Error("Update site service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Site updated successfully", updated)
}

// List implements SiteHandler.
func (h *SiteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sites, err := h.siteService.List(r.Context(), queryPtr(r, "status"))
	if err != nil {
		slog.Error("List sites service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, sites)
}
