package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/buildform/siteops-backend-go/internal/domain/material"
	"github.com/buildform/siteops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MaterialHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListBySite(w http.ResponseWriter, r *http.Request)
	RecordMovement(w http.ResponseWriter, r *http.Request)
	ListMovements(w http.ResponseWriter, r *http.Request)
}

type MaterialHandlerImpl struct {
	materialService material.MaterialService
}

func NewMaterialHandler(materialService material.MaterialService) MaterialHandler {
	return &MaterialHandlerImpl{materialService: materialService}
}

// Create implements MaterialHandler.
func (h *MaterialHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq material.CreateMaterialRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create material decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.materialService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Create material service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Material created successfully", created)
}

// Get implements MaterialHandler.
func (h *MaterialHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.materialService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// ListBySite implements MaterialHandler.
func (h *MaterialHandlerImpl) ListBySite(w http.ResponseWriter, r *http.Request) {
	materials, err := h.materialService.ListBySite(r.Context(), chi.URLParam(r, "siteCode"))
	if err != nil {
		slog.Error("List materials service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, materials)
}

// RecordMovement implements MaterialHandler.
func (h *MaterialHandlerImpl) RecordMovement(w http.ResponseWriter, r *http.Request) {
	var movementReq material.RecordMovementRequest

	if err := json.NewDecoder(r.Body).Decode(&movementReq); err != nil {
		slog.Error("Record movement decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	movementReq.MaterialID = chi.URLParam(r, "id")

	movement, err := h.materialService.RecordMovement(r.Context(), movementReq)
	if err != nil {
		slog.Error("Record movement service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Stock movement recorded successfully", movement)
}

// ListMovements implements MaterialHandler.
func (h *MaterialHandlerImpl) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.materialService.ListMovements(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit"))
	if err != nil {
		slog.Error("List movements service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, movements)
}
