package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/buildform/siteops-backend-go/internal/domain/pettycash"
	"github.com/buildform/siteops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PettyCashHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Ledger(w http.ResponseWriter, r *http.Request)
}

type PettyCashHandlerImpl struct {
	pettyCashService pettycash.PettyCashService
}

func NewPettyCashHandler(pettyCashService pettycash.PettyCashService) PettyCashHandler {
	return &PettyCashHandlerImpl{pettyCashService: pettyCashService}
}

// Record implements PettyCashHandler.
func (h *PettyCashHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var recordReq pettycash.CreateEntryRequest

	if err := json.NewDecoder(r.Body).Decode(&recordReq); err != nil {
		slog.Error("Record petty cash decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	entry, err := h.pettyCashService.Record(r.Context(), recordReq)
	if err != nil {
		slog.Error("Record petty cash service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Petty cash entry recorded successfully", entry)
}

// Ledger implements PettyCashHandler.
func (h *PettyCashHandlerImpl) Ledger(w http.ResponseWriter, r *http.Request) {
	ledger, err := h.pettyCashService.Ledger(r.Context(), chi.URLParam(r, "siteCode"), queryInt(r, "limit"))
	if err != nil {
		slog.Error("Petty cash ledger service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, ledger)
}
