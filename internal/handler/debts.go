package handler

import (
	"net/http"
	"time"

	"github.com/watshodapay/watshodapay-go/internal/middleware"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/service"
)

// DebtHandler handles HTTP requests for the caller's debts.
type DebtHandler struct {
	service *service.DebtService
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(svc *service.DebtService) *DebtHandler {
	return &DebtHandler{service: svc}
}

// HandleSummary handles GET /api/v1/me/debts requests.
func (h *DebtHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleCreate handles POST /api/v1/me/debts requests.
func (h *DebtHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req model.DebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.service.AddDebt(r.Context(), req.Input(userID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, model.NewDebtView(d, time.Now()))
}

// HandleGet handles GET /api/v1/me/debts/{id} requests.
func (h *DebtHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	d, err := h.service.GetDebt(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewDebtView(d, time.Now()))
}

// HandleUpdate handles PATCH /api/v1/me/debts/{id} requests.
func (h *DebtHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.DebtUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.service.UpdateDebt(r.Context(), userID, id, req.Patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.NewDebtView(d, time.Now()))
}
