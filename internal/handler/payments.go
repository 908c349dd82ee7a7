package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/watshodapay/watshodapay-go/internal/export"
	"github.com/watshodapay/watshodapay-go/internal/middleware"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/repository"
	"github.com/watshodapay/watshodapay-go/internal/service"
)

// PaymentHandler handles HTTP requests for the caller's payments.
type PaymentHandler struct {
	service *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

// HandleList handles GET /api/v1/me/payments?year=&month= requests.
func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	year, month, ok := periodQuery(w, r)
	if !ok {
		return
	}
	year, month, err := h.service.Period(year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.GenerateResponse{Year: year, Month: month, Payments: payments})
}

// generateConflict answers a batch that skipped already generated debts
// with the payments it did create.
type generateConflict struct {
	Error string `json:"error"`
	model.GenerateResponse
}

// HandleCreate handles POST /api/v1/me/payments requests, either one
// single payment or the month batch.
func (h *PaymentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req model.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	year, month, err := h.service.Period(req.Year, req.Month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req.Year, req.Month = year, month

	payments, err := h.service.CreatePayment(r.Context(), userID, req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, model.GenerateResponse{Year: year, Month: month, Payments: payments})
	case !req.Single && repository.IsAlreadyExists(err):
		writeJSON(w, http.StatusConflict, generateConflict{
			Error:            "already exists",
			GenerateResponse: model.GenerateResponse{Year: year, Month: month, Payments: payments},
		})
	default:
		writeError(w, r, err)
	}
}

// HandleGet handles GET /api/v1/me/payments/{id} requests.
func (h *PaymentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetPayment(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdate handles PATCH /api/v1/me/payments/{id} requests.
func (h *PaymentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req model.PaymentUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.UpdatePayment(r.Context(), userID, id, req.Patch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleExport handles GET /api/v1/me/payments/export?year=&month= requests.
func (h *PaymentHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	year, month, ok := periodQuery(w, r)
	if !ok {
		return
	}
	year, month, err := h.service.Period(year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), userID, year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.PaymentsXLSX(&buf, year, month, payments); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(year, month)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
