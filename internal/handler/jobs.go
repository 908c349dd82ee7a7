package handler

import (
	"errors"
	"net/http"

	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/service"
)

// Job names shared by the HTTP triggers, the scheduler and the CLI.
const (
	JobResetPayed    = "reset-payed"
	JobCheckExpiring = "check-expiring"
)

// JobHandler exposes the maintenance jobs to an external scheduler.
type JobHandler struct {
	service *service.MaintenanceService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc *service.MaintenanceService) *JobHandler {
	return &JobHandler{service: svc}
}

// HandleResetPayed handles POST /api/v1/jobs/reset-payed requests.
func (h *JobHandler) HandleResetPayed(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ResetPayedStatus(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.JobResponse{Job: JobResetPayed, Affected: n})
}

// HandleCheckExpiring handles POST /api/v1/jobs/check-expiring requests.
// Per-user delivery failures are logged; the count of sent reminders is
// still returned.
func (h *JobHandler) HandleCheckExpiring(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CheckExpiringDebts(r.Context())
	if err != nil {
		if !errors.Is(err, service.ErrNotificationFailed) {
			writeError(w, r, err)
			return
		}
		logger.From(r.Context()).Warn("some reminders failed", logger.Job(JobCheckExpiring), logger.Err(err))
	}
	writeJSON(w, http.StatusOK, model.JobResponse{Job: JobCheckExpiring, Affected: int64(n)})
}
