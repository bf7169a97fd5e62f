package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/thednalab/catalog-sync/internal/model"
	"github.com/thednalab/catalog-sync/internal/platform/logger"
)

type SyncService interface {
	RunSync(ctx context.Context, dryRun bool, mode model.Mode) (*model.SyncReport, error)
}

type ValidatorService interface {
	ValidateByID(ctx context.Context, draftID int64) (*model.ValidationResult, error)
}

type PublisherService interface {
	Publish(ctx context.Context, draftID int64, opts model.PublishOptions) (*model.PublishResult, error)
	Unpublish(ctx context.Context, draftID int64) (*model.PublishResult, error)
	Plan(ctx context.Context, draftID int64, mode model.Mode) (*model.PublishPlan, error)
}

type handler struct {
	sync      SyncService
	validator ValidatorService
	publisher PublisherService
}

func NewSyncHandler(sync SyncService, validator ValidatorService, publisher PublisherService) *handler {
	return &handler{sync: sync, validator: validator, publisher: publisher}
}

func (h *handler) Register(r chi.Router) {
	r.Post("/sync", h.RunSync)
	r.Get("/drafts/{draftID}/validate", h.ValidateDraft)
	r.Get("/drafts/{draftID}/plan", h.PlanDraft)
	r.Post("/drafts/{draftID}/publish", h.PublishDraft)
	r.Post("/drafts/{draftID}/unpublish", h.UnpublishDraft)
}

func (h *handler) RunSync(w http.ResponseWriter, r *http.Request) {
	mode, err := model.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.sync.RunSync(r.Context(), boolParam(r, "dry_run"), mode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// A partially failed batch is still a completed batch: the report
	// carries the per-draft errors.
	writeJSON(w, r, http.StatusOK, report)
}

func (h *handler) ValidateDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.validator.ValidateByID(r.Context(), draftID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) PlanDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	mode, err := model.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := h.publisher.Plan(r.Context(), draftID, mode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, plan)
}

func (h *handler) PublishDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	opts := model.PublishOptions{
		Validate: boolParam(r, "validate"),
		Push:     boolParam(r, "push"),
	}

	res, err := h.publisher.Publish(r.Context(), draftID, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) UnpublishDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := draftIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.publisher.Unpublish(r.Context(), draftID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func draftIDParam(r *http.Request) (int64, error) {
	draftID, err := strconv.ParseInt(chi.URLParam(r, "draftID"), 10, 64)
	if err != nil || draftID <= 0 {
		return 0, model.ErrValidation
	}
	return draftID, nil
}

func boolParam(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

type errorResponse struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Issues  []model.Issue `json:"issues,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
			Code:    http.StatusUnprocessableEntity,
			Message: "VALIDATION_FAILED",
			Issues:  vErr.Issues,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrDraftNotFound),
		errors.Is(err, model.ErrBridgeMissing),
		errors.Is(err, model.ErrVariantNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrSourceUnavailable):
		status = http.StatusBadGateway
	}

	writeJSON(w, r, status, errorResponse{Code: status, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(r.Context(), "encode response", logger.ErrorF(err))
	}
}
