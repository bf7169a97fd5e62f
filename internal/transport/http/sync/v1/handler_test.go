package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thednalab/catalog-sync/internal/model"
	"github.com/thednalab/catalog-sync/internal/platform/logger"
)

const testSecret = "sync-secret"

type syncServiceMock struct{ mock.Mock }

func (m *syncServiceMock) RunSync(ctx context.Context, dryRun bool, mode model.Mode) (*model.SyncReport, error) {
	args := m.Called(ctx, dryRun, mode)

	var r0 *model.SyncReport
	if v := args.Get(0); v != nil {
		r0 = v.(*model.SyncReport)
	}
	return r0, args.Error(1)
}

type validatorServiceMock struct{ mock.Mock }

func (m *validatorServiceMock) ValidateByID(ctx context.Context, draftID int64) (*model.ValidationResult, error) {
	args := m.Called(ctx, draftID)

	var r0 *model.ValidationResult
	if v := args.Get(0); v != nil {
		r0 = v.(*model.ValidationResult)
	}
	return r0, args.Error(1)
}

type publisherServiceMock struct{ mock.Mock }

func (m *publisherServiceMock) Publish(ctx context.Context, draftID int64, opts model.PublishOptions) (*model.PublishResult, error) {
	args := m.Called(ctx, draftID, opts)

	var r0 *model.PublishResult
	if v := args.Get(0); v != nil {
		r0 = v.(*model.PublishResult)
	}
	return r0, args.Error(1)
}

func (m *publisherServiceMock) Unpublish(ctx context.Context, draftID int64) (*model.PublishResult, error) {
	args := m.Called(ctx, draftID)

	var r0 *model.PublishResult
	if v := args.Get(0); v != nil {
		r0 = v.(*model.PublishResult)
	}
	return r0, args.Error(1)
}

func (m *publisherServiceMock) Plan(ctx context.Context, draftID int64, mode model.Mode) (*model.PublishPlan, error) {
	args := m.Called(ctx, draftID, mode)

	var r0 *model.PublishPlan
	if v := args.Get(0); v != nil {
		r0 = v.(*model.PublishPlan)
	}
	return r0, args.Error(1)
}

type deps struct {
	sync      *syncServiceMock
	validator *validatorServiceMock
	publisher *publisherServiceMock
}

func newTestRouter(t *testing.T) (chi.Router, deps) {
	t.Helper()
	logger.SetNopLogger()

	d := deps{
		sync:      &syncServiceMock{},
		validator: &validatorServiceMock{},
		publisher: &publisherServiceMock{},
	}
	t.Cleanup(func() {
		d.sync.AssertExpectations(t)
		d.validator.AssertExpectations(t)
		d.publisher.AssertExpectations(t)
	})

	h := NewSyncHandler(d.sync, d.validator, d.publisher)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RequireSecret(testSecret))
		h.Register(r)
	})

	return r, d
}

func doRequest(r chi.Router, method, target, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if secret != "" {
		req.Header.Set("X-Sync-Secret", secret)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireSecret(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	t.Run("missing secret is unauthorized", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/sync", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/api/v1/sync?dry_run=1", "nope")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandlerRunSync(t *testing.T) {
	t.Parallel()

	t.Run("invalid mode is a bad request", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t)
		rec := doRequest(router, http.MethodPost, "/api/v1/sync?mode=clobber", testSecret)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("flags are parsed and the report returned", func(t *testing.T) {
		t.Parallel()

		router, d := newTestRouter(t)
		d.sync.On("RunSync", mock.Anything, true, model.ModeRestock).
			Return(&model.SyncReport{RunID: uuid.New(), DryRun: true, Mode: model.ModeRestock, Processed: 3, OK: true}, nil).
			Once()

		rec := doRequest(router, http.MethodPost, "/api/v1/sync?dry_run=1&mode=restock", testSecret)
		require.Equal(t, http.StatusOK, rec.Code)

		var report model.SyncReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, 3, report.Processed)
		assert.True(t, report.DryRun)
	})
}

func TestHandlerValidateDraft(t *testing.T) {
	t.Parallel()

	t.Run("non-numeric draft id is a bad request", func(t *testing.T) {
		t.Parallel()

		router, _ := newTestRouter(t)
		rec := doRequest(router, http.MethodGet, "/api/v1/drafts/abc/validate", testSecret)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown draft is not found", func(t *testing.T) {
		t.Parallel()

		router, d := newTestRouter(t)
		d.validator.On("ValidateByID", mock.Anything, int64(404)).
			Return(nil, model.ErrDraftNotFound).Once()

		rec := doRequest(router, http.MethodGet, "/api/v1/drafts/404/validate", testSecret)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("result passes through", func(t *testing.T) {
		t.Parallel()

		router, d := newTestRouter(t)
		d.validator.On("ValidateByID", mock.Anything, int64(42)).
			Return(&model.ValidationResult{DraftID: 42, CanPublish: true, Issues: []model.Issue{}}, nil).
			Once()

		rec := doRequest(router, http.MethodGet, "/api/v1/drafts/42/validate", testSecret)
		require.Equal(t, http.StatusOK, rec.Code)

		var res model.ValidationResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.True(t, res.CanPublish)
	})
}

func TestHandlerPublishDraft(t *testing.T) {
	t.Parallel()

	t.Run("query flags map to publish options", func(t *testing.T) {
		t.Parallel()

		router, d := newTestRouter(t)
		d.publisher.On("Publish", mock.Anything, int64(42), model.PublishOptions{Validate: true, Push: true}).
			Return(&model.PublishResult{DraftID: 42, State: model.PublishStatePublished, Pushed: true}, nil).
			Once()

		rec := doRequest(router, http.MethodPost, "/api/v1/drafts/42/publish?validate=1&push=true", testSecret)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refused publish returns 422 with the issue list", func(t *testing.T) {
		t.Parallel()

		router, d := newTestRouter(t)
		d.publisher.On("Publish", mock.Anything, int64(42), model.PublishOptions{Validate: true}).
			Return(nil, &model.ValidationError{Issues: []model.Issue{
				{Code: "TITLE_MISSING", Severity: model.SeverityHigh},
			}}).Once()

		rec := doRequest(router, http.MethodPost, "/api/v1/drafts/42/publish?validate=1", testSecret)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var body struct {
			Message string        `json:"message"`
			Issues  []model.Issue `json:"issues"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "VALIDATION_FAILED", body.Message)
		require.Len(t, body.Issues, 1)
		assert.Equal(t, "TITLE_MISSING", body.Issues[0].Code)
	})
}

func TestHandlerPlanDraft(t *testing.T) {
	t.Parallel()

	router, d := newTestRouter(t)
	d.publisher.On("Plan", mock.Anything, int64(42), model.ModeRestock).
		Return(&model.PublishPlan{DraftID: 42, Mode: model.ModeRestock, WillCreate: 2}, nil).
		Once()

	rec := doRequest(router, http.MethodGet, "/api/v1/drafts/42/plan?mode=restock", testSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	var plan model.PublishPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, 2, plan.WillCreate)
}

func TestHandlerUnpublishDraft(t *testing.T) {
	t.Parallel()

	router, d := newTestRouter(t)
	d.publisher.On("Unpublish", mock.Anything, int64(42)).
		Return(&model.PublishResult{DraftID: 42, State: model.PublishStateDraft}, nil).
		Once()

	rec := doRequest(router, http.MethodPost, "/api/v1/drafts/42/unpublish", testSecret)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.PublishResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, model.PublishStateDraft, res.State)
}
