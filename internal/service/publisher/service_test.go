package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thednalab/catalog-sync/internal/model"
	"github.com/thednalab/catalog-sync/internal/platform/logger"
	"github.com/thednalab/catalog-sync/internal/service/mocks"
)

func publishableDraft(published bool) model.Draft {
	d := model.Draft{
		"id":   float64(42),
		"name": "Anchor Tee",
		"slug": "anchor-tee",
		"variants": []any{
			map[string]any{
				"id":         float64(7),
				"color_name": "Black",
				"sizes": []any{
					map[string]any{
						"id":             float64(71),
						"size_name":      "M",
						"stock_quantity": float64(10),
					},
					map[string]any{
						"id":             float64(72),
						"size_name":      "L",
						"stock_quantity": float64(4),
					},
				},
			},
		},
	}
	if published {
		d["publishedAt"] = "2026-01-10T10:00:00Z"
	}
	return d
}

func TestServicePublish(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	type deps struct {
		source     *mocks.MockContentSource
		validator  *mocks.MockValidator
		reconciler *mocks.MockReconciler
		repo       *mocks.MockBridgeRepository
	}

	type testCase struct {
		name   string
		opts   model.PublishOptions
		setup  func(d deps)
		assert func(t *testing.T, res *model.PublishResult, err error, d deps)
	}

	tests := []testCase{
		{
			name: "source failure aborts before anything else",
			setup: func(d deps) {
				d.source.On("DraftByID", mock.Anything, int64(42)).
					Return(nil, model.ErrDraftNotFound).Once()
			},
			assert: func(t *testing.T, res *model.PublishResult, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrDraftNotFound)
				assert.Nil(t, res)
			},
		},
		{
			name: "failing gate refuses the publish with the issue list",
			opts: model.PublishOptions{Validate: true},
			setup: func(d deps) {
				d.source.On("DraftByID", mock.Anything, int64(42)).
					Return(publishableDraft(false), nil).Once()
				d.validator.On("Validate", mock.Anything, mock.Anything).
					Return(&model.ValidationResult{
						DraftID:    42,
						CanPublish: false,
						Issues: []model.Issue{
							{Code: "TITLE_MISSING", Severity: model.SeverityHigh},
						},
					}, nil).Once()
			},
			assert: func(t *testing.T, res *model.PublishResult, err error, d deps) {
				require.Error(t, err)
				assert.Nil(t, res)

				var verr *model.ValidationError
				require.ErrorAs(t, err, &verr)
				require.Len(t, verr.Issues, 1)
				assert.Equal(t, "TITLE_MISSING", verr.Issues[0].Code)

				d.source.AssertNotCalled(t, "SetPublishedAt", mock.Anything, mock.Anything, mock.Anything)
				d.repo.AssertNotCalled(t, "UpdateProductStatus", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "publish stamps the source and refreshes the bridge",
			setup: func(d deps) {
				d.source.On("DraftByID", mock.Anything, int64(42)).
					Return(publishableDraft(false), nil).Once()
				d.source.On("SetPublishedAt", mock.Anything, int64(42), mock.MatchedBy(func(ts *time.Time) bool {
					return ts != nil && !ts.IsZero()
				})).Return(nil).Once()
				d.repo.On("UpdateProductStatus", mock.Anything, int64(42), model.ProductStatusActive).
					Return(nil).Once()
			},
			assert: func(t *testing.T, res *model.PublishResult, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, model.PublishStatePublished, res.State)
				assert.False(t, res.AlreadyInIt)
				assert.False(t, res.Pushed)
				assert.False(t, res.BridgeStale)
			},
		},
		{
			name: "push reconciles in default mode before the transition",
			opts: model.PublishOptions{Push: true},
			setup: func(d deps) {
				d.source.On("DraftByID", mock.Anything, int64(42)).
					Return(publishableDraft(false), nil).Once()
				d.reconciler.On("Reconcile", mock.Anything, mock.Anything,
					mock.MatchedBy(func(rows []model.NormalizedSizeRow) bool {
						return len(rows) == 2
					}), model.ModeDefault).
					Return(&model.ReconcileResult{SizesCount: 2}, nil).Once()
				d.source.On("SetPublishedAt", mock.Anything, int64(42), mock.Anything).
					Return(nil).Once()
				d.repo.On("UpdateProductStatus", mock.Anything, int64(42), model.ProductStatusActive).
					Return(nil).Once()
			},
			assert: func(t *testing.T, res *model.PublishResult, err error, d deps) {
				require.NoError(t, err)
				assert.True(t, res.Pushed)
			},
		},
		{
			name: "push failure aborts before the source transition",
			opts: model.PublishOptions{Push: true},
			setup: func(d deps) {
				d.source.On("DraftByID", mock.Anything, int64(42)).
					Return(publishableDraft(false), nil).Once()
				d.reconciler.On("Reconcile", mock.Anything, mock.Anything, mock.Anything, model.ModeDefault).
					Return(nil, errors.New("db write failed")).Once()
			},
			assert: func(t *testing.T, res *model.PublishResult, err error, d deps) {
				require.Error(t, err)
				assert.Nil(t, res)

				d.source.AssertNotCalled(t, "SetPublishedAt", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "re-publish is idempotent but still refreshes the bridge",
			setup: func(d deps) {
				d.source.On("DraftByID", mock.Anything, int64(42)).
					Return(publishableDraft(true), nil).Once()
				d.repo.On("UpdateProductStatus", mock.Anything, int64(42), model.ProductStatusActive).
					Return(nil).Once()
			},
			assert: func(t *testing.T, res *model.PublishResult, err error, d deps) {
				require.NoError(t, err)
				assert.True(t, res.AlreadyInIt)

				d.source.AssertNotCalled(t, "SetPublishedAt", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "bridge failure after the transition is a note, not an error",
			setup: func(d deps) {
				d.source.On("DraftByID", mock.Anything, int64(42)).
					Return(publishableDraft(false), nil).Once()
				d.source.On("SetPublishedAt", mock.Anything, int64(42), mock.Anything).
					Return(nil).Once()
				d.repo.On("UpdateProductStatus", mock.Anything, int64(42), model.ProductStatusActive).
					Return(model.ErrBridgeMissing).Once()
			},
			assert: func(t *testing.T, res *model.PublishResult, err error, d deps) {
				require.NoError(t, err)
				require.NotNil(t, res)
				assert.Equal(t, model.PublishStatePublished, res.State)
				assert.True(t, res.BridgeStale)
				assert.NotEmpty(t, res.Note)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := deps{
				source:     mocks.NewMockContentSource(t),
				validator:  mocks.NewMockValidator(t),
				reconciler: mocks.NewMockReconciler(t),
				repo:       mocks.NewMockBridgeRepository(t),
			}
			if tt.setup != nil {
				tt.setup(d)
			}

			svc := NewPublisherService(d.source, d.validator, d.reconciler, d.repo)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			res, err := svc.Publish(ctx, 42, tt.opts)
			tt.assert(t, res, err, d)
		})
	}
}

func TestServiceUnpublish(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	newSvc := func(t *testing.T, src *mocks.MockContentSource, repo *mocks.MockBridgeRepository) *service {
		return NewPublisherService(src, mocks.NewMockValidator(t), mocks.NewMockReconciler(t), repo)
	}

	t.Run("clears the source timestamp and flips the bridge back", func(t *testing.T) {
		t.Parallel()

		src := mocks.NewMockContentSource(t)
		repo := mocks.NewMockBridgeRepository(t)
		src.On("DraftByID", mock.Anything, int64(42)).
			Return(publishableDraft(true), nil).Once()
		src.On("SetPublishedAt", mock.Anything, int64(42), (*time.Time)(nil)).
			Return(nil).Once()
		repo.On("UpdateProductStatus", mock.Anything, int64(42), model.ProductStatusDraft).
			Return(nil).Once()

		res, err := newSvc(t, src, repo).Unpublish(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, model.PublishStateDraft, res.State)
		assert.False(t, res.AlreadyInIt)
	})

	t.Run("already unpublished draft is a no-op on the source", func(t *testing.T) {
		t.Parallel()

		src := mocks.NewMockContentSource(t)
		repo := mocks.NewMockBridgeRepository(t)
		src.On("DraftByID", mock.Anything, int64(42)).
			Return(publishableDraft(false), nil).Once()
		repo.On("UpdateProductStatus", mock.Anything, int64(42), model.ProductStatusDraft).
			Return(nil).Once()

		res, err := newSvc(t, src, repo).Unpublish(context.Background(), 42)
		require.NoError(t, err)
		assert.True(t, res.AlreadyInIt)

		src.AssertNotCalled(t, "SetPublishedAt", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServicePlan(t *testing.T) {
	t.Parallel()
	logger.SetNopLogger()

	productID := uuid.New()

	t.Run("splits rows into creates and updates", func(t *testing.T) {
		t.Parallel()

		src := mocks.NewMockContentSource(t)
		repo := mocks.NewMockBridgeRepository(t)
		src.On("DraftByID", mock.Anything, int64(42)).
			Return(publishableDraft(false), nil).Once()
		repo.On("ProductByExternalID", mock.Anything, int64(42)).
			Return(&model.BridgeProduct{ID: productID, ExternalID: 42}, nil).Once()
		repo.On("VariantsByProductID", mock.Anything, productID).
			Return([]*model.BridgeVariant{{ExternalSizeID: 71}}, nil).Once()

		svc := NewPublisherService(src, mocks.NewMockValidator(t), mocks.NewMockReconciler(t), repo)

		plan, err := svc.Plan(context.Background(), 42, model.ModeDefault)
		require.NoError(t, err)
		assert.Equal(t, 2, plan.RowsTotal)
		assert.Equal(t, 2, plan.RowsMapped)
		assert.Equal(t, 0, plan.RowsSkipped)
		assert.Equal(t, 1, plan.WillUpdate)
		assert.Equal(t, 1, plan.WillCreate)
	})

	t.Run("missing bridge product plans everything as a create", func(t *testing.T) {
		t.Parallel()

		src := mocks.NewMockContentSource(t)
		repo := mocks.NewMockBridgeRepository(t)
		src.On("DraftByID", mock.Anything, int64(42)).
			Return(publishableDraft(false), nil).Once()
		repo.On("ProductByExternalID", mock.Anything, int64(42)).
			Return(nil, model.ErrBridgeMissing).Once()

		svc := NewPublisherService(src, mocks.NewMockValidator(t), mocks.NewMockReconciler(t), repo)

		plan, err := svc.Plan(context.Background(), 42, model.ModeRestock)
		require.NoError(t, err)
		assert.Equal(t, model.ModeRestock, plan.Mode)
		assert.Equal(t, 2, plan.WillCreate)
		assert.Equal(t, 0, plan.WillUpdate)
	})
}
