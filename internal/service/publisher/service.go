package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/thednalab/catalog-sync/internal/model"
	"github.com/thednalab/catalog-sync/internal/normalizer"
	"github.com/thednalab/catalog-sync/internal/platform/logger"
)

type ContentSource interface {
	DraftByID(ctx context.Context, draftID int64) (model.Draft, error)
	SetPublishedAt(ctx context.Context, draftID int64, publishedAt *time.Time) error
}

type Validator interface {
	Validate(ctx context.Context, draft model.Draft) (*model.ValidationResult, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, draft model.Draft, rows []model.NormalizedSizeRow, mode model.Mode) (*model.ReconcileResult, error)
}

type BridgeRepository interface {
	UpdateProductStatus(ctx context.Context, externalID int64, status model.ProductStatus) error
	ProductByExternalID(ctx context.Context, externalID int64) (*model.BridgeProduct, error)
	VariantsByProductID(ctx context.Context, productID uuid.UUID) ([]*model.BridgeVariant, error)
}

type service struct {
	source     ContentSource
	validator  Validator
	reconciler Reconciler
	repo       BridgeRepository
}

func NewPublisherService(
	src ContentSource,
	validator Validator,
	reconciler Reconciler,
	repo BridgeRepository,
) *service {
	return &service{
		source:     src,
		validator:  validator,
		reconciler: reconciler,
		repo:       repo,
	}
}

// Publish drives a draft to PUBLISHED. With opts.Validate the publish
// gate applies and a failing draft is refused with the issue list. With
// opts.Push the bridge is reconciled (default mode) before the
// transition so it is current at the moment of publish.
func (svc *service) Publish(ctx context.Context, draftID int64, opts model.PublishOptions) (*model.PublishResult, error) {
	const op = "publisher.service.Publish"
	log := logger.With(
		logger.Int("draft_id", int(draftID)),
		logger.Bool("validate", opts.Validate),
		logger.Bool("push", opts.Push),
	)

	draft, err := svc.source.DraftByID(ctx, draftID)
	if err != nil {
		log.Error(ctx, "fetch draft", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if opts.Validate {
		res, verr := svc.validator.Validate(ctx, draft)
		if verr != nil {
			log.Error(ctx, "validate draft", logger.ErrorF(verr))
			return nil, fmt.Errorf("%s: %w", op, verr)
		}
		if !res.CanPublish {
			log.Warn(ctx, "publish refused", logger.Int("issues", len(res.Issues)))
			return nil, &model.ValidationError{Issues: res.Issues}
		}
	}

	result := &model.PublishResult{DraftID: draftID, State: model.PublishStatePublished}

	if opts.Push {
		rows, _ := normalizer.Normalize(draft)
		if _, perr := svc.reconciler.Reconcile(ctx, draft, rows, model.ModeDefault); perr != nil {
			log.Error(ctx, "push before publish", logger.ErrorF(perr))
			return nil, fmt.Errorf("%s push: %w", op, perr)
		}
		result.Pushed = true
	}

	if draft.IsPublished() {
		// Idempotent re-publish: no source mutation, but the bridge
		// status is still refreshed.
		result.AlreadyInIt = true
	} else {
		now := time.Now().UTC()
		if serr := svc.source.SetPublishedAt(ctx, draftID, &now); serr != nil {
			log.Error(ctx, "source publish write", logger.ErrorF(serr))
			return nil, fmt.Errorf("%s: %w", op, serr)
		}
	}

	svc.refreshBridgeStatus(ctx, log, draftID, model.ProductStatusActive, result)

	log.Info(ctx, "draft published", logger.Bool("bridge_stale", result.BridgeStale))
	return result, nil
}

// Unpublish clears the source publish timestamp and flips the bridge
// status back to draft.
func (svc *service) Unpublish(ctx context.Context, draftID int64) (*model.PublishResult, error) {
	const op = "publisher.service.Unpublish"
	log := logger.With(logger.Int("draft_id", int(draftID)))

	draft, err := svc.source.DraftByID(ctx, draftID)
	if err != nil {
		log.Error(ctx, "fetch draft", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &model.PublishResult{DraftID: draftID, State: model.PublishStateDraft}

	if !draft.IsPublished() {
		result.AlreadyInIt = true
	} else {
		if serr := svc.source.SetPublishedAt(ctx, draftID, nil); serr != nil {
			log.Error(ctx, "source unpublish write", logger.ErrorF(serr))
			return nil, fmt.Errorf("%s: %w", op, serr)
		}
	}

	svc.refreshBridgeStatus(ctx, log, draftID, model.ProductStatusDraft, result)

	log.Info(ctx, "draft unpublished", logger.Bool("bridge_stale", result.BridgeStale))
	return result, nil
}

// refreshBridgeStatus runs after the source transition. The two stores
// share no transaction, so a bridge failure here is a partial-success
// note, never a rollback of the source write.
func (svc *service) refreshBridgeStatus(
	ctx context.Context,
	log logger.Logger,
	draftID int64,
	status model.ProductStatus,
	result *model.PublishResult,
) {
	err := svc.repo.UpdateProductStatus(ctx, draftID, status)
	if err == nil {
		return
	}

	result.BridgeStale = true
	if errors.Is(err, model.ErrBridgeMissing) {
		result.Note = "source transitioned; no bridge product to update (push to create it)"
	} else {
		result.Note = "source transitioned; bridge status update failed: " + err.Error()
	}
	log.Warn(ctx, "bridge status refresh failed", logger.ErrorF(err))
}

// Plan computes what a live reconcile would do, without any write. It
// reuses the normalizer and the bridge reads only.
func (svc *service) Plan(ctx context.Context, draftID int64, mode model.Mode) (*model.PublishPlan, error) {
	const op = "publisher.service.Plan"
	log := logger.With(
		logger.Int("draft_id", int(draftID)),
		logger.String("mode", string(mode)),
	)

	draft, err := svc.source.DraftByID(ctx, draftID)
	if err != nil {
		log.Error(ctx, "fetch draft", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, skipped := normalizer.Normalize(draft)

	plan := &model.PublishPlan{
		DraftID:     draftID,
		Mode:        mode,
		RowsTotal:   len(rows) + skipped,
		RowsMapped:  len(rows),
		RowsSkipped: skipped,
		Media:       draft.Media(),
	}

	existing, err := svc.existingSizeIDs(ctx, draftID)
	if err != nil {
		log.Error(ctx, "bridge lookup", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, row := range rows {
		if _, ok := existing[row.ExternalSizeID]; ok {
			plan.WillUpdate++
		} else {
			plan.WillCreate++
		}
	}

	return plan, nil
}

func (svc *service) existingSizeIDs(ctx context.Context, draftID int64) (map[int64]struct{}, error) {
	product, err := svc.repo.ProductByExternalID(ctx, draftID)
	if err != nil {
		if errors.Is(err, model.ErrBridgeMissing) {
			return map[int64]struct{}{}, nil
		}
		return nil, err
	}

	variants, err := svc.repo.VariantsByProductID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	return lo.SliceToMap(variants, func(v *model.BridgeVariant) (int64, struct{}) {
		return v.ExternalSizeID, struct{}{}
	}), nil
}
