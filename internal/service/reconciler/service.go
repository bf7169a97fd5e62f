package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thednalab/catalog-sync/internal/converter"
	"github.com/thednalab/catalog-sync/internal/model"
	"github.com/thednalab/catalog-sync/internal/normalizer"
	"github.com/thednalab/catalog-sync/internal/platform/logger"
)

type BridgeRepository interface {
	UpsertProduct(ctx context.Context, p *model.BridgeProduct) (uuid.UUID, error)
	VariantByExternalSizeID(ctx context.Context, externalSizeID int64) (*model.BridgeVariant, error)
	CreateVariant(ctx context.Context, v *model.BridgeVariant) (uuid.UUID, error)
	UpdateVariantDescriptive(ctx context.Context, v *model.BridgeVariant) error
	RaiseVariantStock(ctx context.Context, externalSizeID int64, target int64) error
	UpsertPrice(ctx context.Context, p *model.BridgePrice) error
}

// DraftCursor is a lazy draft sequence; satisfied by the source
// client's cursor.
type DraftCursor interface {
	Next(ctx context.Context) bool
	Draft() model.Draft
	Err() error
}

type DraftSource interface {
	Drafts() DraftCursor
}

type service struct {
	repo            BridgeRepository
	source          DraftSource
	defaultCurrency string
	writeDBTimeout  time.Duration
}

func NewReconcilerService(
	repo BridgeRepository,
	src DraftSource,
	defaultCurrency string,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:            repo,
		source:          src,
		defaultCurrency: defaultCurrency,
		writeDBTimeout:  writeDBTimeout,
	}
}

// Reconcile upserts one draft's bridge rows. The draft is the atomicity
// boundary: a failed size row is recorded and the rest still commit.
func (svc *service) Reconcile(
	ctx context.Context,
	draft model.Draft,
	rows []model.NormalizedSizeRow,
	mode model.Mode,
) (*model.ReconcileResult, error) {
	const op = "reconciler.service.Reconcile"
	log := logger.With(
		logger.Int("draft_id", int(draft.ID())),
		logger.String("mode", string(mode)),
	)

	if draft.ID() == 0 {
		log.Error(ctx, "draft without id")
		return nil, fmt.Errorf("%s: %w: draft has no id", op, model.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	productID, err := svc.repo.UpsertProduct(ctx, converter.DraftToBridgeProduct(draft))
	if err != nil {
		log.Error(ctx, "upsert bridge product", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	currency := svc.draftCurrency(draft)

	res := &model.ReconcileResult{ProductID: productID}
	for _, row := range rows {
		if err := svc.reconcileRow(ctx, productID, row, mode, currency); err != nil {
			log.Warn(ctx, "size row failed",
				logger.Int("external_size_id", int(row.ExternalSizeID)),
				logger.ErrorF(err),
			)
			res.RowErrors = append(res.RowErrors, model.RowError{
				ExternalSizeID: row.ExternalSizeID,
				Message:        err.Error(),
			})
			continue
		}
		res.SizesCount++
	}

	return res, nil
}

func (svc *service) reconcileRow(
	ctx context.Context,
	productID uuid.UUID,
	row model.NormalizedSizeRow,
	mode model.Mode,
	currency string,
) error {
	variantID, err := svc.upsertVariant(ctx, productID, row, mode)
	if err != nil {
		return err
	}

	price := converter.SizeRowToBridgePrice(row, currency)
	if price == nil {
		return nil
	}
	price.VariantID = variantID

	return svc.repo.UpsertPrice(ctx, price)
}

func (svc *service) upsertVariant(
	ctx context.Context,
	productID uuid.UUID,
	row model.NormalizedSizeRow,
	mode model.Mode,
) (uuid.UUID, error) {
	existing, err := svc.repo.VariantByExternalSizeID(ctx, row.ExternalSizeID)
	if err != nil && !errors.Is(err, model.ErrVariantNotFound) {
		return uuid.Nil, err
	}

	if existing == nil {
		// Create path: the one moment the sync engine may seed live
		// stock. Reserved always starts at zero.
		v := converter.SizeRowToBridgeVariant(row)
		v.ProductID = productID
		v.InitialStock = row.Stock
		v.StockAvailable = row.Stock
		v.StockReserved = 0
		return svc.repo.CreateVariant(ctx, v)
	}

	// Update path: descriptive fields and the diagnostic mirror only.
	// stock_available/stock_reserved belong to the order subsystem.
	v := converter.SizeRowToBridgeVariant(row)
	v.ProductID = productID
	if err := svc.repo.UpdateVariantDescriptive(ctx, v); err != nil {
		return uuid.Nil, err
	}

	if mode == model.ModeRestock {
		if err := svc.applyRestock(ctx, existing, row.Stock); err != nil {
			return uuid.Nil, err
		}
	}

	return existing.ID, nil
}

// applyRestock raises stock toward the source value. Regressions are
// never applied from a sync: a loss goes through an explicit inventory
// adjustment, not a content edit.
func (svc *service) applyRestock(ctx context.Context, v *model.BridgeVariant, target int64) error {
	current := v.StockAvailable

	switch {
	case target > current:
		if err := svc.repo.RaiseVariantStock(ctx, v.ExternalSizeID, target); err != nil {
			return err
		}
		logger.Info(ctx, "restock applied",
			logger.Int("external_size_id", int(v.ExternalSizeID)),
			logger.Int("from", int(current)),
			logger.Int("to", int(target)),
		)
	case target < current:
		logger.Warn(ctx, "stock regression ignored",
			logger.Int("external_size_id", int(v.ExternalSizeID)),
			logger.Int("current", int(current)),
			logger.Int("target", int(target)),
		)
	}
	// target == current: nothing to restock.

	return nil
}

// RunSync is the best-effort batch runner: sequential over drafts, one
// draft's failure is recorded and never stops the rest. A fetch failure
// aborts the batch; drafts already reconciled stay committed.
func (svc *service) RunSync(ctx context.Context, dryRun bool, mode model.Mode) (*model.SyncReport, error) {
	const op = "reconciler.service.RunSync"

	report := &model.SyncReport{
		RunID:  uuid.New(),
		DryRun: dryRun,
		Mode:   mode,
		Errors: []model.SyncError{},
	}

	log := logger.With(
		logger.String("run_id", report.RunID.String()),
		logger.String("mode", string(mode)),
		logger.Bool("dry_run", dryRun),
	)
	log.Info(ctx, "sync started")

	cur := svc.source.Drafts()
	for cur.Next(ctx) {
		draft := cur.Draft()

		rows, skipped := normalizer.Normalize(draft)
		report.SkippedRows += skipped

		if dryRun {
			report.Processed++
			report.VariantTotal += len(rows)
			continue
		}

		res, err := svc.Reconcile(ctx, draft, rows, mode)
		if err != nil {
			report.Errors = append(report.Errors, model.SyncError{
				DraftID: draft.ID(),
				Message: err.Error(),
			})
			continue
		}

		// A draft with failed rows is still committed, but the operator
		// needs to see it without re-running the batch.
		if len(res.RowErrors) > 0 {
			report.Errors = append(report.Errors, model.SyncError{
				DraftID: draft.ID(),
				Message: fmt.Sprintf("%d size row(s) failed", len(res.RowErrors)),
			})
		}

		report.Processed++
		report.VariantTotal += res.SizesCount
	}
	if err := cur.Err(); err != nil {
		log.Error(ctx, "draft fetch failed", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	report.OK = len(report.Errors) == 0
	log.Info(ctx, "sync finished",
		logger.Int("processed", report.Processed),
		logger.Int("variant_total", report.VariantTotal),
		logger.Int("skipped_rows", report.SkippedRows),
		logger.Int("errors", len(report.Errors)),
	)

	return report, nil
}

func (svc *service) draftCurrency(draft model.Draft) string {
	if currency, ok := draft.Currency(); ok && currency != "" {
		return currency
	}
	return svc.defaultCurrency
}
