package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/thednalab/catalog-sync/internal/model"
	"github.com/thednalab/catalog-sync/internal/normalizer"
	"github.com/thednalab/catalog-sync/internal/platform/logger"
)

type BridgeReader interface {
	ProductByExternalID(ctx context.Context, externalID int64) (*model.BridgeProduct, error)
	VariantsByProductID(ctx context.Context, productID uuid.UUID) ([]*model.BridgeVariant, error)
	PricesByProductID(ctx context.Context, productID uuid.UUID) ([]*model.BridgePrice, error)
}

type DraftProvider interface {
	DraftByID(ctx context.Context, draftID int64) (model.Draft, error)
}

type service struct {
	repo          BridgeReader
	source        DraftProvider
	readDBTimeout time.Duration
}

func NewValidatorService(repo BridgeReader, src DraftProvider, readDBTimeout time.Duration) *service {
	return &service{repo: repo, source: src, readDBTimeout: readDBTimeout}
}

// ValidateByID fetches the draft from the source and validates it.
func (svc *service) ValidateByID(ctx context.Context, draftID int64) (*model.ValidationResult, error) {
	const op = "validator.service.ValidateByID"

	draft, err := svc.source.DraftByID(ctx, draftID)
	if err != nil {
		logger.Error(ctx, "fetch draft",
			logger.Int("draft_id", int(draftID)),
			logger.ErrorF(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return svc.Validate(ctx, draft)
}

// Validate runs the fixed rule set over a draft. Issues come back in
// rule order; CanPublish holds iff none is high severity. Every caller
// that gates a publish goes through this method, there is no second
// implementation of the gate.
func (svc *service) Validate(ctx context.Context, draft model.Draft) (*model.ValidationResult, error) {
	const op = "validator.service.Validate"
	log := logger.With(logger.Int("draft_id", int(draft.ID())))

	if draft.ID() == 0 {
		log.Error(ctx, "draft without id")
		return nil, fmt.Errorf("%s: %w: draft has no id", op, model.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	var issues []model.Issue
	issues = append(issues, checkIdentity(draft)...)
	issues = append(issues, checkMedia(draft)...)
	issues = append(issues, checkPricing(draft)...)
	issues = append(issues, checkTaxonomy(draft)...)
	issues = append(issues, checkVariants(draft)...)

	crossIssues, err := svc.checkBridge(ctx, draft)
	if err != nil {
		log.Error(ctx, "bridge lookup", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	issues = append(issues, crossIssues...)

	result := &model.ValidationResult{
		DraftID: draft.ID(),
		Issues:  issues,
		CanPublish: lo.NoneBy(issues, func(i model.Issue) bool {
			return i.Severity == model.SeverityHigh
		}),
	}

	log.Info(ctx, "draft validated",
		logger.Int("issues", len(issues)),
		logger.Bool("can_publish", result.CanPublish),
	)

	return result, nil
}

func checkIdentity(draft model.Draft) []model.Issue {
	var issues []model.Issue
	if draft.Title() == "" {
		issues = append(issues, model.Issue{
			Code:     "TITLE_MISSING",
			Severity: model.SeverityHigh,
			Message:  "product has no resolvable title",
		})
	}
	if draft.Slug() == "" {
		issues = append(issues, model.Issue{
			Code:     "SLUG_MISSING",
			Severity: model.SeverityHigh,
			Message:  "product has no resolvable slug",
		})
	}
	return issues
}

func checkMedia(draft model.Draft) []model.Issue {
	if draft.Media().Thumbnail != "" {
		return nil
	}
	return []model.Issue{{
		Code:     "THUMBNAIL_MISSING",
		Severity: model.SeverityMedium,
		Message:  "no thumbnail derivable from media relations",
	}}
}

// checkPricing treats an absent field as an advisory, not an error: the
// source schema varies and a key that does not exist on this draft is
// not a violation.
func checkPricing(draft model.Draft) []model.Issue {
	var issues []model.Issue

	if draft.HasPriceField() {
		price, _ := draft.Price()
		if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
			issues = append(issues, model.Issue{
				Code:     "PRICE_INVALID",
				Severity: model.SeverityHigh,
				Message:  "selling price must be a finite positive number",
				Meta:     map[string]any{"price": price},
			})
		}
	} else {
		issues = append(issues, model.Issue{
			Code:     "PRICE_UNSET",
			Severity: model.SeverityMedium,
			Message:  "no selling price field on the draft",
		})
	}

	if currency, present := draft.Currency(); present {
		if currency == "" {
			issues = append(issues, model.Issue{
				Code:     "CURRENCY_INVALID",
				Severity: model.SeverityMedium,
				Message:  "currency field present but empty",
			})
		}
	} else {
		issues = append(issues, model.Issue{
			Code:     "CURRENCY_UNSET",
			Severity: model.SeverityMedium,
			Message:  "no currency field on the draft",
		})
	}

	return issues
}

func checkTaxonomy(draft model.Draft) []model.Issue {
	if len(draft.Categories()) > 0 {
		return nil
	}
	return []model.Issue{{
		Code:     "CATEGORY_EMPTY",
		Severity: model.SeverityLow,
		Message:  "product is not linked to any category",
	}}
}

func checkVariants(draft model.Draft) []model.Issue {
	var issues []model.Issue

	for _, variant := range draft.Variants() {
		sizes := variant.Sizes()
		if len(sizes) == 0 {
			issues = append(issues, model.Issue{
				Code:     "VARIANT_NO_SIZES",
				Severity: model.SeverityMedium,
				Message:  "variant has an empty size list",
				Meta:     map[string]any{"variant_id": variant.ID()},
			})
			continue
		}

		for _, size := range sizes {
			sizeID, _ := size.SizeID()
			if !size.Active() {
				issues = append(issues, model.Issue{
					Code:     "SIZE_INACTIVE",
					Severity: model.SeverityLow,
					Message:  "size is flagged inactive",
					Meta:     map[string]any{"size_id": sizeID},
				})
			}
			if size.HasSKUField() && size.SKU() == "" {
				issues = append(issues, model.Issue{
					Code:     "SKU_MISSING",
					Severity: model.SeverityMedium,
					Message:  "size has an SKU field but no value",
					Meta:     map[string]any{"size_id": sizeID},
				})
			}
		}
	}

	return issues
}

func (svc *service) checkBridge(ctx context.Context, draft model.Draft) ([]model.Issue, error) {
	product, err := svc.repo.ProductByExternalID(ctx, draft.ID())
	if err != nil {
		if errors.Is(err, model.ErrBridgeMissing) {
			// Reported, not auto-created: pushing the bridge is an
			// explicit action, not a validation side effect.
			return []model.Issue{{
				Code:     "BRIDGE_MISSING",
				Severity: model.SeverityHigh,
				Message:  "no bridge product for this draft; run a sync or push first",
			}}, nil
		}
		return nil, err
	}

	var issues []model.Issue

	if draft.Slug() != "" && product.Slug != draft.Slug() {
		issues = append(issues, model.Issue{
			Code:     "SLUG_MISMATCH",
			Severity: model.SeverityHigh,
			Message:  "draft slug differs from the bridge slug",
			Meta:     map[string]any{"draft": draft.Slug(), "bridge": product.Slug},
		})
	}

	variants, err := svc.repo.VariantsByProductID(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	mapped := lo.SliceToMap(variants, func(v *model.BridgeVariant) (int64, struct{}) {
		return v.ExternalSizeID, struct{}{}
	})
	for _, sizeID := range normalizer.MappedSizeIDs(draft) {
		if _, ok := mapped[sizeID]; !ok {
			issues = append(issues, model.Issue{
				Code:     "VARIANT_MAPPING_MISSING",
				Severity: model.SeverityHigh,
				Message:  "draft size has no bridge variant",
				Meta:     map[string]any{"size_id": sizeID},
			})
		}
	}

	priceIssues, err := svc.checkBridgePrices(ctx, draft, product.ID)
	if err != nil {
		return nil, err
	}
	issues = append(issues, priceIssues...)

	// Advisory only: live stock is owned by the order subsystem and is
	// expected to drift from the source's declared total.
	if declared, ok := draft.TotalStock(); ok {
		available := lo.SumBy(variants, func(v *model.BridgeVariant) int64 {
			return v.StockAvailable
		})
		if declared != available {
			issues = append(issues, model.Issue{
				Code:     "STOCK_TOTAL_MISMATCH",
				Severity: model.SeverityLow,
				Message:  "draft stock total differs from bridge available stock",
				Meta:     map[string]any{"draft": declared, "bridge": available},
			})
		}
	}

	return issues, nil
}

func (svc *service) checkBridgePrices(ctx context.Context, draft model.Draft, productID uuid.UUID) ([]model.Issue, error) {
	draftPrice, present := draft.Price()
	if !present || draftPrice <= 0 {
		return nil, nil
	}

	prices, err := svc.repo.PricesByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	want := decimal.NewFromFloat(draftPrice)
	for _, p := range prices {
		if !p.Amount.Equal(want) {
			return []model.Issue{{
				Code:     "PRICE_MISMATCH",
				Severity: model.SeverityMedium,
				Message:  "bridge price differs from the draft price",
				Meta: map[string]any{
					"draft":    want.String(),
					"bridge":   p.Amount.String(),
					"currency": p.Currency,
				},
			}}, nil
		}
	}

	return nil, nil
}
