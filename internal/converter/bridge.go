package converter

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/thednalab/catalog-sync/internal/model"
)

// DraftToBridgeProduct maps the fields a draft and the bridge share.
// Nothing is invented: a field absent on the draft stays zero and the
// repository keeps the existing value on update.
func DraftToBridgeProduct(draft model.Draft) *model.BridgeProduct {
	return &model.BridgeProduct{
		ExternalID:   draft.ID(),
		Title:        draft.Title(),
		Slug:         draft.Slug(),
		Description:  draft.Description(),
		ThumbnailURL: draft.Media().Thumbnail,
		Status:       DraftToProductStatus(draft),
	}
}

// DraftToProductStatus derives the bridge status from the source
// publish timestamp: published → active, anything else → draft.
func DraftToProductStatus(draft model.Draft) model.ProductStatus {
	if draft.IsPublished() {
		return model.ProductStatusActive
	}
	return model.ProductStatusDraft
}

// SizeRowToBridgeVariant maps the descriptive side of a size row. Stock
// fields are intentionally left to the reconciler, which owns the
// create/update asymmetry.
func SizeRowToBridgeVariant(row model.NormalizedSizeRow) *model.BridgeVariant {
	return &model.BridgeVariant{
		ExternalSizeID:    row.ExternalSizeID,
		ExternalVariantID: row.ExternalVariantID,
		SizeLabel:         row.SizeLabel,
		ColorLabel:        row.ColorLabel,
		SKU:               row.SKU,
		Barcode:           row.Barcode,
		ExternalStockRaw:  row.Stock,
	}
}

// SizeRowToBridgePrice builds the price row for a currency. Returns nil
// when the row carries neither amount; absent prices are not an error,
// they simply produce no price row.
func SizeRowToBridgePrice(row model.NormalizedSizeRow, currency string) *model.BridgePrice {
	if row.Price == nil && row.CompareAtPrice == nil {
		return nil
	}

	price := &model.BridgePrice{Currency: currency}
	if row.Price != nil {
		price.Amount = decimal.NewFromFloat(*row.Price)
	}
	if row.CompareAtPrice != nil {
		price.CompareAt = lo.ToPtr(decimal.NewFromFloat(*row.CompareAtPrice))
	}

	return price
}
