// Package normalizer flattens a draft's nested color→size component
// tree into canonical size-level rows keyed by the source size id.
package normalizer

import (
	"github.com/samber/lo"

	"github.com/thednalab/catalog-sync/internal/model"
)

// Normalize walks every variant component and its nested sizes, in
// source order. A size without a resolvable external size id cannot be
// joined to the bridge, so it is dropped and counted as skipped rather
// than failing the draft.
func Normalize(draft model.Draft) (rows []model.NormalizedSizeRow, skipped int) {
	for _, variant := range draft.Variants() {
		variantID := variant.ID()
		colorLabel := variant.ColorLabel()

		for _, size := range variant.Sizes() {
			sizeID, ok := size.SizeID()
			if !ok || sizeID == 0 {
				skipped++
				continue
			}

			row := model.NormalizedSizeRow{
				ExternalVariantID: variantID,
				ExternalSizeID:    sizeID,
				SizeLabel:         size.SizeLabel(),
				ColorLabel:        colorLabel,
				SKU:               size.SKU(),
				Barcode:           size.Barcode(),
				Stock:             size.Stock(),
			}

			if price, present := size.Price(); present {
				row.Price = lo.ToPtr(price)
			}
			if compareAt, present := size.CompareAtPrice(); present {
				row.CompareAtPrice = lo.ToPtr(compareAt)
			}

			rows = append(rows, row)
		}
	}

	return rows, skipped
}

// MappedSizeIDs returns the set of external size ids a draft resolves
// to. Validation uses it to detect bridge variants missing a mapping.
func MappedSizeIDs(draft model.Draft) []int64 {
	rows, _ := Normalize(draft)
	return lo.Map(rows, func(r model.NormalizedSizeRow, _ int) int64 {
		return r.ExternalSizeID
	})
}
