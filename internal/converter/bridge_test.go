package converter

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thednalab/catalog-sync/internal/model"
)

func TestDraftToBridgeProduct(t *testing.T) {
	t.Parallel()

	draft := model.Draft{
		"id":          float64(42),
		"name":        "Anchor Tee",
		"slug":        "anchor-tee",
		"description": "Heavyweight cotton tee.",
		"thumbnail":   map[string]any{"url": "https://cdn.example.com/tee.webp"},
		"publishedAt": "2026-01-10T10:00:00Z",
	}

	p := DraftToBridgeProduct(draft)
	assert.Equal(t, int64(42), p.ExternalID)
	assert.Equal(t, "Anchor Tee", p.Title)
	assert.Equal(t, "anchor-tee", p.Slug)
	assert.Equal(t, "https://cdn.example.com/tee.webp", p.ThumbnailURL)
	assert.Equal(t, model.ProductStatusActive, p.Status)

	delete(draft, "publishedAt")
	assert.Equal(t, model.ProductStatusDraft, DraftToBridgeProduct(draft).Status)
}

func TestSizeRowToBridgeVariant(t *testing.T) {
	t.Parallel()

	row := model.NormalizedSizeRow{
		ExternalVariantID: 7,
		ExternalSizeID:    71,
		SizeLabel:         "M",
		ColorLabel:        "Black",
		SKU:               "TDL-TEE-BLK-M",
		Stock:             12,
	}

	v := SizeRowToBridgeVariant(row)
	assert.Equal(t, int64(71), v.ExternalSizeID)
	assert.Equal(t, int64(7), v.ExternalVariantID)
	assert.Equal(t, int64(12), v.ExternalStockRaw)

	// Live stock is not the converter's to decide.
	assert.Zero(t, v.StockAvailable)
	assert.Zero(t, v.InitialStock)
	assert.Zero(t, v.StockReserved)
}

func TestSizeRowToBridgePrice(t *testing.T) {
	t.Parallel()

	t.Run("no amounts means no price row", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, SizeRowToBridgePrice(model.NormalizedSizeRow{}, "INR"))
	})

	t.Run("price with compare-at", func(t *testing.T) {
		t.Parallel()

		row := model.NormalizedSizeRow{
			Price:          lo.ToPtr(499.0),
			CompareAtPrice: lo.ToPtr(799.0),
		}

		p := SizeRowToBridgePrice(row, "INR")
		require.NotNil(t, p)
		assert.Equal(t, "INR", p.Currency)
		assert.True(t, p.Amount.Equal(decimal.NewFromInt(499)))
		require.NotNil(t, p.CompareAt)
		assert.True(t, p.CompareAt.Equal(decimal.NewFromInt(799)))
	})

	t.Run("compare-at alone still produces a row", func(t *testing.T) {
		t.Parallel()

		p := SizeRowToBridgePrice(model.NormalizedSizeRow{CompareAtPrice: lo.ToPtr(799.0)}, "INR")
		require.NotNil(t, p)
		assert.True(t, p.Amount.IsZero())
	})
}
