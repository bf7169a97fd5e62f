package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductStatusActive ProductStatus = "active"
	ProductStatusDraft  ProductStatus = "draft"
)

// BridgeProduct is the commerce-database representation of a product,
// keyed by the content source's product id. Created on first sync,
// updated in place on every following one.
type BridgeProduct struct {
	ID           uuid.UUID
	ExternalID   int64
	Title        string
	Slug         string
	Description  string
	ThumbnailURL string
	Status       ProductStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BridgeVariant is one sellable (color, size) combination, keyed by the
// source's size id. StockAvailable and StockReserved are owned by the
// order subsystem once the row exists; the sync engine only writes them
// on create, and raises StockAvailable under the restock policy.
type BridgeVariant struct {
	ID                uuid.UUID
	ProductID         uuid.UUID
	ExternalSizeID    int64
	ExternalVariantID int64
	SizeLabel         string
	ColorLabel        string
	SKU               string
	Barcode           string
	InitialStock      int64
	StockAvailable    int64
	StockReserved     int64
	// Diagnostic mirror of the source's last reported stock. Never
	// feeds back into StockAvailable outside restock mode.
	ExternalStockRaw      int64
	ExternalStockSyncedAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// BridgePrice is one currency amount for a variant. The price list
// dimension is always null in this system, so it is not modeled.
type BridgePrice struct {
	ID        uuid.UUID
	VariantID uuid.UUID
	Currency  string
	Amount    decimal.Decimal
	CompareAt *decimal.Decimal
}

// NormalizedSizeRow is one flattened (color, size) combination pulled
// out of a draft's variant tree.
type NormalizedSizeRow struct {
	ExternalVariantID int64
	ExternalSizeID    int64
	SizeLabel         string
	ColorLabel        string
	SKU               string
	Barcode           string
	Price             *float64
	CompareAtPrice    *float64
	Stock             int64
}
