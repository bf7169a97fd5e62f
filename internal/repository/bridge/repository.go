package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thednalab/catalog-sync/internal/model"
)

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewBridgeRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// UpsertProduct inserts or updates a bridge product by its external id.
// Identity columns are never rewritten on conflict. Safe to repeat with
// identical input.
func (r *repository) UpsertProduct(ctx context.Context, p *model.BridgeProduct) (uuid.UUID, error) {
	const op = "repository.UpsertProduct"

	if p.ExternalID == 0 {
		return uuid.Nil, fmt.Errorf("%s: empty external id", op)
	}

	q := r.sb.
		Insert("bridge_products").
		Columns("external_id", "title", "slug", "description", "thumbnail_url", "status").
		Values(p.ExternalID, p.Title, p.Slug, p.Description, p.ThumbnailURL, p.Status).
		Suffix(`ON CONFLICT (external_id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			thumbnail_url = EXCLUDED.thumbnail_url,
			status = EXCLUDED.status,
			updated_at = now()
		RETURNING id`)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var productID uuid.UUID
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&productID); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return productID, nil
}

func (r *repository) ProductByExternalID(ctx context.Context, externalID int64) (*model.BridgeProduct, error) {
	const op = "repository.ProductByExternalID"

	q := r.sb.
		Select("id", "external_id", "title", "slug", "description", "thumbnail_url", "status", "created_at", "updated_at").
		From("bridge_products").
		Where(sq.Eq{"external_id": externalID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var p model.BridgeProduct
	err = r.pool.QueryRow(ctx, sqlStr, args...).Scan(
		&p.ID,
		&p.ExternalID,
		&p.Title,
		&p.Slug,
		&p.Description,
		&p.ThumbnailURL,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBridgeMissing
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &p, nil
}

func (r *repository) UpdateProductStatus(ctx context.Context, externalID int64, status model.ProductStatus) error {
	const op = "repository.UpdateProductStatus"

	q := r.sb.
		Update("bridge_products").
		Set("status", status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"external_id": externalID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return model.ErrBridgeMissing
	}

	return nil
}

func (r *repository) VariantByExternalSizeID(ctx context.Context, externalSizeID int64) (*model.BridgeVariant, error) {
	const op = "repository.VariantByExternalSizeID"

	q := r.variantSelect().Where(sq.Eq{"external_size_id": externalSizeID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	v, err := scanVariant(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVariantNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return v, nil
}

func (r *repository) VariantsByProductID(ctx context.Context, productID uuid.UUID) ([]*model.BridgeVariant, error) {
	const op = "repository.VariantsByProductID"

	q := r.variantSelect().
		Where(sq.Eq{"product_id": productID}).
		OrderBy("external_size_id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*model.BridgeVariant, 0)
	for rows.Next() {
		v, serr := scanVariant(rows)
		if serr != nil {
			return nil, fmt.Errorf("%s scan: %w", op, serr)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}

	return out, nil
}

// CreateVariant seeds a brand-new bridge variant. This is the only
// write path allowed to set stock_available; from here on the order
// subsystem owns it.
func (r *repository) CreateVariant(ctx context.Context, v *model.BridgeVariant) (uuid.UUID, error) {
	const op = "repository.CreateVariant"

	if v.ExternalSizeID == 0 {
		return uuid.Nil, fmt.Errorf("%s: empty external size id", op)
	}

	q := r.sb.
		Insert("bridge_variants").
		Columns(
			"product_id", "external_size_id", "external_variant_id",
			"size_label", "color_label", "sku", "barcode",
			"initial_stock", "stock_available", "stock_reserved",
			"external_stock_raw", "external_stock_synced_at",
		).
		Values(
			v.ProductID, v.ExternalSizeID, v.ExternalVariantID,
			v.SizeLabel, v.ColorLabel, v.SKU, v.Barcode,
			v.InitialStock, v.StockAvailable, v.StockReserved,
			v.ExternalStockRaw, time.Now().UTC(),
		).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var variantID uuid.UUID
	if err := r.pool.QueryRow(ctx, sqlStr, args...).Scan(&variantID); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return variantID, nil
}

// UpdateVariantDescriptive refreshes labels, SKU, barcode and the
// diagnostic stock mirror. It deliberately cannot reach the live stock
// columns.
func (r *repository) UpdateVariantDescriptive(ctx context.Context, v *model.BridgeVariant) error {
	const op = "repository.UpdateVariantDescriptive"

	if v.ExternalSizeID == 0 {
		return fmt.Errorf("%s: empty external size id", op)
	}

	q := r.sb.
		Update("bridge_variants").
		SetMap(sq.Eq{
			"size_label":               v.SizeLabel,
			"color_label":              v.ColorLabel,
			"sku":                      v.SKU,
			"barcode":                  v.Barcode,
			"external_stock_raw":       v.ExternalStockRaw,
			"external_stock_synced_at": time.Now().UTC(),
		}).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"external_size_id": v.ExternalSizeID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return model.ErrVariantNotFound
	}

	return nil
}

// RaiseVariantStock applies a restock correction: stock only ever moves
// up, GREATEST keeps the write idempotent under retries even with the
// order subsystem depleting stock concurrently.
func (r *repository) RaiseVariantStock(ctx context.Context, externalSizeID int64, target int64) error {
	const op = "repository.RaiseVariantStock"

	q := r.sb.
		Update("bridge_variants").
		Set("stock_available", sq.Expr("GREATEST(stock_available, ?)", target)).
		Set("initial_stock", sq.Expr("GREATEST(initial_stock, ?)", target)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"external_size_id": externalSizeID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if ct.RowsAffected() == 0 {
		return model.ErrVariantNotFound
	}

	return nil
}

// UpsertPrice writes one (variant, currency) price row, amount and
// compare-at only on conflict.
func (r *repository) UpsertPrice(ctx context.Context, p *model.BridgePrice) error {
	const op = "repository.UpsertPrice"

	if p.VariantID == uuid.Nil {
		return fmt.Errorf("%s: empty variant id", op)
	}

	q := r.sb.
		Insert("bridge_prices").
		Columns("variant_id", "currency", "amount", "compare_at").
		Values(p.VariantID, p.Currency, p.Amount, p.CompareAt).
		Suffix(`ON CONFLICT (variant_id, currency) DO UPDATE SET
			amount = EXCLUDED.amount,
			compare_at = EXCLUDED.compare_at`)

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := r.pool.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) PricesByProductID(ctx context.Context, productID uuid.UUID) ([]*model.BridgePrice, error) {
	const op = "repository.PricesByProductID"

	q := r.sb.
		Select("p.id", "p.variant_id", "p.currency", "p.amount", "p.compare_at").
		From("bridge_prices p").
		Join("bridge_variants v ON v.id = p.variant_id").
		Where(sq.Eq{"v.product_id": productID})

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*model.BridgePrice, 0)
	for rows.Next() {
		var p model.BridgePrice
		if err := rows.Scan(&p.ID, &p.VariantID, &p.Currency, &p.Amount, &p.CompareAt); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}

	return out, nil
}

func (r *repository) variantSelect() sq.SelectBuilder {
	return r.sb.
		Select(
			"id", "product_id", "external_size_id", "external_variant_id",
			"size_label", "color_label", "sku", "barcode",
			"initial_stock", "stock_available", "stock_reserved",
			"external_stock_raw", "external_stock_synced_at",
			"created_at", "updated_at",
		).
		From("bridge_variants")
}

func scanVariant(row pgx.Row) (*model.BridgeVariant, error) {
	var v model.BridgeVariant
	err := row.Scan(
		&v.ID,
		&v.ProductID,
		&v.ExternalSizeID,
		&v.ExternalVariantID,
		&v.SizeLabel,
		&v.ColorLabel,
		&v.SKU,
		&v.Barcode,
		&v.InitialStock,
		&v.StockAvailable,
		&v.StockReserved,
		&v.ExternalStockRaw,
		&v.ExternalStockSyncedAt,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
