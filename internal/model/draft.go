package model

import (
	"strconv"
	"time"
)

// Draft is a raw product record from the content source. The source
// schema is not contractually fixed, so the record stays an untyped map
// and every logical attribute resolves through an ordered fallback
// chain. The chain order is part of the contract: an earlier key is
// always more authoritative than a later one.
type Draft map[string]any

// Fallback chains per logical attribute. Keep these in resolution
// order; normalizer and validator both rely on them.
var (
	draftTitleChain       = []string{"name", "title"}
	draftSlugChain        = []string{"slug", "handle"}
	draftDescriptionChain = []string{"description", "short_description"}
	draftPriceChain       = []string{"price", "selling_price", "base_price"}
	draftCompareAtChain   = []string{"compare_at_price", "compareAtPrice", "mrp"}
	draftCurrencyChain    = []string{"currency", "currency_code"}
	draftPublishedChain   = []string{"publishedAt", "published_at"}
	draftVariantsChain    = []string{"variants", "product_variants"}
	draftCategoriesChain  = []string{"categories", "category"}
	draftTotalStockChain  = []string{"total_stock", "totalStock"}
	draftMediaChain       = []string{"images", "media", "gallery"}

	variantColorChain = []string{"color_name", "colorName", "color"}
	variantSizesChain = []string{"sizes", "size_variants"}

	sizeLabelChain   = []string{"size_name", "sizeName", "size"}
	sizeSKUChain     = []string{"generated_sku", "sku"}
	sizeBarcodeChain = []string{"barcode", "ean"}
	sizeStockChain   = []string{"stock_quantity", "stockQuantity", "stock", "qty"}
	sizeActiveChain  = []string{"is_active", "active"}
)

func (d Draft) ID() int64 {
	id, _ := firstInt(d, "id")
	return id
}

func (d Draft) Title() string { return firstString(d, draftTitleChain...) }

func (d Draft) Slug() string { return firstString(d, draftSlugChain...) }

func (d Draft) Description() string { return firstString(d, draftDescriptionChain...) }

// Price returns the draft-level selling price. The second result is
// false when none of the chain keys exist on the record; an existing
// key with a non-numeric value returns (0, true) so validation can
// distinguish "absent" from "present but invalid".
func (d Draft) Price() (float64, bool) { return firstNumber(d, draftPriceChain...) }

func (d Draft) CompareAtPrice() (float64, bool) { return firstNumber(d, draftCompareAtChain...) }

func (d Draft) Currency() (string, bool) {
	if !d.HasField(draftCurrencyChain...) {
		return "", false
	}
	return firstString(d, draftCurrencyChain...), true
}

func (d Draft) HasPriceField() bool { return d.HasField(draftPriceChain...) }

// PublishedAt reports the source publish timestamp. A missing or empty
// value means the draft is not publicly listed.
func (d Draft) PublishedAt() (time.Time, bool) {
	raw := firstString(d, draftPublishedChain...)
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (d Draft) IsPublished() bool {
	_, ok := d.PublishedAt()
	return ok
}

func (d Draft) Variants() []Draft { return firstList(d, draftVariantsChain...) }

func (d Draft) Categories() []Draft { return firstList(d, draftCategoriesChain...) }

// TotalStock is the draft-declared stock total across all sizes. It is
// advisory only; the bridge sum is allowed to diverge.
func (d Draft) TotalStock() (int64, bool) { return firstInt(d, draftTotalStockChain...) }

// Variant-level accessors. Variants are Drafts too: same schema rules.

func (d Draft) ColorLabel() string { return firstString(d, variantColorChain...) }

func (d Draft) Sizes() []Draft { return firstList(d, variantSizesChain...) }

// Size-level accessors.

// SizeID is the stable join key to the bridge variant. Rows without it
// are unmappable.
func (d Draft) SizeID() (int64, bool) { return firstInt(d, "id") }

func (d Draft) SizeLabel() string { return firstString(d, sizeLabelChain...) }

func (d Draft) SKU() string { return firstString(d, sizeSKUChain...) }

func (d Draft) HasSKUField() bool { return d.HasField(sizeSKUChain...) }

func (d Draft) Barcode() string { return firstString(d, sizeBarcodeChain...) }

func (d Draft) Stock() int64 {
	n, _ := firstInt(d, sizeStockChain...)
	return n
}

// Active defaults to true when the source carries no flag at all.
func (d Draft) Active() bool {
	if !d.HasField(sizeActiveChain...) {
		return true
	}
	return firstBool(d, sizeActiveChain...)
}

// MediaSummary collects the thumbnail and gallery URLs reachable from
// the draft's media relations.
type MediaSummary struct {
	Thumbnail string   `json:"thumbnail"`
	Gallery   []string `json:"gallery"`
}

func (d Draft) Media() MediaSummary {
	var out MediaSummary

	if th, ok := d["thumbnail"]; ok {
		out.Thumbnail = mediaURL(th)
	}

	for _, item := range firstList(d, draftMediaChain...) {
		if u := mediaURL(map[string]any(item)); u != "" {
			out.Gallery = append(out.Gallery, u)
		}
	}

	if out.Thumbnail == "" && len(out.Gallery) > 0 {
		out.Thumbnail = out.Gallery[0]
	}

	return out
}

func mediaURL(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case map[string]any:
		if u, ok := m["url"].(string); ok {
			return u
		}
		if inner, ok := m["data"]; ok {
			return mediaURL(inner)
		}
	}
	return ""
}

// HasField reports whether any key of a chain exists on the record,
// regardless of the value's type or validity.
func (d Draft) HasField(keys ...string) bool {
	for _, k := range keys {
		if _, ok := d[k]; ok {
			return true
		}
	}
	return false
}

func firstString(d Draft, keys ...string) string {
	for _, k := range keys {
		if s, ok := d[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func firstBool(d Draft, keys ...string) bool {
	for _, k := range keys {
		if b, ok := d[k].(bool); ok {
			return b
		}
	}
	return false
}

// firstNumber resolves the first chain key present on the record. The
// bool reports key presence, not value validity: a present key holding
// garbage yields (0, true).
func firstNumber(d Draft, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := d[k]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				return 0, true
			}
			return f, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func firstInt(d Draft, keys ...string) (int64, bool) {
	n, ok := firstNumber(d, keys...)
	if !ok {
		return 0, false
	}
	return int64(n), true
}

func firstList(d Draft, keys ...string) []Draft {
	for _, k := range keys {
		v, ok := d[k]
		if !ok || v == nil {
			continue
		}
		// Relation values may be wrapped in a {"data": [...]} envelope.
		if m, isMap := v.(map[string]any); isMap {
			if inner, hasData := m["data"]; hasData {
				v = inner
			} else {
				return []Draft{Draft(m)}
			}
		}
		items, isList := v.([]any)
		if !isList {
			continue
		}
		out := make([]Draft, 0, len(items))
		for _, item := range items {
			if m, isMap := item.(map[string]any); isMap {
				out = append(out, Draft(m))
			}
		}
		return out
	}
	return nil
}
