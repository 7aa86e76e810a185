package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/frozen-toko/internal/catalog"
)

const (
	itemColumns = `id, name, description, category, coalesce(image_url, ''), base_price::text,
	discount_price::text, discount_active, discount_start_date, discount_end_date,
	available, popular, coalesce(measurement_unit, ''), measurement_value::text`

	listItemsSQL      = `SELECT ` + itemColumns + ` FROM menu_items ORDER BY sort_order, name`
	getItemSQL        = `SELECT ` + itemColumns + ` FROM menu_items WHERE id = $1`
	listVariationsSQL = `SELECT menu_item_id, id, name, price::text FROM variations
	WHERE ($1::text IS NULL OR menu_item_id = $1) ORDER BY menu_item_id, sort_order, name`
	listAddOnsSQL = `SELECT menu_item_id, id, name, price::text, category FROM add_ons
	WHERE ($1::text IS NULL OR menu_item_id = $1) ORDER BY menu_item_id, sort_order, name`
)

// CatalogRepo reads the operator maintained catalog from Postgres.
type CatalogRepo struct {
	DB DBTX
}

type itemRecord struct {
	ID               string
	Name             string
	Description      string
	Category         string
	ImageURL         string
	BasePrice        string
	DiscountPrice    *string
	DiscountActive   bool
	DiscountStart    *time.Time
	DiscountEnd      *time.Time
	Available        bool
	Popular          bool
	MeasurementUnit  string
	MeasurementValue *string
}

func (rec *itemRecord) scan(row pgx.Row) error {
	return row.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Category, &rec.ImageURL, &rec.BasePrice,
		&rec.DiscountPrice, &rec.DiscountActive, &rec.DiscountStart, &rec.DiscountEnd,
		&rec.Available, &rec.Popular, &rec.MeasurementUnit, &rec.MeasurementValue)
}

func (rec itemRecord) toItem() (catalog.Item, error) {
	base, err := numeric(rec.BasePrice)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("item %s base price: %w", rec.ID, err)
	}
	return catalog.Item{
		ID:               rec.ID,
		Name:             rec.Name,
		Description:      rec.Description,
		Category:         rec.Category,
		ImageURL:         rec.ImageURL,
		BasePrice:        base,
		DiscountPrice:    optionalNumeric(rec.DiscountPrice),
		DiscountActive:   rec.DiscountActive,
		DiscountStart:    rec.DiscountStart,
		DiscountEnd:      rec.DiscountEnd,
		Available:        rec.Available,
		Popular:          rec.Popular,
		Variations:       []catalog.Variation{},
		AddOns:           []catalog.AddOn{},
		MeasurementUnit:  rec.MeasurementUnit,
		MeasurementValue: optionalNumeric(rec.MeasurementValue),
	}, nil
}

// ListItems implements catalog.Source.
func (r CatalogRepo) ListItems(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.DB.Query(ctx, listItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []catalog.Item
	index := make(map[string]int)
	for rows.Next() {
		var rec itemRecord
		if err := rec.scan(rows); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		item, err := rec.toItem()
		if err != nil {
			return nil, err
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	if err := r.attachOptions(ctx, nil, items, index); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem implements catalog.Source.
func (r CatalogRepo) GetItem(ctx context.Context, id string) (catalog.Item, error) {
	var rec itemRecord
	if err := rec.scan(r.DB.QueryRow(ctx, getItemSQL, id)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Item{}, fmt.Errorf("%s: %w", id, catalog.ErrNotFound)
		}
		return catalog.Item{}, fmt.Errorf("get menu item: %w", err)
	}
	item, err := rec.toItem()
	if err != nil {
		return catalog.Item{}, err
	}
	items := []catalog.Item{item}
	if err := r.attachOptions(ctx, &id, items, map[string]int{id: 0}); err != nil {
		return catalog.Item{}, err
	}
	return items[0], nil
}

// attachOptions loads variations and add-ons for the indexed items. A nil itemID loads
// options for every item.
func (r CatalogRepo) attachOptions(ctx context.Context, itemID *string, items []catalog.Item, index map[string]int) error {
	rows, err := r.DB.Query(ctx, listVariationsSQL, itemID)
	if err != nil {
		return fmt.Errorf("list variations: %w", err)
	}
	for rows.Next() {
		var owner, price string
		var v catalog.Variation
		if err := rows.Scan(&owner, &v.ID, &v.Name, &price); err != nil {
			rows.Close()
			return fmt.Errorf("scan variation: %w", err)
		}
		if v.Price, err = numeric(price); err != nil {
			rows.Close()
			return fmt.Errorf("variation %s: %w", v.ID, err)
		}
		if i, ok := index[owner]; ok {
			items[i].Variations = append(items[i].Variations, v)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list variations: %w", err)
	}

	rows, err = r.DB.Query(ctx, listAddOnsSQL, itemID)
	if err != nil {
		return fmt.Errorf("list add-ons: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var owner, price, category string
		var a catalog.AddOn
		if err := rows.Scan(&owner, &a.ID, &a.Name, &price, &category); err != nil {
			return fmt.Errorf("scan add-on: %w", err)
		}
		if a.Price, err = numeric(price); err != nil {
			return fmt.Errorf("add-on %s: %w", a.ID, err)
		}
		if a.Category, err = catalog.ParseAddOnCategory(category); err != nil {
			return fmt.Errorf("add-on %s: %w", a.ID, err)
		}
		if i, ok := index[owner]; ok {
			items[i].AddOns = append(items[i].AddOns, a)
		}
	}
	return rows.Err()
}

const (
	upsertItemSQL = `INSERT INTO menu_items (id, name, description, category, image_url, base_price,
	discount_price, discount_active, discount_start_date, discount_end_date, available, popular,
	measurement_unit, measurement_value, sort_order)
	VALUES ($1, $2, $3, $4, nullif($5, ''), $6::numeric, $7::numeric, $8, $9, $10, $11, $12, nullif($13, ''), $14::numeric, $15)
	ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
	category = EXCLUDED.category, image_url = EXCLUDED.image_url, base_price = EXCLUDED.base_price,
	discount_price = EXCLUDED.discount_price, discount_active = EXCLUDED.discount_active,
	discount_start_date = EXCLUDED.discount_start_date, discount_end_date = EXCLUDED.discount_end_date,
	available = EXCLUDED.available, popular = EXCLUDED.popular, measurement_unit = EXCLUDED.measurement_unit,
	measurement_value = EXCLUDED.measurement_value, sort_order = EXCLUDED.sort_order`
	deleteVariationsSQL = `DELETE FROM variations WHERE menu_item_id = $1`
	deleteAddOnsSQL     = `DELETE FROM add_ons WHERE menu_item_id = $1`
	insertVariationSQL  = `INSERT INTO variations (menu_item_id, id, name, price, sort_order) VALUES ($1, $2, $3, $4::numeric, $5)`
	insertAddOnSQL      = `INSERT INTO add_ons (menu_item_id, id, name, price, category, sort_order) VALUES ($1, $2, $3, $4::numeric, $5, $6)`
)

// UpsertItem writes item and replaces its options. Used by the seed tool; run it inside
// a transaction to keep the options consistent.
func (r CatalogRepo) UpsertItem(ctx context.Context, item catalog.Item, sortOrder int) error {
	var discount, measurement *string
	if item.DiscountPrice != nil {
		s := item.DiscountPrice.String()
		discount = &s
	}
	if item.MeasurementValue != nil {
		s := item.MeasurementValue.String()
		measurement = &s
	}
	if _, err := r.DB.Exec(ctx, upsertItemSQL, item.ID, item.Name, item.Description, item.Category,
		item.ImageURL, item.BasePrice.String(), discount, item.DiscountActive, item.DiscountStart,
		item.DiscountEnd, item.Available, item.Popular, item.MeasurementUnit, measurement, sortOrder); err != nil {
		return fmt.Errorf("upsert menu item %s: %w", item.ID, err)
	}
	if _, err := r.DB.Exec(ctx, deleteVariationsSQL, item.ID); err != nil {
		return fmt.Errorf("clear variations %s: %w", item.ID, err)
	}
	if _, err := r.DB.Exec(ctx, deleteAddOnsSQL, item.ID); err != nil {
		return fmt.Errorf("clear add-ons %s: %w", item.ID, err)
	}
	for i, v := range item.Variations {
		if _, err := r.DB.Exec(ctx, insertVariationSQL, item.ID, v.ID, v.Name, v.Price.String(), i); err != nil {
			return fmt.Errorf("insert variation %s/%s: %w", item.ID, v.ID, err)
		}
	}
	for i, a := range item.AddOns {
		if _, err := r.DB.Exec(ctx, insertAddOnSQL, item.ID, a.ID, a.Name, a.Price.String(), string(a.Category), i); err != nil {
			return fmt.Errorf("insert add-on %s/%s: %w", item.ID, a.ID, err)
		}
	}
	return nil
}
