package repo

import (
	"context"
	"fmt"

	"github.com/noah-isme/frozen-toko/internal/order"
)

// SettingsRepo reads the site_settings key/value table.
type SettingsRepo struct {
	DB DBTX
}

// Settings returns every stored setting keyed by id.
func (r SettingsRepo) Settings(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, value FROM site_settings`)
	if err != nil {
		return nil, fmt.Errorf("list site settings: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan site setting: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

// Put stores one setting.
func (r SettingsRepo) Put(ctx context.Context, key, value string) error {
	_, err := r.DB.Exec(ctx, `INSERT INTO site_settings (id, value) VALUES ($1, $2)
	ON CONFLICT (id) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, key, value)
	if err != nil {
		return fmt.Errorf("put site setting %s: %w", key, err)
	}
	return nil
}

// PaymentMethodsRepo reads configured payment methods.
type PaymentMethodsRepo struct {
	DB DBTX
}

// PaymentMethods implements order.PaymentSource.
func (r PaymentMethodsRepo) PaymentMethods(ctx context.Context) ([]order.PaymentMethod, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, account_number, account_name, coalesce(qr_code_url, ''), active, sort_order
	FROM payment_methods WHERE active ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()
	var out []order.PaymentMethod
	for rows.Next() {
		var m order.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.AccountNumber, &m.AccountName, &m.QRCodeURL, &m.Active, &m.SortOrder); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return order.ActiveMethods(out), nil
}

// Upsert writes a payment method.
func (r PaymentMethodsRepo) Upsert(ctx context.Context, m order.PaymentMethod) error {
	_, err := r.DB.Exec(ctx, `INSERT INTO payment_methods (id, name, account_number, account_name, qr_code_url, active, sort_order)
	VALUES ($1, $2, $3, $4, nullif($5, ''), $6, $7)
	ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, account_number = EXCLUDED.account_number,
	account_name = EXCLUDED.account_name, qr_code_url = EXCLUDED.qr_code_url, active = EXCLUDED.active,
	sort_order = EXCLUDED.sort_order`,
		m.ID, m.Name, m.AccountNumber, m.AccountName, m.QRCodeURL, m.Active, m.SortOrder)
	if err != nil {
		return fmt.Errorf("upsert payment method %s: %w", m.ID, err)
	}
	return nil
}
