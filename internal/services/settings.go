// Package services holds persistence services shared by the HTTP handlers.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/hostpanel/internal/store"
)

// ErrNotFound is returned when a setting key does not exist.
var ErrNotFound = errors.New("setting not found")

// Setting is one key/value row.
type Setting struct {
	Key       string    `json:"key" example:"theme::colors:primary_dark"`
	Value     string    `json:"value" example:"#22C55E"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsRepository is a flat string key/value store.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) ([]Setting, error)
	GetPrefix(ctx context.Context, prefix string) ([]Setting, error)
}

// Compile-time interface guard.
var _ SettingsRepository = (*SQLiteSettingsRepository)(nil)

// SQLiteSettingsRepository stores settings in the "settings" table.
type SQLiteSettingsRepository struct {
	store *store.SQLiteStore
}

func settingsMigrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create settings table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE settings (
						key        TEXT     PRIMARY KEY,
						value      TEXT     NOT NULL,
						updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`)
				return err
			},
		},
	}
}

// NewSQLiteSettingsRepository migrates the settings table and returns a
// repository backed by s.
func NewSQLiteSettingsRepository(ctx context.Context, s *store.SQLiteStore) (*SQLiteSettingsRepository, error) {
	if err := s.Migrate(ctx, "settings", settingsMigrations()); err != nil {
		return nil, fmt.Errorf("migrate settings: %w", err)
	}
	return &SQLiteSettingsRepository{store: s}, nil
}

func (r *SQLiteSettingsRepository) Get(ctx context.Context, key string) (*Setting, error) {
	var st Setting
	err := r.store.DB().QueryRowContext(ctx,
		"SELECT key, value, updated_at FROM settings WHERE key = ?", key,
	).Scan(&st.Key, &st.Value, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %q: %w", key, err)
	}
	return &st, nil
}

const upsertSetting = `
	INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (r *SQLiteSettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.store.DB().ExecContext(ctx, upsertSetting, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// SetMany writes all values in one transaction.
func (r *SQLiteSettingsRepository) SetMany(ctx context.Context, values map[string]string) error {
	now := time.Now().UTC()
	return r.store.Tx(ctx, func(tx *sql.Tx) error {
		for k, v := range values {
			if _, err := tx.ExecContext(ctx, upsertSetting, k, v, now); err != nil {
				return fmt.Errorf("set setting %q: %w", k, err)
			}
		}
		return nil
	})
}

// Delete removes key. Deleting a missing key returns ErrNotFound.
func (r *SQLiteSettingsRepository) Delete(ctx context.Context, key string) error {
	res, err := r.store.DB().ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteSettingsRepository) GetAll(ctx context.Context) ([]Setting, error) {
	return r.query(ctx, "SELECT key, value, updated_at FROM settings ORDER BY key")
}

// GetPrefix returns every setting whose key starts with prefix, ordered by key.
func (r *SQLiteSettingsRepository) GetPrefix(ctx context.Context, prefix string) ([]Setting, error) {
	return r.query(ctx,
		"SELECT key, value, updated_at FROM settings WHERE substr(key, 1, ?) = ? ORDER BY key",
		len(prefix), prefix,
	)
}

func (r *SQLiteSettingsRepository) query(ctx context.Context, q string, args ...any) ([]Setting, error) {
	rows, err := r.store.DB().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	out := make([]Setting, 0)
	for rows.Next() {
		var st Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
