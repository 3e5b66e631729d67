package themes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/hostpanel/internal/store"
	"github.com/HerbHall/hostpanel/pkg/theme"
	"github.com/google/uuid"
)

// ErrNoEmailTheme is returned when no default email theme has been persisted.
var ErrNoEmailTheme = errors.New("no default email theme")

const defaultEmailThemeName = "Default"

// EmailStore persists the default email theme record consumed by the mail
// renderer.
type EmailStore struct {
	store *store.SQLiteStore
}

func emailMigrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create email_themes table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE email_themes (
						id                TEXT     PRIMARY KEY,
						name              TEXT     NOT NULL,
						is_default        INTEGER  NOT NULL DEFAULT 0,
						variant_mode      TEXT     NOT NULL,
						primary_color     TEXT     NOT NULL,
						secondary_color   TEXT     NOT NULL,
						accent_color      TEXT     NOT NULL,
						background_color  TEXT     NOT NULL,
						body_color        TEXT     NOT NULL,
						text_color        TEXT     NOT NULL,
						muted_text_color  TEXT     NOT NULL,
						button_color      TEXT     NOT NULL,
						button_text_color TEXT     NOT NULL,
						light_palette     TEXT,
						updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`)
				if err != nil {
					return err
				}
				_, err = tx.Exec(`CREATE UNIQUE INDEX idx_email_themes_default ON email_themes(is_default) WHERE is_default = 1`)
				return err
			},
		},
	}
}

// NewEmailStore migrates the email_themes table.
func NewEmailStore(ctx context.Context, s *store.SQLiteStore) (*EmailStore, error) {
	if err := s.Migrate(ctx, "email_themes", emailMigrations()); err != nil {
		return nil, fmt.Errorf("migrate email themes: %w", err)
	}
	return &EmailStore{store: s}, nil
}

// GetDefault returns the record flagged is_default.
func (e *EmailStore) GetDefault(ctx context.Context) (*theme.EmailTheme, error) {
	var (
		t     theme.EmailTheme
		light sql.NullString
	)
	err := e.store.DB().QueryRowContext(ctx, `
		SELECT id, name, variant_mode, primary_color, secondary_color, accent_color,
		       background_color, body_color, text_color, muted_text_color,
		       button_color, button_text_color, light_palette
		FROM email_themes WHERE is_default = 1`,
	).Scan(&t.ID, &t.Name, &t.VariantMode,
		&t.PrimaryColor, &t.SecondaryColor, &t.AccentColor,
		&t.BackgroundColor, &t.BodyColor, &t.TextColor, &t.MutedTextColor,
		&t.ButtonColor, &t.ButtonTextColor, &light)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoEmailTheme
	}
	if err != nil {
		return nil, fmt.Errorf("get default email theme: %w", err)
	}
	t.IsDefault = true

	if light.Valid && light.String != "" {
		var lp theme.EmailPalette
		if err := json.Unmarshal([]byte(light.String), &lp); err != nil {
			return nil, fmt.Errorf("decode light palette: %w", err)
		}
		t.LightPalette = &lp
	}
	return &t, nil
}

// UpsertDefault writes the palette fields of t onto the default record,
// creating it on first use. The stored record (with its ID) is returned.
func (e *EmailStore) UpsertDefault(ctx context.Context, t theme.EmailTheme) (theme.EmailTheme, error) {
	var light sql.NullString
	if t.LightPalette != nil {
		data, err := json.Marshal(t.LightPalette)
		if err != nil {
			return theme.EmailTheme{}, fmt.Errorf("encode light palette: %w", err)
		}
		light = sql.NullString{String: string(data), Valid: true}
	}

	t.IsDefault = true
	if t.Name == "" {
		t.Name = defaultEmailThemeName
	}

	err := e.store.Tx(ctx, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, "SELECT id FROM email_themes WHERE is_default = 1").Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			t.ID = uuid.NewString()
			_, err = tx.ExecContext(ctx, `
				INSERT INTO email_themes (id, name, is_default, variant_mode,
					primary_color, secondary_color, accent_color, background_color, body_color,
					text_color, muted_text_color, button_color, button_text_color,
					light_palette, updated_at)
				VALUES (?, ?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.Name, string(t.VariantMode),
				t.PrimaryColor, t.SecondaryColor, t.AccentColor, t.BackgroundColor, t.BodyColor,
				t.TextColor, t.MutedTextColor, t.ButtonColor, t.ButtonTextColor,
				light, time.Now().UTC(),
			)
			return err
		case err != nil:
			return err
		}

		t.ID = id
		_, err = tx.ExecContext(ctx, `
			UPDATE email_themes SET variant_mode = ?,
				primary_color = ?, secondary_color = ?, accent_color = ?, background_color = ?,
				body_color = ?, text_color = ?, muted_text_color = ?, button_color = ?,
				button_text_color = ?, light_palette = ?, updated_at = ?
			WHERE id = ?`,
			string(t.VariantMode),
			t.PrimaryColor, t.SecondaryColor, t.AccentColor, t.BackgroundColor,
			t.BodyColor, t.TextColor, t.MutedTextColor, t.ButtonColor,
			t.ButtonTextColor, light, time.Now().UTC(),
			id,
		)
		return err
	})
	if err != nil {
		return theme.EmailTheme{}, fmt.Errorf("upsert default email theme: %w", err)
	}

	if stored, err := e.GetDefault(ctx); err == nil {
		return *stored, nil
	}
	return t, nil
}
