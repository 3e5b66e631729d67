// Package config wraps Viper with typed accessors for the theme, auth and
// database settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/hostpanel/pkg/theme"
	"github.com/spf13/viper"
)

// ViperConfig wraps a Viper instance.
type ViperConfig struct {
	v *viper.Viper
}

// New creates a Config backed by the given Viper instance.
func New(v *viper.Viper) *ViperConfig {
	if v == nil {
		v = viper.New()
	}
	return &ViperConfig{v: v}
}

// GetString returns the string value at key.
func (c *ViperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

// GetDuration returns the duration value at key.
func (c *ViperConfig) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

// DefaultAccessTokenTTL applies when auth.access_token_ttl is unset or not positive.
const DefaultAccessTokenTTL = 12 * time.Hour

// AuthSettings is the "auth" section.
type AuthSettings struct {
	// JWTSecret signs admin tokens. Empty means none is configured.
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// Auth reads the "auth" section.
func (c *ViperConfig) Auth() AuthSettings {
	as := AuthSettings{
		JWTSecret:      c.GetString("auth.jwt_secret"),
		AccessTokenTTL: c.GetDuration("auth.access_token_ttl"),
	}
	if as.AccessTokenTTL <= 0 {
		as.AccessTokenTTL = DefaultAccessTokenTTL
	}
	return as
}

// DatabasePath returns database.path, or "hostpanel.db" when unset.
func (c *ViperConfig) DatabasePath() string {
	if p := strings.TrimSpace(c.GetString("database.path")); p != "" {
		return p
	}
	return "hostpanel.db"
}

// ThemeSettings is the "theme" section after validation.
type ThemeSettings struct {
	// Colors are compiled-in override defaults; the settings store wins over them.
	Colors       theme.Overrides
	SyncSchedule string
	// EmailMode picks the palette of a single-variant email theme. A dual
	// variant always uses dark for the main palette and light for
	// light_palette, so EmailMode has no effect there.
	EmailMode    theme.Mode
	EmailVariant theme.VariantMode
}

// Theme reads and validates the "theme" section.
func (c *ViperConfig) Theme() (ThemeSettings, error) {
	ts := ThemeSettings{
		Colors:       theme.Overrides{},
		SyncSchedule: strings.TrimSpace(c.GetString("theme.sync_schedule")),
	}

	for k, v := range c.v.GetStringMapString("theme.colors") {
		ts.Colors[strings.ToLower(k)] = v
	}

	mode, err := theme.ParseMode(c.GetString("theme.email.mode"))
	if err != nil {
		return ThemeSettings{}, fmt.Errorf("theme.email.mode: %w", err)
	}
	ts.EmailMode = mode

	variant, err := theme.ParseVariantMode(c.GetString("theme.email.variant_mode"))
	if err != nil {
		return ThemeSettings{}, fmt.Errorf("theme.email.variant_mode: %w", err)
	}
	ts.EmailVariant = variant

	return ts, nil
}
