// Package themes hosts the palette engine inside the application: it reads
// color overrides from configuration and the settings store, resolves the
// canonical palette and active preset, and publishes the results to the UI,
// the email renderer and the live WebSocket stream.
package themes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/hostpanel/internal/config"
	"github.com/HerbHall/hostpanel/internal/event"
	"github.com/HerbHall/hostpanel/internal/services"
	"github.com/HerbHall/hostpanel/pkg/theme"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// SettingsPrefix namespaces color overrides and presets in the settings store.
// "theme::colors:primary_dark" becomes override key "primary_dark";
// "theme::colors:presets:summer" becomes preset key "presets:summer".
const SettingsPrefix = "theme::colors:"

var (
	snapshotsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hostpanel_theme_snapshots_total",
		Help: "Total number of palette resolutions.",
	})
	presetConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hostpanel_theme_preset_conflicts_total",
		Help: "Resolutions where several scheduled presets tied.",
	})
	invalidOverridesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hostpanel_theme_invalid_overrides_total",
		Help: "Override values that could not be parsed and fell back to defaults.",
	})
)

func init() {
	prometheus.MustRegister(snapshotsTotal, presetConflictsTotal, invalidOverridesTotal)
}

// SettingsReader is the subset of the settings repository the service reads.
type SettingsReader interface {
	GetPrefix(ctx context.Context, prefix string) ([]services.Setting, error)
}

// Service resolves palettes on demand. It holds no palette state between calls.
type Service struct {
	settings SettingsReader
	emails   *EmailStore
	cfg      config.ThemeSettings
	defaults theme.Defaults
	bus      event.Publisher
	logger   *zap.Logger
}

// NewService creates a Service. emails and bus may be nil.
func NewService(settings SettingsReader, emails *EmailStore, cfg config.ThemeSettings, bus event.Publisher, logger *zap.Logger) *Service {
	if cfg.EmailMode == "" {
		cfg.EmailMode = theme.ModeLight
	}
	if cfg.EmailVariant == "" {
		cfg.EmailVariant = theme.VariantDual
	}
	return &Service{
		settings: settings,
		emails:   emails,
		cfg:      cfg,
		defaults: theme.BuiltInDefaults(),
		bus:      bus,
		logger:   logger,
	}
}

// Overrides returns configured defaults overlaid with stored settings.
func (s *Service) Overrides(ctx context.Context) (theme.Overrides, error) {
	out := make(theme.Overrides, len(s.cfg.Colors))
	for k, v := range s.cfg.Colors {
		out[k] = v
	}

	if s.settings != nil {
		rows, err := s.settings.GetPrefix(ctx, SettingsPrefix)
		if err != nil {
			return nil, fmt.Errorf("load color overrides: %w", err)
		}
		for i := range rows {
			out[strings.TrimPrefix(rows[i].Key, SettingsPrefix)] = rows[i].Value
		}
	}

	for k, v := range out {
		if !theme.IsOverrideKey(k) || strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := theme.Parse(v); err != nil {
			invalidOverridesTotal.Inc()
			s.logger.Warn("ignoring unparsable color override",
				zap.String("key", k), zap.String("value", v))
		}
	}
	return out, nil
}

// Snapshot is one resolution of the palette at an instant.
type Snapshot struct {
	GeneratedAt  time.Time                        `json:"generated_at"`
	Palette      theme.CanonicalPalette           `json:"palette"`
	ActivePreset theme.ActivePresetResolution     `json:"active_preset"`
	CSS          map[theme.Mode]map[string]string `json:"css"`
	Stylesheet   string                           `json:"-"`
	Email        theme.EmailTheme                 `json:"email"`
}

// Snapshot resolves the palette, the active preset and every projection at now.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (*Snapshot, error) {
	overrides, err := s.Overrides(ctx)
	if err != nil {
		return nil, err
	}

	palette := theme.BuildCanonical(overrides, s.defaults)
	active := theme.ResolveActivePreset(overrides, now, presetConflictsTotal.Inc)
	if active.ConflictDetected {
		s.logger.Warn("multiple presets active with identical windows",
			zap.String("selected", active.Key), zap.Time("at", now))
		if s.bus != nil {
			s.bus.PublishAsync(ctx, event.Event{
				Topic:   event.TopicPresetConflict,
				Source:  "themes",
				Payload: event.PresetConflict{SelectedKey: active.Key, At: now},
			})
		}
	}

	snap := &Snapshot{
		GeneratedAt:  now,
		Palette:      palette,
		ActivePreset: active,
		CSS:          make(map[theme.Mode]map[string]string, len(theme.Modes)),
		Stylesheet:   theme.Stylesheet(palette, active.Preset),
		Email:        theme.NewEmailTheme(palette, s.cfg.EmailVariant, s.cfg.EmailMode),
	}
	for _, m := range theme.Modes {
		snap.CSS[m] = theme.CSSVariables(palette, m, active.Preset)
	}

	snapshotsTotal.Inc()
	s.logger.Debug("palette resolved",
		zap.String("preset", active.Key),
		zap.Int("overrides", len(overrides)))
	return snap, nil
}

// errNoEmailStore is returned by email sync when the service has no store.
var errNoEmailStore = errors.New("email theme store not configured")

// SyncEmailTheme writes the current email projection onto the default email
// theme record.
func (s *Service) SyncEmailTheme(ctx context.Context, now time.Time) (theme.EmailTheme, error) {
	if s.emails == nil {
		return theme.EmailTheme{}, errNoEmailStore
	}
	snap, err := s.Snapshot(ctx, now)
	if err != nil {
		return theme.EmailTheme{}, err
	}
	return s.storeEmail(ctx, snap)
}

// storeEmail persists snap's email projection as the default record.
func (s *Service) storeEmail(ctx context.Context, snap *Snapshot) (theme.EmailTheme, error) {
	if s.emails == nil {
		return theme.EmailTheme{}, errNoEmailStore
	}
	stored, err := s.emails.UpsertDefault(ctx, snap.Email)
	if err != nil {
		return theme.EmailTheme{}, err
	}
	s.logger.Debug("default email theme synced", zap.String("id", stored.ID))
	return stored, nil
}

// SyncOnChange re-syncs the default email theme whenever the palette changes,
// so the stored record never lags behind the live palette. It is a no-op
// without an email store.
func (s *Service) SyncOnChange(sub event.Subscriber) (unsubscribe func()) {
	if s.emails == nil || sub == nil {
		return func() {}
	}
	return sub.Subscribe(event.TopicPaletteChanged, func(ctx context.Context, e event.Event) {
		if _, err := s.SyncEmailTheme(ctx, time.Now()); err != nil {
			s.logger.Warn("email theme sync after palette change failed",
				zap.String("source", e.Source), zap.Error(err))
		}
	})
}

// EmailTheme returns the persisted default email theme, or the current
// projection when none has been stored yet.
func (s *Service) EmailTheme(ctx context.Context, now time.Time) (theme.EmailTheme, error) {
	if s.emails != nil {
		stored, err := s.emails.GetDefault(ctx)
		if err == nil {
			return *stored, nil
		}
		if !errors.Is(err, ErrNoEmailTheme) {
			return theme.EmailTheme{}, err
		}
	}
	snap, err := s.Snapshot(ctx, now)
	if err != nil {
		return theme.EmailTheme{}, err
	}
	return snap.Email, nil
}
