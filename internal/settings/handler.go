// Package settings provides the admin HTTP API for theme color overrides and
// presets.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/HerbHall/hostpanel/internal/auth"
	"github.com/HerbHall/hostpanel/internal/event"
	"github.com/HerbHall/hostpanel/internal/services"
	"github.com/HerbHall/hostpanel/internal/themes"
	"github.com/HerbHall/hostpanel/pkg/theme"
	"go.uber.org/zap"
)

// maxBodyBytes bounds admin request bodies.
const maxBodyBytes = 64 << 10

// ColorsRequest is the body of PUT /settings/theme/colors.
// @Description Color overrides to store, keyed by token key with optional _dark or _light suffix.
type ColorsRequest struct {
	Colors map[string]string `json:"colors"`
}

// ColorsResponse lists the stored color overrides.
// @Description Stored color overrides.
type ColorsResponse struct {
	Colors map[string]string `json:"colors"`
}

// PresetResponse is one stored preset.
// @Description A named preset with its payload.
type PresetResponse struct {
	Name   string              `json:"name" example:"summer"`
	Key    string              `json:"key" example:"presets:summer"`
	Preset theme.PresetPayload `json:"preset"`
}

// SettingsProblemDetail represents an RFC 7807 error response for settings endpoints.
// @Description RFC 7807 Problem Details error response.
type SettingsProblemDetail struct {
	Type   string `json:"type" example:"https://hostpanel.dev/problems/settings-error"`
	Title  string `json:"title" example:"Bad Request"`
	Status int    `json:"status" example:"400"`
	Detail string `json:"detail" example:"primary_dark: invalid color"`
}

// Handler provides HTTP handlers for settings endpoints.
type Handler struct {
	settings services.SettingsRepository
	bus      event.Publisher
	logger   *zap.Logger
}

// NewHandler creates a settings Handler. bus may be nil.
func NewHandler(settings services.SettingsRepository, bus event.Publisher, logger *zap.Logger) *Handler {
	return &Handler{
		settings: settings,
		bus:      bus,
		logger:   logger,
	}
}

// RegisterRoutes registers settings-related routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/settings/theme/colors", h.handleGetColors)
	mux.HandleFunc("PUT /api/v1/settings/theme/colors", h.handlePutColors)
	mux.HandleFunc("DELETE /api/v1/settings/theme/colors/{key}", h.handleDeleteColor)

	mux.HandleFunc("GET /api/v1/settings/theme/presets", h.handleListPresets)
	mux.HandleFunc("PUT /api/v1/settings/theme/presets/{name}", h.handlePutPreset)
	mux.HandleFunc("DELETE /api/v1/settings/theme/presets/{name}", h.handleDeletePreset)
}

// handleGetColors returns the stored color overrides.
//
//	@Summary		Get color overrides
//	@Description	Color overrides stored in settings. Presets are listed separately.
//	@Tags			settings
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ColorsResponse
//	@Failure		500	{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings/theme/colors [get]
func (h *Handler) handleGetColors(w http.ResponseWriter, r *http.Request) {
	colors, err := h.storedColors(r.Context())
	if err != nil {
		h.logger.Error("failed to list color overrides", zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to list color overrides")
		return
	}
	writeJSON(w, http.StatusOK, ColorsResponse{Colors: colors})
}

// handlePutColors validates and stores color overrides. Keys not in the body
// are left untouched.
//
//	@Summary		Set color overrides
//	@Description	Validate and store color overrides. Every value must parse as a color.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ColorsRequest			true	"Overrides to store"
//	@Success		200		{object}	ColorsResponse			"All stored overrides"
//	@Failure		400		{object}	SettingsProblemDetail	"Validation error"
//	@Failure		500		{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings/theme/colors [put]
func (h *Handler) handlePutColors(w http.ResponseWriter, r *http.Request) {
	var req ColorsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeSettingsError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Colors) == 0 {
		writeSettingsError(w, http.StatusBadRequest, "colors is required")
		return
	}

	keys := make([]string, 0, len(req.Colors))
	for k := range req.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]string, len(req.Colors))
	for _, k := range keys {
		v := req.Colors[k]
		if err := validateColor(k, v); err != nil {
			writeSettingsError(w, http.StatusBadRequest, err.Error())
			return
		}
		values[themes.SettingsPrefix+k] = strings.TrimSpace(v)
	}

	if err := h.settings.SetMany(r.Context(), values); err != nil {
		h.logger.Error("failed to store color overrides", zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to store color overrides")
		return
	}
	h.logger.Info("color overrides updated", zap.Strings("keys", keys), zap.String("by", actor(r)))
	h.publishChanged(r.Context(), "colors.updated", "")

	h.handleGetColors(w, r)
}

// handleDeleteColor removes one color override.
//
//	@Summary		Delete color override
//	@Description	Remove a stored override so the token falls back to its default.
//	@Tags			settings
//	@Security		BearerAuth
//	@Param			key	path	string	true	"Override key"
//	@Success		204	"Override deleted"
//	@Failure		400	{object}	SettingsProblemDetail	"Unknown key"
//	@Failure		404	{object}	SettingsProblemDetail	"Override not set"
//	@Failure		500	{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings/theme/colors/{key} [delete]
func (h *Handler) handleDeleteColor(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !theme.IsOverrideKey(key) {
		writeSettingsError(w, http.StatusBadRequest, "unknown color key: "+key)
		return
	}
	h.deleteSetting(w, r, key, "override not set", "colors.deleted", "")
}

// handleListPresets returns every stored preset that decodes.
//
//	@Summary		List presets
//	@Description	Stored presets sorted by name. Undecodable entries are skipped.
//	@Tags			settings
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{array}		PresetResponse
//	@Failure		500	{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings/theme/presets [get]
func (h *Handler) handleListPresets(w http.ResponseWriter, r *http.Request) {
	rows, err := h.settings.GetPrefix(r.Context(), themes.SettingsPrefix+theme.PresetKeyPrefix)
	if err != nil {
		h.logger.Error("failed to list presets", zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to list presets")
		return
	}

	overrides := make(theme.Overrides, len(rows))
	for i := range rows {
		overrides[strings.TrimPrefix(rows[i].Key, themes.SettingsPrefix)] = rows[i].Value
	}

	decoded := theme.DecodePresets(overrides)
	if len(decoded) != len(overrides) {
		h.logger.Warn("skipping unparsable presets",
			zap.Int("stored", len(overrides)), zap.Int("decoded", len(decoded)))
	}

	out := make([]PresetResponse, 0, len(decoded))
	for i := range decoded {
		out = append(out, PresetResponse{
			Name:   decoded[i].Name,
			Key:    decoded[i].Key,
			Preset: decoded[i].Payload,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePutPreset validates and stores a preset under presets:{name}.
//
//	@Summary		Store preset
//	@Description	Create or replace a preset. The body is validated against the preset JSON schema.
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			name	path		string					true	"Preset name"
//	@Param			request	body		theme.PresetPayload		true	"Preset payload"
//	@Success		200		{object}	PresetResponse			"Stored preset"
//	@Failure		400		{object}	SettingsProblemDetail	"Validation error"
//	@Failure		500		{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings/theme/presets/{name} [put]
func (h *Handler) handlePutPreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !presetNamePattern.MatchString(name) {
		writeSettingsError(w, http.StatusBadRequest, "invalid preset name: "+name)
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeSettingsError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := validatePreset(raw)
	if err != nil {
		writeSettingsError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		h.logger.Error("failed to marshal preset", zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to store preset")
		return
	}

	key := theme.PresetKeyPrefix + name
	if err := h.settings.Set(r.Context(), themes.SettingsPrefix+key, string(data)); err != nil {
		h.logger.Error("failed to store preset", zap.String("preset", key), zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to store preset")
		return
	}
	h.logger.Info("preset stored", zap.String("preset", key), zap.String("by", actor(r)))
	h.publishChanged(r.Context(), "preset.updated", key)

	writeJSON(w, http.StatusOK, PresetResponse{Name: name, Key: key, Preset: p})
}

// handleDeletePreset removes a preset.
//
//	@Summary		Delete preset
//	@Description	Remove a stored preset.
//	@Tags			settings
//	@Security		BearerAuth
//	@Param			name	path	string	true	"Preset name"
//	@Success		204	"Preset deleted"
//	@Failure		404	{object}	SettingsProblemDetail	"Preset not found"
//	@Failure		500	{object}	SettingsProblemDetail	"Internal server error"
//	@Router			/settings/theme/presets/{name} [delete]
func (h *Handler) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	key := theme.PresetKeyPrefix + r.PathValue("name")
	h.deleteSetting(w, r, key, "preset not found", "preset.deleted", key)
}

func (h *Handler) deleteSetting(w http.ResponseWriter, r *http.Request, key, notFound, reason, presetKey string) {
	err := h.settings.Delete(r.Context(), themes.SettingsPrefix+key)
	if errors.Is(err, services.ErrNotFound) {
		writeSettingsError(w, http.StatusNotFound, notFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to delete setting", zap.String("key", key), zap.Error(err))
		writeSettingsError(w, http.StatusInternalServerError, "failed to delete setting")
		return
	}
	h.logger.Info("theme setting deleted", zap.String("key", key), zap.String("by", actor(r)))
	h.publishChanged(r.Context(), reason, presetKey)

	w.WriteHeader(http.StatusNoContent)
}

// storedColors returns color overrides from settings with the namespace
// stripped, leaving presets out.
func (h *Handler) storedColors(ctx context.Context) (map[string]string, error) {
	rows, err := h.settings.GetPrefix(ctx, themes.SettingsPrefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for i := range rows {
		key := strings.TrimPrefix(rows[i].Key, themes.SettingsPrefix)
		if strings.HasPrefix(key, theme.PresetKeyPrefix) {
			continue
		}
		out[key] = rows[i].Value
	}
	return out, nil
}

// actor names the authenticated caller for audit log lines.
func actor(r *http.Request) string {
	if c := auth.UserFromContext(r.Context()); c != nil {
		return c.Subject
	}
	return "anonymous"
}

func (h *Handler) publishChanged(ctx context.Context, reason, presetKey string) {
	if h.bus == nil {
		return
	}
	_ = h.bus.Publish(ctx, event.Event{
		Topic:   event.TopicPaletteChanged,
		Source:  "settings",
		Payload: event.PaletteChanged{Reason: reason, PresetKey: presetKey},
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSettingsError writes an RFC 7807 problem response.
func writeSettingsError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://hostpanel.dev/problems/settings-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
