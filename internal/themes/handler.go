package themes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/HerbHall/hostpanel/pkg/theme"
	"go.uber.org/zap"
)

// PaletteResponse is the body of GET /theme/palette.
// @Description Resolved dark and light palettes with role projections.
type PaletteResponse struct {
	GeneratedAt  time.Time                    `json:"generated_at"`
	Palette      theme.CanonicalPalette       `json:"palette"`
	ActivePreset theme.ActivePresetResolution `json:"active_preset"`
}

// CSSResponse is the body of GET /theme/css.
// @Description CSS custom properties for one mode.
type CSSResponse struct {
	Mode      theme.Mode        `json:"mode" example:"dark"`
	Variables map[string]string `json:"variables"`
}

// ThemeProblemDetail represents an RFC 7807 error response for theme endpoints.
// @Description RFC 7807 Problem Details error response.
type ThemeProblemDetail struct {
	Type   string `json:"type" example:"https://hostpanel.dev/problems/theme-error"`
	Title  string `json:"title" example:"Bad Request"`
	Status int    `json:"status" example:"400"`
	Detail string `json:"detail" example:"invalid mode \"sepia\""`
}

// Handler serves the public, read-only theme endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a theme Handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger, now: time.Now}
}

// RegisterRoutes registers theme routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/theme/palette", h.handlePalette)
	mux.HandleFunc("GET /api/v1/theme/css", h.handleCSS)
	mux.HandleFunc("GET /api/v1/theme/stylesheet.css", h.handleStylesheet)
	mux.HandleFunc("GET /api/v1/theme/email", h.handleEmail)
	mux.HandleFunc("GET /api/v1/theme/preset", h.handlePreset)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (*Snapshot, bool) {
	snap, err := h.svc.Snapshot(r.Context(), h.now())
	if err != nil {
		h.logger.Error("failed to resolve palette", zap.Error(err))
		writeThemeError(w, http.StatusInternalServerError, "failed to resolve palette")
		return nil, false
	}
	return snap, true
}

// handlePalette returns both resolved palettes.
//
//	@Summary		Get palette
//	@Description	Resolve the dark and light palettes, their roles and the active preset.
//	@Tags			theme
//	@Produce		json
//	@Success		200	{object}	PaletteResponse
//	@Failure		500	{object}	ThemeProblemDetail
//	@Router			/theme/palette [get]
func (h *Handler) handlePalette(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, PaletteResponse{
		GeneratedAt:  snap.GeneratedAt,
		Palette:      snap.Palette,
		ActivePreset: snap.ActivePreset,
	})
}

// handleCSS returns the CSS variable map for one mode.
//
//	@Summary		Get CSS variables
//	@Description	CSS custom properties for the requested mode, with the active preset applied.
//	@Tags			theme
//	@Produce		json
//	@Param			mode	query		string	false	"dark or light (default dark)"
//	@Success		200		{object}	CSSResponse
//	@Failure		400		{object}	ThemeProblemDetail
//	@Failure		500		{object}	ThemeProblemDetail
//	@Router			/theme/css [get]
func (h *Handler) handleCSS(w http.ResponseWriter, r *http.Request) {
	mode := theme.ModeDark
	if q := r.URL.Query().Get("mode"); q != "" {
		m, err := theme.ParseMode(q)
		if err != nil {
			writeThemeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CSSResponse{Mode: mode, Variables: snap.CSS[mode]})
}

// handleStylesheet serves both modes as a stylesheet.
//
//	@Summary		Get stylesheet
//	@Description	Both palettes rendered as CSS custom properties.
//	@Tags			theme
//	@Produce		text/css
//	@Success		200	{string}	string
//	@Failure		500	{object}	ThemeProblemDetail
//	@Router			/theme/stylesheet.css [get]
func (h *Handler) handleStylesheet(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(snap.Stylesheet))
}

// handleEmail returns the default email theme.
//
//	@Summary		Get email theme
//	@Description	The default email theme record, or the current projection if none is stored.
//	@Tags			theme
//	@Produce		json
//	@Success		200	{object}	theme.EmailTheme
//	@Failure		500	{object}	ThemeProblemDetail
//	@Router			/theme/email [get]
func (h *Handler) handleEmail(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.EmailTheme(r.Context(), h.now())
	if err != nil {
		h.logger.Error("failed to load email theme", zap.Error(err))
		writeThemeError(w, http.StatusInternalServerError, "failed to load email theme")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// handlePreset returns the preset in effect now.
//
//	@Summary		Get active preset
//	@Description	The preset selected for the current instant; preset is null when none applies.
//	@Tags			theme
//	@Produce		json
//	@Success		200	{object}	theme.ActivePresetResolution
//	@Failure		500	{object}	ThemeProblemDetail
//	@Router			/theme/preset [get]
func (h *Handler) handlePreset(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.ActivePreset)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeThemeError writes an RFC 7807 problem response.
func writeThemeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://hostpanel.dev/problems/theme-error",
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
