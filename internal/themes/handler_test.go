package themes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/hostpanel/internal/config"
	"github.com/HerbHall/hostpanel/internal/testutil"
	"github.com/HerbHall/hostpanel/pkg/theme"
	"go.uber.org/zap/zaptest"
)

func setupHandlerEnv(t *testing.T) (*testEnv, *http.ServeMux) {
	t.Helper()
	env := newTestEnv(t, config.ThemeSettings{})

	h := NewHandler(env.svc, zaptest.NewLogger(t))
	h.now = func() time.Time { return june15 }

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return env, mux
}

func doRequest(mux *http.ServeMux, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandlePalette(t *testing.T) {
	env, mux := setupHandlerEnv(t)
	env.set(t, "primary_dark", "#112233")

	w := doRequest(mux, "GET", "/api/v1/theme/palette")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Palette struct {
			Dark  map[string]string `json:"dark"`
			Light map[string]string `json:"light"`
		} `json:"palette"`
		ActivePreset struct {
			Preset *theme.PresetPayload `json:"preset"`
		} `json:"active_preset"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := resp.Palette.Dark["primary"]; got != "#112233" {
		t.Errorf("dark primary = %q, want %q", got, "#112233")
	}
	if got := resp.Palette.Light["background"]; got != "#F4F4F5" {
		t.Errorf("light background = %q, want %q", got, "#F4F4F5")
	}
	if resp.ActivePreset.Preset != nil {
		t.Errorf("preset = %+v, want nil", resp.ActivePreset.Preset)
	}
}

func TestHandleCSS(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantMode theme.Mode
		wantBG   string
	}{
		{"default dark", "", http.StatusOK, theme.ModeDark, "#141414"},
		{"light", "?mode=light", http.StatusOK, theme.ModeLight, "#F4F4F5"},
		{"upper case", "?mode=DARK", http.StatusOK, theme.ModeDark, "#141414"},
		{"invalid", "?mode=sepia", http.StatusBadRequest, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, mux := setupHandlerEnv(t)
			w := doRequest(mux, "GET", "/api/v1/theme/css"+tc.query)
			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantCode)
			}
			if tc.wantCode != http.StatusOK {
				if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
					t.Errorf("Content-Type = %q, want problem+json", ct)
				}
				return
			}

			var resp CSSResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if resp.Mode != tc.wantMode {
				t.Errorf("mode = %q, want %q", resp.Mode, tc.wantMode)
			}
			if got := resp.Variables["--theme-background"]; got != tc.wantBG {
				t.Errorf("--theme-background = %q, want %q", got, tc.wantBG)
			}
		})
	}
}

func TestHandleCSS_ActivePreset(t *testing.T) {
	env, mux := setupHandlerEnv(t)
	p := testutil.NewPreset(
		testutil.WithDark("primary", "#FF0000"),
		testutil.WithWindow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Time{}),
	)
	env.set(t, "presets:summer", testutil.PresetJSON(t, p))

	w := doRequest(mux, "GET", "/api/v1/theme/css?mode=dark")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp CSSResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for name, want := range map[string]string{
		"--theme-primary":      "#FF0000",
		"--theme-primary-dark": "#FF0000",
		"--theme-primary-rgb":  "255 0 0",
	} {
		if got := resp.Variables[name]; got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestHandleStylesheet(t *testing.T) {
	_, mux := setupHandlerEnv(t)

	w := doRequest(mux, "GET", "/api/v1/theme/stylesheet.css")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q, want text/css", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc == "" {
		t.Error("Cache-Control header not set")
	}
	body := w.Body.String()
	if !strings.Contains(body, "--theme-background: #141414;") {
		t.Errorf("stylesheet missing dark background:\n%s", body)
	}
	if !strings.Contains(body, "--theme-background: #F4F4F5;") {
		t.Errorf("stylesheet missing light background:\n%s", body)
	}
}

func TestHandleEmail(t *testing.T) {
	env, mux := setupHandlerEnv(t)

	w := doRequest(mux, "GET", "/api/v1/theme/email")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var projected theme.EmailTheme
	if err := json.NewDecoder(w.Body).Decode(&projected); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if projected.ID != "" {
		t.Errorf("unsynced email theme ID = %q, want empty", projected.ID)
	}
	if projected.VariantMode != theme.VariantDual || projected.LightPalette == nil {
		t.Errorf("email theme = %+v, want dual variant with light palette", projected)
	}

	stored, err := env.svc.SyncEmailTheme(t.Context(), june15)
	if err != nil {
		t.Fatalf("SyncEmailTheme: %v", err)
	}

	w = doRequest(mux, "GET", "/api/v1/theme/email")
	var got theme.EmailTheme
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ID != stored.ID {
		t.Errorf("ID = %q, want stored %q", got.ID, stored.ID)
	}
}

func TestHandlePreset(t *testing.T) {
	env, mux := setupHandlerEnv(t)
	env.set(t, "presets:fallback", testutil.PresetJSON(t, testutil.NewPreset(testutil.AsDefault())))

	w := doRequest(mux, "GET", "/api/v1/theme/preset")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp theme.ActivePresetResolution
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if resp.Key != "presets:fallback" {
		t.Errorf("key = %q, want presets:fallback", resp.Key)
	}
	if resp.Preset == nil || !resp.Preset.Default {
		t.Errorf("preset = %+v, want default preset", resp.Preset)
	}
}
