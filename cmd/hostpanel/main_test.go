package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HerbHall/hostpanel/internal/auth"
	"github.com/HerbHall/hostpanel/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testSecret = "cli-test-secret-0123456789abcdef"

// writeConfig writes a config file pointing the database into a temp dir.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	body := "database:\n" +
		"  path: " + filepath.ToSlash(filepath.Join(dir, "hostpanel.db")) + "\n" +
		"logging:\n" +
		"  level: error\n" +
		extra
	path := filepath.Join(dir, "hostpanel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const redPrimary = "theme:\n  colors:\n    primary_dark: \"#FF0000\"\n"

func TestPaletteCmd_JSON(t *testing.T) {
	cfg := writeConfig(t, redPrimary)

	out, err := runCLI(t, "--config", cfg, "palette", "--mode", "dark")
	require.NoError(t, err)

	var got struct {
		ActivePreset string                       `json:"active_preset"`
		Modes        map[string]map[string]string `json:"modes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Contains(t, got.Modes, "dark")
	assert.NotContains(t, got.Modes, "light")
	assert.Equal(t, "#FF0000", got.Modes["dark"]["primary"])
	assert.Equal(t, "#141414", got.Modes["dark"]["background"])
	assert.Empty(t, got.ActivePreset)
}

func TestPaletteCmd_YAMLBothModes(t *testing.T) {
	cfg := writeConfig(t, redPrimary)

	out, err := runCLI(t, "--config", cfg, "palette", "--format", "yaml")
	require.NoError(t, err)

	var got struct {
		Modes map[string]map[string]string `yaml:"modes"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "#FF0000", got.Modes["dark"]["primary"])
	assert.Equal(t, "#15803D", got.Modes["light"]["primary"])
}

func TestPaletteCmd_CSS(t *testing.T) {
	cfg := writeConfig(t, redPrimary)

	t.Run("single mode", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfg, "palette", "--mode", "dark", "--format", "css")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, ":root {\n"), out)
		assert.Contains(t, out, "  --theme-primary: #FF0000;\n")
		assert.Contains(t, out, "  --theme-primary-rgb: 255 0 0;\n")
		assert.NotContains(t, out, "data-theme")
	})

	t.Run("both modes", func(t *testing.T) {
		out, err := runCLI(t, "--config", cfg, "palette", "--format", "css")
		require.NoError(t, err)
		assert.Contains(t, out, "[data-theme=\"light\"] {")
		assert.Contains(t, out, "prefers-color-scheme: light")
		assert.Contains(t, out, "--theme-primary: #FF0000;")
	})
}

func TestPaletteCmd_InvalidFlags(t *testing.T) {
	cfg := writeConfig(t, "")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad mode", []string{"--mode", "sepia"}, "--mode"},
		{"bad format", []string{"--format", "toml"}, "--format"},
		{"bad instant", []string{"--at", "next tuesday"}, "--at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "palette"}, tt.args...)
			_, err := runCLI(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTokenCmd(t *testing.T) {
	cfg := writeConfig(t, "auth:\n  jwt_secret: "+testSecret+"\n")

	out, err := runCLI(t, "--config", cfg, "token", "--subject", "ops")
	require.NoError(t, err)

	claims, err := auth.NewTokenService([]byte(testSecret), 0).ValidateAccessToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestTokenCmd_RequiresSecret(t *testing.T) {
	cfg := writeConfig(t, "")

	_, err := runCLI(t, "--config", cfg, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Info()+"\n", out)
}
