package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/HerbHall/hostpanel/internal/config"
	"github.com/HerbHall/hostpanel/internal/services"
	"github.com/HerbHall/hostpanel/internal/themes"
	"github.com/HerbHall/hostpanel/pkg/theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// paletteOutput is the json and yaml shape of `hostpanel palette`.
type paletteOutput struct {
	GeneratedAt  time.Time                        `json:"generated_at" yaml:"generated_at"`
	ActivePreset string                           `json:"active_preset,omitempty" yaml:"active_preset,omitempty"`
	Modes        map[theme.Mode]map[string]string `json:"modes" yaml:"modes"`
}

type paletteFlags struct {
	mode   string
	format string
	at     string
}

func newPaletteCmd(opts *globalOptions) *cobra.Command {
	f := &paletteFlags{}
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Print the resolved palette",
		Long:  "Resolve the palette from configuration and stored overrides and print it as json, yaml or css.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			modes, err := parseModes(f.mode)
			if err != nil {
				return err
			}
			at := time.Now()
			if f.at != "" {
				ts, err := theme.ParseTimestamp(f.at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				at = ts.Time
			}

			v, err := opts.load()
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(v)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			themeCfg, err := config.New(v).Theme()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, _, err := openStore(ctx, v)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			repo, err := services.NewSQLiteSettingsRepository(ctx, db)
			if err != nil {
				return err
			}
			snap, err := themes.NewService(repo, nil, themeCfg, nil, logger.Named("themes")).Snapshot(ctx, at)
			if err != nil {
				return err
			}
			return writePalette(cmd.OutOrStdout(), snap, modes, f.format)
		},
	}
	cmd.Flags().StringVar(&f.mode, "mode", "both", "palette mode: dark, light or both")
	cmd.Flags().StringVar(&f.format, "format", "json", "output format: json, yaml or css")
	cmd.Flags().StringVar(&f.at, "at", "", "resolve presets at this RFC 3339 instant instead of now")
	return cmd
}

func parseModes(s string) ([]theme.Mode, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return theme.Modes, nil
	}
	m, err := theme.ParseMode(s)
	if err != nil {
		return nil, fmt.Errorf("--mode: %w", err)
	}
	return []theme.Mode{m}, nil
}

// writePalette renders snap for the selected modes.
func writePalette(w io.Writer, snap *themes.Snapshot, modes []theme.Mode, format string) error {
	switch format {
	case "json", "yaml":
		out := paletteOutput{
			GeneratedAt:  snap.GeneratedAt.UTC(),
			ActivePreset: snap.ActivePreset.Key,
			Modes:        make(map[theme.Mode]map[string]string, len(modes)),
		}
		for _, m := range modes {
			out.Modes[m] = snap.Palette.Mode(m).Map()
		}
		if format == "yaml" {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode yaml: %w", err)
			}
			return enc.Close()
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case "css":
		if len(modes) > 1 {
			_, err := io.WriteString(w, snap.Stylesheet)
			return err
		}
		return writeRootBlock(w, snap.CSS[modes[0]])
	}
	return fmt.Errorf("--format: unsupported format %q: must be json, yaml or css", format)
}

func writeRootBlock(w io.Writer, vars map[string]string) error {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %s;\n", name, vars[name])
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
