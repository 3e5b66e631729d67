// Command hostpanel serves the theme palette engine and its admin API.
package main

//	@title						hostpanel API
//	@version					0.1.0
//	@description				Theme palette resolution, CSS and email projections.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/HerbHall/hostpanel/api/swagger"
	"github.com/HerbHall/hostpanel/internal/config"
	"github.com/HerbHall/hostpanel/internal/server"
	"github.com/HerbHall/hostpanel/internal/store"
	"github.com/HerbHall/hostpanel/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "hostpanel",
		Short:         "Theme palette engine for the hosting panel",
		Long:          "hostpanel resolves the panel's color palette from overrides and scheduled presets and serves it as JSON, CSS variables and email themes.",
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to configuration file")

	cmd.AddCommand(
		newServeCmd(opts),
		newPaletteCmd(opts),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *globalOptions) load() (*viper.Viper, error) {
	v, err := server.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return v, nil
}

// openStore opens the database at database.path, creating its directory, and
// refuses databases written by a newer binary.
func openStore(ctx context.Context, v *viper.Viper) (*store.SQLiteStore, string, error) {
	path := config.New(v).DatabasePath()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, "", fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := store.New(path)
	if err != nil {
		return nil, "", err
	}
	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, path, nil
}
