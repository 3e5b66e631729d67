package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HerbHall/hostpanel/internal/themes"
	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Host      string
	Port      int
	DevMode   bool
	ReadOnly  bool
	RateLimit float64
	RateBurst int
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerConfig reads the "server" section of v. Keys are read one by one so
// environment overrides apply.
func ServerConfig(v *viper.Viper) (Config, error) {
	c := Config{
		Host:      v.GetString("server.host"),
		Port:      v.GetInt("server.port"),
		DevMode:   v.GetBool("server.dev_mode"),
		ReadOnly:  v.GetBool("server.read_only"),
		RateLimit: v.GetFloat64("server.rate_limit"),
		RateBurst: v.GetInt("server.rate_burst"),
	}
	if c.Port < 0 || c.Port > 65535 {
		return Config{}, fmt.Errorf("server.port %d out of range", c.Port)
	}
	return c, nil
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.read_only", false)
	v.SetDefault("server.rate_limit", 100)
	v.SetDefault("server.rate_burst", 200)
	v.SetDefault("database.path", "./data/hostpanel.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_token_ttl", "12h")
	v.SetDefault("theme.sync_schedule", themes.DefaultSyncSchedule)
	v.SetDefault("theme.email.mode", "light") // single variant only; dual is dark + light
	v.SetDefault("theme.email.variant_mode", "dual")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("hostpanel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hostpanel")
	}

	// Environment variable support: HP_SERVER_PORT=9090
	v.SetEnvPrefix("HP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
