package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every setting the service needs. It is loaded once in main
// and passed into constructors explicitly; nothing reads the process
// environment after startup.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Slack    SlackConfig    `mapstructure:"slack"`
}

type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"` // base64-encoded HMAC key
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// GraphConfig holds the Azure AD application credentials and the group names
// whose members form the allowed worker set. Empty group names mean no
// restriction.
type GraphConfig struct {
	BaseURL      string   `mapstructure:"base_url"`
	TenantID     string   `mapstructure:"tenant_id"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	GroupNames   []string `mapstructure:"group_names"`
}

// UploadsConfig selects where uploaded exports are stored: an S3 bucket when
// Bucket is set, a local directory otherwise.
type UploadsConfig struct {
	Bucket   string `mapstructure:"bucket"`
	LocalDir string `mapstructure:"local_dir"`
}

type SlackConfig struct {
	Token        string `mapstructure:"token"`
	InfoChannel  string `mapstructure:"info_channel"`
	ErrorChannel string `mapstructure:"error_channel"`
}

// Load reads config.yaml from the given directory, with SHIFTSYNC_-prefixed
// environment variables overriding file values.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("SHIFTSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8090)
	v.SetDefault("graph.base_url", "https://graph.microsoft.com/v1.0")
	v.SetDefault("uploads.local_dir", "uploads")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no file is fine, env and defaults still apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
