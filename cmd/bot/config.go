package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/lithium/pkg/logging"
	"github.com/spf13/viper"
)

const (
	// AppName is the name of the application.
	AppName = "lithium"

	defaultDatabaseName   = "lithium"
	defaultMonitoringPort = "8080"
	defaultBackupDir      = "setup/backups"
	defaultLogLevel       = "info"
)

// Config is the configuration of the bot.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string `mapstructure:"bot_token"`

	// ApplicationID is the ID of the application the commands are registered for.
	ApplicationID string `mapstructure:"application_id"`

	// DatabaseURI is the URI of the MongoDB server.
	DatabaseURI string `mapstructure:"database_uri"`

	// DatabaseName is the name of the database holding the guild configs.
	DatabaseName string `mapstructure:"database_name"`

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string `mapstructure:"monitoring_port"`

	// BackupDir is the folder backups are written to.
	BackupDir string `mapstructure:"backup_dir"`

	// LogLevel is the minimum level that is logged.
	LogLevel string `mapstructure:"log_level"`
}

// envBindings maps config keys to the environment variables they are read from, in order of precedence.
var envBindings = map[string][]string{
	"bot_token":       {"BOT_TOKEN"},
	"application_id":  {"APPLICATION_ID"},
	"database_uri":    {"DATABASE_URI", "MONGO_URI"},
	"database_name":   {"DATABASE_NAME"},
	"monitoring_port": {"MONITORING_PORT"},
	"backup_dir":      {"BACKUP_DIR"},
	"log_level":       {"LOG_LEVEL"},
}

// loadConfig reads the config file, when one is given, and the environment into a Config.
func loadConfig(v *viper.Viper, file string) (*Config, error) {
	v.SetDefault("bot_token", "")
	v.SetDefault("application_id", "")
	v.SetDefault("database_uri", "")
	v.SetDefault("database_name", defaultDatabaseName)
	v.SetDefault("monitoring_port", defaultMonitoringPort)
	v.SetDefault("backup_dir", defaultBackupDir)
	v.SetDefault("log_level", defaultLogLevel)

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	if c.ApplicationID == "" {
		missing = append(missing, "APPLICATION_ID")
	}
	if c.DatabaseURI == "" {
		missing = append(missing, "DATABASE_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.DatabaseName == "" {
		return errors.New("database name cannot be empty")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
