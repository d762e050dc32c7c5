package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

const (
	// KeyError is the key used for errors in log attributes.
	KeyError = "err"

	// KeyDal is the key used for the data access layer name.
	KeyDal = "dal"

	// KeyGuildID is the key used for guild IDs.
	KeyGuildID = "guild_id"

	// KeyCommand is the key used for command names.
	KeyCommand = "command"

	// KeyUserID is the key used for user IDs.
	KeyUserID = "user_id"

	// keyApp is the key used for the application name.
	keyApp = "app"
)

// LevelCritical is logged when the application cannot continue.
const LevelCritical = slog.Level(12)

// Name is the name of the application doing the logging.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// Name is the name of the application.
	Name Name

	// Level is the minimum level that is logged.
	Level slog.Leveler

	// Writer is where the logs are written. Defaults to stderr.
	Writer io.Writer

	// NoColor disables the ANSI colouring of the console output.
	NoColor bool
}

// NewConfig creates a new logging config with the default values.
func NewConfig(name Name) *Config {
	return &Config{
		Name:   name,
		Level:  slog.LevelInfo,
		Writer: os.Stderr,
	}
}

// CommonLogger creates the logger used across the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("logging config is nil")
	}

	w := c.Writer
	if w == nil {
		w = os.Stderr
	}

	level := c.Level
	if level == nil {
		level = slog.LevelInfo
	}

	h := tint.NewHandler(w, &tint.Options{
		AddSource:  level.Level() <= slog.LevelDebug,
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    c.NoColor,
	})

	l := slog.New(h)
	if c.Name != "" {
		l = l.With(slog.String(keyApp, string(c.Name)))
	}

	slog.SetDefault(l)
	return l, nil
}

// ParseLevel converts a level name (debug, info, warn, error) into a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// discordgo log levels, mirrored from the library so this package does not import it.
const (
	discordgoLogError = iota
	discordgoLogWarning
	discordgoLogInformational
	discordgoLogDebug
)

var discordgoLevels = map[int]slog.Level{
	discordgoLogError:         slog.LevelError,
	discordgoLogWarning:       slog.LevelWarn,
	discordgoLogInformational: slog.LevelInfo,
	discordgoLogDebug:         slog.LevelDebug,
}

// DiscordgoLogger returns a function matching the discordgo.Logger signature that writes into l.
func DiscordgoLogger(l *slog.Logger) func(msgL, caller int, format string, a ...any) {
	l = l.With(slog.String("source", "discordgo"))
	return func(msgL, _ int, format string, a ...any) {
		level, ok := discordgoLevels[msgL]
		if !ok {
			level = slog.LevelInfo
		}
		l.Log(context.Background(), level, strings.ReplaceAll(fmt.Sprintf(format, a...), "\n", " "))
	}
}
