// Package config resolves runtime settings from flags, HARF_* environment
// variables, an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/harf/internal/content"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HARF"

// Config is the resolved runtime configuration.
type Config struct {
	DBPath   string `mapstructure:"db"`
	DBDriver string `mapstructure:"db_driver"`

	ContentDir string `mapstructure:"content_dir"`
	Stage      string `mapstructure:"stage"`
	Difficulty string `mapstructure:"difficulty"`
	Seed       uint64 `mapstructure:"seed"` // 0 picks a random seed

	DurableMastery   bool          `mapstructure:"durable_mastery"`
	MasteryThreshold int           `mapstructure:"mastery_threshold"`
	FeedbackDelay    time.Duration `mapstructure:"feedback_delay"`
	SlowAnswer       time.Duration `mapstructure:"slow_answer_threshold"`

	AudioDir    string `mapstructure:"audio_dir"`
	AudioPlayer string `mapstructure:"audio_player"` // e.g. "mpg123 -q"; empty disables playback
	Theme       string `mapstructure:"theme"`

	Listen    string  `mapstructure:"listen"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second per client

	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("content_dir", "")
	v.SetDefault("stage", string(content.StageAlphabet))
	v.SetDefault("difficulty", string(content.Beginner))
	v.SetDefault("seed", 0)
	v.SetDefault("durable_mastery", false)
	v.SetDefault("mastery_threshold", 2)
	v.SetDefault("feedback_delay", 1500*time.Millisecond)
	v.SetDefault("slow_answer_threshold", 5*time.Second)
	v.SetDefault("audio_dir", "")
	v.SetDefault("audio_player", "")
	v.SetDefault("theme", "blue")
	v.SetDefault("listen", "127.0.0.1:8080")
	v.SetDefault("rate_limit", 10.0)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
}

// Load resolves configuration. Precedence, highest first: changed flags,
// environment, config file, .env file, defaults. An empty path skips the
// config file; a missing .env is ignored.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		known := v.AllSettings()
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if _, ok := known[key]; !ok || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(key, f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unsupported db_driver %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.DBPath == "" {
		return errors.New("config: db_driver postgres requires db (a DSN)")
	}
	if c.Stage != "" {
		if _, ok := content.ParseStage(c.Stage); !ok {
			return fmt.Errorf("config: %w: %q", content.ErrUnknownStage, c.Stage)
		}
	}
	if _, ok := content.ParseDifficulty(c.Difficulty); !ok {
		return fmt.Errorf("config: unknown difficulty %q", c.Difficulty)
	}
	if c.MasteryThreshold < 1 {
		return fmt.Errorf("config: mastery_threshold must be at least 1, got %d", c.MasteryThreshold)
	}
	if c.FeedbackDelay < 0 || c.SlowAnswer <= 0 {
		return errors.New("config: feedback_delay must be >= 0 and slow_answer_threshold > 0")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("config: rate_limit must be positive, got %v", c.RateLimit)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// StageID returns the configured stage.
func (c *Config) StageID() content.StageID {
	if s, ok := content.ParseStage(c.Stage); ok {
		return s
	}
	return content.StageAlphabet
}

// Level returns the configured option difficulty.
func (c *Config) Level() content.Difficulty {
	if d, ok := content.ParseDifficulty(c.Difficulty); ok {
		return d
	}
	return content.Beginner
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// NewLogger builds the process logger. Without a log file, output is
// discarded so it never corrupts the terminal UI. The returned closer
// releases the file.
func (c *Config) NewLogger() (*slog.Logger, io.Closer, error) {
	if c.LogFile == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	level, _ := parseLevel(c.LogLevel)
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
