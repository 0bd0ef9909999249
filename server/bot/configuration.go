package bot

import (
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Configuration captures the bot's external configuration from the process
// environment.
type Configuration struct {
	BotToken         string `env:"BOT_TOKEN" env-required:"true"`
	TranslationsPath string `env:"TRANSLATIONS_PATH" env-default:"translations"`
	PollsFile        string `env:"FOOD_POLLS_FILE" env-default:"foodPolls.json"`
	ListenAddress    string `env:"LISTEN_ADDR" env-default:":8076"`
	LogLevel         string `env:"LOG_LEVEL" env-default:"info"`
}

// LoadConfiguration reads the configuration from the environment. A .env
// file in the working directory is loaded first when present.
func LoadConfiguration() (*Configuration, error) {
	_ = godotenv.Load()

	var cfg Configuration
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read configuration")
	}
	return &cfg, nil
}

// SlogLevel maps the configured log level onto a slog level, defaulting to
// info for unknown values.
func (c *Configuration) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
