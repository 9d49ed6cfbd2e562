// internal/config/config.go
//
// Process configuration, read from the environment once at startup.
// A `.env` file in the working directory is loaded first (development).
//
// Environment variables:
//   PORT            HTTP listen port                      (default 5175)
//   LOG_LEVEL       zerolog level                         (default info)
//   WORDS_FILE      dictionary file, .json or .txt        (default embedded)
//   WORD_MIN_LEN    shortest target word, 4..6            (default 4)
//   WORD_MAX_LEN    longest target word, 4..6             (default 6)
//   FALLBACK_WORD   target when no word fits the range    (default "word")
//                   must be a-z and fit the length range
//   DAILY_SALT      HMAC salt for daily rooms             (default local_dev_salt)
//   JWT_SECRET      HS256 secret for HTTP actor tokens    (default dev_secret_change_me)
//   CLIENT_ORIGIN   CORS origin                           (default http://localhost:5173)
//   DISCORD_TOKEN   bot token; empty disables Discord
//   COMMAND_PREFIX  chat command prefix                   (default "!")
//   PROMPT_TIMEOUT  free-text follow-up wait              (default 60s)

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/room-bot/internal/words"
)

// Config is the resolved process configuration.
type Config struct {
	Port          string
	LogLevel      zerolog.Level
	WordsFile     string
	MinLength     int
	MaxLength     int
	FallbackWord  string
	DailySalt     string
	JWTSecret     string
	ClientOrigin  string
	DiscordToken  string
	CommandPrefix string
	PromptTimeout time.Duration
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment without touching .env files.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "5175"),
		WordsFile:     os.Getenv("WORDS_FILE"),
		FallbackWord:  getEnv("FALLBACK_WORD", "word"),
		DailySalt:     getEnv("DAILY_SALT", "local_dev_salt"),
		JWTSecret:     getEnv("JWT_SECRET", "dev_secret_change_me"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		CommandPrefix: getEnv("COMMAND_PREFIX", "!"),
	}

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl

	if cfg.MinLength, err = envInt("WORD_MIN_LEN", 4); err != nil {
		return Config{}, err
	}
	if cfg.MaxLength, err = envInt("WORD_MAX_LEN", 6); err != nil {
		return Config{}, err
	}
	if cfg.MinLength < words.MinTargetLength || cfg.MaxLength > words.MaxTargetLength || cfg.MaxLength < cfg.MinLength {
		return Config{}, fmt.Errorf("config: word length range %d-%d outside %d-%d",
			cfg.MinLength, cfg.MaxLength, words.MinTargetLength, words.MaxTargetLength)
	}

	fallback, ok := words.Normalize(cfg.FallbackWord)
	if !ok || len(fallback) < cfg.MinLength || len(fallback) > cfg.MaxLength {
		return Config{}, fmt.Errorf("config: FALLBACK_WORD %q must be %d-%d letters a-z",
			cfg.FallbackWord, cfg.MinLength, cfg.MaxLength)
	}
	cfg.FallbackWord = fallback

	timeout, err := time.ParseDuration(getEnv("PROMPT_TIMEOUT", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("config: PROMPT_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("config: PROMPT_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.PromptTimeout = timeout

	return cfg, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}
