package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/leaf-doctor-kit/pkg/domain"
	"github.com/shouni/leaf-doctor-kit/pkg/generator"
)

const (
	DefaultAddr           = ":7860"
	DefaultMaxUploadBytes = 20 << 20
	DefaultRateLimit      = 1.0
	DefaultRateBurst      = 5
)

// Config はプロセス起動時に一度だけ読み込まれるアプリケーション設定です。
type Config struct {
	APIKey         string
	Addr           string
	PromptsFile    string
	MaxUploadBytes int64
	RateLimit      float64
	RateBurst      int
	LogLevel       slog.Level
	Generator      generator.Config
}

// Load は .env ファイル（存在すれば）と環境変数から設定を読み込みます。
// .env が無いことはエラーではありません。API キーの検証は RequireAPIKey で行います。
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:         strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		Addr:           envOr("LEAFDOCTOR_ADDR", DefaultAddr),
		PromptsFile:    os.Getenv("LEAFDOCTOR_PROMPTS_FILE"),
		MaxUploadBytes: DefaultMaxUploadBytes,
		RateLimit:      DefaultRateLimit,
		RateBurst:      DefaultRateBurst,
		LogLevel:       slog.LevelInfo,
		Generator:      generator.DefaultConfig(),
	}

	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Generator.Model = model
	}

	if v := os.Getenv("LEAFDOCTOR_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("LEAFDOCTOR_REQUEST_TIMEOUT is invalid: %q", v)
		}
		cfg.Generator.Timeout = d
	}

	if v := os.Getenv("LEAFDOCTOR_MAX_RETRIES"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("LEAFDOCTOR_MAX_RETRIES is invalid: %w", err)
		}
		cfg.Generator.MaxRetries = n
	}

	if v := os.Getenv("LEAFDOCTOR_MAX_UPLOAD_MB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("LEAFDOCTOR_MAX_UPLOAD_MB is invalid: %q", v)
		}
		cfg.MaxUploadBytes = int64(n) << 20
	}

	if v := os.Getenv("LEAFDOCTOR_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("LEAFDOCTOR_RATE_LIMIT is invalid: %q", v)
		}
		cfg.RateLimit = f
	}

	if v := os.Getenv("LEAFDOCTOR_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("LEAFDOCTOR_RATE_BURST is invalid: %q", v)
		}
		cfg.RateBurst = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
		}
	}

	return cfg, nil
}

// RequireAPIKey は API キーが設定されていることを確認します。
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return domain.ErrMissingCredential
	}
	return nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		// 既存の環境変数は上書きしない
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("could not load %s: %w", f, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
