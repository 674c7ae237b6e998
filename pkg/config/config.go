// Package config は CLI とライブラリ利用者向けの YAML 設定を読み込みます。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
)

// Config は融合ツール全体の設定です。
type Config struct {
	Algorithm string              `yaml:"algorithm"`
	Fusion    domain.FusionConfig `yaml:"fusion"`
	Canvas    CanvasConfig        `yaml:"canvas"`
	Cache     CacheConfig         `yaml:"cache"`
	HTTP      HTTPConfig          `yaml:"http"`
	Namer     NamerConfig         `yaml:"namer"`
	Output    OutputConfig        `yaml:"output"`
	Logging   LoggingConfig       `yaml:"logging"`
}

// CanvasConfig は入力画像を配置するキャンバスの設定です。
type CanvasConfig struct {
	Size                int  `yaml:"size"`
	RemoveBackground    bool `yaml:"remove_background"`
	BackgroundThreshold int  `yaml:"background_threshold"` // 0-255, default 240
}

type CacheConfig struct {
	TTLMinutes     int `yaml:"ttl_minutes"`
	CleanupMinutes int `yaml:"cleanup_minutes"`
}

type HTTPConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// NamerConfig は Gemini による融合名提案の設定です。API キーは環境変数から読みます。
type NamerConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type OutputConfig struct {
	JpegQuality   int `yaml:"jpeg_quality"`   // 1-100, default 85
	ThumbnailSize int `yaml:"thumbnail_size"` // default 128
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default は設定ファイルがない場合の既定値です。
func Default() *Config {
	return &Config{
		Algorithm: string(domain.AlgorithmPixel),
		Fusion:    domain.DefaultFusionConfig(),
		Canvas:    CanvasConfig{Size: 512, BackgroundThreshold: 240},
		Cache:     CacheConfig{TTLMinutes: 10, CleanupMinutes: 15},
		HTTP:      HTTPConfig{TimeoutSeconds: 30},
		Namer:     NamerConfig{Model: "gemini-2.5-flash", APIKeyEnv: "GEMINI_API_KEY"},
		Output:    OutputConfig{JpegQuality: 85, ThumbnailSize: 128},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// Load は YAML ファイルから設定を読み込みます。
// ファイルに書かれていない項目は既定値のままです。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse は YAML のバイト列から設定を組み立てて検証します。
func Parse(data []byte) (*Config, error) {
	// 既定値の上に重ねるので、明示的なゼロ値もそのまま残る
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の範囲を検証します。
func (c *Config) Validate() error {
	if _, err := domain.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if err := c.Fusion.Validate(); err != nil {
		return err
	}
	if c.Canvas.Size < 1 {
		return fmt.Errorf("%w: canvas size must be >= 1, got %d", domain.ErrDegenerateConfig, c.Canvas.Size)
	}
	if c.Canvas.BackgroundThreshold < 0 || c.Canvas.BackgroundThreshold > 255 {
		return fmt.Errorf("background_threshold must be within [0,255], got %d", c.Canvas.BackgroundThreshold)
	}
	if c.Output.JpegQuality < 1 || c.Output.JpegQuality > 100 {
		return fmt.Errorf("jpeg_quality must be within [1,100], got %d", c.Output.JpegQuality)
	}
	return nil
}

// CacheTTL は結果キャッシュの有効期限です。
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// CacheCleanup は期限切れエントリを掃除する間隔です。
func (c *Config) CacheCleanup() time.Duration {
	return time.Duration(c.Cache.CleanupMinutes) * time.Minute
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// LogLevel は Logging.Level を slog のレベルに変換します。未知の値は info です。
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
