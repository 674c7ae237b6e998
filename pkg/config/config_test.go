package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "pixel", cfg.Algorithm)
	assert.Equal(t, domain.DefaultFusionConfig(), cfg.Fusion)
	assert.Equal(t, 512, cfg.Canvas.Size)
	assert.Equal(t, 240, cfg.Canvas.BackgroundThreshold)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	t.Run("書かれていない項目は既定値を保つ", func(t *testing.T) {
		cfg, err := Parse([]byte(`
algorithm: advanced
fusion:
  pixel_size: 4
  color_mode: gradient
canvas:
  size: 256
`))
		require.NoError(t, err)
		assert.Equal(t, "advanced", cfg.Algorithm)
		assert.Equal(t, 4, cfg.Fusion.PixelSize)
		assert.Equal(t, domain.ColorModeGradient, cfg.Fusion.ColorMode)
		assert.True(t, cfg.Fusion.Outline)
		assert.Equal(t, 1.0, cfg.Fusion.BlendRatio)
		assert.Equal(t, 256, cfg.Canvas.Size)
		assert.Equal(t, 85, cfg.Output.JpegQuality)
	})

	t.Run("bool の既定値を false で上書きできる", func(t *testing.T) {
		cfg, err := Parse([]byte("fusion:\n  outline: false\n"))
		require.NoError(t, err)
		assert.False(t, cfg.Fusion.Outline)
	})

	t.Run("明示的な 0 は既定値で上書きしない", func(t *testing.T) {
		cfg, err := Parse([]byte("canvas:\n  background_threshold: 0\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Canvas.BackgroundThreshold)
		assert.Equal(t, 512, cfg.Canvas.Size)
	})

	t.Run("空の設定は Default と同じ", func(t *testing.T) {
		cfg, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{"未知のアルゴリズム", "algorithm: quantum\n", domain.ErrUnsupportedAlgorithm},
		{"負のピクセルサイズ", "fusion:\n  pixel_size: -1\n", domain.ErrDegenerateConfig},
		{"範囲外の blend_ratio", "fusion:\n  blend_ratio: 1.5\n", domain.ErrDegenerateConfig},
		{"キャンバスサイズが負", "canvas:\n  size: -8\n", domain.ErrDegenerateConfig},
		{"キャンバスサイズが 0", "canvas:\n  size: 0\n", domain.ErrDegenerateConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("不正な YAML", func(t *testing.T) {
		_, err := Parse([]byte("fusion: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("JPEG 品質の範囲外", func(t *testing.T) {
		_, err := Parse([]byte("output:\n  jpeg_quality: 120\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("ファイルから読み込む", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pokefusion.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\ncache:\n  ttl_minutes: 1\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
		assert.Equal(t, time.Minute, cfg.CacheTTL())
	})

	t.Run("存在しないファイル", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
