package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFusionConfig_Validate(t *testing.T) {
	t.Run("既定値は妥当", func(t *testing.T) {
		require.NoError(t, DefaultFusionConfig().Validate())
	})

	tests := []struct {
		name   string
		mutate func(c *FusionConfig)
	}{
		{"pixelSize が 0", func(c *FusionConfig) { c.PixelSize = 0 }},
		{"pixelSize が負", func(c *FusionConfig) { c.PixelSize = -3 }},
		{"blendRatio が 1.5", func(c *FusionConfig) { c.BlendRatio = 1.5 }},
		{"blendRatio が負", func(c *FusionConfig) { c.BlendRatio = -0.1 }},
		{"blendRatio が NaN", func(c *FusionConfig) { c.BlendRatio = math.NaN() }},
		{"mutationRate が範囲外", func(c *FusionConfig) { c.MutationRate = 2 }},
		{"sizeRatio が範囲外", func(c *FusionConfig) { c.SizeRatio = 3 }},
		{"未知の shapeSource", func(c *FusionConfig) { c.ShapeSource = "third" }},
		{"未知の outlineStyle", func(c *FusionConfig) { c.OutlineStyle = "dotted" }},
		{"未知の featureMixing", func(c *FusionConfig) { c.FeatureMixing = "" }},
		{"未知の palette", func(c *FusionConfig) { c.Palette = "octree" }},
		{"hybrid の入れ子", func(c *FusionConfig) { c.HybridPrimary = AlgorithmHybrid }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFusionConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegenerateConfig))
		})
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range Algorithms {
		got, err := ParseAlgorithm(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := ParseAlgorithm("quantum")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestResourceLoadError(t *testing.T) {
	cause := errors.New("404")
	var err error = &ResourceLoadError{URI: "https://example.com/1.png", Err: cause}

	var rle *ResourceLoadError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, "https://example.com/1.png", rle.URI)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, NewDimensionMismatch(2, 2, 4, 4), ErrDimensionMismatch)
}
