package fusion

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// creature は頭 (上) と胴 (下) の2つの円で構成されたスプライトを描きます。
func creature(t *testing.T, head, body color.NRGBA) *raster.RasterImage {
	t.Helper()
	img, err := raster.NewCanonical(64, 64)
	require.NoError(t, err)
	disc(img, 32, 14, 10, head)
	disc(img, 32, 44, 16, body)
	return img
}

func disc(img *raster.RasterImage, cx, cy, r int, c color.NRGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r && img.InBounds(x, y) {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func countOpaque(img *raster.RasterImage) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func advancedConfig() domain.FusionConfig {
	cfg := domain.DefaultFusionConfig()
	cfg.OutlineStyle = domain.OutlineNone
	return cfg
}

func TestAdvanced(t *testing.T) {
	a := creature(t, red, color.NRGBA{R: 150, G: 30, B: 30, A: 255})
	b := creature(t, blue, color.NRGBA{R: 30, G: 30, B: 150, A: 255})

	t.Run("正常系: 入力と同じサイズでシルエット外は透明のまま", func(t *testing.T) {
		out, err := Advanced(a, b, advancedConfig())
		require.NoError(t, err)
		assert.Equal(t, a.Bounds(), out.Bounds())
		assert.Zero(t, out.AlphaAt(0, 0))
		assert.Equal(t, uint8(255), out.AlphaAt(32, 14))
		assert.Equal(t, uint8(255), out.AlphaAt(32, 50))
		assert.Greater(t, countOpaque(out), 0)
	})

	t.Run("頭部の取得元を切り替えると頭の色が変わる", func(t *testing.T) {
		cfgA := advancedConfig()
		cfgA.HeadSource = domain.RegionParentA
		cfgB := advancedConfig()
		cfgB.HeadSource = domain.RegionParentB

		outA, err := Advanced(a, b, cfgA)
		require.NoError(t, err)
		outB, err := Advanced(a, b, cfgB)
		require.NoError(t, err)
		assert.NotEqual(t, outA.NRGBAAt(32, 14), outB.NRGBAAt(32, 14))
		assert.Equal(t, outA.NRGBAAt(32, 50), outB.NRGBAAt(32, 50))
	})

	t.Run("影と縮小の後処理", func(t *testing.T) {
		base, err := Advanced(a, b, advancedConfig())
		require.NoError(t, err)

		cfg := advancedConfig()
		cfg.Shadow = true
		shadowed, err := Advanced(a, b, cfg)
		require.NoError(t, err)
		assert.Greater(t, countOpaque(shadowed), countOpaque(base))

		cfg = advancedConfig()
		cfg.SizeRatio = 0.5
		small, err := Advanced(a, b, cfg)
		require.NoError(t, err)
		assert.Equal(t, base.Bounds(), small.Bounds())
		assert.Less(t, countOpaque(small), countOpaque(base))
	})

	t.Run("全配色モードで処理できる", func(t *testing.T) {
		for _, mode := range []domain.ColorMode{domain.ColorModeDominant, domain.ColorModeGradient, domain.ColorModePattern} {
			cfg := advancedConfig()
			cfg.ColorMode = mode
			cfg.OutlineStyle = domain.OutlineThick
			out, err := Advanced(a, b, cfg)
			require.NoError(t, err, mode)
			assert.Equal(t, a.Bounds(), out.Bounds())
		}
	})

	t.Run("異常系: サイズ不一致", func(t *testing.T) {
		small, err := raster.NewCanonical(32, 32)
		require.NoError(t, err)
		_, err = Advanced(a, small, advancedConfig())
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("異常系: 不正な設定", func(t *testing.T) {
		cfg := advancedConfig()
		cfg.SizeRatio = 3
		_, err := Advanced(a, b, cfg)
		assert.ErrorIs(t, err, domain.ErrDegenerateConfig)
	})
}
