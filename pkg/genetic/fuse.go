package genetic

import (
	"math/rand/v2"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// Fuse は形質抽出、交配、描画までを通して行い、A と同じサイズの画像と交配結果を返します。
// cfg.PixelSize が 1 の場合は DefaultBlockSize でピクセル化します。
func Fuse(a, b *raster.RasterImage, cfg domain.FusionConfig, rng *rand.Rand) (*raster.RasterImage, Offspring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Offspring{}, err
	}
	if !a.SameSize(b) {
		return nil, Offspring{}, domain.NewDimensionMismatch(a.Width(), a.Height(), b.Width(), b.Height())
	}

	pa, err := ExtractProfile(a, rng)
	if err != nil {
		return nil, Offspring{}, err
	}
	pb, err := ExtractProfile(b, rng)
	if err != nil {
		return nil, Offspring{}, err
	}
	child := Synthesize(pa, pb, OptionsFrom(cfg), rng)

	block := DefaultBlockSize
	if cfg.PixelSize > 1 {
		block = cfg.PixelSize
	}
	img, err := Render(child.Profile, a.Width(), a.Height(), block, rng)
	if err != nil {
		return nil, Offspring{}, err
	}
	return img, child, nil
}
