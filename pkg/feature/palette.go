package feature

import (
	"cmp"
	"image"
	"image/color"
	"log/slog"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/shouni/poke-fusion-kit/pkg/colorops"
	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// PaletteMethod は代表色の抽出方式です。
type PaletteMethod = domain.PaletteMethod

const (
	PaletteHistogram = domain.PaletteHistogram
	PaletteDominant  = domain.PaletteDominant
	PaletteKMeans    = domain.PaletteKMeans
)

const (
	// maxClusterSamples は kmeans に渡す標本数の上限です。
	maxClusterSamples = 12000
)

// ColorEntry は量子化されたバケットとその出現回数です。
type ColorEntry struct {
	Color color.NRGBA
	Count int
	key   uint32
}

// DominantColorPalette は stride ピクセルおきに標本を取り、RGB を bucket 単位で量子化して
// 出現回数の降順に返します。同数の場合はバケットキーの昇順です。
// 不透明 (alpha > 128) な標本だけを数えます。
func DominantColorPalette(img *raster.RasterImage, stride, bucket int) []ColorEntry {
	stride = max(1, stride)
	bucket = max(1, bucket)

	counts := make(map[uint32]int)
	for i := 0; i < len(img.Pix); i += 4 * stride {
		if img.Pix[i+3] <= OpaqueAlpha {
			continue
		}
		r := quantize(img.Pix[i], bucket)
		g := quantize(img.Pix[i+1], bucket)
		b := quantize(img.Pix[i+2], bucket)
		counts[uint32(r)<<16|uint32(g)<<8|uint32(b)]++
	}

	entries := make([]ColorEntry, 0, len(counts))
	for k, n := range counts {
		entries = append(entries, ColorEntry{
			Color: color.NRGBA{R: uint8(k >> 16), G: uint8(k >> 8), B: uint8(k), A: 255},
			Count: n,
			key:   k,
		})
	}
	slices.SortFunc(entries, func(a, b ColorEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return entries
}

func quantize(v uint8, bucket int) uint8 {
	return uint8(int(v) / bucket * bucket)
}

// ExtractPalette は k 色までの代表色を指定方式で返します。
// ライブラリ方式が結果を返さない場合はヒストグラム方式にフォールバックします。
func ExtractPalette(img *raster.RasterImage, k int, method PaletteMethod) []color.NRGBA {
	if k <= 0 {
		return nil
	}
	var out []color.NRGBA
	switch method {
	case PaletteDominant:
		out = dominantPalette(img, k)
	case PaletteKMeans:
		out = kmeansPalette(img, k)
	}
	if len(out) > 0 {
		return out
	}
	if method != PaletteHistogram && method != "" {
		slog.Debug("パレット抽出が空のためヒストグラム方式にフォールバックします", "method", method)
	}

	entries := DominantColorPalette(img, 4, 16)
	for i := 0; i < len(entries) && i < k; i++ {
		out = append(out, entries[i].Color)
	}
	return out
}

// opaqueStrip は不透明ピクセルだけを1行に詰めた画像を作ります。
// 透明な背景がクラスタとして拾われるのを防ぐためです。
func opaqueStrip(img *raster.RasterImage, limit int) *image.NRGBA {
	total := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > OpaqueAlpha {
			total++
		}
	}
	if total == 0 {
		return nil
	}
	step := 1
	if total > limit {
		step = total/limit + 1
	}

	strip := image.NewNRGBA(image.Rect(0, 0, (total+step-1)/step, 1))
	seen, x := 0, 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] <= OpaqueAlpha {
			continue
		}
		if seen%step == 0 && x < strip.Rect.Dx() {
			copy(strip.Pix[x*4:x*4+3], img.Pix[i:i+3])
			strip.Pix[x*4+3] = 255
			x++
		}
		seen++
	}
	return strip
}

func dominantPalette(img *raster.RasterImage, k int) []color.NRGBA {
	strip := opaqueStrip(img, maxClusterSamples)
	if strip == nil {
		return nil
	}
	found := dominantcolor.FindWeight(strip, k)
	slices.SortStableFunc(found, func(a, b dominantcolor.Color) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	out := make([]color.NRGBA, 0, len(found))
	for _, c := range found {
		out = append(out, color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255})
	}
	return out
}

func kmeansPalette(img *raster.RasterImage, k int) []color.NRGBA {
	strip := opaqueStrip(img, maxClusterSamples)
	if strip == nil {
		return nil
	}
	dataset := make(clusters.Observations, 0, strip.Rect.Dx())
	for i := 0; i < len(strip.Pix); i += 4 {
		dataset = append(dataset, clusters.Coordinates{
			float64(strip.Pix[i]) / 255,
			float64(strip.Pix[i+1]) / 255,
			float64(strip.Pix[i+2]) / 255,
		})
	}

	workK := min(k, len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil || len(cc) == 0 {
		slog.Debug("kmeans によるパレット抽出に失敗しました", "error", err)
		return nil
	}
	slices.SortFunc(cc, func(a, b clusters.Cluster) int {
		return cmp.Compare(len(b.Observations), len(a.Observations))
	})

	out := make([]color.NRGBA, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		out = append(out, color.NRGBA{
			R: colorops.ClampByte(c.Center[0] * 255),
			G: colorops.ClampByte(c.Center[1] * 255),
			B: colorops.ClampByte(c.Center[2] * 255),
			A: 255,
		})
	}
	return out
}
