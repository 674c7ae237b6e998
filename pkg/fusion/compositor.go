// Package fusion は2枚のスプライトをピクセル単位で合成する融合エンジンです。
package fusion

import (
	"image"
	"image/color"

	"github.com/shouni/poke-fusion-kit/pkg/colorops"
	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/feature"
	"github.com/shouni/poke-fusion-kit/pkg/pixelate"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
	"github.com/shouni/poke-fusion-kit/pkg/region"
)

const (
	// internalLineDarken は内部線ピクセルを暗くする割合です。
	internalLineDarken = 0.3
	// blendHalf は "blend" 指定時の2画像の混合比です。
	blendHalf = 0.5
)

// Compose は同じサイズの A と B を cfg に従ってピクセルごとに合成し、新しい画像を返します。
// 入力は背景除去とアスペクトフィット済みである前提です。入力バッファは変更しません。
//
// 出力の不透明領域は常に A と B の和集合です。片方だけが不透明なピクセルはその色をそのまま使います。
// 形状ソースは両方が不透明なピクセルでの輪郭線・内部線と形状色の取り出し元だけを決めます。
func Compose(a, b *raster.RasterImage, cfg domain.FusionConfig) (*raster.RasterImage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !a.SameSize(b) {
		return nil, domain.NewDimensionMismatch(a.Width(), a.Height(), b.Width(), b.Height())
	}

	w, h := a.Width(), a.Height()
	out, err := raster.NewCanonical(w, h)
	if err != nil {
		return nil, err
	}

	shape := pick(cfg.ShapeSource, a, b)
	paint := pick(cfg.ColorSource, a, b)
	contour := feature.ExtractContour(shape)
	lines := feature.ExtractInternalLines(shape)

	var face image.Rectangle
	if cfg.FaceSwap {
		face = region.FaceRect(w, h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := a.PixOffset(x, y)
			aa, ba := a.Pix[i+3], b.Pix[i+3]

			switch {
			case aa == 0 && ba == 0:
				continue
			case ba == 0:
				out.SetNRGBA(x, y, opaqueAt(a, i))
				continue
			case aa == 0:
				out.SetNRGBA(x, y, opaqueAt(b, i))
				continue
			}

			var c color.NRGBA
			switch {
			case cfg.FaceSwap && image.Pt(x, y).In(face):
				c = opaqueAt(b, i)
			case contour[y][x]:
				c = opaqueAt(shape, i)
			case lines[y][x]:
				c = colorops.Darken(opaqueAt(shape, i), internalLineDarken)
			default:
				fill := paint.NRGBAAt(x, y)
				if fill.A <= feature.OpaqueAlpha {
					fill = colorops.NearestValidColor(paint, x, y, colorops.DefaultSearchRadius, feature.OpaqueAlpha)
				}
				c = colorops.Blend(opaqueAt(shape, i), opaque(fill), cfg.BlendRatio)
			}
			c.A = 255
			out.SetNRGBA(x, y, c)
		}
	}
	return out, nil
}

// Run は Compose の後にピクセル化と輪郭線を適用する pixel アルゴリズムの全工程です。
func Run(a, b *raster.RasterImage, cfg domain.FusionConfig) (*raster.RasterImage, error) {
	out, err := Compose(a, b, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.PixelSize > 1 {
		out = pixelate.Pixelate(out, cfg.PixelSize)
	}
	if cfg.Outline {
		out = pixelate.Outline(out)
	}
	return out, nil
}

// pick は選択に応じて A、B、または両者を半々に混ぜた画像を返します。
func pick(sel domain.SourceSelector, a, b *raster.RasterImage) *raster.RasterImage {
	switch sel {
	case domain.SourceFirst:
		return a
	case domain.SourceSecond:
		return b
	}
	return mix(a, b)
}

// mix は両方不透明な位置では半々に混ぜ、片方だけなら不透明な側をそのまま使います。
func mix(a, b *raster.RasterImage) *raster.RasterImage {
	out := a.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		aa, ba := a.Pix[i+3], b.Pix[i+3]
		switch {
		case ba == 0:
		case aa == 0:
			copy(out.Pix[i:i+4], b.Pix[i:i+4])
		default:
			for k := 0; k < 4; k++ {
				out.Pix[i+k] = colorops.ClampByte((float64(a.Pix[i+k]) + float64(b.Pix[i+k])) * blendHalf)
			}
		}
	}
	return out
}

func opaqueAt(img *raster.RasterImage, i int) color.NRGBA {
	return color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 255}
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}
