package fusion

import (
	"image/color"

	"github.com/shouni/poke-fusion-kit/pkg/colorops"
	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/feature"
	"github.com/shouni/poke-fusion-kit/pkg/pixelate"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
	"github.com/shouni/poke-fusion-kit/pkg/region"
)

const (
	// profileWeight は塗り直し時にプロファイル色へ寄せる割合です。
	profileWeight = 0.6
	shadowOpacity = 0.3
)

// Advanced は頭部と胴体を別々の親から取り出し、2枚の配色プロファイルを合成した色で
// 塗り直す region ベースの融合です。出力サイズは入力と同じです。
func Advanced(a, b *raster.RasterImage, cfg domain.FusionConfig) (*raster.RasterImage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !a.SameSize(b) {
		return nil, domain.NewDimensionMismatch(a.Width(), a.Height(), b.Width(), b.Height())
	}
	w, h := a.Width(), a.Height()

	headA, okHeadA := region.Head(a)
	headB, okHeadB := region.Head(b)
	bodyA, okBodyA := region.Body(a)
	bodyB, okBodyB := region.Body(b)

	headSrc, headOther := choose(cfg.HeadSource, a, b, confidence(headA, okHeadA), confidence(headB, okHeadB))
	bodySrc, bodyOther := choose(cfg.BodySource, a, b, confidence(bodyA, okBodyA), confidence(bodyB, okBodyB))

	overlapTop := int(region.BodyBand.Top * float64(h))
	overlapBottom := int(region.HeadBand.Bottom * float64(h))
	split := overlapBottom
	if headSrc == a && okHeadA {
		split = clampInt(headA.Bounds.Max.Y, overlapTop, overlapBottom)
	} else if headSrc == b && okHeadB {
		split = clampInt(headB.Bounds.Max.Y, overlapTop, overlapBottom)
	}

	profile := feature.MergeProfiles(
		feature.ExtractProfile(a, cfg.Palette),
		feature.ExtractProfile(b, cfg.Palette),
		cfg.ColorMode,
	)

	out, err := raster.NewCanonical(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		src, other := bodySrc, bodyOther
		if y < split {
			src, other = headSrc, headOther
		}
		for x := 0; x < w; x++ {
			px := src.NRGBAAt(x, y)
			// 頭と胴の重なり帯では、選んだ側が透明ならもう一方で隙間を埋める
			if px.A <= feature.OpaqueAlpha && y >= overlapTop && y < overlapBottom {
				px = other.NRGBAAt(x, y)
			}
			if px.A <= feature.OpaqueAlpha {
				continue
			}
			c := recolor(px, profile, y, h)
			c.A = px.A
			out.SetNRGBA(x, y, c)
		}
	}

	if cfg.SizeRatio != 1 {
		out = raster.ScaleCentered(out, cfg.SizeRatio)
	}
	if cfg.PixelSize > 1 {
		out = pixelate.Pixelate(out, cfg.PixelSize)
	}
	out = pixelate.OutlineStyled(out, cfg.OutlineStyle)
	if cfg.Shadow {
		off := max(1, w/64)
		out = pixelate.Shadow(out, off, off, shadowOpacity)
	}
	return out, nil
}

func confidence(r region.Region, ok bool) float64 {
	if !ok {
		return 0
	}
	return r.Confidence
}

// choose は部位の取得元と、隙間埋めに使うもう一方を返します。
// blend の場合は信頼度が高い方を選び、同じなら B を選びます。
func choose(src domain.RegionSource, a, b *raster.RasterImage, confA, confB float64) (*raster.RasterImage, *raster.RasterImage) {
	switch src {
	case domain.RegionParentA:
		return a, b
	case domain.RegionParentB:
		return b, a
	}
	if confA > confB {
		return a, b
	}
	return b, a
}

// recolor は元の明るさを保ったままプロファイルの色に寄せます。
func recolor(px color.NRGBA, p feature.ColorProfile, y, h int) color.NRGBA {
	l := colorops.Luminance(px)

	var base color.NRGBA
	switch p.Pattern {
	case feature.PatternGradient:
		t := 0.0
		if h > 1 {
			t = float64(y) / float64(h-1)
		}
		base = colorops.BlendLab(p.Primary, p.Secondary, t)
		if l > 0.8 {
			base = p.Accent
		}
	case feature.PatternStriped:
		stripe := max(1, h/32)
		base = p.Primary
		if (y/stripe)%2 == 1 {
			base = p.Secondary
		}
	default:
		switch {
		case l < 1.0/3:
			base = p.Secondary
		case l < 2.0/3:
			base = p.Primary
		default:
			base = p.Accent
		}
	}

	tone := 0.6 + 0.8*l
	shaded := color.NRGBA{
		R: colorops.ClampByte(float64(base.R) * tone),
		G: colorops.ClampByte(float64(base.G) * tone),
		B: colorops.ClampByte(float64(base.B) * tone),
		A: 255,
	}
	px.A = 255
	return colorops.Blend(px, shaded, profileWeight)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
