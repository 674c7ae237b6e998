package feature

import (
	"image/color"

	"github.com/shouni/poke-fusion-kit/pkg/colorops"
	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// Pattern は配色の塗り方を表すタグです。
type Pattern string

const (
	PatternSolid    Pattern = "solid"
	PatternGradient Pattern = "gradient"
	PatternStriped  Pattern = "striped"
)

var (
	defaultPrimary   = colorops.MustHex("#888888")
	defaultSecondary = colorops.MustHex("#666666")
	defaultAccent    = colorops.MustHex("#aaaaaa")
)

// ColorProfile は画像のヒストグラムから導出した読み取り専用の配色要約です。
// 融合1回ごとに計算し、呼び出しをまたいで保持しません。
type ColorProfile struct {
	Primary   color.NRGBA
	Secondary color.NRGBA
	Accent    color.NRGBA
	Pattern   Pattern
}

// ExtractProfile は上位3色から ColorProfile を作ります。足りない色は既定の灰色で補います。
func ExtractProfile(img *raster.RasterImage, method PaletteMethod) ColorProfile {
	colors := ExtractPalette(img, 3, method)
	p := ColorProfile{
		Primary:   defaultPrimary,
		Secondary: defaultSecondary,
		Accent:    defaultAccent,
		Pattern:   PatternSolid,
	}
	if len(colors) > 0 {
		p.Primary = colors[0]
	}
	if len(colors) > 1 {
		p.Secondary = colors[1]
	}
	if len(colors) > 2 {
		p.Accent = colors[2]
	}
	return p
}

// Colors はプロファイルの3色を順に返します。
func (p ColorProfile) Colors() []color.NRGBA {
	return []color.NRGBA{p.Primary, p.Secondary, p.Accent}
}

// MergeProfiles は2つのプロファイルを ColorMode に従って1つにまとめます。
func MergeProfiles(a, b ColorProfile, mode domain.ColorMode) ColorProfile {
	switch mode {
	case domain.ColorModeGradient:
		return ColorProfile{
			Primary:   colorops.Blend(a.Primary, b.Primary, 0.5),
			Secondary: colorops.Blend(a.Secondary, b.Secondary, 0.5),
			Accent:    colorops.Blend(a.Accent, b.Accent, 0.5),
			Pattern:   PatternGradient,
		}
	case domain.ColorModePattern:
		return ColorProfile{
			Primary:   a.Primary,
			Secondary: b.Primary,
			Accent:    colorops.Blend(a.Accent, b.Accent, 0.7),
			Pattern:   PatternStriped,
		}
	default:
		return ColorProfile{
			Primary:   a.Primary,
			Secondary: b.Secondary,
			Accent:    a.Accent,
			Pattern:   PatternSolid,
		}
	}
}
