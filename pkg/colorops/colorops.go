// Package colorops は色空間変換と色演算の純粋関数群です。
package colorops

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultSearchRadius は NearestValidColor の既定の探索半径です。
	DefaultSearchRadius = 20
)

// Gray は有効な色が見つからない場合の中立フォールバック色です。黒は使いません。
var Gray = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Black は輪郭線の色です。
var Black = color.NRGBA{A: 255}

// Pixels は NearestValidColor が参照する読み取り専用の画像です。
type Pixels interface {
	Width() int
	Height() int
	NRGBAAt(x, y int) color.NRGBA
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color, a uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// RGBToHSL は色相 h∈[0,360)、彩度 s と輝度 l ∈[0,100] を返します。
func RGBToHSL(c color.NRGBA) (h, s, l float64) {
	h, s, l = toColorful(c).Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return h, s * 100, l * 100
}

// HSLToRGB は RGBToHSL の逆変換です。アルファは 255 になります。
func HSLToRGB(h, s, l float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return fromColorful(colorful.Hsl(h, clamp01(s/100), clamp01(l/100)), 255)
}

// Blend は R,G,B,A それぞれを線形補間します。ratio 0 で a、1 で b をそのまま返します。
func Blend(a, b color.NRGBA, ratio float64) color.NRGBA {
	switch {
	case ratio <= 0:
		return a
	case ratio >= 1:
		return b
	}
	lerp := func(x, y uint8) uint8 {
		return ClampByte(float64(x)*(1-ratio) + float64(y)*ratio)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}

// BlendLab は CIE Lab 空間で補間します。グラデーション生成に使います。
func BlendLab(a, b color.NRGBA, t float64) color.NRGBA {
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	}
	return fromColorful(toColorful(a).BlendLab(toColorful(b), t), Blend(a, b, t).A)
}

// Darken は RGB に (1-factor) を掛けます。アルファは変わりません。
func Darken(c color.NRGBA, factor float64) color.NRGBA {
	k := 1 - clamp01(factor)
	return color.NRGBA{
		R: ClampByte(float64(c.R) * k),
		G: ClampByte(float64(c.G) * k),
		B: ClampByte(float64(c.B) * k),
		A: c.A,
	}
}

// Luminance は Lab の L 成分 (0..1) を返します。
func Luminance(c color.NRGBA) float64 {
	l, _, _ := toColorful(c).Lab()
	return clamp01(l)
}

// Distance は2色の Lab 距離です。
func Distance(a, b color.NRGBA) float64 {
	return toColorful(a).DistanceLab(toColorful(b))
}

// Hex は "#rrggbb" 表記を返します。
func Hex(c color.NRGBA) string {
	return toColorful(c).Hex()
}

// ParseHex は "#rrggbb" / "#rgb" を不透明色に変換します。
func ParseHex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("不正なカラーコードです %q: %w", s, err)
	}
	return fromColorful(c, 255), nil
}

// MustHex はパッケージ内の定数色定義用です。
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// NearestValidColor は (x,y) に最も近い不透明ピクセル (alpha > threshold) の色を返します。
// 半径 1..maxRadius の円環を内側から順に調べ、同じ円環内では距離が最小のもの、
// 距離が等しければ行優先で最初に見つかったものを採用します。見つからなければ Gray です。
func NearestValidColor(img Pixels, x, y, maxRadius int, threshold uint8) color.NRGBA {
	w, h := img.Width(), img.Height()
	if x >= 0 && y >= 0 && x < w && y < h {
		if c := img.NRGBAAt(x, y); c.A > threshold {
			return opaque(c)
		}
	}

	for r := 1; r <= maxRadius; r++ {
		inner, outer := (r-1)*(r-1), r*r
		best, bestD := color.NRGBA{}, -1
		for dy := -r; dy <= r; dy++ {
			ny := y + dy
			if ny < 0 || ny >= h {
				continue
			}
			for dx := -r; dx <= r; dx++ {
				d := dx*dx + dy*dy
				if d <= inner || d > outer {
					continue
				}
				nx := x + dx
				if nx < 0 || nx >= w {
					continue
				}
				c := img.NRGBAAt(nx, ny)
				if c.A > threshold && (bestD < 0 || d < bestD) {
					best, bestD = c, d
				}
			}
		}
		if bestD >= 0 {
			return opaque(best)
		}
	}
	return Gray
}

func opaque(c color.NRGBA) color.NRGBA {
	c.A = 255
	return c
}

// ClampByte は四捨五入して [0,255] に収めます。
func ClampByte(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
