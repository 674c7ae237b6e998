package pixelate

import (
	"image/color"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

var (
	outlineBlack = color.NRGBA{A: 255}
	glowCyan     = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
)

var neighbors4 = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// Outline は上下左右のいずれかに透明ピクセルを持つ不透明ピクセルを黒 (alpha 255) にします。
// 判定は常に元画像に対して行い、結果は複製に書き込みます。キャンバス外は近傍に数えません。
func Outline(img *raster.RasterImage) *raster.RasterImage {
	out := img.Clone()
	w, h := img.Width(), img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			if hasTransparentNeighbor(img, x, y) {
				out.SetNRGBA(x, y, outlineBlack)
			}
		}
	}
	return out
}

func hasTransparentNeighbor(img *raster.RasterImage, x, y int) bool {
	for _, d := range neighbors4 {
		nx, ny := x+d[0], y+d[1]
		if !img.InBounds(nx, ny) {
			continue
		}
		if img.Pix[img.PixOffset(nx, ny)+3] == 0 {
			return true
		}
	}
	return false
}

// OutlineStyled はスタイル付きの輪郭線を描きます。
// thin は Outline と同じ、thick と glow はシルエットの外側に width ピクセルの縁を足します。
func OutlineStyled(img *raster.RasterImage, style domain.OutlineStyle) *raster.RasterImage {
	switch style {
	case domain.OutlineThin:
		return Outline(img)
	case domain.OutlineThick:
		return ring(Outline(img), 2, outlineBlack)
	case domain.OutlineGlow:
		return ring(img, 2, glowCyan)
	default:
		return img.Clone()
	}
}

// ring はシルエットから width ピクセル以内の透明ピクセルを c で塗ります。
func ring(img *raster.RasterImage, width int, c color.NRGBA) *raster.RasterImage {
	out := img.Clone()
	w, h := img.Width(), img.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[img.PixOffset(x, y)+3] != 0 {
				continue
			}
			if nearOpaque(img, x, y, width) {
				out.SetNRGBA(x, y, c)
			}
		}
	}
	return out
}

func nearOpaque(img *raster.RasterImage, x, y, width int) bool {
	for dy := -width; dy <= width; dy++ {
		for dx := -width; dx <= width; dx++ {
			if dx*dx+dy*dy > width*width {
				continue
			}
			if img.AlphaAt(x+dx, y+dy) != 0 {
				return true
			}
		}
	}
	return false
}

// Shadow はシルエットを (dx,dy) ずらした黒い影を opacity で下に敷いた画像を返します。
func Shadow(img *raster.RasterImage, dx, dy int, opacity float64) *raster.RasterImage {
	// 入力と同じ寸法の透明なキャンバス
	shadow := img.Clone()
	clear(shadow.Pix)
	a := uint8(255 * max(0, min(1, opacity)))
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.AlphaAt(x-dx, y-dy) == 0 {
				continue
			}
			shadow.SetNRGBA(x, y, color.NRGBA{A: a})
		}
	}
	// 寸法は同じなので失敗しない
	_ = raster.Overlay(shadow, img, 1)
	return shadow
}
