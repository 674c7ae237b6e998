// Package pixelate は合成後のブロック平均化と輪郭線の後処理を行います。
package pixelate

import (
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// Pixelate はキャンバスを左上基準の blockSize×blockSize タイルに分け、各タイルを
// 不透明ピクセル (alpha > 0) の平均色で塗りつぶした新しい画像を返します。
// 端で収まらないタイルはキャンバスとの交差部分だけを対象にします。
// 不透明ピクセルがないタイルは透明のままです。
func Pixelate(img *raster.RasterImage, blockSize int) *raster.RasterImage {
	out := img.Clone()
	if blockSize <= 1 {
		return out
	}
	w, h := img.Width(), img.Height()

	for ty := 0; ty < h; ty += blockSize {
		for tx := 0; tx < w; tx += blockSize {
			x1, y1 := min(tx+blockSize, w), min(ty+blockSize, h)

			var sr, sg, sb, sa, n int
			for y := ty; y < y1; y++ {
				for x := tx; x < x1; x++ {
					i := img.PixOffset(x, y)
					if img.Pix[i+3] == 0 {
						continue
					}
					sr += int(img.Pix[i])
					sg += int(img.Pix[i+1])
					sb += int(img.Pix[i+2])
					sa += int(img.Pix[i+3])
					n++
				}
			}

			var px [4]byte
			if n > 0 {
				px = [4]byte{avg(sr, n), avg(sg, n), avg(sb, n), avg(sa, n)}
			}
			for y := ty; y < y1; y++ {
				for x := tx; x < x1; x++ {
					i := out.PixOffset(x, y)
					copy(out.Pix[i:i+4], px[:])
				}
			}
		}
	}
	return out
}

// avg は四捨五入した整数平均です。
func avg(sum, n int) byte {
	return byte((sum + n/2) / n)
}
