package raster

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/shouni/poke-fusion-kit/pkg/domain"
)

// DefaultBackgroundThreshold は背景除去で「ほぼ白」とみなす下限値です。
const DefaultBackgroundThreshold = 240

// DrawAspectFit は src を切り取らずに dst へ収まるよう等倍率で拡縮し、中央に描画します。
// 覆われない dst のピクセルは元の内容のままです。
func DrawAspectFit(src, dst *RasterImage) {
	scale := math.Min(float64(dst.width)/float64(src.width), float64(dst.height)/float64(src.height))
	w := max(1, int(math.Round(float64(src.width)*scale)))
	h := max(1, int(math.Round(float64(src.height)*scale)))
	w = min(w, dst.width)
	h = min(h, dst.height)

	scaled := src.ToNRGBA()
	if w != src.width || h != src.height {
		// ドット絵の輪郭を保つため最近傍補間を使う
		scaled = imaging.Resize(scaled, w, h, imaging.NearestNeighbor)
	}

	ox := (dst.width - w) / 2
	oy := (dst.height - h) / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := scaled.PixOffset(x, y)
			di := dst.PixOffset(ox+x, oy+y)
			over(dst.Pix[di:di+4], scaled.Pix[si:si+4], 1)
		}
	}
}

// FitCanonical は src を width×height の透明キャンバスにレターボックス配置した新しい画像を返します。
func FitCanonical(src *RasterImage, width, height int) (*RasterImage, error) {
	dst, err := NewCanonical(width, height)
	if err != nil {
		return nil, err
	}
	DrawAspectFit(src, dst)
	return dst, nil
}

// Resize は縦横比を無視して w×h に縮小・拡大した新しい画像を返します。
// 特徴抽出用の低解像度コピーを作るために使います。
func Resize(src *RasterImage, w, h int) (*RasterImage, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidSize
	}
	if w == src.width && h == src.height {
		return src.Clone(), nil
	}
	out := imaging.Resize(src.ToNRGBA(), w, h, imaging.Box)
	return fromNRGBA(out), nil
}

func fromNRGBA(img *image.NRGBA) *RasterImage {
	b := img.Bounds()
	r := &RasterImage{width: b.Dx(), height: b.Dy(), Pix: make([]byte, b.Dx()*b.Dy()*4)}
	for y := 0; y < r.height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+r.width*4]
		copy(r.Pix[y*r.width*4:], row)
	}
	return r
}

// RemoveBackground は R,G,B すべてが threshold を超えるピクセルを透明にした複製を返します。
func RemoveBackground(src *RasterImage, threshold uint8) *RasterImage {
	out := src.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] > threshold && out.Pix[i+1] > threshold && out.Pix[i+2] > threshold {
			out.Pix[i+3] = 0
		}
	}
	return out
}

// Overlay は src を不透明度 alpha で dst に重ねます (source-over)。dst を書き換えます。
func Overlay(dst, src *RasterImage, alpha float64) error {
	if !dst.SameSize(src) {
		return domain.NewDimensionMismatch(dst.width, dst.height, src.width, src.height)
	}
	alpha = math.Max(0, math.Min(1, alpha))
	for i := 0; i < len(dst.Pix); i += 4 {
		over(dst.Pix[i:i+4], src.Pix[i:i+4], alpha)
	}
	return nil
}

// over は非乗算アルファの source-over 合成です。
func over(d, s []byte, opacity float64) {
	sa := float64(s[3]) / 255 * opacity
	if sa <= 0 {
		return
	}
	da := float64(d[3]) / 255
	oa := sa + da*(1-sa)
	if sa >= 1 || da == 0 {
		d[0], d[1], d[2] = s[0], s[1], s[2]
		d[3] = uint8(math.Round(oa * 255))
		return
	}
	for c := 0; c < 3; c++ {
		v := (float64(s[c])*sa + float64(d[c])*da*(1-sa)) / oa
		d[c] = uint8(math.Round(v))
	}
	d[3] = uint8(math.Round(oa * 255))
}

// ScaleCentered は中心を基準に ratio 倍した画像を同じキャンバスサイズで返します。
// はみ出した部分は切り取られ、空いた部分は透明になります。
func ScaleCentered(src *RasterImage, ratio float64) *RasterImage {
	if ratio == 1 || ratio <= 0 {
		return src.Clone()
	}
	w := max(1, int(math.Round(float64(src.width)*ratio)))
	h := max(1, int(math.Round(float64(src.height)*ratio)))
	scaled := imaging.Resize(src.ToNRGBA(), w, h, imaging.NearestNeighbor)

	out := &RasterImage{width: src.width, height: src.height, Pix: make([]byte, len(src.Pix))}
	ox := (src.width - w) / 2
	oy := (src.height - h) / 2
	for y := 0; y < h; y++ {
		dy := oy + y
		if dy < 0 || dy >= out.height {
			continue
		}
		for x := 0; x < w; x++ {
			dx := ox + x
			if dx < 0 || dx >= out.width {
				continue
			}
			si := scaled.PixOffset(x, y)
			copy(out.Pix[out.PixOffset(dx, dy):], scaled.Pix[si:si+4])
		}
	}
	return out
}
