// Package raster は融合パイプライン全体で使う RGBA ピクセルバッファを提供します。
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

var (
	// ErrOutOfBounds は座標がバッファ外を指している場合のエラーです。
	ErrOutOfBounds = errors.New("pixel out of bounds")
	// ErrInvalidSize は幅または高さが正でない場合のエラーです。
	ErrInvalidSize = errors.New("invalid raster size")
)

// RasterImage は行優先・非乗算アルファの RGBA バッファです。
// 幅と高さは生成後に変更できません。len(Pix) == Width()*Height()*4 を常に満たします。
type RasterImage struct {
	width  int
	height int
	Pix    []byte
}

// NewCanonical は全ピクセル透明 (alpha 0) のバッファを生成します。
func NewCanonical(width, height int) (*RasterImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &RasterImage{
		width:  width,
		height: height,
		Pix:    make([]byte, width*height*4),
	}, nil
}

// FromImage は任意の image.Image を RasterImage に変換します。
func FromImage(img image.Image) (*RasterImage, error) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, b.Dx(), b.Dy())
	}
	r := &RasterImage{width: b.Dx(), height: b.Dy(), Pix: make([]byte, b.Dx()*b.Dy()*4)}
	for y := 0; y < r.height; y++ {
		copy(r.Pix[y*r.width*4:(y+1)*r.width*4], nrgba.Pix[y*nrgba.Stride:y*nrgba.Stride+r.width*4])
	}
	return r, nil
}

// Width は画像の幅を返します。
func (r *RasterImage) Width() int { return r.width }

// Height は画像の高さを返します。
func (r *RasterImage) Height() int { return r.height }

// Bounds は (0,0)-(w,h) の矩形を返します。
func (r *RasterImage) Bounds() image.Rectangle { return image.Rect(0, 0, r.width, r.height) }

// SameSize は2つのバッファの寸法が等しいかどうかを返します。
func (r *RasterImage) SameSize(o *RasterImage) bool {
	return r.width == o.width && r.height == o.height
}

// InBounds は座標がバッファ内かどうかを返します。
func (r *RasterImage) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.width && y < r.height
}

// PixOffset は (x,y) の Pix 上のオフセットを返します。範囲チェックは行いません。
func (r *RasterImage) PixOffset(x, y int) int {
	return (y*r.width + x) * 4
}

// At は (x,y) の色を返します。範囲外なら ErrOutOfBounds です。
func (r *RasterImage) At(x, y int) (color.NRGBA, error) {
	if !r.InBounds(x, y) {
		return color.NRGBA{}, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, r.width, r.height)
	}
	i := r.PixOffset(x, y)
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}, nil
}

// Set は (x,y) に色を書き込みます。範囲外なら ErrOutOfBounds です。
func (r *RasterImage) Set(x, y int, c color.NRGBA) error {
	if !r.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, r.width, r.height)
	}
	r.put(r.PixOffset(x, y), c)
	return nil
}

// NRGBAAt は範囲チェックなしで色を返します。ホットループ用です。
func (r *RasterImage) NRGBAAt(x, y int) color.NRGBA {
	i := r.PixOffset(x, y)
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// SetNRGBA は範囲チェックなしで色を書き込みます。
func (r *RasterImage) SetNRGBA(x, y int, c color.NRGBA) {
	r.put(r.PixOffset(x, y), c)
}

// AlphaAt は (x,y) のアルファ値を返します。範囲外は透明 (0) として扱います。
func (r *RasterImage) AlphaAt(x, y int) uint8 {
	if !r.InBounds(x, y) {
		return 0
	}
	return r.Pix[r.PixOffset(x, y)+3]
}

func (r *RasterImage) put(i int, c color.NRGBA) {
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
	r.Pix[i+3] = c.A
}

// Clone はバッファを複製します。
func (r *RasterImage) Clone() *RasterImage {
	pix := make([]byte, len(r.Pix))
	copy(pix, r.Pix)
	return &RasterImage{width: r.width, height: r.height, Pix: pix}
}

// Equal は寸法とピクセルが完全に一致するかどうかを返します。
func (r *RasterImage) Equal(o *RasterImage) bool {
	if !r.SameSize(o) {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// ToNRGBA は image/png 等に渡せる *image.NRGBA を返します。Pix は複製されます。
func (r *RasterImage) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(r.Bounds())
	copy(img.Pix, r.Pix)
	return img
}
