package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/disintegration/imaging"

	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// background は JPEG 変換時に透過部分を埋める色です。
var background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// CompressToJPEG は透過部分を白で埋めた上でJPEG形式に圧縮します。
// プレビュー用で、融合結果の保存には EncodePNG を使います。
func CompressToJPEG(img *raster.RasterImage, quality int) ([]byte, error) {
	flat := imaging.New(img.Width(), img.Height(), background)
	flat = imaging.Overlay(flat, img.ToNRGBA(), image.Point{}, 1.0)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, flat, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
