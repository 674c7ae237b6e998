// Package region は頭部・胴体・顔の大まかな位置を固定比率の帯から推定します。
// 実際のセグメンテーションは行いません。
package region

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

const opaqueAlpha = 128

// Band は画像高さに対する縦方向の比率範囲 [Top, Bottom) です。
type Band struct {
	Top    float64
	Bottom float64
}

var (
	// HeadBand は頭部を探す帯です。
	HeadBand = Band{Top: 0, Bottom: 0.4}
	// BodyBand は胴体を探す帯です。
	BodyBand = Band{Top: 0.3, Bottom: 0.7}
)

const (
	minHeadPixels = 100
	minBodyPixels = 200
	// confidenceScale 個の不透明ピクセルで信頼度 1 になります。
	confidenceScale = 1000.0
)

// Region は帯の中で見つかった不透明ピクセルの統計です。
type Region struct {
	Bounds     image.Rectangle
	CenterX    float64
	CenterY    float64
	SpreadX    float64
	SpreadY    float64
	PixelCount int
	Confidence float64
}

// Detect は band の範囲にある不透明ピクセル (alpha > 128) の外接矩形・重心・信頼度を返します。
func Detect(img *raster.RasterImage, band Band) Region {
	h := img.Height()
	y0 := int(math.Floor(band.Top * float64(h)))
	y1 := min(h, int(math.Floor(band.Bottom*float64(h))))

	var xs, ys []float64
	bounds := image.Rectangle{}
	for y := max(0, y0); y < y1; y++ {
		for x := 0; x < img.Width(); x++ {
			if img.Pix[img.PixOffset(x, y)+3] <= opaqueAlpha {
				continue
			}
			xs = append(xs, float64(x))
			ys = append(ys, float64(y))
			bounds = bounds.Union(image.Rect(x, y, x+1, y+1))
		}
	}

	r := Region{Bounds: bounds, PixelCount: len(xs)}
	if len(xs) == 0 {
		return r
	}
	r.CenterX, r.SpreadX = stat.MeanStdDev(xs, nil)
	r.CenterY, r.SpreadY = stat.MeanStdDev(ys, nil)
	if math.IsNaN(r.SpreadX) {
		r.SpreadX = 0
	}
	if math.IsNaN(r.SpreadY) {
		r.SpreadY = 0
	}
	r.Confidence = math.Min(float64(len(xs))/confidenceScale, 1)
	return r
}

// Head は頭部帯を調べ、十分なピクセルがなければ ok=false を返します。
func Head(img *raster.RasterImage) (Region, bool) {
	r := Detect(img, HeadBand)
	return r, r.PixelCount > minHeadPixels
}

// Body は胴体帯を調べ、十分なピクセルがなければ ok=false を返します。
func Body(img *raster.RasterImage) (Region, bool) {
	r := Detect(img, BodyBand)
	return r, r.PixelCount > minBodyPixels
}

// FaceRect は顔とみなす固定矩形です。幅・高さはキャンバスの 1/4、水平中央、
// 縦の中心は上から 1/3 の位置です。実際の顔の位置は見ません。
func FaceRect(w, h int) image.Rectangle {
	fw, fh := max(1, w/4), max(1, h/4)
	x0 := (w - fw) / 2
	y0 := max(0, h/3-fh/2)
	return image.Rect(x0, y0, x0+fw, min(h, y0+fh))
}

// Shape はシルエット全体の外接矩形と充填率です。
type Shape struct {
	Bounds      image.Rectangle
	AspectRatio float64 // 幅 / 高さ
	Density     float64 // 外接矩形に占める不透明ピクセルの割合
	PixelCount  int
}

// Silhouette は画像全体のシルエット形状を返します。透明画像ではゼロ値です。
func Silhouette(img *raster.RasterImage) Shape {
	r := Detect(img, Band{Top: 0, Bottom: 1})
	if r.PixelCount == 0 {
		return Shape{}
	}
	w, h := r.Bounds.Dx(), r.Bounds.Dy()
	return Shape{
		Bounds:      r.Bounds,
		AspectRatio: float64(w) / float64(h),
		Density:     float64(r.PixelCount) / float64(w*h),
		PixelCount:  r.PixelCount,
	}
}
