// Package feature はスプライトからエッジ・輪郭・配色といった派生シグナルを抽出します。
package feature

import (
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

const (
	// DefaultEdgeThreshold は DetectEdges の既定しきい値です。
	DefaultEdgeThreshold = 50
	// InternalLineThreshold は内部線とみなすチャンネル差の下限です。
	InternalLineThreshold = 80
	// OpaqueAlpha を超えるアルファを不透明として扱います。
	OpaqueAlpha = 128
)

// Map はキャンバスと同じ大きさの真偽値グリッドで、[y][x] で参照します。
type Map [][]bool

// NewMap は w×h の空グリッドを返します。
func NewMap(w, h int) Map {
	cells := make([]bool, w*h)
	m := make(Map, h)
	for y := range m {
		m[y] = cells[y*w : (y+1)*w]
	}
	return m
}

// At は範囲外を false として扱います。
func (m Map) At(x, y int) bool {
	if y < 0 || y >= len(m) || x < 0 || x >= len(m[y]) {
		return false
	}
	return m[y][x]
}

// Count は true のセル数です。
func (m Map) Count() int {
	n := 0
	for _, row := range m {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

var neighbors8 = [8][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

// DetectEdges は内部ピクセルについて、8近傍とのチャンネル差の最大値が threshold を
// 超える位置を印します。外周の行・列は評価しません。
func DetectEdges(img *raster.RasterImage, threshold int) Map {
	w, h := img.Width(), img.Height()
	m := NewMap(w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			if maxNeighborDiff(img, x, y) > threshold {
				m[y][x] = true
			}
		}
	}
	return m
}

// ExtractInternalLines は DetectEdges より高い固定しきい値で強い内部の色境界を抽出します。
func ExtractInternalLines(img *raster.RasterImage) Map {
	return DetectEdges(img, InternalLineThreshold)
}

// ExtractContour は不透明かつ8近傍に透明ピクセルを持つ位置を印します。
// キャンバス外は近傍として数えません。
func ExtractContour(img *raster.RasterImage) Map {
	w, h := img.Width(), img.Height()
	m := NewMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[img.PixOffset(x, y)+3] <= OpaqueAlpha {
				continue
			}
			for _, d := range neighbors8 {
				nx, ny := x+d[0], y+d[1]
				if !img.InBounds(nx, ny) {
					continue
				}
				if img.Pix[img.PixOffset(nx, ny)+3] <= OpaqueAlpha {
					m[y][x] = true
					break
				}
			}
		}
	}
	return m
}

func maxNeighborDiff(img *raster.RasterImage, x, y int) int {
	i := img.PixOffset(x, y)
	best := 0
	for _, d := range neighbors8 {
		j := img.PixOffset(x+d[0], y+d[1])
		for c := 0; c < 3; c++ {
			diff := int(img.Pix[i+c]) - int(img.Pix[j+c])
			if diff < 0 {
				diff = -diff
			}
			if diff > best {
				best = diff
			}
		}
	}
	return best
}
