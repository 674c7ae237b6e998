package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// テスト用のダミー画像（10x10の赤い正方形、左上だけ透明）を作成するヘルパー
func createDummyRaster(t *testing.T) *raster.RasterImage {
	t.Helper()
	img, err := raster.NewCanonical(10, 10)
	if err != nil {
		t.Fatalf("failed to create raster: %v", err)
	}
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{})
	return img
}

func TestCompressToJPEG(t *testing.T) {
	t.Run("スプライトをJPEGに圧縮できること", func(t *testing.T) {
		got, err := CompressToJPEG(createDummyRaster(t), 75)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(got) == 0 {
			t.Error("expected output data, but got empty")
		}

		// 出力がJPEGとしてデコード可能か確認
		decoded, format, err := image.Decode(bytes.NewReader(got))
		if err != nil {
			t.Fatalf("failed to decode output image: %v", err)
		}
		if format != "jpeg" {
			t.Errorf("expected format jpeg, got %s", format)
		}
		// 透過部分は白で埋まる
		r, g, b, _ := decoded.At(0, 0).RGBA()
		if r>>8 < 200 || g>>8 < 200 || b>>8 < 200 {
			t.Errorf("expected transparent pixel flattened to white, got (%d,%d,%d)", r>>8, g>>8, b>>8)
		}
	})

	t.Run("Quality設定によってサイズが変化すること", func(t *testing.T) {
		input := createDummyRaster(t)

		highQuality, _ := CompressToJPEG(input, 100)
		lowQuality, _ := CompressToJPEG(input, 10)

		if len(lowQuality) >= len(highQuality) {
			t.Errorf("low quality size (%d) should be smaller than high quality size (%d)", len(lowQuality), len(highQuality))
		}
	})
}
