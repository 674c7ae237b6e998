package region

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

func blob(t *testing.T, w, h int, rect image.Rectangle) *raster.RasterImage {
	t.Helper()
	img, err := raster.NewCanonical(w, h)
	require.NoError(t, err)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, A: 255})
		}
	}
	return img
}

func TestDetect(t *testing.T) {
	img := blob(t, 100, 100, image.Rect(40, 10, 60, 30))

	r := Detect(img, HeadBand)
	assert.Equal(t, image.Rect(40, 10, 60, 30), r.Bounds)
	assert.Equal(t, 400, r.PixelCount)
	assert.InDelta(t, 49.5, r.CenterX, 1e-9)
	assert.InDelta(t, 19.5, r.CenterY, 1e-9)
	assert.InDelta(t, 0.4, r.Confidence, 1e-9)

	empty := Detect(img, Band{Top: 0.5, Bottom: 1})
	assert.Zero(t, empty.PixelCount)
	assert.Zero(t, empty.Confidence)
}

func TestHeadBody(t *testing.T) {
	t.Run("頭部帯だけにピクセルがある", func(t *testing.T) {
		img := blob(t, 100, 100, image.Rect(30, 0, 70, 20))
		_, ok := Head(img)
		assert.True(t, ok)
		_, ok = Body(img)
		assert.False(t, ok)
	})

	t.Run("信頼度は 1 で頭打ち", func(t *testing.T) {
		img := blob(t, 100, 100, image.Rect(0, 30, 100, 70))
		r, ok := Body(img)
		require.True(t, ok)
		assert.Equal(t, 1.0, r.Confidence)
	})
}

func TestFaceRect(t *testing.T) {
	r := FaceRect(512, 512)
	assert.Equal(t, 128, r.Dx())
	assert.Equal(t, 128, r.Dy())
	assert.Equal(t, 192, r.Min.X)
	assert.Less(t, r.Min.Y+r.Dy()/2, 512/2, "上寄り")

	small := FaceRect(2, 2)
	assert.False(t, small.Empty())
	assert.True(t, small.In(image.Rect(0, 0, 2, 2)))
}

func TestSilhouette(t *testing.T) {
	img := blob(t, 50, 50, image.Rect(0, 10, 40, 30))
	s := Silhouette(img)
	assert.InDelta(t, 2.0, s.AspectRatio, 1e-9)
	assert.InDelta(t, 1.0, s.Density, 1e-9)
	assert.Equal(t, 800, s.PixelCount)

	empty, err := raster.NewCanonical(3, 3)
	require.NoError(t, err)
	assert.Zero(t, Silhouette(empty).PixelCount)
}
