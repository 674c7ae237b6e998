package adapters

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/poke-fusion-kit/pkg/imgutil"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

func spritePNG(t *testing.T) []byte {
	t.Helper()
	img, err := raster.NewCanonical(4, 4)
	require.NoError(t, err)
	img.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	data, err := imgutil.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func TestNewImageSource(t *testing.T) {
	t.Run("httpClient が nil ならエラー", func(t *testing.T) {
		_, err := NewImageSource(nil, nil, nil, time.Minute)
		assert.Error(t, err)
	})

	t.Run("reader と cache は省略できる", func(t *testing.T) {
		src, err := NewImageSource(&mockHTTPClient{}, nil, nil, time.Minute)
		require.NoError(t, err)
		assert.NotNil(t, src)
	})
}

func TestImageSource_Fetch(t *testing.T) {
	ctx := context.Background()
	png := spritePNG(t)

	t.Run("HTTP の結果をキャッシュし2回目は取得しない", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: png}
		cache := &mockCache{data: make(map[string]any)}
		src, err := NewImageSource(httpMock, nil, cache, time.Hour)
		require.NoError(t, err)

		const uri = "https://93.184.216.34/sprites/25.png"
		for i := 0; i < 2; i++ {
			got, err := src.Fetch(ctx, uri)
			require.NoError(t, err)
			assert.Equal(t, png, got)
		}
		assert.Equal(t, 1, httpMock.calls)
		assert.Contains(t, cache.data, cacheKeySourceBytes+uri)
	})

	t.Run("キャッシュの型が不正なら取得し直す", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: png}
		const uri = "https://93.184.216.34/sprites/1.png"
		cache := &mockCache{data: map[string]any{cacheKeySourceBytes + uri: "broken"}}
		src, _ := NewImageSource(httpMock, nil, cache, time.Hour)

		got, err := src.Fetch(ctx, uri)
		require.NoError(t, err)
		assert.Equal(t, png, got)
		assert.Equal(t, 1, httpMock.calls)
	})

	t.Run("プライベートアドレスはブロックされる", func(t *testing.T) {
		httpMock := &mockHTTPClient{data: png}
		src, _ := NewImageSource(httpMock, nil, nil, time.Hour)

		for _, uri := range []string{"http://127.0.0.1/a.png", "http://10.0.0.8/a.png", "http://169.254.169.254/latest"} {
			_, err := src.Fetch(ctx, uri)
			assert.Error(t, err, uri)
		}
		assert.Zero(t, httpMock.calls)
	})

	t.Run("HTTP エラーはそのまま返す", func(t *testing.T) {
		src, _ := NewImageSource(&mockHTTPClient{err: errors.New("404")}, nil, nil, time.Hour)
		_, err := src.Fetch(ctx, "https://93.184.216.34/missing.png")
		assert.EqualError(t, err, "404")
	})

	t.Run("gs:// は reader から読む", func(t *testing.T) {
		reader := &mockReader{data: png}
		src, _ := NewImageSource(&mockHTTPClient{}, reader, nil, time.Hour)

		got, err := src.Fetch(ctx, "gs://bucket/sprites/4.png")
		require.NoError(t, err)
		assert.Equal(t, png, got)
		assert.Equal(t, "gs://bucket/sprites/4.png", reader.opened)
	})

	t.Run("reader がなければ gs:// はエラー", func(t *testing.T) {
		src, _ := NewImageSource(&mockHTTPClient{}, nil, nil, time.Hour)
		_, err := src.Fetch(ctx, "gs://bucket/sprites/4.png")
		assert.Error(t, err)
	})

	t.Run("data URL はデコードするだけ", func(t *testing.T) {
		httpMock := &mockHTTPClient{}
		src, _ := NewImageSource(httpMock, nil, nil, time.Hour)
		got, err := src.Fetch(ctx, imgutil.ToDataURL(png, "image/png"))
		require.NoError(t, err)
		assert.Equal(t, png, got)
		assert.Zero(t, httpMock.calls)
	})

	t.Run("ローカルファイルを読む", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sprite.png")
		require.NoError(t, os.WriteFile(path, png, 0o600))
		src, _ := NewImageSource(&mockHTTPClient{}, nil, nil, time.Hour)

		for _, uri := range []string{path, "file://" + path} {
			got, err := src.Fetch(ctx, uri)
			require.NoError(t, err)
			assert.Equal(t, png, got)
		}
	})
}

func TestImageSource_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("取得した画像をデコードする", func(t *testing.T) {
		src, _ := NewImageSource(&mockHTTPClient{data: spritePNG(t)}, nil, nil, time.Hour)
		img, err := src.Load(ctx, "https://93.184.216.34/sprites/25.png")
		require.NoError(t, err)
		assert.Equal(t, 4, img.Width())
		assert.Equal(t, uint8(255), img.AlphaAt(1, 1))
	})

	t.Run("画像でなければデコードエラー", func(t *testing.T) {
		src, _ := NewImageSource(&mockHTTPClient{data: []byte("<html>")}, nil, nil, time.Hour)
		_, err := src.Load(ctx, "https://93.184.216.34/sprites/25.png")
		assert.Error(t, err)
	})
}

func TestIsSafeURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"公開IPは許可", "https://93.184.216.34/a.png", true},
		{"ループバックは拒否", "http://127.0.0.1/a.png", false},
		{"プライベートは拒否", "http://192.168.1.10/a.png", false},
		{"リンクローカルは拒否", "http://169.254.169.254/", false},
		{"未指定アドレスは拒否", "http://0.0.0.0/", false},
		{"不許可スキーム", "ftp://93.184.216.34/a.png", false},
		{"不正なURL", "::not a url", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsSafeURL(tt.url)
			assert.Equal(t, tt.want, got)
			if !tt.want {
				assert.Error(t, err)
			}
		})
	}
}
