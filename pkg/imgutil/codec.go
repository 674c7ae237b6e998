// Package imgutil はスプライト画像のデコード、エンコード、data URL 変換を行います。
package imgutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/shouni/poke-fusion-kit/pkg/pixelate"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

const (
	// DefaultThumbnailSize は一覧表示用サムネイルの一辺です。
	DefaultThumbnailSize = 128
	// smallSprite 以下のサムネイルはドット感を残すためにピクセル化します。
	smallSprite = 64
)

// ErrInvalidDataURL は data URL の形式が不正な場合のエラーです。
var ErrInvalidDataURL = errors.New("invalid data url")

// Decode は PNG / GIF / JPEG / WebP のバイト列を RasterImage に変換します。
func Decode(data []byte) (*raster.RasterImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}
	return raster.FromImage(img)
}

// EncodePNG は透過を保ったまま PNG にエンコードします。
func EncodePNG(img *raster.RasterImage) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img.ToNRGBA()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToDataURL はバイト列を data URL 文字列に変換します。
func ToDataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL は base64 形式の data URL を MIME タイプとバイト列に分解します。
func ParseDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURL)
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 encoding is supported", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mimeType, data, nil
}

// Thumbnail は縦横比を保って size 以内に縮小します。
// 出力が 64px 以下の場合は 2px ブロックでピクセル化します。
func Thumbnail(img *raster.RasterImage, size int) (*raster.RasterImage, error) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	thumb, err := raster.FromImage(imaging.Fit(img.ToNRGBA(), size, size, imaging.NearestNeighbor))
	if err != nil {
		return nil, err
	}
	if max(thumb.Width(), thumb.Height()) <= smallSprite {
		thumb = pixelate.Pixelate(thumb, 2)
	}
	return thumb, nil
}
