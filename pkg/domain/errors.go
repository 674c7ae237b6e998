package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch は合成対象の2画像のサイズが一致しない場合のエラーです。
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrUnsupportedAlgorithm は未知のアルゴリズムタグが指定された場合のエラーです。
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrDegenerateConfig は設定値が範囲外の場合のエラーです。
	ErrDegenerateConfig = errors.New("degenerate config")
)

// ResourceLoadError は、ソース画像の取得またはデコードに失敗したことを表します。
type ResourceLoadError struct {
	URI string
	Err error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("画像の読み込みに失敗しました (%s): %v", e.URI, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// NewDimensionMismatch は2つのサイズを含む ErrDimensionMismatch を生成します。
func NewDimensionMismatch(aw, ah, bw, bh int) error {
	return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, aw, ah, bw, bh)
}
