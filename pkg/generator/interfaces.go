package generator

import (
	"context"
	"time"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

// Fuser はビジネスロジック層や CLI が利用する統合窓口です。
type Fuser interface {
	Generate(ctx context.Context, req domain.FusionRequest) (*domain.FusionResult, error)
	Compare(ctx context.Context, req domain.FusionRequest, algorithms []domain.Algorithm) (*Comparison, error)
	Recommend(ctx context.Context, req domain.FusionRequest) (*Recommendation, error)
}

// SourceLoader は、URI から画像を取得して RasterImage にデコードするためのインターフェースです。
type SourceLoader interface {
	Load(ctx context.Context, uri string) (*raster.RasterImage, error)
}

// ImageCacher は、融合結果をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// Namer は、2体の名前から融合名を提案するためのインターフェースです。
type Namer interface {
	SuggestName(ctx context.Context, nameA, nameB string) (string, error)
}
