package generator

import (
	"time"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

const (
	// DefaultCanvasSize は入力画像を配置する正方形キャンバスの一辺です。
	DefaultCanvasSize    = 512
	cacheKeyFusionResult = "fusion_result:"
	// recommendSize は推奨判定に使う縮小サイズです。
	recommendSize = 64
)

// メタデータのキー
const (
	MetaFusionID    = "fusionId"
	MetaFusionName  = "fusionName"
	MetaAlgorithm   = "algorithm"
	MetaElapsedMs   = "elapsedMs"
	MetaGeneticCode = "geneticCode"
	MetaTraits      = "traits"
	MetaHybrid      = "hybrid"
)

// Option は FusionGenerator の任意設定です。
type Option func(*FusionGenerator)

// WithNamer は融合名の提案に使う Namer を設定します。
func WithNamer(n Namer) Option {
	return func(g *FusionGenerator) { g.namer = n }
}

// WithCanvasSize は正方形キャンバスの一辺を変更します。0 以下は無視します。
func WithCanvasSize(size int) Option {
	return func(g *FusionGenerator) {
		if size > 0 {
			g.canvasSize = size
		}
	}
}

// WithBackgroundRemoval は、ほぼ白の背景を透明にする前処理を有効にします。
func WithBackgroundRemoval(threshold uint8) Option {
	return func(g *FusionGenerator) {
		g.removeBackground = true
		g.bgThreshold = threshold
	}
}

// Comparison は複数アルゴリズムの比較結果です。失敗したアルゴリズムは Errors に入ります。
type Comparison struct {
	Results map[domain.Algorithm]*domain.FusionResult
	Errors  map[domain.Algorithm]error
}

// Recommendation は推奨アルゴリズムとその理由です。
type Recommendation struct {
	Algorithm domain.Algorithm
	Reasons   []string
}

// spritePair は読み込み済みの2画像です。
type spritePair struct {
	a, b *raster.RasterImage
}

type runOutput struct {
	img     *raster.RasterImage
	meta    map[string]any
	elapsed time.Duration
}
