package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/feature"
	"github.com/shouni/poke-fusion-kit/pkg/fusion"
	"github.com/shouni/poke-fusion-kit/pkg/genetic"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
	"github.com/shouni/poke-fusion-kit/pkg/utils"
)

const (
	simpleSpriteColors = 8
	highDetailEdges    = 100
	diverseBuckets     = 8
	diverseBucketSize  = 32
)

// run はアルゴリズムタグに応じて融合処理を振り分けます。
func (g *FusionGenerator) run(alg domain.Algorithm, pair spritePair, cfg domain.FusionConfig, rng *rand.Rand) (runOutput, error) {
	start := time.Now()
	img, meta, err := dispatch(alg, pair, cfg, rng)
	if err != nil {
		return runOutput{}, err
	}
	return runOutput{img: img, meta: meta, elapsed: time.Since(start)}, nil
}

func dispatch(alg domain.Algorithm, pair spritePair, cfg domain.FusionConfig, rng *rand.Rand) (*raster.RasterImage, map[string]any, error) {
	switch alg {
	case domain.AlgorithmPixel:
		img, err := fusion.Run(pair.a, pair.b, cfg)
		return img, nil, err
	case domain.AlgorithmAdvanced:
		img, err := fusion.Advanced(pair.a, pair.b, cfg)
		return img, nil, err
	case domain.AlgorithmGenetic:
		img, child, err := genetic.Fuse(pair.a, pair.b, cfg, rng)
		if err != nil {
			return nil, nil, err
		}
		return img, map[string]any{MetaGeneticCode: child.GeneticCode, MetaTraits: child.Traits}, nil
	case domain.AlgorithmHybrid:
		return hybrid(pair, cfg, rng)
	}
	return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedAlgorithm, alg)
}

// hybrid は主アルゴリズムの結果に副アルゴリズムの結果を不透明度 1-HybridRatio で重ねます。
func hybrid(pair spritePair, cfg domain.FusionConfig, rng *rand.Rand) (*raster.RasterImage, map[string]any, error) {
	primary, primaryMeta, err := dispatch(cfg.HybridPrimary, pair, cfg, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("hybrid primary (%s): %w", cfg.HybridPrimary, err)
	}
	secondary, secondaryMeta, err := dispatch(cfg.HybridSecondary, pair, cfg, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("hybrid secondary (%s): %w", cfg.HybridSecondary, err)
	}
	if err := raster.Overlay(primary, secondary, 1-cfg.HybridRatio); err != nil {
		return nil, nil, err
	}

	meta := map[string]any{
		MetaHybrid: map[string]any{
			"primary":   string(cfg.HybridPrimary),
			"secondary": string(cfg.HybridSecondary),
			"ratio":     cfg.HybridRatio,
		},
	}
	for _, m := range []map[string]any{secondaryMeta, primaryMeta} {
		for k, v := range m {
			meta[k] = v
		}
	}
	return primary, meta, nil
}

// Compare は1組の画像を複数のアルゴリズムで並行に融合します。
// 個々のアルゴリズムの失敗は Errors に記録し、全体の失敗にはしません。
// 画像の読み込みと設定の検証に失敗した場合のみエラーを返します。
func (g *FusionGenerator) Compare(ctx context.Context, req domain.FusionRequest, algorithms []domain.Algorithm) (*Comparison, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	if len(algorithms) == 0 {
		algorithms = domain.Algorithms
	}

	pair, err := g.loadPair(ctx, req.First.URI, req.Second.URI)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Results: make(map[domain.Algorithm]*domain.FusionResult),
		Errors:  make(map[domain.Algorithm]error),
	}
	var (
		mu sync.Mutex
		eg errgroup.Group
	)
	for _, alg := range algorithms {
		eg.Go(func() error {
			res, err := g.compareOne(ctx, req, alg, pair)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.WarnContext(ctx, "比較中のアルゴリズムが失敗しました", "algorithm", alg, "error", err)
				cmp.Errors[alg] = err
				return nil
			}
			cmp.Results[alg] = res
			return nil
		})
	}
	_ = eg.Wait()
	return cmp, nil
}

func (g *FusionGenerator) compareOne(ctx context.Context, req domain.FusionRequest, alg domain.Algorithm, pair spritePair) (*domain.FusionResult, error) {
	if _, err := domain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	// *rand.Rand は並行利用できないためアルゴリズムごとに作る
	out, err := g.run(alg, pair, req.Config, utils.NewRand(req.Seed))
	if err != nil {
		return nil, err
	}
	return g.buildResult(ctx, req, alg, out)
}

// Recommend は2画像を読み込み、特徴に合ったアルゴリズムを推奨します。
func (g *FusionGenerator) Recommend(ctx context.Context, req domain.FusionRequest) (*Recommendation, error) {
	pair, err := g.loadPair(ctx, req.First.URI, req.Second.URI)
	if err != nil {
		return nil, err
	}
	return RecommendFor(pair.a, pair.b)
}

// RecommendFor は 64×64 に縮小した2画像の特徴から推奨アルゴリズムを決めます。
//
//	両方とも 8 色以下              → pixel
//	どちらかの輪郭画素が 100 超     → advanced
//	どちらかの色バケットが 8 超     → genetic
//	それ以外                       → hybrid
func RecommendFor(a, b *raster.RasterImage) (*Recommendation, error) {
	sa, err := raster.Resize(a, recommendSize, recommendSize)
	if err != nil {
		return nil, err
	}
	sb, err := raster.Resize(b, recommendSize, recommendSize)
	if err != nil {
		return nil, err
	}

	switch {
	case isSimpleSprite(sa) && isSimpleSprite(sb):
		return &Recommendation{Algorithm: domain.AlgorithmPixel, Reasons: []string{"どちらも色数の少ないドット絵なのでピクセル融合が適しています"}}, nil
	case hasHighDetail(sa) || hasHighDetail(sb):
		return &Recommendation{Algorithm: domain.AlgorithmAdvanced, Reasons: []string{"細部が多いので部位ごとの高度な融合が特徴を残せます"}}, nil
	case hasDiverseColors(sa) || hasDiverseColors(sb):
		return &Recommendation{Algorithm: domain.AlgorithmGenetic, Reasons: []string{"配色の差が大きいので遺伝子融合が自然な中間色を作れます"}}, nil
	}
	return &Recommendation{Algorithm: domain.AlgorithmHybrid, Reasons: []string{"決め手となる特徴がないので複数アルゴリズムを組み合わせます"}}, nil
}

func isSimpleSprite(img *raster.RasterImage) bool {
	return len(feature.DominantColorPalette(img, 1, 1)) <= simpleSpriteColors
}

func hasHighDetail(img *raster.RasterImage) bool {
	return feature.ExtractContour(img).Count() > highDetailEdges
}

func hasDiverseColors(img *raster.RasterImage) bool {
	return len(feature.DominantColorPalette(img, 1, diverseBucketSize)) > diverseBuckets
}
