package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/imgutil"
	"github.com/shouni/poke-fusion-kit/pkg/utils"
)

// FusionGenerator は2枚の画像の読み込みから融合、エンコード、結果キャッシュまでを担当します。
type FusionGenerator struct {
	loader     SourceLoader
	cache      ImageCacher
	expiration time.Duration
	namer      Namer

	canvasSize       int
	removeBackground bool
	bgThreshold      uint8
}

// NewFusionGenerator は依存関係を注入して FusionGenerator を初期化します。
func NewFusionGenerator(loader SourceLoader, cache ImageCacher, cacheTTL time.Duration, opts ...Option) (*FusionGenerator, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	// cache は nil を許容（キャッシュなし動作）

	g := &FusionGenerator{
		loader:     loader,
		cache:      cache,
		expiration: cacheTTL,
		canvasSize: DefaultCanvasSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate は req の2画像を指定アルゴリズムで融合します。
//
// 設定とアルゴリズムの検証は I/O より前に行います。どちらかの画像の読み込みに
// 失敗した場合は *domain.ResourceLoadError を返し、部分的な合成はしません。
func (g *FusionGenerator) Generate(ctx context.Context, req domain.FusionRequest) (*domain.FusionResult, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	if _, err := domain.ParseAlgorithm(string(req.Algorithm)); err != nil {
		return nil, err
	}

	key := resultCacheKey(req)
	if cached := g.cachedResult(ctx, key); cached != nil {
		return cached, nil
	}

	pair, err := g.loadPair(ctx, req.First.URI, req.Second.URI)
	if err != nil {
		return nil, err
	}

	out, err := g.run(req.Algorithm, pair, req.Config, utils.NewRand(req.Seed))
	if err != nil {
		return nil, fmt.Errorf("%s 融合に失敗しました: %w", req.Algorithm, err)
	}

	result, err := g.buildResult(ctx, req, req.Algorithm, out)
	if err != nil {
		return nil, err
	}
	g.storeResult(ctx, key, result)

	slog.InfoContext(ctx, "融合が完了しました",
		"fusion_id", result.Metadata[MetaFusionID],
		"algorithm", req.Algorithm,
		"elapsed", out.elapsed)
	return result, nil
}

// buildResult は融合画像を PNG と data URL に変換し、メタデータを付けます。
func (g *FusionGenerator) buildResult(ctx context.Context, req domain.FusionRequest, alg domain.Algorithm, out runOutput) (*domain.FusionResult, error) {
	png, err := imgutil.EncodePNG(out.img)
	if err != nil {
		return nil, fmt.Errorf("融合結果のエンコードに失敗しました: %w", err)
	}

	meta := map[string]any{
		MetaFusionID:   FusionID(req.First.ID, req.Second.ID),
		MetaFusionName: g.fusionName(ctx, req.First.Name, req.Second.Name),
		MetaAlgorithm:  string(alg),
		MetaElapsedMs:  out.elapsed.Milliseconds(),
	}
	for k, v := range out.meta {
		meta[k] = v
	}

	return &domain.FusionResult{
		ImageDataURL: imgutil.ToDataURL(png, "image/png"),
		PNG:          png,
		Algorithm:    alg,
		Metadata:     meta,
	}, nil
}

// fusionName は Namer があればその提案を使い、失敗時は機械的な合成名にフォールバックします。
func (g *FusionGenerator) fusionName(ctx context.Context, nameA, nameB string) string {
	if g.namer != nil && nameA != "" && nameB != "" {
		name, err := g.namer.SuggestName(ctx, nameA, nameB)
		if err == nil && name != "" {
			return name
		}
		slog.WarnContext(ctx, "融合名の提案に失敗しました。合成名を使います", "a", nameA, "b", nameB, "error", err)
	}
	return FusionName(nameA, nameB)
}
