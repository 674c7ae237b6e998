package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/poke-fusion-kit/pkg/domain"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
	"github.com/shouni/poke-fusion-kit/pkg/utils"
)

// loadPair は2画像を並行に読み込み、キャンバスに配置します。
// どちらかが失敗した時点で全体を失敗とします。
func (g *FusionGenerator) loadPair(ctx context.Context, uriA, uriB string) (spritePair, error) {
	var pair spritePair
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		img, err := g.loadOne(egCtx, uriA)
		pair.a = img
		return err
	})
	eg.Go(func() error {
		img, err := g.loadOne(egCtx, uriB)
		pair.b = img
		return err
	})

	if err := eg.Wait(); err != nil {
		return spritePair{}, err
	}
	return pair, nil
}

func (g *FusionGenerator) loadOne(ctx context.Context, uri string) (*raster.RasterImage, error) {
	img, err := g.loader.Load(ctx, uri)
	if err != nil {
		return nil, &domain.ResourceLoadError{URI: uri, Err: err}
	}
	if img == nil {
		return nil, &domain.ResourceLoadError{URI: uri, Err: fmt.Errorf("empty image")}
	}

	fitted, err := raster.FitCanonical(img, g.canvasSize, g.canvasSize)
	if err != nil {
		return nil, &domain.ResourceLoadError{URI: uri, Err: err}
	}
	if g.removeBackground {
		fitted = raster.RemoveBackground(fitted, g.bgThreshold)
	}
	return fitted, nil
}

// cachedResult はキャッシュ済みの結果の複製を返します。型が不正な場合は無視します。
// Metadata は複製するので、呼び出し側が書き換えてもキャッシュには影響しません。
func (g *FusionGenerator) cachedResult(ctx context.Context, key string) *domain.FusionResult {
	if g.cache == nil {
		return nil
	}
	val, ok := g.cache.Get(key)
	if !ok {
		return nil
	}
	if res, ok := val.(*domain.FusionResult); ok && res != nil {
		clone := *res
		clone.Metadata = maps.Clone(res.Metadata)
		return &clone
	}
	slog.WarnContext(ctx, "キャッシュデータが不正な型です", "key", key, "type", fmt.Sprintf("%T", val))
	return nil
}

// storeResult はベストエフォートで結果を保存します。失敗しても融合結果には影響させません。
func (g *FusionGenerator) storeResult(ctx context.Context, key string, res *domain.FusionResult) {
	if g.cache == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.WarnContext(ctx, "融合結果のキャッシュ保存に失敗しました", "key", key, "panic", r)
		}
	}()
	g.cache.Set(key, res, g.expiration)
}

// resultCacheKey は (idA, idB, 設定ハッシュ) からキャッシュキーを作ります。
// ID が同じでも URI が違えば別の画像なので、URI は設定ハッシュに含めます。
func resultCacheKey(req domain.FusionRequest) string {
	return fmt.Sprintf("%s%d:%d:%s", cacheKeyFusionResult, req.First.ID, req.Second.ID, configHash(req))
}

// configHash は入力 URI、アルゴリズム、設定、シードのハッシュです。
func configHash(req domain.FusionRequest) string {
	payload := struct {
		First     string              `json:"first"`
		Second    string              `json:"second"`
		Algorithm domain.Algorithm    `json:"algorithm"`
		Config    domain.FusionConfig `json:"config"`
		Seed      int64               `json:"seed"`
		Seeded    bool                `json:"seeded"`
	}{req.First.URI, req.Second.URI, req.Algorithm, req.Config, utils.DereferenceSeed(req.Seed), req.Seed != nil}

	h := fnv.New64a()
	// 構造体はすべてエンコード可能な型なので失敗しない
	_ = json.NewEncoder(h).Encode(payload)
	return fmt.Sprintf("%016x", h.Sum64())
}
