// Package genetic は2体のスプライトから記号的な形質を取り出し、交配・突変させた
// 結果をベクター図形として描き直す遺伝子風の融合です。
//
// 乱数は呼び出し側から *rand.Rand として注入します。同じ入力でも結果は毎回変わり得ます。
package genetic

import (
	"image/color"
	"math/rand/v2"

	"github.com/shouni/poke-fusion-kit/pkg/colorops"
	"github.com/shouni/poke-fusion-kit/pkg/feature"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
	"github.com/shouni/poke-fusion-kit/pkg/region"
)

// GeneType は遺伝子の種類です。
type GeneType string

const (
	GeneColor   GeneType = "color"
	GeneShape   GeneType = "shape"
	GenePattern GeneType = "pattern"
	GeneSize    GeneType = "size"
	GeneFeature GeneType = "feature"
)

// BodyShape は胴体の形のタグです。
type BodyShape string

const (
	BodyQuadruped  BodyShape = "quadruped"
	BodyBipedal    BodyShape = "bipedal"
	BodySerpentine BodyShape = "serpentine"
	BodyRound      BodyShape = "round"
)

// Pattern は体表の模様タグです。
type Pattern string

const (
	PatternStripes   Pattern = "stripes"
	PatternSpots     Pattern = "spots"
	PatternGradient  Pattern = "gradient"
	PatternSolid     Pattern = "solid"
	PatternCheckered Pattern = "checkered"
)

// Patterns は突然変異で選び直す模様の候補です。
var Patterns = []Pattern{PatternStripes, PatternSpots, PatternGradient, PatternSolid, PatternCheckered}

// Feature は特殊な外見上の特徴です。
type Feature string

const (
	FeatureSpikes Feature = "spikes"
	FeatureWings  Feature = "wings"
)

// HeadShape は頭の位置の粗い記述です。座標は解析用キャンバス (128px) 基準です。
type HeadShape struct {
	Top     int
	CenterX float64
}

// Gene は1つの形質です。Value の型は Type によって決まります。
//
//	color   → color.NRGBA
//	shape   → BodyShape または HeadShape
//	pattern → Pattern
//	size    → float64
//	feature → Feature
type Gene struct {
	Type         GeneType `json:"type"`
	Value        any      `json:"value"`
	Dominance    float64  `json:"dominance"`
	MutationRate float64  `json:"mutationRate"`
}

// GeneticProfile は1体分の遺伝子一式です。
type GeneticProfile struct {
	PrimaryColor    Gene
	SecondaryColor  Gene
	BodyShape       Gene
	HeadShape       Gene
	Pattern         Gene
	Size            Gene
	SpecialFeatures []Gene
}

const (
	// analysisSize は形質抽出前に縮小するサイズです。
	analysisSize = 128
	colorBucket  = 32

	colorMutationRate   = 0.02
	shapeMutationRate   = 0.03
	patternMutationRate = 0.01
	sizeMutationRate    = 0.01
	featureMutationRate = 0.04

	spikeMinTransparent = 3
	spikeMinCount       = 5
	wingMinCount        = 20
)

var (
	defaultPrimary   = colorops.MustHex("#888888")
	defaultSecondary = colorops.MustHex("#666666")
)

// ExtractProfile は img を 128×128 に縮小して遺伝子一式を取り出します。
// 優性度、模様、大きさは rng から引きます。
func ExtractProfile(img *raster.RasterImage, rng *rand.Rand) (GeneticProfile, error) {
	small, err := raster.Resize(img, analysisSize, analysisSize)
	if err != nil {
		return GeneticProfile{}, err
	}

	primary, secondary := defaultPrimary, defaultSecondary
	palette := feature.DominantColorPalette(small, 1, colorBucket)
	if len(palette) > 0 {
		primary = palette[0].Color
	}
	if len(palette) > 1 {
		secondary = palette[1].Color
	}

	shape := region.Silhouette(small)
	head := HeadShape{Top: shape.Bounds.Min.Y, CenterX: float64(shape.Bounds.Min.X+shape.Bounds.Max.X) / 2}

	pattern := PatternSolid
	if rng.Float64() > 0.5 {
		pattern = PatternStripes
	}

	gene := func(t GeneType, v any, rate float64) Gene {
		return Gene{Type: t, Value: v, Dominance: rng.Float64()*0.5 + 0.5, MutationRate: rate}
	}
	p := GeneticProfile{
		PrimaryColor:   gene(GeneColor, primary, colorMutationRate),
		SecondaryColor: gene(GeneColor, secondary, colorMutationRate),
		BodyShape:      gene(GeneShape, classifyBody(shape), shapeMutationRate),
		HeadShape:      gene(GeneShape, head, shapeMutationRate),
		Pattern:        gene(GenePattern, pattern, patternMutationRate),
		Size:           gene(GeneSize, rng.Float64()*0.5+0.75, sizeMutationRate),
	}
	for _, f := range detectFeatures(small) {
		p.SpecialFeatures = append(p.SpecialFeatures, gene(GeneFeature, f, featureMutationRate))
	}
	return p, nil
}

// classifyBody は外接矩形の縦横比と充填率から胴体タグを決めます。
func classifyBody(s region.Shape) BodyShape {
	switch {
	case s.PixelCount == 0:
		return BodyRound
	case (s.AspectRatio >= 2.5 || s.AspectRatio <= 0.4) && s.Density < 0.35:
		return BodySerpentine
	case s.AspectRatio > 1.2:
		return BodyQuadruped
	case s.AspectRatio < 0.8:
		return BodyBipedal
	}
	return BodyRound
}

// detectFeatures は上部 1/3 の尖った画素と、中段の左右 1/4 にはみ出した画素を数えます。
func detectFeatures(img *raster.RasterImage) []Feature {
	w, h := img.Width(), img.Height()
	opaque := func(x, y int) bool { return img.AlphaAt(x, y) > feature.OpaqueAlpha }

	spikes := 0
	for y := 0; y < h/3; y++ {
		for x := 0; x < w; x++ {
			if opaque(x, y) && transparentNeighbors(img, x, y) >= spikeMinTransparent {
				spikes++
			}
		}
	}

	wings := 0
	for y := h / 3; y < h*2/3; y++ {
		for x := 0; x < w; x++ {
			if opaque(x, y) && (x < w/4 || x > w*3/4) {
				wings++
			}
		}
	}

	var out []Feature
	if spikes > spikeMinCount {
		out = append(out, FeatureSpikes)
	}
	if wings > wingMinCount {
		out = append(out, FeatureWings)
	}
	return out
}

func transparentNeighbors(img *raster.RasterImage, x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 || !img.InBounds(x+dx, y+dy) {
				continue
			}
			if img.AlphaAt(x+dx, y+dy) <= feature.OpaqueAlpha {
				n++
			}
		}
	}
	return n
}

func colorValue(g Gene, fallback color.NRGBA) color.NRGBA {
	if c, ok := g.Value.(color.NRGBA); ok {
		return c
	}
	return fallback
}
