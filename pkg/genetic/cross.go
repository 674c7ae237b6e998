package genetic

import (
	"cmp"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"image/color"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/shouni/poke-fusion-kit/pkg/colorops"
	"github.com/shouni/poke-fusion-kit/pkg/domain"
)

const (
	dominanceJitter    = 0.1
	colorWalk          = 30
	maxMutationRate    = 0.5
	mutationRateGrowth = 1.5
	geneticCodeLength  = 32
)

// Options は交配の挙動を決める設定です。
type Options struct {
	MutationRate     float64
	DominanceBias    domain.DominanceBias
	FeatureMixing    domain.FeatureMixing
	ColorInheritance domain.ColorInheritance
	SizeCalculation  domain.SizeCalculation
}

// OptionsFrom は FusionConfig から交配設定を取り出します。
func OptionsFrom(cfg domain.FusionConfig) Options {
	return Options{
		MutationRate:     cfg.MutationRate,
		DominanceBias:    cfg.DominanceBias,
		FeatureMixing:    cfg.FeatureMixing,
		ColorInheritance: cfg.ColorInheritance,
		SizeCalculation:  cfg.SizeCalculation,
	}
}

// CrossGene は同じ種類の2つの遺伝子から子の遺伝子を1つ作ります。
//
// 優性側は保存された優性度に ±0.1 の揺らぎを加えて比べます。DominanceBias が
// parentA / parentB の場合はそちらが常に優性です。色は ColorInheritance が blend なら
// 半々に、大きさは SizeCalculation が average なら平均を取り、それ以外は優性側の値を
// 受け継ぎます。その後 max(a.rate, b.rate, opts.MutationRate) の確率で突然変異します。
func CrossGene(a, b Gene, opts Options, rng *rand.Rand) Gene {
	dominant := b
	if a.Dominance+jitter(rng) > b.Dominance+jitter(rng) {
		dominant = a
	}
	switch opts.DominanceBias {
	case domain.BiasParentA:
		dominant = a
	case domain.BiasParentB:
		dominant = b
	}

	value := dominant.Value
	switch {
	case a.Type == GeneColor && opts.ColorInheritance == domain.InheritBlend:
		value = colorops.Blend(colorValue(a, colorops.Gray), colorValue(b, colorops.Gray), 0.5)
	case a.Type == GeneSize && opts.SizeCalculation == domain.SizeAverage:
		value = (sizeValue(a) + sizeValue(b)) / 2
	}

	rate := max(a.MutationRate, b.MutationRate, opts.MutationRate)
	if rng.Float64() < rate {
		value = mutate(a.Type, value, rng)
	}

	return Gene{
		Type:         a.Type,
		Value:        value,
		Dominance:    (a.Dominance + b.Dominance) / 2,
		MutationRate: min(rate*mutationRateGrowth, maxMutationRate),
	}
}

func jitter(rng *rand.Rand) float64 {
	return (rng.Float64()*2 - 1) * dominanceJitter
}

func mutate(t GeneType, v any, rng *rand.Rand) any {
	switch t {
	case GeneColor:
		c, ok := v.(color.NRGBA)
		if !ok {
			return v
		}
		walk := func(ch uint8) uint8 {
			return colorops.ClampByte(float64(ch) + (rng.Float64()*2-1)*colorWalk)
		}
		return color.NRGBA{R: walk(c.R), G: walk(c.G), B: walk(c.B), A: 255}
	case GeneSize:
		return sizeValue(Gene{Value: v}) * (0.8 + rng.Float64()*0.4)
	case GenePattern:
		return Patterns[rng.IntN(len(Patterns))]
	}
	return v
}

func sizeValue(g Gene) float64 {
	if f, ok := g.Value.(float64); ok {
		return f
	}
	return 1
}

// MixFeatures は両親の特殊特徴を合わせて子に引き継ぐものを選びます。
// select は優性度の高い順に3つまで、blend は先頭2つ、hybrid は先頭3つです。
// 同じ特徴は1つにまとめます。
func MixFeatures(a, b []Gene, mode domain.FeatureMixing) []Gene {
	all := slices.Concat(a, b)
	limit := 3
	switch mode {
	case domain.MixSelect:
		slices.SortStableFunc(all, func(x, y Gene) int { return cmp.Compare(y.Dominance, x.Dominance) })
	case domain.MixBlend:
		limit = 2
	}

	var out []Gene
	seen := make(map[any]bool)
	for _, g := range all {
		if len(out) == limit {
			break
		}
		if seen[g.Value] {
			continue
		}
		seen[g.Value] = true
		out = append(out, g)
	}
	return out
}

// Offspring は交配結果です。
type Offspring struct {
	Profile     GeneticProfile
	GeneticCode string
	Traits      map[string]any
}

// Synthesize は2つのプロファイルを遺伝子ごとに交配します。
func Synthesize(a, b GeneticProfile, opts Options, rng *rand.Rand) Offspring {
	child := GeneticProfile{
		PrimaryColor:    CrossGene(a.PrimaryColor, b.PrimaryColor, opts, rng),
		SecondaryColor:  CrossGene(a.SecondaryColor, b.SecondaryColor, opts, rng),
		BodyShape:       CrossGene(a.BodyShape, b.BodyShape, opts, rng),
		HeadShape:       CrossGene(a.HeadShape, b.HeadShape, opts, rng),
		Pattern:         CrossGene(a.Pattern, b.Pattern, opts, rng),
		Size:            CrossGene(a.Size, b.Size, opts, rng),
		SpecialFeatures: MixFeatures(a.SpecialFeatures, b.SpecialFeatures, opts.FeatureMixing),
	}
	return Offspring{
		Profile:     child,
		GeneticCode: GeneticCode(child),
		Traits:      Traits(child),
	}
}

type namedGene struct {
	key  string
	gene Gene
}

// named は遺伝子を固定順で列挙します。
func (p GeneticProfile) named() []namedGene {
	out := []namedGene{
		{"primaryColor", p.PrimaryColor},
		{"secondaryColor", p.SecondaryColor},
		{"bodyShape", p.BodyShape},
		{"headShape", p.HeadShape},
		{"pattern", p.Pattern},
		{"size", p.Size},
	}
	for i, g := range p.SpecialFeatures {
		out = append(out, namedGene{fmt.Sprintf("special_%d", i), g})
	}
	return out
}

// GeneticCode は遺伝子一式を短い識別文字列にします。
// "key:hash:dominance|" を連結して base64 にし、先頭 32 文字を使います。
func GeneticCode(p GeneticProfile) string {
	var sb strings.Builder
	for _, e := range p.named() {
		h := fnv.New32a()
		fmt.Fprint(h, e.gene.Value)
		fmt.Fprintf(&sb, "%s:%x:%.2f|", e.key, h.Sum32(), e.gene.Dominance)
	}
	code := base64.StdEncoding.EncodeToString([]byte(sb.String()))
	return code[:min(len(code), geneticCodeLength)]
}

// Traits は遺伝子の値を表示・メタデータ向けの形に変換します。色は "#rrggbb" です。
func Traits(p GeneticProfile) map[string]any {
	traits := make(map[string]any)
	var features []string
	for _, e := range p.named() {
		switch v := e.gene.Value.(type) {
		case color.NRGBA:
			traits[e.key] = colorops.Hex(v)
		case Feature:
			features = append(features, string(v))
		case HeadShape:
			traits[e.key] = map[string]any{"top": v.Top, "centerX": v.CenterX}
		default:
			traits[e.key] = v
		}
	}
	traits["specialFeatures"] = features
	return traits
}
