package domain

import (
	"fmt"
)

// SourceSelector は、形状や色をどちらの画像から取るかを表します。
type SourceSelector string

const (
	SourceFirst  SourceSelector = "first"
	SourceSecond SourceSelector = "second"
	SourceBlend  SourceSelector = "blend"
)

// ColorMode は、2つのカラープロファイルの合成方法です。
type ColorMode string

const (
	ColorModeDominant ColorMode = "dominant"
	ColorModeGradient ColorMode = "gradient"
	ColorModePattern  ColorMode = "pattern"
)

// DominanceBias は、遺伝子交叉時にどちらの親を優先するかを表します。
type DominanceBias string

const (
	BiasRandom  DominanceBias = "random"
	BiasParentA DominanceBias = "parentA"
	BiasParentB DominanceBias = "parentB"
)

// FeatureMixing は、特殊特徴リストの混合方法です。
type FeatureMixing string

const (
	MixSelect FeatureMixing = "select"
	MixBlend  FeatureMixing = "blend"
	MixHybrid FeatureMixing = "hybrid"
)

// ColorInheritance は、色遺伝子の継承方法です。
type ColorInheritance string

const (
	InheritDominant ColorInheritance = "dominant"
	InheritBlend    ColorInheritance = "blend"
)

// SizeCalculation は、サイズ遺伝子の算出方法です。
type SizeCalculation string

const (
	SizeDominant SizeCalculation = "dominant"
	SizeAverage  SizeCalculation = "average"
)

// RegionSource は、advanced 融合で頭部・胴体をどちらから取るかを表します。
type RegionSource string

const (
	RegionParentA RegionSource = "parentA"
	RegionParentB RegionSource = "parentB"
	RegionBlend   RegionSource = "blend"
)

// OutlineStyle は、輪郭線の描画スタイルです。
type OutlineStyle string

const (
	OutlineNone  OutlineStyle = "none"
	OutlineThin  OutlineStyle = "thin"
	OutlineThick OutlineStyle = "thick"
	OutlineGlow  OutlineStyle = "glow"
)

// PaletteMethod は代表色の抽出方式です。
type PaletteMethod string

const (
	PaletteHistogram PaletteMethod = "histogram"
	PaletteDominant  PaletteMethod = "dominant"
	PaletteKMeans    PaletteMethod = "kmeans"
)

// FusionConfig は、融合アルゴリズムの挙動を選択する不変の設定です。
// ゼロ値ではなく DefaultFusionConfig を起点に組み立ててください。
type FusionConfig struct {
	ShapeSource SourceSelector `yaml:"shape_source" json:"shapeSource"`
	ColorSource SourceSelector `yaml:"color_source" json:"colorSource"`
	PixelSize   int            `yaml:"pixel_size" json:"pixelSize"`
	Outline     bool           `yaml:"outline" json:"outline"`
	FaceSwap    bool           `yaml:"face_swap" json:"faceSwap"`
	BlendRatio  float64        `yaml:"blend_ratio" json:"blendRatio"` // 塗りつぶし時の色ソース側の重み

	ColorMode    ColorMode     `yaml:"color_mode" json:"colorMode"`
	Palette      PaletteMethod `yaml:"palette" json:"palette"`
	HeadSource   RegionSource  `yaml:"head_source" json:"headSource"`
	BodySource   RegionSource  `yaml:"body_source" json:"bodySource"`
	OutlineStyle OutlineStyle  `yaml:"outline_style" json:"outlineStyle"`
	Shadow       bool          `yaml:"shadow" json:"shadow"`
	SizeRatio    float64       `yaml:"size_ratio" json:"sizeRatio"`

	MutationRate     float64          `yaml:"mutation_rate" json:"mutationRate"`
	DominanceBias    DominanceBias    `yaml:"dominance_bias" json:"dominanceBias"`
	FeatureMixing    FeatureMixing    `yaml:"feature_mixing" json:"featureMixing"`
	ColorInheritance ColorInheritance `yaml:"color_inheritance" json:"colorInheritance"`
	SizeCalculation  SizeCalculation  `yaml:"size_calculation" json:"sizeCalculation"`

	// hybrid アルゴリズムの重ね順と、上に重ねる側の不透明度 (1-HybridRatio)
	HybridPrimary   Algorithm `yaml:"hybrid_primary" json:"hybridPrimary"`
	HybridSecondary Algorithm `yaml:"hybrid_secondary" json:"hybridSecondary"`
	HybridRatio     float64   `yaml:"hybrid_ratio" json:"hybridRatio"`
}

// DefaultFusionConfig は既定値の設定を返します。
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		ShapeSource:      SourceFirst,
		ColorSource:      SourceSecond,
		PixelSize:        1,
		Outline:          true,
		FaceSwap:         false,
		BlendRatio:       1.0,
		ColorMode:        ColorModeDominant,
		Palette:          PaletteHistogram,
		HeadSource:       RegionParentA,
		BodySource:       RegionParentB,
		OutlineStyle:     OutlineThin,
		Shadow:           false,
		SizeRatio:        1.0,
		MutationRate:     0.1,
		DominanceBias:    BiasRandom,
		FeatureMixing:    MixSelect,
		ColorInheritance: InheritDominant,
		SizeCalculation:  SizeAverage,
		HybridPrimary:    AlgorithmGenetic,
		HybridSecondary:  AlgorithmAdvanced,
		HybridRatio:      0.7,
	}
}

// Validate は、ピクセル処理を始める前に設定の妥当性を検証します。
// 不正な場合は ErrDegenerateConfig をラップしたエラーを返します。
func (c FusionConfig) Validate() error {
	if c.PixelSize < 1 {
		return fmt.Errorf("%w: pixelSize must be >= 1, got %d", ErrDegenerateConfig, c.PixelSize)
	}
	ratios := []struct {
		name string
		v    float64
	}{
		{"blendRatio", c.BlendRatio},
		{"mutationRate", c.MutationRate},
		{"hybridRatio", c.HybridRatio},
	}
	for _, r := range ratios {
		if r.v < 0 || r.v > 1 || r.v != r.v {
			return fmt.Errorf("%w: %s must be within [0,1], got %v", ErrDegenerateConfig, r.name, r.v)
		}
	}
	if c.SizeRatio < 0.5 || c.SizeRatio > 1.5 {
		return fmt.Errorf("%w: sizeRatio must be within [0.5,1.5], got %v", ErrDegenerateConfig, c.SizeRatio)
	}

	if !oneOf(c.ShapeSource, SourceFirst, SourceSecond, SourceBlend) {
		return fmt.Errorf("%w: unknown shapeSource %q", ErrDegenerateConfig, c.ShapeSource)
	}
	if !oneOf(c.ColorSource, SourceFirst, SourceSecond, SourceBlend) {
		return fmt.Errorf("%w: unknown colorSource %q", ErrDegenerateConfig, c.ColorSource)
	}
	if !oneOf(c.ColorMode, ColorModeDominant, ColorModeGradient, ColorModePattern) {
		return fmt.Errorf("%w: unknown colorMode %q", ErrDegenerateConfig, c.ColorMode)
	}
	if !oneOf(c.Palette, PaletteHistogram, PaletteDominant, PaletteKMeans) {
		return fmt.Errorf("%w: unknown palette %q", ErrDegenerateConfig, c.Palette)
	}
	if !oneOf(c.HeadSource, RegionParentA, RegionParentB, RegionBlend) ||
		!oneOf(c.BodySource, RegionParentA, RegionParentB, RegionBlend) {
		return fmt.Errorf("%w: unknown region source %q/%q", ErrDegenerateConfig, c.HeadSource, c.BodySource)
	}
	if !oneOf(c.OutlineStyle, OutlineNone, OutlineThin, OutlineThick, OutlineGlow) {
		return fmt.Errorf("%w: unknown outlineStyle %q", ErrDegenerateConfig, c.OutlineStyle)
	}
	if !oneOf(c.DominanceBias, BiasRandom, BiasParentA, BiasParentB) {
		return fmt.Errorf("%w: unknown dominanceBias %q", ErrDegenerateConfig, c.DominanceBias)
	}
	if !oneOf(c.FeatureMixing, MixSelect, MixBlend, MixHybrid) {
		return fmt.Errorf("%w: unknown featureMixing %q", ErrDegenerateConfig, c.FeatureMixing)
	}
	if !oneOf(c.ColorInheritance, InheritDominant, InheritBlend) {
		return fmt.Errorf("%w: unknown colorInheritance %q", ErrDegenerateConfig, c.ColorInheritance)
	}
	if !oneOf(c.SizeCalculation, SizeDominant, SizeAverage) {
		return fmt.Errorf("%w: unknown sizeCalculation %q", ErrDegenerateConfig, c.SizeCalculation)
	}
	// hybrid の構成要素に hybrid 自身は指定できない
	for _, a := range []Algorithm{c.HybridPrimary, c.HybridSecondary} {
		if !oneOf(a, AlgorithmPixel, AlgorithmAdvanced, AlgorithmGenetic) {
			return fmt.Errorf("%w: invalid hybrid component %q", ErrDegenerateConfig, a)
		}
	}
	return nil
}

func oneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
