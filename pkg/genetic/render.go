package genetic

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"

	"github.com/shouni/poke-fusion-kit/pkg/colorops"
	"github.com/shouni/poke-fusion-kit/pkg/pixelate"
	"github.com/shouni/poke-fusion-kit/pkg/raster"
)

const (
	// DefaultBlockSize は描画後のピクセル化のブロックサイズです。
	DefaultBlockSize = 4
	// referenceCanvas は図形の寸法を決めた基準のキャンバスサイズです。
	referenceCanvas = 512.0
	baseRadius      = 100.0
	stripeSpacing   = 15.0
	stripeWidth     = 3.0
	spotCount       = 5
	checkerCell     = 16.0
	gradientSteps   = 8
	wingTilt        = 0.3
)

var (
	spikeColor = colorops.MustHex("#ff4444")
	wingColor  = colorops.MustHex("#88aaff")
)

// Render は子の遺伝子一式を w×h のキャンバスに描き、blockSize でピクセル化します。
// 模様の一部 (spots) の配置には rng を使います。
func Render(p GeneticProfile, w, h, blockSize int, rng *rand.Rand) (*raster.RasterImage, error) {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	r := &renderer{
		dc:        dc,
		rng:       rng,
		k:         math.Min(float64(w), float64(h)) / referenceCanvas,
		cx:        float64(w) / 2,
		cy:        float64(h) / 2,
		primary:   colorValue(p.PrimaryColor, defaultPrimary),
		secondary: colorValue(p.SecondaryColor, defaultSecondary),
	}
	r.base = baseRadius * sizeValue(p.Size) * r.k

	features := make(map[Feature]bool)
	for _, g := range p.SpecialFeatures {
		if f, ok := g.Value.(Feature); ok {
			features[f] = true
		}
	}
	body, _ := p.BodyShape.Value.(BodyShape)
	pattern, _ := p.Pattern.Value.(Pattern)

	steps := []func() error{}
	if features[FeatureWings] {
		steps = append(steps, r.wings)
	}
	steps = append(steps,
		func() error { return r.body(body) },
		func() error { return r.pattern(pattern) },
		r.outline,
	)
	if features[FeatureSpikes] {
		steps = append(steps, r.spikes)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("遺伝子融合の描画に失敗しました: %w", err)
		}
	}

	img, err := raster.FromImage(dc.Image())
	if err != nil {
		return nil, err
	}
	return pixelate.Pixelate(img, blockSize), nil
}

type renderer struct {
	dc        *gg.Context
	rng       *rand.Rand
	k         float64
	cx, cy    float64
	base      float64
	primary   color.NRGBA
	secondary color.NRGBA

	// 胴体の楕円。模様と輪郭線の範囲に使います。
	bx, by, brx, bry float64
	curved           bool
}

func (r *renderer) body(shape BodyShape) error {
	b, k := r.base, r.k
	switch shape {
	case BodyQuadruped:
		r.bx, r.by, r.brx, r.bry = r.cx, r.cy+30*k, b*1.1, b*0.7
	case BodySerpentine:
		r.bx, r.by, r.brx, r.bry = r.cx, r.cy+20*k, b*0.45, b*1.3
	case BodyRound:
		r.bx, r.by, r.brx, r.bry = r.cx, r.cy+20*k, b, b
	default:
		r.bx, r.by, r.brx, r.bry = r.cx, r.cy+20*k, b*0.8, b*1.2
	}

	r.curved = shape == BodySerpentine
	r.dc.SetColor(r.primary)
	if r.curved {
		// 胴体をうねらせた太い曲線で描く
		r.dc.SetLineWidth(b * 0.5)
		r.dc.MoveTo(r.cx-b, r.cy+b)
		r.dc.QuadraticTo(r.cx-b, r.cy, r.cx, r.cy+20*k)
		r.dc.QuadraticTo(r.cx+b, r.cy+40*k, r.cx+b*0.6, r.cy-b*0.6)
		if err := r.dc.Stroke(); err != nil {
			return err
		}
	} else {
		r.dc.DrawEllipse(r.bx, r.by, r.brx, r.bry)
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}
	if shape == BodyQuadruped {
		for _, dx := range []float64{-0.7, -0.3, 0.3, 0.7} {
			r.dc.DrawEllipse(r.bx+dx*b, r.by+r.bry, b*0.15, b*0.3)
			if err := r.dc.Fill(); err != nil {
				return err
			}
		}
	}

	r.dc.DrawEllipse(r.cx, r.cy-40*k, b*0.6, b*0.5)
	return r.dc.Fill()
}

func (r *renderer) insideBody(x, y float64) bool {
	dx, dy := (x-r.bx)/r.brx, (y-r.by)/r.bry
	return dx*dx+dy*dy <= 1
}

func (r *renderer) pattern(p Pattern) error {
	b, k := r.base, r.k
	switch p {
	case PatternStripes:
		r.dc.SetColor(r.secondary)
		r.dc.SetLineWidth(stripeWidth * k)
		for i := -b; i < b; i += stripeSpacing * k {
			r.dc.MoveTo(r.cx+i, r.by-r.bry*0.8)
			r.dc.LineTo(r.cx+i+10*k, r.by+r.bry*0.8)
		}
		return r.dc.Stroke()
	case PatternSpots:
		r.dc.SetColor(r.secondary)
		for i := 0; i < spotCount; i++ {
			x := r.bx + (r.rng.Float64()-0.5)*r.brx
			y := r.by + (r.rng.Float64()-0.5)*r.bry
			r.dc.DrawCircle(x, y, (5+r.rng.Float64()*10)*k)
			if err := r.dc.Fill(); err != nil {
				return err
			}
		}
	case PatternGradient:
		for i := 1; i < gradientSteps; i++ {
			t := float64(i) / gradientSteps
			r.dc.SetColor(colorops.BlendLab(r.primary, r.secondary, t))
			r.dc.DrawEllipse(r.bx, r.by, r.brx*(1-t), r.bry*(1-t))
			if err := r.dc.Fill(); err != nil {
				return err
			}
		}
	case PatternCheckered:
		r.dc.SetColor(r.secondary)
		cell := checkerCell * k
		for y, row := r.by-r.bry, 0; y < r.by+r.bry; y, row = y+cell, row+1 {
			for x, col := r.bx-r.brx, 0; x < r.bx+r.brx; x, col = x+cell, col+1 {
				if (row+col)%2 == 1 || !r.insideBody(x+cell/2, y+cell/2) {
					continue
				}
				r.dc.DrawRectangle(x, y, cell, cell)
			}
		}
		return r.dc.Fill()
	}
	return nil
}

func (r *renderer) outline() error {
	if r.curved {
		return nil
	}
	r.dc.SetColor(colorops.Darken(r.primary, 0.4))
	r.dc.SetLineWidth(2 * r.k)
	r.dc.DrawEllipse(r.bx, r.by, r.brx, r.bry)
	return r.dc.Stroke()
}

func (r *renderer) spikes() error {
	b, k := r.base, r.k
	r.dc.SetColor(spikeColor)
	for i := 0; i < 3; i++ {
		angle := float64(i) / 3 * 2 * math.Pi
		x := r.cx + math.Cos(angle)*b*0.8
		y := r.cy - 60*k + math.Sin(angle)*b*0.3
		r.dc.MoveTo(x, y)
		r.dc.LineTo(x-10*k, y-20*k)
		r.dc.LineTo(x+10*k, y-20*k)
		r.dc.ClosePath()
	}
	return r.dc.Fill()
}

func (r *renderer) wings() error {
	b := r.base
	r.dc.SetColor(wingColor)
	for _, side := range []float64{-1, 1} {
		x := r.cx + side*b*0.8
		r.dc.Push()
		r.dc.RotateAbout(side*wingTilt, x, r.cy)
		r.dc.DrawEllipse(x, r.cy, b*0.4, b*0.6)
		err := r.dc.Fill()
		r.dc.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}
