// Package tilt drives the 3D tilt of an enlarged card. Inputs set a target
// rotation immediately; a per-frame loop eases the current rotation toward
// it and derives the light shading from where the card now points.
package tilt

import "math"

// Options tune the smoothing loop and input mappings.
type Options struct {
	Alpha            float64 // fraction of the remaining distance covered per frame
	FPS              int
	Range            float64 // max pointer rotation in degrees
	OrientationScale float64
	BetaRest         float64 // device pitch treated as level
}

func DefaultOptions() Options {
	return Options{
		Alpha:            0.1,
		FPS:              60,
		Range:            20,
		OrientationScale: 1.5,
		BetaRest:         45,
	}
}

// Rotation is in degrees. RX tilts around the horizontal axis, RY around
// the vertical one.
type Rotation struct {
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

// Shading positions the glare and sheen of the holo layers.
type Shading struct {
	MX    float64 `json:"mx"`
	MY    float64 `json:"my"`
	Angle float64 `json:"angle"`
}

// Rect is the card's on-screen bounding box.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ShadingFor maps a rotation to glare position and sheen angle.
func ShadingFor(r Rotation) Shading {
	return Shading{
		MX:    (r.RY + 20) / 40,
		MY:    (r.RX + 20) / 40,
		Angle: math.Atan2(r.RX, r.RY)*180/math.Pi + 135,
	}
}

// PointerTarget maps a point inside rect to a rotation within ±rng degrees.
// Points outside the rect are clamped to its edge.
func PointerTarget(x, y float64, rect Rect, rng float64) Rotation {
	if rect.Width <= 0 || rect.Height <= 0 {
		return Rotation{}
	}
	fx := clamp((x-rect.Left)/rect.Width, 0, 1)
	fy := clamp((y-rect.Top)/rect.Height, 0, 1)
	return Rotation{
		RY: (fx - 0.5) * rng * 2,
		RX: (fy - 0.5) * -rng * 2,
	}
}

// OrientationTarget maps device orientation (beta pitch, gamma roll) to a
// rotation.
func OrientationTarget(beta, gamma float64, opts Options) Rotation {
	return Rotation{
		RY: clamp(gamma, -opts.Range, opts.Range) * opts.OrientationScale,
		RX: clamp(beta-opts.BetaRest, -opts.Range, opts.Range) * opts.OrientationScale,
	}
}

// Ease moves current toward target by alpha of the remaining distance.
func Ease(current, target Rotation, alpha float64) Rotation {
	return Rotation{
		RX: current.RX + (target.RX-current.RX)*alpha,
		RY: current.RY + (target.RY-current.RY)*alpha,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
