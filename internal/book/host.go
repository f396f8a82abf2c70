package book

import "time"

// DisplayDouble shows two facing pages at a time.
const DisplayDouble = "double"

// HostOptions are the configurable page-flip dimensions.
type HostOptions struct {
	Width            int
	Height           int
	MobileBreakpoint int
}

// DefaultHostOptions matches a 600x420 double spread.
func DefaultHostOptions() HostOptions {
	return HostOptions{Width: 600, Height: 420, MobileBreakpoint: 640}
}

// HostConfig is what a Render Host is initialised with.
type HostConfig struct {
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Display      string        `json:"display"`
	CornerSize   int           `json:"corner_size"`
	Duration     time.Duration `json:"duration"`
	Elevation    int           `json:"elevation"`
	AutoCenter   bool          `json:"auto_center"`
	Gradients    bool          `json:"gradients"`
	Acceleration bool          `json:"acceleration"`
}

// Config sizes the host for a viewport. On narrow viewports the book shrinks
// to fit its container (minus a 10px gutter) and keeps the aspect ratio.
// Zero or negative widths fall back to the configured size.
func (o HostOptions) Config(viewportWidth, containerWidth int) HostConfig {
	cfg := HostConfig{
		Width:        o.Width,
		Height:       o.Height,
		Display:      DisplayDouble,
		CornerSize:   100,
		Duration:     1500 * time.Millisecond,
		Elevation:    50,
		AutoCenter:   true,
		Gradients:    true,
		Acceleration: true,
	}

	mobile := viewportWidth > 0 && viewportWidth <= o.MobileBreakpoint
	if !mobile {
		return cfg
	}

	cfg.CornerSize = 80
	if containerWidth > 0 {
		cfg.Width = min(o.Width, containerWidth-10)
		if cfg.Width < 1 {
			cfg.Width = 1
		}
		cfg.Height = cfg.Width * o.Height / o.Width
	}
	return cfg
}

// SpreadContains reports whether target is already on screen when the host
// shows current in double-page mode. Spreads pair an even page with the odd
// page after it; page 1 (the cover) stands alone.
func SpreadContains(current, target int) bool {
	switch {
	case current == target:
		return true
	case current%2 == 0:
		return current+1 == target
	default:
		return current > 1 && current-1 == target
	}
}
