package stimulus

import (
	"fmt"

	"github.com/vnkanang/stimscan/internal/config"
)

// Params carries the tunable limits for one recording analysis. Zero values
// are not meaningful; start from DefaultParams or ParamsFromTuning.
type Params struct {
	// PeakWindow is the neighborhood size of the adaptive peak detector.
	PeakWindow int
	// PeakDistance is the minimum gap between retained peaks (0 disables).
	PeakDistance int
	// PeakThreshold is the standard-deviation multiplier of the adaptive
	// threshold.
	PeakThreshold float64
	// PeakMinThreshold floors the adaptive threshold.
	PeakMinThreshold float64
	// OutlierThreshold cleans peak neighborhoods before threshold estimation.
	OutlierThreshold float64
	// MaxTransitionFrames caps the settle frames trimmed from segment edges.
	MaxTransitionFrames int
	// StaticLimit is the maximum edge-trimmed change of a static segment.
	StaticLimit float64
	// MarginLimit bounds the intensity range of uniform margins and of
	// spatially uniform ("black") segments.
	MarginLimit float64
}

// DefaultParams returns the reference tuning used to produce the labeled data.
func DefaultParams() Params {
	return Params{
		PeakWindow:          10,
		PeakDistance:        7,
		PeakThreshold:       5,
		PeakMinThreshold:    10,
		OutlierThreshold:    2,
		MaxTransitionFrames: 3,
		StaticLimit:         20,
		MarginLimit:         15,
	}
}

// ParamsFromTuning builds Params from a loaded tuning config, filling
// defaults for any omitted fields.
func ParamsFromTuning(c *config.TuningConfig) Params {
	if c == nil {
		return DefaultParams()
	}
	return Params{
		PeakWindow:          c.GetPeakWindow(),
		PeakDistance:        c.GetPeakDistance(),
		PeakThreshold:       c.GetPeakThreshold(),
		PeakMinThreshold:    c.GetPeakMinThreshold(),
		OutlierThreshold:    c.GetOutlierThreshold(),
		MaxTransitionFrames: c.GetMaxTransitionFrames(),
		StaticLimit:         c.GetStaticLimit(),
		MarginLimit:         c.GetMarginLimit(),
	}
}

// Validate checks that the parameters are usable.
func (p Params) Validate() error {
	if p.PeakWindow < 1 {
		return fmt.Errorf("peak window must be at least 1, got %d", p.PeakWindow)
	}
	if p.PeakDistance < 0 {
		return fmt.Errorf("peak distance must be at least 1 or 0 to disable, got %d", p.PeakDistance)
	}
	if p.OutlierThreshold <= 0 {
		return fmt.Errorf("outlier threshold must be positive, got %f", p.OutlierThreshold)
	}
	if p.MaxTransitionFrames < 0 {
		return fmt.Errorf("max transition frames must be non-negative, got %d", p.MaxTransitionFrames)
	}
	if p.StaticLimit < 0 {
		return fmt.Errorf("static limit must be non-negative, got %f", p.StaticLimit)
	}
	if p.MarginLimit < 0 {
		return fmt.Errorf("margin limit must be non-negative, got %f", p.MarginLimit)
	}
	return nil
}
