package stimulus

import (
	"testing"

	"github.com/vnkanang/stimscan/internal/config"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
	if p.PeakWindow != 10 || p.PeakDistance != 7 {
		t.Errorf("unexpected peak defaults: %+v", p)
	}
	if p.StaticLimit != 20 || p.MarginLimit != 15 || p.MaxTransitionFrames != 3 {
		t.Errorf("unexpected descriptor defaults: %+v", p)
	}
}

func TestParamsFromTuning(t *testing.T) {
	if got := ParamsFromTuning(nil); got != DefaultParams() {
		t.Errorf("nil tuning should yield defaults, got %+v", got)
	}

	window := 25
	static := 42.0
	cfg := &config.TuningConfig{PeakWindow: &window, StaticLimit: &static}
	p := ParamsFromTuning(cfg)
	if p.PeakWindow != 25 {
		t.Errorf("expected tuned peak window 25, got %d", p.PeakWindow)
	}
	if p.StaticLimit != 42 {
		t.Errorf("expected tuned static limit 42, got %v", p.StaticLimit)
	}
	if p.PeakDistance != 7 {
		t.Errorf("expected default peak distance 7, got %d", p.PeakDistance)
	}
}

func TestParamsValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero window", func(p *Params) { p.PeakWindow = 0 }},
		{"negative distance", func(p *Params) { p.PeakDistance = -1 }},
		{"zero outlier threshold", func(p *Params) { p.OutlierThreshold = 0 }},
		{"negative transition cap", func(p *Params) { p.MaxTransitionFrames = -1 }},
		{"negative static limit", func(p *Params) { p.StaticLimit = -1 }},
		{"negative margin limit", func(p *Params) { p.MarginLimit = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
