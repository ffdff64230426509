package stimulus

import "gonum.org/v1/gonum/stat"

// StimulusClass is the stimulus-generation family assigned to a recording.
type StimulusClass string

const (
	// ClassGaussianDot indicates short static presentations of a dot on a
	// dominant background.
	ClassGaussianDot StimulusClass = "GaussianDot"
	// ClassNaturalImages indicates static photographs alternating with black
	// inter-stimulus bands.
	ClassNaturalImages StimulusClass = "NaturalImages"
	// ClassGabor indicates Gabor patches framed by uniform left/right margins.
	ClassGabor StimulusClass = "Gabor"
	// ClassPinkNoise indicates unframed full-field pink-noise movies.
	ClassPinkNoise StimulusClass = "PinkNoise"
	// ClassRandomDots indicates long random-dot presentations on a dominant
	// background.
	ClassRandomDots StimulusClass = "RandomDots"
	// ClassNaturalVideo is the fallback for unsegmented natural footage.
	ClassNaturalVideo StimulusClass = "NaturalVideo"
	// ClassUnknown indicates no family matched, or more than one did.
	ClassUnknown StimulusClass = "unknown"
)

// Classification thresholds (from the labeled reference data)
const (
	// PassProportion is the fraction of segments that must satisfy a
	// hypothesis rule for the hypothesis to hold.
	PassProportion = 0.8
	// BackgroundThreshold is the minimum modal-bin density for a segment to
	// count as having a dominant background.
	BackgroundThreshold = 0.5
	// MinMarginSize is the border width (pixels) that counts as a real margin.
	MinMarginSize = 5

	// Expected segment durations per family (frames)
	GaussianDotDuration  = 9
	GaussianDotTolerance = 1

	NaturalImageBlackMinDuration = 12
	NaturalImageBlackMaxDuration = 18
	NaturalImageDuration         = 15
	NaturalImageTolerance        = 2

	GaborDuration  = 25
	GaborTolerance = 2

	PinkNoiseDuration  = 27
	PinkNoiseTolerance = 2

	RandomDotsDuration  = 60
	RandomDotsTolerance = 2

	// NaturalVideo fallback: few segments, or no repeating duration pattern
	NaturalVideoMaxSegments  = 3
	NaturalVideoMinDurSpread = 1.0
)

// HypothesisResult is one family hypothesis verdict.
type HypothesisResult struct {
	Class StimulusClass
	Match bool
}

// ClassificationReport holds the resolved label together with the per-family
// verdicts that produced it.
type ClassificationReport struct {
	Label StimulusClass
	// Hypotheses lists the five family verdicts in evaluation order.
	Hypotheses []HypothesisResult
	// NaturalVideo records the fallback verdict. Only evaluated when no
	// family matched; false otherwise.
	NaturalVideo bool
}

// StimulusClassifier performs rule-based family classification over a fully
// described segment table.
type StimulusClassifier struct {
	// UniformityLimit is the intensity-range bound under which a segment
	// counts as spatially uniform ("black"). Shared with the margin pass.
	UniformityLimit float64
}

// NewStimulusClassifier creates a classifier with the given uniformity limit
// (the pipeline's margin limit).
func NewStimulusClassifier(uniformityLimit float64) *StimulusClassifier {
	return &StimulusClassifier{UniformityLimit: uniformityLimit}
}

// Classify evaluates the five family hypotheses over the table and resolves a
// single label. Exactly one match is the label; no match falls through to the
// NaturalVideo test; two or more matches are ambiguous and yield unknown
// without consulting the fallback. An empty table is unknown.
func (c *StimulusClassifier) Classify(t SegmentTable) ClassificationReport {
	report := ClassificationReport{Label: ClassUnknown}
	if len(t) == 0 {
		return report
	}

	hypotheses := []struct {
		class StimulusClass
		eval  func(SegmentTable) bool
	}{
		{ClassGaussianDot, c.isGaussianDot},
		{ClassNaturalImages, c.isNaturalImages},
		{ClassGabor, c.isGabor},
		{ClassPinkNoise, c.isPinkNoise},
		{ClassRandomDots, c.isRandomDots},
	}

	matches := 0
	var matched StimulusClass
	report.Hypotheses = make([]HypothesisResult, 0, len(hypotheses))
	for _, h := range hypotheses {
		ok := h.eval(t)
		report.Hypotheses = append(report.Hypotheses, HypothesisResult{Class: h.class, Match: ok})
		if ok {
			matches++
			matched = h.class
		}
	}

	switch {
	case matches == 1:
		report.Label = matched
	case matches == 0:
		if c.isNaturalVideo(t) {
			report.NaturalVideo = true
			report.Label = ClassNaturalVideo
		}
	}
	return report
}

// isGaussianDot: mostly static, short fixed duration, dominant background.
func (c *StimulusClassifier) isGaussianDot(t SegmentTable) bool {
	pStatic := proportion(t, func(s Segment) bool { return s.IsStatic })
	pDuration := proportion(t, func(s Segment) bool {
		return durationWithin(s.Duration, GaussianDotDuration-GaussianDotTolerance, GaussianDotDuration+GaussianDotTolerance)
	})
	pBackground := proportion(t, func(s Segment) bool { return s.BackgroundProportion >= BackgroundThreshold })
	return pStatic >= PassProportion && pDuration >= PassProportion && pBackground >= PassProportion
}

// isNaturalImages: static photographs alternating with black bands. Requires
// at least one spatially uniform segment; durations are judged against the
// black-band or image expectation depending on the segment's intensity bucket.
func (c *StimulusClassifier) isNaturalImages(t SegmentTable) bool {
	anyBlack := false
	for _, s := range t {
		if s.IntensityRange <= c.UniformityLimit {
			anyBlack = true
			break
		}
	}
	if !anyBlack {
		return false
	}

	pStatic := proportion(t, func(s Segment) bool { return s.IsStatic })

	// Alternation: background-qualifying segments recur at stride 2 from the
	// first one. No qualifying segment at all means the hypothesis fails.
	firstBackground := -1
	for i, s := range t {
		if s.BackgroundProportion >= BackgroundThreshold {
			firstBackground = i
			break
		}
	}
	if firstBackground < 0 {
		return false
	}
	strideTotal, strideGood := 0, 0
	for i := firstBackground; i < len(t); i += 2 {
		strideTotal++
		if t[i].BackgroundProportion >= BackgroundThreshold {
			strideGood++
		}
	}
	pAlternate := float64(strideGood) / float64(strideTotal)

	goodDurations := 0
	for _, s := range t {
		if s.IntensityRange <= c.UniformityLimit {
			if durationWithin(s.Duration, NaturalImageBlackMinDuration-NaturalImageTolerance, NaturalImageBlackMaxDuration+NaturalImageTolerance) {
				goodDurations++
			}
		} else if durationWithin(s.Duration, NaturalImageDuration-NaturalImageTolerance, NaturalImageDuration+NaturalImageTolerance) {
			goodDurations++
		}
	}
	pDuration := float64(goodDurations) / float64(len(t))

	return pStatic >= PassProportion && pDuration >= PassProportion && pAlternate >= PassProportion
}

// isGabor: fixed duration, dominant background, and framed by real left and
// right margins. The margin rule is a single boolean over every segment, not
// a proportion; the asymmetry with the other hypotheses is deliberate and
// matches the labeled reference data.
func (c *StimulusClassifier) isGabor(t SegmentTable) bool {
	pDuration := proportion(t, func(s Segment) bool {
		return durationWithin(s.Duration, GaborDuration-GaborTolerance, GaborDuration+GaborTolerance)
	})
	allMargins := true
	for _, s := range t {
		if s.MarginLeft < MinMarginSize || s.MarginRight < MinMarginSize {
			allMargins = false
			break
		}
	}
	pBackground := proportion(t, func(s Segment) bool { return s.BackgroundProportion >= BackgroundThreshold })
	return pDuration >= PassProportion && allMargins && pBackground >= PassProportion
}

// isPinkNoise: fixed duration and mostly unframed. Only the right margin is
// consulted; see isGabor on the asymmetry.
func (c *StimulusClassifier) isPinkNoise(t SegmentTable) bool {
	pDuration := proportion(t, func(s Segment) bool {
		return durationWithin(s.Duration, PinkNoiseDuration-PinkNoiseTolerance, PinkNoiseDuration+PinkNoiseTolerance)
	})
	pNoMargin := proportion(t, func(s Segment) bool { return s.MarginRight < MinMarginSize })
	return pDuration >= PassProportion && pNoMargin >= PassProportion
}

// isRandomDots: long fixed duration and a dominant background on every
// segment (100%, not the usual pass proportion).
func (c *StimulusClassifier) isRandomDots(t SegmentTable) bool {
	pDuration := proportion(t, func(s Segment) bool {
		return durationWithin(s.Duration, RandomDotsDuration-RandomDotsTolerance, RandomDotsDuration+RandomDotsTolerance)
	})
	pBackground := proportion(t, func(s Segment) bool { return s.BackgroundProportion >= BackgroundThreshold })
	return pDuration >= PassProportion && pBackground == 1
}

// isNaturalVideo: every segment shows real content and the durations carry no
// repeating fixed-length pattern.
func (c *StimulusClassifier) isNaturalVideo(t SegmentTable) bool {
	for _, s := range t {
		if s.IntensityRange <= c.UniformityLimit {
			return false
		}
	}
	if len(t) <= NaturalVideoMaxSegments {
		return true
	}
	durations := make([]float64, len(t))
	for i, s := range t {
		durations[i] = float64(s.Duration)
	}
	return stat.PopStdDev(durations, nil) >= NaturalVideoMinDurSpread
}

func proportion(t SegmentTable, pred func(Segment) bool) float64 {
	n := 0
	for _, s := range t {
		if pred(s) {
			n++
		}
	}
	return float64(n) / float64(len(t))
}

func durationWithin(d, lo, hi int) bool {
	return d >= lo && d <= hi
}
