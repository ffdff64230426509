package stimulus

// Segment is one contiguous frame range believed to correspond to a single
// stimulus presentation. FrameStart/FrameEnd form a half-open range; the
// descriptive fields are populated by the Describe* passes.
type Segment struct {
	FrameStart int
	FrameEnd   int
	Duration   int

	MaxChange       float64
	IsStatic        bool
	TransitionStart int
	TransitionEnd   int

	IntensityRange float64

	MarginLeft   int
	MarginRight  int
	MarginTop    int
	MarginBottom int

	BackgroundProportion float64
}

// SegmentTable is the ordered set of segments of one recording, in frame
// order. Segments are contiguous and exhaustive over the valid frame range.
type SegmentTable []Segment

// BuildSegments turns detected peak indices into segments. Each boundary is
// the frame after a peak; zero peaks yield a single segment covering the
// whole valid range. Peak indices must be ascending change-signal indices.
func BuildSegments(peaks []int, validFrames int) SegmentTable {
	if validFrames < 1 {
		return nil
	}
	table := make(SegmentTable, 0, len(peaks)+1)
	prev := 0
	for _, p := range peaks {
		table = append(table, Segment{FrameStart: prev, FrameEnd: p + 1})
		prev = p + 1
	}
	table = append(table, Segment{FrameStart: prev, FrameEnd: validFrames})
	for i := range table {
		table[i].Duration = table[i].FrameEnd - table[i].FrameStart
	}
	return table
}

// DescribeStatics fills MaxChange, IsStatic and the transition trim counts for
// every segment. Segments longer than twice maxTransition get their settle
// frames trimmed before the max-change evaluation; shorter ones use the raw
// maximum. The change signal has one sample fewer than the valid frame count,
// so the last segment's slice is clamped.
func (t SegmentTable) DescribeStatics(change []float64, maxTransition int, staticLimit float64) {
	for i := range t {
		s := &t[i]
		ki, kf := s.FrameStart, s.FrameEnd
		if kf > len(change) {
			kf = len(change)
		}
		slice := change[ki:kf]

		nFirst, nLast := 0, 0
		if s.Duration > 2*maxTransition {
			nFirst = TransitionEdges(slice, maxTransition, staticLimit, false)
			nLast = TransitionEdges(slice, maxTransition, staticLimit, true)
		}
		// The right trim counts from the segment's frame end, which for the
		// last segment lies one past the end of the change signal.
		start := ki + nFirst
		end := s.FrameEnd - nLast
		if end > len(change) {
			end = len(change)
		}
		if start > end {
			start = end
		}
		s.MaxChange = maxOrZero(change[start:end])
		s.IsStatic = s.MaxChange <= staticLimit
		s.TransitionStart = nFirst
		s.TransitionEnd = nLast
	}
}

// DescribeIntensityRange fills IntensityRange with the max-min pixel
// intensity over each segment's transition-trimmed frame range.
func (t SegmentTable) DescribeIntensityRange(rec *Recording) {
	for i := range t {
		s := &t[i]
		ki := s.FrameStart + s.TransitionStart
		kf := s.FrameEnd - s.TransitionEnd
		lo, hi := blockRange(rec, ki, kf)
		s.IntensityRange = hi - lo
	}
}

// DescribeMargins fills the four margin widths. A segment whose intensity
// range stays within marginLimit is spatially uniform; its margins are set to
// the full frame height/width as a sentinel for "no content". Margins are
// measured over the untrimmed frame range.
func (t SegmentTable) DescribeMargins(rec *Recording, marginLimit float64) {
	for i := range t {
		s := &t[i]
		if s.IntensityRange <= marginLimit {
			s.MarginLeft = rec.Width
			s.MarginRight = rec.Width
			s.MarginTop = rec.Height
			s.MarginBottom = rec.Height
			continue
		}
		s.MarginTop = Margin(rec, s.FrameStart, s.FrameEnd, AxisRows, marginLimit, false)
		s.MarginBottom = Margin(rec, s.FrameStart, s.FrameEnd, AxisRows, marginLimit, true)
		s.MarginLeft = Margin(rec, s.FrameStart, s.FrameEnd, AxisCols, marginLimit, false)
		s.MarginRight = Margin(rec, s.FrameStart, s.FrameEnd, AxisCols, marginLimit, true)
	}
}

// DescribeBackground fills BackgroundProportion: the modal bin density of a
// 255-bin intensity histogram over [0, 256], a proxy for how much of the
// frame is flat background. Intensities outside the camera range are excluded
// from both the counts and the normalization.
func (t SegmentTable) DescribeBackground(rec *Recording) {
	const bins = 255
	const binWidth = 256.0 / bins
	for i := range t {
		s := &t[i]
		var counts [bins]int
		total := 0
		for f := s.FrameStart; f < s.FrameEnd; f++ {
			for _, v := range rec.Frame(f) {
				if v < 0 || v > 256 {
					continue
				}
				b := int(v / binWidth)
				if b >= bins {
					b = bins - 1
				}
				counts[b]++
				total++
			}
		}
		if total == 0 {
			s.BackgroundProportion = 0
			continue
		}
		maxCount := 0
		for _, c := range counts {
			if c > maxCount {
				maxCount = c
			}
		}
		s.BackgroundProportion = float64(maxCount) / (float64(total) * binWidth)
	}
}

// Describe runs the four descriptor passes in dependency order.
func (t SegmentTable) Describe(rec *Recording, change []float64, p Params) {
	t.DescribeStatics(change, p.MaxTransitionFrames, p.StaticLimit)
	t.DescribeIntensityRange(rec)
	t.DescribeMargins(rec, p.MarginLimit)
	t.DescribeBackground(rec)
}

// Columns exports the table as a mapping from field name to an ordered
// per-segment sequence, the shape the reporting collaborator consumes. All
// columns share the table's length by construction.
func (t SegmentTable) Columns() map[string]any {
	n := len(t)
	frameStart := make([]int, n)
	frameEnd := make([]int, n)
	duration := make([]int, n)
	maxChange := make([]float64, n)
	isStatic := make([]bool, n)
	transitionStart := make([]int, n)
	transitionEnd := make([]int, n)
	intensityRange := make([]float64, n)
	marginLeft := make([]int, n)
	marginRight := make([]int, n)
	marginTop := make([]int, n)
	marginBottom := make([]int, n)
	background := make([]float64, n)

	for i, s := range t {
		frameStart[i] = s.FrameStart
		frameEnd[i] = s.FrameEnd
		duration[i] = s.Duration
		maxChange[i] = s.MaxChange
		isStatic[i] = s.IsStatic
		transitionStart[i] = s.TransitionStart
		transitionEnd[i] = s.TransitionEnd
		intensityRange[i] = s.IntensityRange
		marginLeft[i] = s.MarginLeft
		marginRight[i] = s.MarginRight
		marginTop[i] = s.MarginTop
		marginBottom[i] = s.MarginBottom
		background[i] = s.BackgroundProportion
	}

	return map[string]any{
		"frame_start":           frameStart,
		"frame_end":             frameEnd,
		"duration":              duration,
		"max_change":            maxChange,
		"is_static":             isStatic,
		"transition_start":      transitionStart,
		"transition_end":        transitionEnd,
		"intensity_range":       intensityRange,
		"margin_left":           marginLeft,
		"margin_right":          marginRight,
		"margin_top":            marginTop,
		"margin_bottom":         marginBottom,
		"background_proportion": background,
	}
}

// maxOrZero is the max of a change slice, or zero when a trailing one-frame
// segment has no change sample of its own.
func maxOrZero(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	m := x[0]
	for _, v := range x[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// blockRange returns the min and max pixel intensity over a frame range.
func blockRange(rec *Recording, frameStart, frameEnd int) (lo, hi float64) {
	lo, hi = rec.At(0, 0, frameStart), rec.At(0, 0, frameStart)
	for f := frameStart; f < frameEnd; f++ {
		for _, v := range rec.Frame(f) {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
