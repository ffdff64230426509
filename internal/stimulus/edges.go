package stimulus

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// TransitionEdges reports how many samples at the leading edge of a change
// slice are still settling from the previous stimulus. It only applies when
// the slice is longer than twice maxTransition; shorter slices are returned
// untrimmed. With reverse set the slice is scanned from the far end, so the
// count refers to trailing samples. The far edge keeps maxTransition samples
// excluded while the near edge is walked inward, and the returned value is
// the smallest trim count that keeps the rest strictly below limit.
func TransitionEdges(x []float64, maxTransition int, limit float64, reverse bool) int {
	if len(x) <= 2*maxTransition {
		return 0
	}
	if reverse {
		rev := make([]float64, len(x))
		for i, v := range x {
			rev[len(x)-1-i] = v
		}
		x = rev
	}

	far := len(x) - maxTransition
	if floats.Max(x[maxTransition:far]) >= limit {
		return 0
	}
	n := maxTransition
	for n >= 0 {
		if floats.Max(x[n:far]) < limit {
			n--
		} else {
			break
		}
	}
	return n + 1
}

// MarginAxis selects which spatial dimension Margin scans.
type MarginAxis int

const (
	// AxisRows scans border rows (top or, with reverse, bottom).
	AxisRows MarginAxis = iota
	// AxisCols scans border columns (left or, with reverse, right).
	AxisCols
)

// Margin returns the widest border band of a segment's frame block whose
// accumulated intensity range stays within limit. The scan grows one row or
// column at a time from the top/left, or from the bottom/right with reverse,
// and stops at the first band that violates the bound.
func Margin(rec *Recording, frameStart, frameEnd int, axis MarginAxis, limit float64, reverse bool) int {
	lines := rec.Height
	if axis == AxisCols {
		lines = rec.Width
	}

	lo := math.Inf(1)
	hi := math.Inf(-1)
	m := 0
	for m < lines {
		line := m
		if reverse {
			line = lines - 1 - m
		}
		nlo, nhi := lo, hi
		for f := frameStart; f < frameEnd; f++ {
			if axis == AxisRows {
				for c := 0; c < rec.Width; c++ {
					v := rec.At(line, c, f)
					if v < nlo {
						nlo = v
					}
					if v > nhi {
						nhi = v
					}
				}
			} else {
				for r := 0; r < rec.Height; r++ {
					v := rec.At(r, line, f)
					if v < nlo {
						nlo = v
					}
					if v > nhi {
						nhi = v
					}
				}
			}
		}
		if nhi-nlo > limit {
			break
		}
		lo, hi = nlo, nhi
		m++
	}
	return m
}
