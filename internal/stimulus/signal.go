package stimulus

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FilterOutliers drops NaN samples from y, then flags every remaining value
// lying more than threshold population standard deviations from the mean.
// It returns the outlier mask aligned to the NaN-filtered sequence and the
// filtered sequence with outliers removed. Both results are nil when no
// samples survive the NaN filter; callers must guard that case.
func FilterOutliers(y []float64, threshold float64) (mask []bool, kept []float64) {
	filtered := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return nil, nil
	}

	mean := stat.Mean(filtered, nil)
	sd := stat.PopStdDev(filtered, nil)
	lower := mean - threshold*sd
	upper := mean + threshold*sd

	mask = make([]bool, len(filtered))
	kept = make([]float64, 0, len(filtered))
	for i, v := range filtered {
		if v < lower || v > upper {
			mask[i] = true
			continue
		}
		kept = append(kept, v)
	}
	return mask, kept
}

// ChangeSignal computes the frame-to-frame change of a recording: the mean
// squared pixel difference between each consecutive pair of valid frames.
// The result has length ValidFrames()-1; padding frames are excluded.
func ChangeSignal(rec *Recording) []float64 {
	valid := rec.ValidFrames()
	if valid < 2 {
		return nil
	}
	change := make([]float64, valid-1)
	size := rec.Height * rec.Width
	for i := 0; i < valid-1; i++ {
		prev := rec.Frame(i)
		next := rec.Frame(i + 1)
		var sum float64
		for p := 0; p < size; p++ {
			d := next[p] - prev[p]
			sum += d * d
		}
		change[i] = sum / float64(size)
	}
	return change
}

// PeakParams configures FindPeaks.
type PeakParams struct {
	// Window is the number of samples inspected on each side of a candidate.
	Window int
	// Distance is the minimum gap between retained peaks. Zero disables
	// suppression; any other value below 1 is rejected.
	Distance int
	// Threshold is the raw threshold in absolute mode, or the multiple of the
	// neighborhood standard deviation in relative mode.
	Threshold float64
	// RelativeThreshold selects adaptive per-neighborhood thresholds.
	RelativeThreshold bool
	// MinThreshold floors the adaptive threshold in relative mode.
	MinThreshold float64
	// OutlierThreshold is the standard-deviation cutoff used to clean each
	// neighborhood before estimating its threshold. Zero means the default of 2.
	OutlierThreshold float64
}

// FindPeaks scans a change signal for samples that strictly exceed adaptive
// thresholds computed from the neighborhoods on both sides, then suppresses
// peaks closer together than p.Distance, tallest first. Returned indices are
// ascending.
func FindPeaks(y []float64, p PeakParams) ([]int, error) {
	if p.Distance != 0 && p.Distance < 1 {
		return nil, fmt.Errorf("distance must be greater or equal to 1, got %d", p.Distance)
	}

	outlierThreshold := p.OutlierThreshold
	if outlierThreshold == 0 {
		outlierThreshold = 2
	}
	// A side needs a full window's worth of evidence, capped at 3 surviving
	// samples, before its threshold is considered defined.
	minSide := 3
	if p.Window < minSide {
		minSide = p.Window
	}

	var peaks []int
	for i := range y {
		if math.IsNaN(y[i]) {
			continue
		}

		lo := i - p.Window
		if lo < 0 {
			lo = 0
		}
		hi := i + 1 + p.Window
		if hi > len(y) {
			hi = len(y)
		}
		pre := y[lo:i]
		post := y[i+1 : hi]
		if len(pre) == 0 || len(post) == 0 {
			continue
		}

		if sideExceeds(y[i], pre, p, outlierThreshold, minSide) &&
			sideExceeds(y[i], post, p, outlierThreshold, minSide) {
			peaks = append(peaks, i)
		}
	}

	if p.Distance != 0 && len(peaks) > 1 {
		heights := make([]float64, len(peaks))
		for i, idx := range peaks {
			heights[i] = y[idx]
		}
		keep := selectByPeakDistance(peaks, heights, p.Distance)
		retained := peaks[:0]
		for i, k := range keep {
			if k {
				retained = append(retained, peaks[i])
			}
		}
		peaks = retained
	}
	return peaks, nil
}

// sideExceeds reports whether value strictly exceeds the threshold derived
// from one neighborhood. An undefined threshold (too few surviving samples in
// relative mode) is treated as no evidence, never as an error.
func sideExceeds(value float64, side []float64, p PeakParams, outlierThreshold float64, minSide int) bool {
	if !p.RelativeThreshold {
		return value > p.Threshold
	}
	_, clean := FilterOutliers(side, outlierThreshold)
	if len(clean) < minSide {
		return false
	}
	threshold := stat.Mean(clean, nil) + p.Threshold*stat.PopStdDev(clean, nil)
	if threshold < p.MinThreshold {
		threshold = p.MinThreshold
	}
	return value > threshold
}

// selectByPeakDistance keeps the tallest peaks and removes any other peak
// within distance samples of a kept one, repeating in descending height
// order. Equal heights are resolved in favor of the later index, keeping the
// greedy pass deterministic. Peaks must be in ascending index order.
func selectByPeakDistance(peaks []int, heights []float64, distance int) []bool {
	n := len(peaks)
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return heights[order[a]] < heights[order[b]] })

	for i := n - 1; i >= 0; i-- {
		j := order[i]
		if !keep[j] {
			continue
		}
		for k := j - 1; k >= 0 && peaks[j]-peaks[k] < distance; k-- {
			keep[k] = false
		}
		for k := j + 1; k < n && peaks[k]-peaks[j] < distance; k++ {
			keep[k] = false
		}
	}
	return keep
}
