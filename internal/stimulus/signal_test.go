package stimulus

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterOutliers_CleanSequenceUnchanged(t *testing.T) {
	y := []float64{1, 2, 3, 2, 1, 2, 3}
	mask, kept := FilterOutliers(y, 2)

	if diff := cmp.Diff(y, kept); diff != "" {
		t.Errorf("kept sequence mismatch (-want +got):\n%s", diff)
	}
	for i, m := range mask {
		if m {
			t.Errorf("index %d flagged as outlier in clean sequence", i)
		}
	}
}

func TestFilterOutliers_FlagsSpike(t *testing.T) {
	y := []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 100}
	mask, kept := FilterOutliers(y, 2)

	if !mask[len(mask)-1] {
		t.Error("spike not flagged as outlier")
	}
	if len(kept) != len(y)-1 {
		t.Errorf("expected %d kept values, got %d", len(y)-1, len(kept))
	}
}

func TestFilterOutliers_DropsNaN(t *testing.T) {
	y := []float64{1, math.NaN(), 2, math.NaN(), 3}
	mask, kept := FilterOutliers(y, 2)

	if len(mask) != 3 || len(kept) != 3 {
		t.Errorf("expected mask/kept of length 3, got %d/%d", len(mask), len(kept))
	}
}

func TestFilterOutliers_AllMissing(t *testing.T) {
	mask, kept := FilterOutliers([]float64{math.NaN(), math.NaN()}, 2)
	if mask != nil || kept != nil {
		t.Errorf("expected nil results for all-NaN input, got %v/%v", mask, kept)
	}
}

func TestChangeSignal_KnownValues(t *testing.T) {
	nan := math.NaN()
	// 2x2 recording: frame 1 shifts every pixel by 2, frame 2 shifts one
	// pixel by 4. Two all-NaN padding frames follow.
	data := []float64{
		0, 0, 0, 0,
		2, 2, 2, 2,
		2, 2, 2, 6,
		nan, nan, nan, nan,
		nan, nan, nan, nan,
	}
	rec, err := NewRecording(2, 2, 5, data)
	if err != nil {
		t.Fatalf("NewRecording: %v", err)
	}

	change := ChangeSignal(rec)
	want := []float64{4, 4} // mean squared differences; padding excluded
	if diff := cmp.Diff(want, change); diff != "" {
		t.Errorf("change signal mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeSignal_TooShort(t *testing.T) {
	rec, err := NewRecording(1, 1, 1, []float64{5})
	if err != nil {
		t.Fatalf("NewRecording: %v", err)
	}
	if change := ChangeSignal(rec); change != nil {
		t.Errorf("expected nil change signal for single-frame recording, got %v", change)
	}
}

func TestFindPeaks_SingleSpike(t *testing.T) {
	y := []float64{1, 1, 1, 50, 1, 1, 1}
	peaks, err := FindPeaks(y, PeakParams{
		Window:            2,
		Distance:          2,
		Threshold:         3,
		RelativeThreshold: true,
		MinThreshold:      4,
	})
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	if diff := cmp.Diff([]int{3}, peaks); diff != "" {
		t.Errorf("peak indices mismatch (-want +got):\n%s", diff)
	}
}

func TestFindPeaks_Deterministic(t *testing.T) {
	y := []float64{2, 1, 3, 40, 2, 1, 2, 35, 1, 2, 1}
	p := PeakParams{Window: 3, Distance: 2, Threshold: 3, RelativeThreshold: true, MinThreshold: 4}

	first, err := FindPeaks(y, p)
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	second, err := FindPeaks(y, p)
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("peak detection is not deterministic (-first +second):\n%s", diff)
	}
}

func TestFindPeaks_AbsoluteThreshold(t *testing.T) {
	y := []float64{0, 0, 10, 0, 0}
	peaks, err := FindPeaks(y, PeakParams{Window: 1, Threshold: 5})
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	if diff := cmp.Diff([]int{2}, peaks); diff != "" {
		t.Errorf("peak indices mismatch (-want +got):\n%s", diff)
	}
}

func TestFindPeaks_EdgesCannotPeak(t *testing.T) {
	// First and last samples have an empty side and must never qualify.
	y := []float64{50, 0, 0, 0, 50}
	peaks, err := FindPeaks(y, PeakParams{Window: 2, Threshold: 5})
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	if len(peaks) != 0 {
		t.Errorf("expected no peaks at sequence edges, got %v", peaks)
	}
}

func TestFindPeaks_DistanceSuppression(t *testing.T) {
	// Two qualifying peaks 2 samples apart; only the taller survives.
	y := []float64{0, 0, 10, 0, 12, 0, 0}
	peaks, err := FindPeaks(y, PeakParams{Window: 1, Distance: 3, Threshold: 5})
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	if diff := cmp.Diff([]int{4}, peaks); diff != "" {
		t.Errorf("peak indices mismatch (-want +got):\n%s", diff)
	}
}

func TestFindPeaks_DistanceInvariant(t *testing.T) {
	y := []float64{0, 8, 0, 9, 0, 10, 0, 11, 0, 12, 0}
	distance := 4
	peaks, err := FindPeaks(y, PeakParams{Window: 1, Distance: distance, Threshold: 5})
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	if len(peaks) == 0 {
		t.Fatal("expected at least one retained peak")
	}
	for i := 0; i < len(peaks); i++ {
		for j := i + 1; j < len(peaks); j++ {
			if peaks[j]-peaks[i] < distance {
				t.Errorf("peaks %d and %d closer than distance %d", peaks[i], peaks[j], distance)
			}
		}
	}
}

func TestFindPeaks_EqualHeightsPreferLaterIndex(t *testing.T) {
	y := []float64{0, 10, 0, 10, 0}
	peaks, err := FindPeaks(y, PeakParams{Window: 1, Distance: 3, Threshold: 5})
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	if diff := cmp.Diff([]int{3}, peaks); diff != "" {
		t.Errorf("tie-break mismatch (-want +got):\n%s", diff)
	}
}

func TestFindPeaks_InvalidDistance(t *testing.T) {
	if _, err := FindPeaks([]float64{1, 2, 1}, PeakParams{Window: 1, Distance: -1, Threshold: 1}); err == nil {
		t.Error("expected error for negative distance")
	}
}

func TestFindPeaks_SkipsNaNSamples(t *testing.T) {
	y := []float64{1, 1, math.NaN(), 1, 1}
	peaks, err := FindPeaks(y, PeakParams{Window: 2, Threshold: 0.5})
	if err != nil {
		t.Fatalf("FindPeaks: %v", err)
	}
	for _, p := range peaks {
		if math.IsNaN(y[p]) {
			t.Errorf("NaN sample %d reported as peak", p)
		}
	}
}
