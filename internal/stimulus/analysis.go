package stimulus

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vnkanang/stimscan/internal/monitoring"
)

// Analysis is the per-recording pipeline context. The recording and params
// are fixed at construction; each stage runs once in dependency order and its
// output is memoized on an explicit field, so any stage can be inspected or
// re-read without recomputation. One Analysis is owned by one goroutine;
// independent recordings can be analyzed in parallel without locking.
type Analysis struct {
	RunID string

	rec    *Recording
	params Params

	changes      []float64
	changesReady bool
	peaks        []int
	peaksReady   bool
	table        SegmentTable
	tableReady   bool
	described    bool
	report       *ClassificationReport
}

// Result is the terminal output of one recording analysis.
type Result struct {
	RunID  string
	Label  StimulusClass
	Report ClassificationReport
	Table  SegmentTable
}

// NewAnalysis creates an analysis context for one recording.
func NewAnalysis(rec *Recording, params Params) (*Analysis, error) {
	if rec == nil {
		return nil, fmt.Errorf("recording must not be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis params: %w", err)
	}
	return &Analysis{
		RunID:  uuid.New().String(),
		rec:    rec,
		params: params,
	}, nil
}

// Changes returns the frame-to-frame change signal, computing it on first use.
func (a *Analysis) Changes() []float64 {
	if !a.changesReady {
		a.changes = ChangeSignal(a.rec)
		a.changesReady = true
		monitoring.Logf("analysis %s: %d valid frames, %d change samples", a.RunID, a.rec.ValidFrames(), len(a.changes))
	}
	return a.changes
}

// Peaks returns the detected transition boundaries in the change signal.
func (a *Analysis) Peaks() ([]int, error) {
	if !a.peaksReady {
		peaks, err := FindPeaks(a.Changes(), PeakParams{
			Window:            a.params.PeakWindow,
			Distance:          a.params.PeakDistance,
			Threshold:         a.params.PeakThreshold,
			RelativeThreshold: true,
			MinThreshold:      a.params.PeakMinThreshold,
			OutlierThreshold:  a.params.OutlierThreshold,
		})
		if err != nil {
			return nil, err
		}
		a.peaks = peaks
		a.peaksReady = true
		monitoring.Logf("analysis %s: %d transition peaks", a.RunID, len(peaks))
	}
	return a.peaks, nil
}

// Segments returns the segment table with frame ranges populated.
func (a *Analysis) Segments() (SegmentTable, error) {
	if !a.tableReady {
		peaks, err := a.Peaks()
		if err != nil {
			return nil, err
		}
		a.table = BuildSegments(peaks, a.rec.ValidFrames())
		a.tableReady = true
		monitoring.Logf("analysis %s: %d segments", a.RunID, len(a.table))
	}
	return a.table, nil
}

// Describe runs the descriptor passes over the segment table and returns it.
func (a *Analysis) Describe() (SegmentTable, error) {
	table, err := a.Segments()
	if err != nil {
		return nil, err
	}
	if !a.described {
		table.Describe(a.rec, a.Changes(), a.params)
		a.described = true
	}
	return table, nil
}

// Classify resolves the recording's stimulus family over the described table.
func (a *Analysis) Classify() (ClassificationReport, error) {
	if a.report == nil {
		table, err := a.Describe()
		if err != nil {
			return ClassificationReport{}, err
		}
		classifier := NewStimulusClassifier(a.params.MarginLimit)
		report := classifier.Classify(table)
		a.report = &report
		monitoring.Logf("analysis %s: classified as %s", a.RunID, report.Label)
	}
	return *a.report, nil
}

// Run executes the full pipeline and returns the terminal result.
func (a *Analysis) Run() (Result, error) {
	report, err := a.Classify()
	if err != nil {
		return Result{}, err
	}
	return Result{
		RunID:  a.RunID,
		Label:  report.Label,
		Report: report,
		Table:  a.table,
	}, nil
}
