// Package stimulus segments a raw recording of back-to-back visual stimulus
// presentations into discrete segments, describes each segment, and classifies
// the recording into one of the known stimulus-generation families.
package stimulus

import (
	"fmt"
	"math"
)

// Recording holds one continuous capture as a dense float64 block in
// frame-major order: index (frame*height + row)*width + col. Trailing frames
// past the true recording length are all-NaN padding written by the loader.
// The pixel data is immutable after construction; the valid-frame count is
// cached on first use.
type Recording struct {
	Height int
	Width  int
	Frames int

	data []float64

	validFrames int
	validKnown  bool
}

// NewRecording wraps a pixel block of shape (height, width, frames) laid out
// frame-major. The data slice is retained, not copied.
func NewRecording(height, width, frames int, data []float64) (*Recording, error) {
	if height < 1 || width < 1 || frames < 1 {
		return nil, fmt.Errorf("recording dimensions must be positive, got (%d, %d, %d)", height, width, frames)
	}
	if want := height * width * frames; len(data) != want {
		return nil, fmt.Errorf("recording data length %d does not match shape (%d, %d, %d) = %d", len(data), height, width, frames, want)
	}
	return &Recording{Height: height, Width: width, Frames: frames, data: data}, nil
}

// At returns the pixel intensity at (row, col, frame).
func (r *Recording) At(row, col, frame int) float64 {
	return r.data[(frame*r.Height+row)*r.Width+col]
}

// Frame returns the pixel slice for one frame. The slice aliases the
// recording's backing store and must not be modified.
func (r *Recording) Frame(frame int) []float64 {
	size := r.Height * r.Width
	return r.data[frame*size : (frame+1)*size]
}

// ValidFrames returns the number of frames that are not entirely NaN padding.
// Computed once and cached.
func (r *Recording) ValidFrames() int {
	if r.validKnown {
		return r.validFrames
	}
	empty := 0
	for f := 0; f < r.Frames; f++ {
		if frameAllNaN(r.Frame(f)) {
			empty++
		}
	}
	r.validFrames = r.Frames - empty
	r.validKnown = true
	return r.validFrames
}

func frameAllNaN(pixels []float64) bool {
	for _, v := range pixels {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
