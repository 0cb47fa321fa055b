// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audeng/utils"
)

// errStarved is returned internally when the source has no data right now
// but has not reached its end.
var errStarved = errors.New("source starved")

// Resampler streams src at a variable step using cubic interpolation.
// Works on interleaved samples; preserves channel count.
//
// The step (source frames per output frame) starts at srcRate/dstRate and can
// be changed between reads with SetRatio, which is how pitch and Doppler
// shifts are applied. A one-pole low-pass filter is active while the step is
// above 1.
//
// A source returning (0, nil) is treated as temporarily empty: ReadSamples
// returns what it produced so far with a nil error and resumes on the next
// call.
type Resampler struct {
	src       Source
	srcRate   float64
	dstRate   float64
	baseRatio float64
	ratio     float64
	channels  int

	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool

	// Position between frames[1] and frames[2], in source frames.
	pos float64

	srcBuf []float32
	eof    bool

	filterState []float32
	filterWarm  bool
	filterAlpha float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	base := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		baseRatio:   base,
		ratio:       base,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		filterState: make([]float32, channels),
		filterAlpha: 0.5,
	}

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

// BaseRatio is srcRate/dstRate, the step that plays the source unaltered.
func (r *Resampler) BaseRatio() float64 { return r.baseRatio }

// Ratio is the current step in source frames per output frame.
func (r *Resampler) Ratio() float64 { return r.ratio }

// SetRatio changes the step. Non-positive and non-finite values are ignored.
func (r *Resampler) SetRatio(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return
	}
	r.ratio = ratio
}

// Reset drops the interpolation history so the next read starts fresh from
// the source's current position. Used after the source was repositioned.
func (r *Resampler) Reset() {
	for i := range r.frames {
		clear(r.frames[i])
		r.hasFrame[i] = false
	}
	clear(r.filterState)
	r.filterWarm = false
	r.primed = false
	r.pos = 0
	r.eof = false
}

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// push shifts the frame window left and stores frame in the last slot.
func (r *Resampler) push(frame []float32, ok bool) {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.hasFrame[0] = r.hasFrame[1]
	r.hasFrame[1] = r.hasFrame[2]
	r.hasFrame[2] = r.hasFrame[3]
	r.hasFrame[3] = ok

	if !ok {
		return
	}
	copy(r.frames[3], frame)

	if r.ratio <= 1.0 {
		return
	}
	if !r.filterWarm {
		copy(r.filterState, r.frames[3])
		r.filterWarm = true
	}
	// y[n] = alpha * x[n] + (1-alpha) * y[n-1]
	for c := 0; c < r.channels; c++ {
		r.frames[3][c] = r.filterAlpha*r.frames[3][c] + (1-r.filterAlpha)*r.filterState[c]
		r.filterState[c] = r.frames[3][c]
	}
}

// advance moves one source frame into the window. After the source ends it
// keeps shifting empty slots in until nothing is left to interpolate.
func (r *Resampler) advance() error {
	if !r.eof {
		n, err := r.src.ReadSamples(r.srcBuf)
		switch {
		case n >= r.channels:
			r.push(r.srcBuf, true)
			if errors.Is(err, io.EOF) {
				r.eof = true
			} else if err != nil {
				return fmt.Errorf("%w", err)
			}
			return nil
		case err == nil:
			return errStarved
		case errors.Is(err, io.EOF):
			r.eof = true
		default:
			return fmt.Errorf("%w", err)
		}
	}

	r.push(nil, false)
	if !r.hasFrame[1] || !r.hasFrame[2] {
		return io.EOF
	}
	return nil
}

// ReadSamples produces resampled interleaved samples.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for !r.primed || r.pos >= 1.0 {
			if err := r.advance(); err != nil {
				if errors.Is(err, errStarved) {
					return written * r.channels, nil
				}
				return written * r.channels, err
			}
			if r.primed {
				r.pos -= 1.0
			} else if r.hasFrame[1] && r.hasFrame[2] {
				r.primed = true
			}
		}

		var prev, after []float32
		if r.hasFrame[0] {
			prev = r.frames[0]
		}
		if r.hasFrame[3] {
			after = r.frames[3]
		}
		out := dst[written*r.channels : (written+1)*r.channels]
		utils.InterpolateFrame(out, prev, r.frames[1], r.frames[2], after, float32(r.pos))

		written++
		r.pos += r.ratio
	}

	return written * r.channels, nil
}
