// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/audeng/utils"
)

// PCM is an immutable buffer of decoded audio.
//
// Samples are interleaved by channel. 8-bit samples are unsigned (128 is
// silence), 16-bit samples are signed little-endian. A PCM with a nil data
// buffer carries only header information.
type PCM struct {
	data          []byte
	totalSamples  int
	channels      int
	bitsPerSample int
	sampleRate    int
	seekable      bool
}

// NewPCM validates the layout and returns a PCM owning data.
// totalSamples counts samples of all channels.
func NewPCM(data []byte, totalSamples, channels, bitsPerSample, sampleRate int, seekable bool) (*PCM, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidPCM, channels)
	}
	if bitsPerSample != 8 && bitsPerSample != 16 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrInvalidPCM, bitsPerSample)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidPCM, sampleRate)
	}
	if totalSamples < 0 || totalSamples%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a multiple of %d channels", ErrInvalidPCM, totalSamples, channels)
	}
	if data != nil && len(data) != totalSamples*bitsPerSample/8 {
		return nil, fmt.Errorf("%w: %d bytes for %d samples", ErrInvalidPCM, len(data), totalSamples)
	}

	return &PCM{
		data:          data,
		totalSamples:  totalSamples,
		channels:      channels,
		bitsPerSample: bitsPerSample,
		sampleRate:    sampleRate,
		seekable:      seekable,
	}, nil
}

// Data returns the raw sample bytes. The slice must not be modified.
func (p *PCM) Data() []byte       { return p.data }
func (p *PCM) TotalSamples() int  { return p.totalSamples }
func (p *PCM) Channels() int      { return p.channels }
func (p *PCM) BitsPerSample() int { return p.bitsPerSample }
func (p *PCM) SampleRate() int    { return p.sampleRate }
func (p *PCM) Seekable() bool     { return p.seekable }

// IsHeaderOnly reports whether the PCM was loaded without sample data.
func (p *PCM) IsHeaderOnly() bool { return p.data == nil }

// FrameSize is the number of bytes holding one sample of every channel.
func (p *PCM) FrameSize() int { return p.channels * p.bitsPerSample / 8 }

// SamplesPerChannel is the number of frames.
func (p *PCM) SamplesPerChannel() int { return p.totalSamples / p.channels }

// Duration in seconds.
func (p *PCM) Duration() float64 {
	return float64(p.SamplesPerChannel()) / float64(p.sampleRate)
}

// Float32 converts the sample data to interleaved float32 values in [-1,1].
func (p *PCM) Float32() []float32 {
	out := make([]float32, p.totalSamples)
	if p.data == nil {
		return out
	}
	utils.DecodePCM(out, p.data, p.bitsPerSample)
	return out
}
