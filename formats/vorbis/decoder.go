// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audeng/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

var (
	_ audio.Source = (*source)(nil)
	_ audio.Lener  = (*source)(nil)
)

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// Len is the stream length in frames, 0 when the input cannot seek.
func (s *source) Len() int64 { return max(s.dec.Length(), 0) }

// ReadSamples decodes straight into dst. oggvorbis.Reader.Read counts
// interleaved values, the same unit as audio.Source.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	total := 0
	for total < want {
		n, err := s.dec.Read(dst[total:want])
		total += n

		if err == io.EOF {
			return total, io.EOF
		}
		if err != nil {
			return total, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	return total, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
