// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audeng/audio"
)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	channels  = 2
	frameSize = 4
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	buf        []byte
}

var (
	_ audio.Source = (*source)(nil)
	_ audio.Lener  = (*source)(nil)
)

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 } // samples, not bytes

// Len is the decoded length in frames, 0 when the input cannot seek.
func (s *source) Len() int64 {
	l := s.dec.Length()
	if l <= 0 {
		return 0
	}
	return l / frameSize
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	bytesNeeded := (len(dst) / channels) * frameSize
	if bytesNeeded == 0 {
		return 0, nil
	}
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := io.ReadFull(s.dec, s.buf)
	if n == 0 {
		if err == io.ErrUnexpectedEOF || err == nil {
			err = io.EOF
		}
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("%w", err)
	}

	samples := (n / frameSize) * channels
	for i := range samples {
		val := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(val) / 32768.0
	}

	switch err {
	case nil:
		return samples, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("%w", err)
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		buf:        make([]byte, 8192),
	}, nil
}
