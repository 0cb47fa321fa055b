// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"sync"

	"github.com/ik5/audeng/audio"
)

// PCMStream is an in-memory audio.PCMStream with switchable seekability and
// failure injection.
type PCMStream struct {
	mu sync.Mutex

	data     []byte
	pos      int
	channels int
	bits     int
	rate     int
	seekable bool
	closed   bool

	// FailAt makes Read return Err once the cursor reaches this byte
	// offset. Negative disables it.
	FailAt int
	Err    error
	// SeekErr, when set, is returned by every Seek on an open stream.
	SeekErr error

	Reads  int
	Seeks  int
	Closes int
}

var _ audio.PCMStream = (*PCMStream)(nil)

func NewPCMStream(data []byte, channels, bits, rate int, seekable bool) *PCMStream {
	return &PCMStream{
		data:     data,
		channels: channels,
		bits:     bits,
		rate:     rate,
		seekable: seekable,
		FailAt:   -1,
	}
}

// Ramp16 returns frames of mono 16-bit little-endian samples counting up
// from 0, so a position in the stream can be recovered from any sample.
func Ramp16(frames int) []byte {
	b := make([]byte, frames*2)
	for i := range frames {
		b[i*2] = byte(i)
		b[i*2+1] = byte(i >> 8)
	}
	return b
}

func (s *PCMStream) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Reads++
	if s.closed {
		return 0, audio.ErrStreamClosed
	}

	fs := s.channels * s.bits / 8
	want := len(buf) - len(buf)%fs
	end := min(s.pos+want, len(s.data))
	if s.FailAt >= 0 && end > s.FailAt {
		end = max(s.FailAt, s.pos)
		n := copy(buf, s.data[s.pos:end])
		s.pos = end
		return n, s.Err
	}

	n := copy(buf, s.data[s.pos:end])
	s.pos = end
	if n < want || s.pos >= len(s.data) {
		return n, io.EOF
	}
	return n, nil
}

func (s *PCMStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Closes++
	s.closed = true
	return nil
}

func (s *PCMStream) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.closed
}

func (s *PCMStream) TotalSamples() int64 {
	if !s.seekable {
		return 0
	}
	return int64(len(s.data) * 8 / s.bits)
}

func (s *PCMStream) TotalDuration() float64 {
	return float64(s.TotalSamples()) / float64(s.channels) / float64(s.rate)
}

func (s *PCMStream) Channels() int      { return s.channels }
func (s *PCMStream) SampleRate() int    { return s.rate }
func (s *PCMStream) BitsPerSample() int { return s.bits }
func (s *PCMStream) IsSeekable() bool   { return s.seekable }

func (s *PCMStream) Seek(frame int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Seeks++
	if s.closed {
		return audio.ErrStreamClosed
	}
	if !s.seekable {
		return audio.ErrNotSeekable
	}
	if s.SeekErr != nil {
		return s.SeekErr
	}

	off := int(frame) * s.channels * s.bits / 8
	if frame < 0 || off > len(s.data) {
		return audio.ErrSeekOutOfRange
	}
	s.pos = off
	return nil
}

// Pos is the cursor in bytes.
func (s *PCMStream) Pos() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pos
}
