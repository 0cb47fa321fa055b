// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/utils"
)

// fileStream is a PCMStream decoding a file incrementally. Seeking reopens
// the file and skips decoded frames, so every format can seek.
type fileStream struct {
	mu sync.Mutex

	loader *Loader
	path   string
	cur    *decoded

	channels int
	rate     int
	bits     int
	frames   int64

	pos    int64 // frames delivered
	ended  bool
	fbuf   []float32
	closed bool
}

var _ audio.PCMStream = (*fileStream)(nil)

// OpenPCMStream opens path for incremental decoding.
func (l *Loader) OpenPCMStream(path string) (audio.PCMStream, error) {
	d, err := l.open(path)
	if err != nil {
		return nil, &audio.LoadError{Path: path, Err: err}
	}

	return &fileStream{
		loader:   l,
		path:     path,
		cur:      d,
		channels: d.src.Channels(),
		rate:     d.src.SampleRate(),
		bits:     d.bits,
		frames:   d.frames,
	}, nil
}

func (s *fileStream) frameSize() int { return s.channels * s.bits / 8 }

// fill reads up to len(dst) values, joining short reads.
func (s *fileStream) fill(dst []float32) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := s.cur.src.ReadSamples(dst[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
	}
	return total, nil
}

func (s *fileStream) Read(buf []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, audio.ErrStreamClosed
	}
	if s.ended {
		return 0, io.EOF
	}

	want := (len(buf) / s.frameSize()) * s.channels
	if cap(s.fbuf) < want {
		s.fbuf = make([]float32, want)
	}
	f := s.fbuf[:want]

	n, err := s.fill(f)
	n -= n % s.channels
	written := utils.EncodePCM(buf, f[:n], s.bits)
	s.pos += int64(n / s.channels)

	switch {
	case errors.Is(err, io.EOF):
		s.ended = true
		return written, io.EOF
	case err != nil:
		return written, fmt.Errorf("%w", err)
	}
	return written, nil
}

func (s *fileStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.cur.Close()
}

func (s *fileStream) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.closed
}

func (s *fileStream) TotalSamples() int64 { return s.frames * int64(s.channels) }

func (s *fileStream) TotalDuration() float64 {
	return float64(s.frames) / float64(s.rate)
}

func (s *fileStream) Channels() int      { return s.channels }
func (s *fileStream) SampleRate() int    { return s.rate }
func (s *fileStream) BitsPerSample() int { return s.bits }
func (s *fileStream) IsSeekable() bool   { return true }

func (s *fileStream) Seek(frame int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if frame < 0 || (s.frames > 0 && frame > s.frames) {
		return fmt.Errorf("%w: frame %d of %d", audio.ErrSeekOutOfRange, frame, s.frames)
	}

	if frame < s.pos || s.ended {
		d, err := s.loader.open(s.path)
		if err != nil {
			return &audio.LoadError{Path: s.path, Err: err}
		}
		s.cur.Close()
		s.cur = d
		s.pos = 0
		s.ended = false
	}

	return s.skip(frame - s.pos)
}

// skip decodes and discards frames.
func (s *fileStream) skip(frames int64) error {
	if frames <= 0 {
		return nil
	}

	buf := make([]float32, min(frames, chunkFrames)*int64(s.channels))
	for frames > 0 {
		want := min(frames*int64(s.channels), int64(len(buf)))
		n, err := s.fill(buf[:want])
		got := int64(n / s.channels)
		frames -= got
		s.pos += got

		if errors.Is(err, io.EOF) {
			s.ended = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w", err)
		}
	}
	return nil
}
