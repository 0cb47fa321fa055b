// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"sync"
)

// MemoryStream is a PCMStream reading from an in-memory PCM buffer.
// It is seekable when the PCM is.
type MemoryStream struct {
	mu     sync.Mutex
	pcm    *PCM
	pos    int // byte offset
	closed bool
}

var _ PCMStream = (*MemoryStream)(nil)

func NewMemoryStream(pcm *PCM) *MemoryStream {
	return &MemoryStream{pcm: pcm}
}

func (m *MemoryStream) Read(buf []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrStreamClosed
	}

	fs := m.pcm.FrameSize()
	want := len(buf) - len(buf)%fs
	n := copy(buf[:want], m.pcm.data[m.pos:])
	m.pos += n

	if n < want || m.pos >= len(m.pcm.data) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MemoryStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func (m *MemoryStream) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return !m.closed
}

func (m *MemoryStream) TotalSamples() int64 {
	if !m.pcm.seekable {
		return 0
	}
	return int64(m.pcm.totalSamples)
}

func (m *MemoryStream) TotalDuration() float64 {
	if !m.pcm.seekable {
		return 0
	}
	return m.pcm.Duration()
}

func (m *MemoryStream) Channels() int      { return m.pcm.channels }
func (m *MemoryStream) SampleRate() int    { return m.pcm.sampleRate }
func (m *MemoryStream) BitsPerSample() int { return m.pcm.bitsPerSample }
func (m *MemoryStream) IsSeekable() bool   { return m.pcm.seekable }

func (m *MemoryStream) Seek(frame int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStreamClosed
	}
	if !m.pcm.seekable {
		return ErrNotSeekable
	}
	if frame < 0 || frame > int64(m.pcm.SamplesPerChannel()) {
		return fmt.Errorf("%w: frame %d of %d", ErrSeekOutOfRange, frame, m.pcm.SamplesPerChannel())
	}

	m.pos = int(frame) * m.pcm.FrameSize()
	return nil
}
