// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"sync"
)

// SharedStream gives several owners access to one PCMStream. Each owner
// holds a handle; the underlying stream is closed when the last handle is.
// All handles share the same read cursor.
type SharedStream struct {
	mu     sync.Mutex
	src    PCMStream
	refs   int
	closed bool
}

// Share wraps src for shared ownership. It holds no reference until the
// first Handle call.
func Share(src PCMStream) *SharedStream {
	return &SharedStream{src: src}
}

// Handle returns a new owning reference. Handles taken after the stream was
// released are already closed.
func (s *SharedStream) Handle() PCMStream {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &sharedHandle{parent: s}
	if s.closed {
		h.closed = true
		return h
	}
	s.refs++
	return h
}

// Refs is the number of open handles.
func (s *SharedStream) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refs
}

func (s *SharedStream) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs--
	if s.refs > 0 || s.closed {
		return nil
	}
	s.closed = true
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("close shared stream: %w", err)
	}
	return nil
}

type sharedHandle struct {
	parent *SharedStream

	mu     sync.Mutex
	closed bool
}

var _ PCMStream = (*sharedHandle)(nil)

func (h *sharedHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.closed
}

func (h *sharedHandle) Read(buf []byte) (int, error) {
	if h.isClosed() {
		return 0, ErrStreamClosed
	}

	h.parent.mu.Lock()
	defer h.parent.mu.Unlock()

	return h.parent.src.Read(buf)
}

func (h *sharedHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	return h.parent.release()
}

func (h *sharedHandle) IsOpen() bool {
	return !h.isClosed() && h.parent.src.IsOpen()
}

func (h *sharedHandle) TotalSamples() int64    { return h.parent.src.TotalSamples() }
func (h *sharedHandle) TotalDuration() float64 { return h.parent.src.TotalDuration() }
func (h *sharedHandle) Channels() int          { return h.parent.src.Channels() }
func (h *sharedHandle) SampleRate() int        { return h.parent.src.SampleRate() }
func (h *sharedHandle) BitsPerSample() int     { return h.parent.src.BitsPerSample() }
func (h *sharedHandle) IsSeekable() bool       { return h.parent.src.IsSeekable() }

func (h *sharedHandle) Seek(frame int64) error {
	if h.isClosed() {
		return ErrStreamClosed
	}

	h.parent.mu.Lock()
	defer h.parent.mu.Unlock()

	return h.parent.src.Seek(frame)
}
