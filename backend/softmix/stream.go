// SPDX-License-Identifier: EPL-2.0

package softmix

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/utils"
)

// stream decodes its source into the queue of the bound speaker. All fields
// are guarded by the backend mutex.
type stream struct {
	b        *Backend
	src      audio.PCMStream
	kept     audio.PCMStream
	channels int
	rate     int
	bits     int
	raw      []byte

	bound  audio.SpeakerID
	target *speaker
	err    error
	closed bool
}

func (s *stream) Source() audio.PCMStream { return s.kept }

// CreateSpeaker allocates a high priority speaker fed by this stream. It
// receives data once bound with BindSpeaker.
func (s *stream) CreateSpeaker(loop bool) audio.Speaker {
	b := s.b
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || s.closed {
		return nil
	}

	spk := newSpeaker(b, s.channels, audio.PriorityHigh)
	spk.stream = s
	spk.loop = loop
	spk.rs = audio.NewResampler(&queueCursor{spk: spk}, b.cfg.SampleRate)

	if !b.acquire(spk) {
		return nil
	}
	return spk
}

// BindSpeaker redirects preloading to id. The previous speaker keeps what
// it has queued and stops when that runs out.
func (s *stream) BindSpeaker(id audio.SpeakerID) {
	var next *speaker
	if id != 0 && s.b.resolve != nil {
		if spk, ok := s.b.resolve(id).(*speaker); ok && spk.stream == s {
			next = spk
		}
	}

	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	s.bound = id
	if s.target == next {
		return
	}
	if s.target != nil {
		s.target.detached = true
	}
	s.target = next
	if next != nil {
		next.detached = false
	}
}

func (s *stream) Speaker() audio.SpeakerID {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	return s.bound
}

// Update tops up the bound speaker's queue so that it covers the
// configured depth plus what the next delta seconds will consume.
// A decode error is kept for Err and stops the speaker.
func (s *stream) Update(delta float64) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	spk := s.target
	if s.closed || spk == nil || spk.eof || spk.state == audio.Stopped {
		return
	}

	want := int64(s.b.cfg.StreamBuffers * s.b.cfg.StreamBufferFrames)
	if delta > 0 && !math.IsInf(delta, 0) {
		want += int64(math.Ceil(delta * float64(s.rate) * spk.pitch))
	}

	for !spk.eof && spk.queued() < want {
		if err := s.fill(spk); err != nil {
			s.b.log.Warn("stream read failed", "error", err)
			spk.halt(false)
			return
		}
	}
}

// fill decodes one buffer into spk's queue. The end of the source sets
// spk.eof; any other failure is recorded for Err and returned.
func (s *stream) fill(spk *speaker) error {
	n, err := audio.ReadFully(s.src, s.raw, spk.loop)
	if n > 0 {
		buf := make([]float32, n*8/s.bits)
		utils.DecodePCM(buf, s.raw[:n], s.bits)
		spk.queue = append(spk.queue, buf)
	}

	switch {
	case err == nil && n == 0, errors.Is(err, io.EOF):
		spk.eof = true
	case err != nil:
		s.err = fmt.Errorf("stream read: %w", err)
		return s.err
	}
	return nil
}

// canFill reports whether spk may read from the source directly.
func (s *stream) canFill(spk *speaker) bool {
	return s.target == spk && !s.closed && s.err == nil && !spk.eof && !spk.detached
}

func (s *stream) SetTime(t float64) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	return s.seekTime(t)
}

func (s *stream) seekTime(t float64) error {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	frame := int64(t * float64(s.rate))
	if total := s.totalFrames(); total > 0 {
		frame = min(frame, total)
	}
	return s.seek(frame)
}

// seek moves the source and restarts the bound speaker's queue from frame.
func (s *stream) seek(frame int64) error {
	if s.closed {
		return audio.ErrStreamClosed
	}
	if !s.src.IsSeekable() {
		return audio.ErrNotSeekable
	}
	if err := s.src.Seek(frame); err != nil {
		return fmt.Errorf("stream seek: %w", err)
	}

	if spk := s.target; spk != nil {
		spk.queue = nil
		spk.qpos = 0
		spk.eof = false
		spk.finished = false
		spk.startFrame = frame
		spk.consumed = 0
		spk.rs.Reset()
	}
	return nil
}

// seekFailed records a seek error in Err. A source that cannot seek, or a
// closed stream, is not a failure.
func (s *stream) seekFailed(err error) {
	if err == nil || errors.Is(err, audio.ErrNotSeekable) || errors.Is(err, audio.ErrStreamClosed) {
		return
	}
	s.err = err
	s.b.log.Warn("stream seek failed", "error", err)
}

func (s *stream) totalFrames() int64 {
	return s.src.TotalSamples() / int64(s.channels)
}

func (s *stream) Err() error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	return s.err
}

// Close releases the source. A bound speaker plays out what it has queued.
func (s *stream) Close() error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.target != nil {
		s.target.detached = true
	}

	if err := s.src.Close(); err != nil {
		return fmt.Errorf("close stream source: %w", err)
	}
	return nil
}

// queueCursor is the audio.Source a stream speaker resamples. An empty
// queue reads as (0, nil) until the stream is exhausted or has moved on to
// another speaker.
type queueCursor struct {
	spk *speaker
}

func (c *queueCursor) SampleRate() int { return c.spk.stream.rate }
func (c *queueCursor) Channels() int   { return c.spk.channels }
func (c *queueCursor) BufSize() int    { return chunkFrames }
func (c *queueCursor) Close() error    { return nil }

func (c *queueCursor) ReadSamples(dst []float32) (int, error) {
	spk := c.spk
	n := 0
	for n < len(dst) {
		if len(spk.queue) == 0 {
			// ran dry mid-tick: read ahead instead of starving
			if !spk.stream.canFill(spk) {
				break
			}
			if err := spk.stream.fill(spk); err != nil {
				spk.b.log.Warn("stream read failed", "error", err)
				spk.eof = true
			}
			continue
		}

		head := spk.queue[0]
		copied := copy(dst[n:], head[spk.qpos:])
		n += copied
		spk.qpos += copied
		if spk.qpos >= len(head) {
			spk.queue[0] = nil
			spk.queue = spk.queue[1:]
			spk.qpos = 0
		}
	}
	spk.consumed += int64(n / spk.channels)

	if n > 0 {
		return n, nil
	}
	if spk.eof || spk.detached || spk.stream.closed {
		return 0, io.EOF
	}
	return 0, nil
}
