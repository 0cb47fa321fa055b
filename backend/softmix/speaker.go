// SPDX-License-Identifier: EPL-2.0

package softmix

import (
	"math"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/vec"
)

type speaker struct {
	b        *Backend
	sound    *sound
	stream   *stream
	cursor   *soundCursor
	rs       *audio.Resampler
	channels int
	priority int

	slot     int
	acquired uint64 // acquire order, for pre-emption ties
	state    audio.State
	volume   float64
	pitch    float64
	loop     bool
	manual   bool
	finished bool

	pos      vec.Vec3
	vel      vec.Vec3
	relative bool

	// Stream speakers only.
	queue      [][]float32
	qpos       int
	eof        bool
	detached   bool
	startFrame int64
	consumed   int64
}

var (
	_ audio.Speaker   = (*speaker)(nil)
	_ audio.Preempter = (*speaker)(nil)
)

func newSpeaker(b *Backend, channels, priority int) *speaker {
	return &speaker{
		b:        b,
		channels: channels,
		priority: priority,
		slot:     -1,
		state:    audio.Stopped,
		volume:   1,
		pitch:    1,
	}
}

func (s *speaker) lock()   { s.b.mu.Lock() }
func (s *speaker) unlock() { s.b.mu.Unlock() }

func (s *speaker) State() audio.State {
	s.lock()
	defer s.unlock()

	return s.state
}

func (s *speaker) Priority() int { return s.priority }

func (s *speaker) Volume() float64 {
	s.lock()
	defer s.unlock()

	return s.volume
}

func (s *speaker) SetVolume(v float64) {
	s.lock()
	defer s.unlock()

	s.volume = audio.ClampVolume(v)
}

func (s *speaker) Pitch() float64 {
	s.lock()
	defer s.unlock()

	return s.pitch
}

func (s *speaker) SetPitch(p float64) {
	p, ok := audio.ClampPitch(p)
	if !ok {
		return
	}

	s.lock()
	defer s.unlock()

	s.pitch = p
}

func (s *speaker) IsLoop() bool {
	s.lock()
	defer s.unlock()

	return s.loop
}

func (s *speaker) SetLoop(loop bool) {
	s.lock()
	defer s.unlock()

	s.loop = loop
}

func (s *speaker) Play() {
	s.lock()
	defer s.unlock()

	if s.b.closed {
		return
	}

	switch s.state {
	case audio.Playing:
		s.rewind()
	case audio.Paused:
	case audio.Stopped:
		if s.finished {
			s.rewind()
		}
	}

	if s.slot < 0 && !s.b.acquire(s) {
		return
	}
	s.state = audio.Playing
	s.manual = false
	s.finished = false
}

func (s *speaker) Pause() {
	s.lock()
	defer s.unlock()

	if s.state == audio.Playing {
		s.state = audio.Paused
	}
}

func (s *speaker) Stop() {
	s.lock()
	defer s.unlock()

	s.halt(true)
}

// Preempt stops the speaker without marking it as stopped manually.
func (s *speaker) Preempt() {
	s.lock()
	defer s.unlock()

	s.halt(false)
}

func (s *speaker) IsStoppedManually() bool {
	s.lock()
	defer s.unlock()

	return s.manual
}

// halt stops the speaker and frees its channel. The playback position is
// kept.
func (s *speaker) halt(manual bool) {
	s.state = audio.Stopped
	s.manual = manual
	s.b.release(s)
}

// finish is the natural end of a non-looped source.
func (s *speaker) finish() {
	s.halt(false)
	s.finished = true
}

// rewind moves playback back to the start. Streams that cannot seek keep
// their position.
func (s *speaker) rewind() {
	if s.cursor != nil {
		s.cursor.frame = 0
		s.rs.Reset()
		return
	}
	if s.stream != nil && s.stream.target == s {
		s.stream.seekFailed(s.stream.seek(0))
	}
}

func (s *speaker) Time() float64 {
	s.lock()
	defer s.unlock()

	if s.cursor != nil {
		return s.cursor.seconds()
	}
	return s.streamTime()
}

func (s *speaker) streamTime() float64 {
	frame := s.startFrame + s.consumed
	if total := s.stream.totalFrames(); total > 0 && frame >= total {
		if s.loop {
			frame %= total
		} else {
			frame = total
		}
	}
	return float64(frame) / float64(s.stream.rate)
}

// SetTime repositions playback. On a stream speaker it seeks the stream;
// non-seekable streams keep their position.
func (s *speaker) SetTime(t float64) {
	s.lock()
	defer s.unlock()

	if t < 0 || math.IsNaN(t) {
		t = 0
	}

	if s.cursor != nil {
		s.cursor.seek(t)
		s.rs.Reset()
		s.finished = false
		return
	}
	if s.stream.target == s {
		s.stream.seekFailed(s.stream.seekTime(t))
	}
}

func (s *speaker) Duration() float64 {
	if s.sound != nil {
		return s.sound.duration
	}
	return s.stream.src.TotalDuration()
}

func (s *speaker) Position() vec.Vec3 {
	s.lock()
	defer s.unlock()

	return s.pos
}

func (s *speaker) SetPosition(p vec.Vec3) {
	s.lock()
	defer s.unlock()

	s.pos = p
}

func (s *speaker) Velocity() vec.Vec3 {
	s.lock()
	defer s.unlock()

	return s.vel
}

func (s *speaker) SetVelocity(v vec.Vec3) {
	s.lock()
	defer s.unlock()

	s.vel = v
}

func (s *speaker) IsRelative() bool {
	s.lock()
	defer s.unlock()

	return s.relative
}

func (s *speaker) SetRelative(relative bool) {
	s.lock()
	defer s.unlock()

	s.relative = relative
}

// queued is the number of frames waiting in a stream speaker's queue.
func (s *speaker) queued() int64 {
	samples := -s.qpos
	for _, buf := range s.queue {
		samples += len(buf)
	}
	return int64(samples / s.channels)
}
