// SPDX-License-Identifier: EPL-2.0

// Package dummy is the backend used when audio is disabled or no output
// device is available. Sounds and streams keep their metadata but never
// produce a speaker.
package dummy

import (
	"sync"

	"github.com/ik5/audeng/audio"
)

type Backend struct{}

var _ audio.Backend = Backend{}

func New() Backend { return Backend{} }

func (Backend) CreateSound(pcm *audio.PCM, keepPCM bool) (audio.Sound, error) {
	if pcm == nil || pcm.IsHeaderOnly() {
		return nil, audio.ErrNoSampleData
	}

	s := &sound{duration: pcm.Duration()}
	if keepPCM {
		s.pcm = pcm
	}
	return s, nil
}

func (Backend) OpenStream(src audio.PCMStream, keepSource bool) (audio.Stream, error) {
	if src == nil || !src.IsOpen() {
		return nil, audio.ErrStreamClosed
	}

	s := &stream{src: src}
	if keepSource {
		shared := audio.Share(src)
		s.src = shared.Handle()
		s.kept = shared.Handle()
	}
	return s, nil
}

func (Backend) SetListener(audio.Listener) {}
func (Backend) Update(float64)             {}
func (Backend) IsDummy() bool              { return true }
func (Backend) Speakers() (int, int)       { return 0, 0 }
func (Backend) Close() error               { return nil }

type sound struct {
	duration float64
	pcm      *audio.PCM
}

func (s *sound) Duration() float64             { return s.duration }
func (s *sound) PCM() *audio.PCM               { return s.pcm }
func (s *sound) NewInstance(int) audio.Speaker { return nil }

type stream struct {
	mu      sync.Mutex
	src     audio.PCMStream
	kept    audio.PCMStream
	speaker audio.SpeakerID
	closed  bool
}

func (s *stream) Source() audio.PCMStream          { return s.kept }
func (s *stream) CreateSpeaker(bool) audio.Speaker { return nil }
func (s *stream) Update(float64)                   {}
func (s *stream) Err() error                       { return nil }

func (s *stream) BindSpeaker(id audio.SpeakerID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.speaker = id
}

func (s *stream) Speaker() audio.SpeakerID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.speaker
}

// SetTime seeks the source so a later backend would resume from t.
func (s *stream) SetTime(t float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return audio.ErrStreamClosed
	}
	if !s.src.IsSeekable() {
		return audio.ErrNotSeekable
	}
	return s.src.Seek(int64(max(t, 0) * float64(s.src.SampleRate())))
}

func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.src.Close()
}
