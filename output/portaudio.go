// SPDX-License-Identifier: EPL-2.0

//go:build portaudio

package output

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

func init() {
	register("portaudio", openPortaudio)
}

type portaudioSink struct {
	ring   *Ring
	rate   int
	gain   float32
	stream *portaudio.Stream

	mu     sync.Mutex
	closed bool
}

func openPortaudio(o Options) (Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	s := &portaudioSink{
		ring: NewRing(o.ringSamples()),
		rate: o.SampleRate,
		gain: float32(o.Gain),
	}

	framesPerBuffer := max(o.ringSamples()/Channels/4, 256)
	stream, err := portaudio.OpenDefaultStream(0, Channels, float64(o.SampleRate), framesPerBuffer, s.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start portaudio stream: %w", err)
	}

	s.stream = stream
	return s, nil
}

// callback receives interleaved output since the stream has a single
// buffer argument.
func (s *portaudioSink) callback(out []float32) {
	s.ring.ReadFull(out)
	if s.gain == 1 {
		return
	}
	for i := range out {
		out[i] *= s.gain
	}
}

func (s *portaudioSink) Write(samples []float32) { s.ring.Write(samples) }
func (s *portaudioSink) SampleRate() int         { return s.rate }

func (s *portaudioSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.stream.Stop(); err != nil {
		return fmt.Errorf("stop portaudio stream: %w", err)
	}
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("close portaudio stream: %w", err)
	}
	return portaudio.Terminate()
}
