// SPDX-License-Identifier: EPL-2.0

package output

import (
	"math"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

func init() {
	register("beep", openBeep)
}

type beepSink struct {
	ring *Ring
	rate beep.SampleRate

	mu     sync.Mutex
	tmp    []float32
	closed bool
}

func openBeep(o Options) (Sink, error) {
	rate := beep.SampleRate(o.SampleRate)
	// The device buffer is a quarter of the ring so the ring can absorb
	// jitter in the caller's update cadence.
	if err := speaker.Init(rate, max(rate.N(o.Buffer)/4, 256)); err != nil {
		return nil, err
	}

	s := &beepSink{
		ring: NewRing(o.ringSamples()),
		rate: rate,
	}

	speaker.Play(&effects.Volume{
		Streamer: beep.StreamerFunc(s.stream),
		Base:     2,
		Volume:   gainToVolume(o.Gain),
		Silent:   o.Gain == 0,
	})

	return s, nil
}

// gainToVolume converts a linear gain to the base-2 exponent used by
// effects.Volume.
func gainToVolume(gain float64) float64 {
	if gain <= 0 {
		return 0
	}
	return math.Log2(gain)
}

// stream runs on the beep speaker goroutine. It never ends; silence is
// produced on underrun.
func (s *beepSink) stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(samples) * Channels
	if cap(s.tmp) < n {
		s.tmp = make([]float32, n)
	}
	buf := s.tmp[:n]
	s.ring.ReadFull(buf)

	for i := range samples {
		samples[i][0] = float64(buf[i*2])
		samples[i][1] = float64(buf[i*2+1])
	}
	return len(samples), true
}

func (s *beepSink) Write(samples []float32) { s.ring.Write(samples) }
func (s *beepSink) SampleRate() int         { return int(s.rate) }

func (s *beepSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	speaker.Clear()
	speaker.Close()
	return nil
}
