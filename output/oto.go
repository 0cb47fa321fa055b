// SPDX-License-Identifier: EPL-2.0

package output

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

func init() {
	register("oto", openOto)
}

// oto allows a single context per process; it is created on first use and
// kept for later drivers at the same rate.
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
)

func otoContext(rate int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx != nil {
		if otoRate != rate {
			return nil, fmt.Errorf("oto context already running at %d Hz", otoRate)
		}
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("resume oto context: %w", err)
		}
		return otoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("new oto context: %w", err)
	}
	<-ready

	otoCtx, otoRate = ctx, rate
	return ctx, nil
}

type otoSink struct {
	ring   *Ring
	rate   int
	player *oto.Player

	mu      sync.Mutex
	samples []float32
	closed  bool
}

func openOto(o Options) (Sink, error) {
	ctx, err := otoContext(o.SampleRate)
	if err != nil {
		return nil, err
	}

	s := &otoSink{
		ring: NewRing(o.ringSamples()),
		rate: o.SampleRate,
	}
	s.player = ctx.NewPlayer(s)
	s.player.SetVolume(o.Gain)
	s.player.Play()

	return s, nil
}

func (s *otoSink) Write(samples []float32) { s.ring.Write(samples) }
func (s *otoSink) SampleRate() int         { return s.rate }

// Read feeds the oto player with float32 little-endian samples, padding with
// silence when the mixer is behind.
func (s *otoSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(p) / 4
	if cap(s.samples) < n {
		s.samples = make([]float32, n)
	}
	buf := s.samples[:n]
	s.ring.ReadFull(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

func (s *otoSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.player.Pause()

	otoMu.Lock()
	defer otoMu.Unlock()

	if err := otoCtx.Suspend(); err != nil {
		return fmt.Errorf("suspend oto context: %w", err)
	}
	return nil
}
