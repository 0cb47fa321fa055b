// SPDX-License-Identifier: EPL-2.0

package softmix

import (
	"sync"
	"testing"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/internal/logger"
	"github.com/ik5/audeng/utils"
	"github.com/ik5/audeng/vec"
)

const testRate = 1000

// captureSink records everything the mixer writes.
type captureSink struct {
	mu      sync.Mutex
	rate    int
	writes  []int
	samples []float32
	closed  bool
}

func (c *captureSink) Write(samples []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writes = append(c.writes, len(samples))
	c.samples = append(c.samples, samples...)
}

func (c *captureSink) SampleRate() int { return c.rate }

func (c *captureSink) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	return nil
}

// frame returns the left and right sample of stereo frame i.
func (c *captureSink) frame(i int) (float32, float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.samples[i*2], c.samples[i*2+1]
}

func (c *captureSink) frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.samples) / 2
}

// registry resolves speaker ids the way the engine does.
type registry struct {
	mu   sync.Mutex
	next audio.SpeakerID
	ids  map[audio.SpeakerID]audio.Speaker
}

func (r *registry) add(s audio.Speaker) audio.SpeakerID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ids == nil {
		r.ids = make(map[audio.SpeakerID]audio.Speaker)
	}
	r.next++
	r.ids[r.next] = s
	return r.next
}

func (r *registry) resolve(id audio.SpeakerID) audio.Speaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ids[id]
}

type harness struct {
	b   *Backend
	out *captureSink
	reg *registry
}

func newHarness(t *testing.T, mod func(*Config)) harness {
	t.Helper()

	cfg := DefaultConfig()
	cfg.SampleRate = testRate
	if mod != nil {
		mod(&cfg)
	}

	out := &captureSink{rate: cfg.SampleRate}
	reg := &registry{}
	b, err := New(cfg, WithOutput(out), WithResolver(reg.resolve), WithLogger(logger.Discard()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { b.Close() })

	return harness{b: b, out: out, reg: reg}
}

// constPCM builds a 16-bit PCM of frames frames holding value on every
// channel.
func constPCM(t *testing.T, frames, channels, rate int, value float32) *audio.PCM {
	t.Helper()

	samples := make([]float32, frames*channels)
	for i := range samples {
		samples[i] = value
	}
	data := make([]byte, len(samples)*2)
	utils.EncodePCM(data, samples, 16)

	pcm, err := audio.NewPCM(data, len(samples), channels, 16, rate, true)
	if err != nil {
		t.Fatalf("NewPCM() error = %v", err)
	}
	return pcm
}

func (h harness) sound(t *testing.T, frames, channels int, value float32) audio.Sound {
	t.Helper()

	snd, err := h.b.CreateSound(constPCM(t, frames, channels, testRate, value), false)
	if err != nil {
		t.Fatalf("CreateSound() error = %v", err)
	}
	return snd
}

func near(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}

func vec3(a [3]float32) vec.Vec3 { return vec.Vec3{X: a[0], Y: a[1], Z: a[2]} }
