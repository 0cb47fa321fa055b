// SPDX-License-Identifier: EPL-2.0

package softmix

import (
	"io"

	"github.com/ik5/audeng/audio"
)

// sound holds decoded samples shared by all its speakers.
type sound struct {
	b        *Backend
	data     []float32
	channels int
	rate     int
	frames   int
	duration float64
	pcm      *audio.PCM
}

func (s *sound) Duration() float64 { return s.duration }
func (s *sound) PCM() *audio.PCM   { return s.pcm }

// NewInstance allocates a channel for a new speaker. The speaker keeps the
// channel until it stops.
func (s *sound) NewInstance(priority int) audio.Speaker {
	b := s.b
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	spk := newSpeaker(b, s.channels, priority)
	spk.sound = s
	cur := &soundCursor{spk: spk, snd: s}
	spk.cursor = cur
	spk.rs = audio.NewResampler(cur, b.cfg.SampleRate)

	if !b.acquire(spk) {
		return nil
	}
	return spk
}

// soundCursor is the audio.Source a sound speaker resamples. It wraps
// around while the speaker loops.
type soundCursor struct {
	spk   *speaker
	snd   *sound
	frame int
}

func (c *soundCursor) SampleRate() int { return c.snd.rate }
func (c *soundCursor) Channels() int   { return c.snd.channels }
func (c *soundCursor) BufSize() int    { return chunkFrames }
func (c *soundCursor) Close() error    { return nil }

func (c *soundCursor) ReadSamples(dst []float32) (int, error) {
	ch := c.snd.channels
	n := 0
	for n < len(dst) {
		if c.frame >= c.snd.frames {
			if !c.spk.loop || c.snd.frames == 0 {
				break
			}
			c.frame = 0
		}
		copied := copy(dst[n:], c.snd.data[c.frame*ch:])
		n += copied
		c.frame += copied / ch
	}

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (c *soundCursor) seconds() float64 { return float64(c.frame) / float64(c.snd.rate) }

func (c *soundCursor) seek(t float64) {
	f := int(t * float64(c.snd.rate))
	c.frame = min(max(f, 0), c.snd.frames)
}
