// SPDX-License-Identifier: EPL-2.0

package softmix

import (
	"errors"
	"io"
	"math"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/vec"
)

// listenerView caches the listener basis for one Update.
type listenerView struct {
	pos   vec.Vec3
	vel   vec.Vec3
	right vec.Vec3
}

func newListenerView(l audio.Listener) listenerView {
	_, right, _ := l.Basis()
	return listenerView{pos: l.Position, vel: l.Velocity, right: right}
}

// offset returns the speaker position relative to the listener and the
// listener right vector it is panned against.
func (v listenerView) offset(spk *speaker) (d, right vec.Vec3) {
	if spk.relative {
		return spk.pos, vec.Right
	}
	return vec.Sub(spk.pos, v.pos), v.right
}

// gains returns the left and right multipliers of spk, volume included.
// Mono sources are panned; stereo sources are only attenuated.
func (v listenerView) gains(spk *speaker, cfg Config) (left, right float32) {
	d, r := v.offset(spk)
	dist := d.Length()
	g := attenuation(float64(dist), cfg.ReferenceDistance, cfg.Rolloff) * spk.volume

	if spk.channels != 1 {
		return float32(g), float32(g)
	}

	var dot float32
	if dist > 0 {
		dot = vec.Dot(r, d.Normalize())
	}
	l, rr := pan(dot)
	return l * float32(g), rr * float32(g)
}

// attenuation is the inverse distance clamped model: unity up to the
// reference distance, ref/(ref+rolloff*(d-ref)) beyond it.
func attenuation(dist, ref, rolloff float64) float64 {
	if dist <= ref || rolloff == 0 {
		return 1
	}
	den := ref + rolloff*(dist-ref)
	if den <= 0 {
		return 0
	}
	return ref / den
}

// pan maps the cosine between the source direction and the listener right
// vector to left and right gains in [0,1]. Centered sources play at unity on
// both sides.
func pan(dot float32) (left, right float32) {
	left = min(max(1-dot, 0), 1)
	right = min(max(1+dot, 0), 1)
	return left, right
}

// doppler returns the pitch factor from listener and source velocities
// projected on the axis between them:
//
//	f' = f * (c - df*vl) / (c - df*vs)
//
// with both projections clamped below c/df.
func (v listenerView) doppler(spk *speaker, cfg Config) float64 {
	if spk.relative || cfg.DopplerFactor == 0 {
		return 1
	}

	sl := vec.Sub(v.pos, spk.pos)
	dist := sl.Length()
	if dist == 0 {
		return 1
	}
	axis := sl.Scale(1 / dist)

	c := cfg.SpeedOfSound
	df := cfg.DopplerFactor
	ceiling := c / df * 0.999

	vl := min(float64(vec.Dot(axis, v.vel)), ceiling)
	vs := min(float64(vec.Dot(axis, spk.vel)), ceiling)

	f := (c - df*vl) / (c - df*vs)
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 1
	}
	return f
}

// limit softly compresses samples past 0.8 and hard clips at 1.
func limit(v float32) float32 {
	switch {
	case v > 0.8:
		v = 0.8 + 0.2*(1-1/(1+(v-0.8)*5))
	case v < -0.8:
		v = -0.8 - 0.2*(1-1/(1+(-v-0.8)*5))
	}
	return min(max(v, -1), 1)
}

func isEOF(err error) bool { return errors.Is(err, io.EOF) }
