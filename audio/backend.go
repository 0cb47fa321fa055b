// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"github.com/ik5/audeng/vec"
)

// Listener is the point of view all non-relative speakers are rendered from.
// LookAt is a point in world space, not a direction.
type Listener struct {
	Position vec.Vec3
	Velocity vec.Vec3
	LookAt   vec.Vec3
	Up       vec.Vec3
}

// Basis returns the listener's orthonormal forward, right and up vectors.
// Degenerate input falls back to forward -Z and up +Y.
func (l Listener) Basis() (forward, right, up vec.Vec3) {
	forward = vec.Sub(l.LookAt, l.Position).Normalize()
	if forward.IsZero() {
		forward = vec.Forward
	}

	up = l.Up.Normalize()
	if up.IsZero() {
		up = vec.Up
	}

	right = vec.Cross(forward, up).Normalize()
	if right.IsZero() {
		// up parallel to forward
		forward, up = vec.Forward, vec.Up
		right = vec.Right
	}

	up = vec.Cross(right, forward)
	return forward, right, up
}

// SpeakerResolver maps an engine speaker id to the speaker it names, or nil.
type SpeakerResolver func(id SpeakerID) Speaker

// Backend creates sounds and streams and renders the active speakers.
type Backend interface {
	CreateSound(pcm *PCM, keepPCM bool) (Sound, error)
	OpenStream(src PCMStream, keepSource bool) (Stream, error)

	SetListener(l Listener)

	// Update advances playback by delta seconds. delta <= 0 does nothing.
	Update(delta float64)

	IsDummy() bool

	// Speakers reports channels in use and the pool capacity.
	Speakers() (used, capacity int)

	Close() error
}

// Arbiter is implemented by backends that know every speaker holding a
// channel, including speakers the caller created or restarted directly.
type Arbiter interface {
	// Victim returns the channel holder to pre-empt for a request at
	// priority: the lowest priority strictly below it, paused before
	// playing, then the one holding its channel longest. Nil when none
	// qualifies.
	Victim(priority int) Speaker
}
