// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/audeng/vec"
)

// SpeakerID identifies a speaker registered with the engine. 0 means none.
type SpeakerID int64

// Priorities used to arbitrate speakers when every channel is in use.
const (
	PriorityLow    = 0
	PriorityNormal = 5
	PriorityHigh   = 10
)

// Pitch bounds. SetPitch clamps into [MinPitch, MaxPitch].
const (
	MinPitch = 0.01
	MaxPitch = 16.0
)

// State of a speaker.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// Speaker is a playback channel bound to a Sound or a Stream.
//
// Play starts a stopped speaker from its current time (from 0 after it ran to
// the end), resumes a paused one and restarts a playing one from 0. Stop
// marks the speaker as stopped manually; reaching the end of a non-looped
// source stops it without that mark.
type Speaker interface {
	State() State

	Volume() float64
	SetVolume(v float64)
	Pitch() float64
	SetPitch(p float64)

	IsLoop() bool
	SetLoop(loop bool)

	Play()
	Pause()
	Stop()
	IsStoppedManually() bool

	// Time is the playback position in seconds.
	Time() float64
	SetTime(t float64)
	// Duration of the bound source in seconds, 0 when unknown.
	Duration() float64

	Position() vec.Vec3
	SetPosition(p vec.Vec3)
	Velocity() vec.Vec3
	SetVelocity(v vec.Vec3)
	IsRelative() bool
	SetRelative(relative bool)

	Priority() int
}

// Preempter is implemented by speakers that can be stopped on behalf of a
// higher-priority request. Unlike Stop it leaves IsStoppedManually false.
type Preempter interface {
	Preempt()
}

// ClampVolume maps negative and NaN volumes to 0.
func ClampVolume(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// ClampPitch bounds p to [MinPitch, MaxPitch]. ok is false for NaN, which
// callers ignore.
func ClampPitch(p float64) (float64, bool) {
	if math.IsNaN(p) {
		return 0, false
	}
	return min(max(p, MinPitch), MaxPitch), true
}
