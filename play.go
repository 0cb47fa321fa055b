// SPDX-License-Identifier: EPL-2.0

package audeng

import (
	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/vec"
)

// PlayOptions describes how a sound starts.
type PlayOptions struct {
	Position vec.Vec3
	// Relative places Position relative to the listener.
	Relative bool
	Volume   float64
	Pitch    float64
	Loop     bool
	Priority int
}

// DefaultPlayOptions returns full volume, normal pitch and normal priority
// at the origin.
func DefaultPlayOptions() PlayOptions {
	return PlayOptions{Volume: 1, Pitch: 1, Priority: audio.PriorityNormal}
}

// Play starts a new instance of sound and returns its id. The id is 0 when
// the engine is closed, audio is disabled or every channel is held by a
// speaker of equal or higher priority.
func (e *Engine) Play(sound audio.Sound, opts PlayOptions) audio.SpeakerID {
	if sound == nil {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0
	}

	spk := e.arbitrate(opts.Priority, func() audio.Speaker {
		return sound.NewInstance(opts.Priority)
	})
	if spk == nil {
		return 0
	}

	opts.apply(spk)
	spk.Play()

	return e.table.add(spk, nil)
}

func (o PlayOptions) apply(spk audio.Speaker) {
	spk.SetPosition(o.Position)
	spk.SetRelative(o.Relative)
	spk.SetVolume(o.Volume)
	spk.SetPitch(o.Pitch)
	spk.SetLoop(o.Loop)
}

// PlayStream binds a new speaker to st and starts it. Streams always play
// at high priority; opts.Priority is ignored.
func (e *Engine) PlayStream(st audio.Stream, opts PlayOptions) audio.SpeakerID {
	if st == nil {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0
	}
	if _, ok := st.(*engineStream); !ok {
		st = e.track(st)
	}
	return e.startStream(st, opts, nil)
}

// PlayStreamFile opens path and plays it. The stream belongs to the
// speaker and is closed once the speaker stops and Update releases it.
func (e *Engine) PlayStreamFile(path string, opts PlayOptions) audio.SpeakerID {
	st, err := e.OpenStream(path, false)
	if err != nil {
		e.log.Warn("open stream", "path", path, "error", err)
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var id audio.SpeakerID
	if !e.closed {
		id = e.startStream(st, opts, st)
	}
	if id == 0 {
		st.Close()
	}
	return id
}

func (e *Engine) startStream(st audio.Stream, opts PlayOptions, owned audio.Stream) audio.SpeakerID {
	spk := e.arbitrate(audio.PriorityHigh, func() audio.Speaker {
		return st.CreateSpeaker(opts.Loop)
	})
	if spk == nil {
		return 0
	}
	opts.apply(spk)

	id := e.table.add(spk, owned)
	st.BindSpeaker(id)
	spk.Play()

	return id
}

// arbitrate calls create and, when no channel is free, pre-empts the
// weakest speaker below priority and tries once more. Backends that track
// their channel holders pick the victim; otherwise it comes from the
// speakers this engine started. Callers hold mu.
func (e *Engine) arbitrate(priority int, create func() audio.Speaker) audio.Speaker {
	if spk := create(); spk != nil {
		return spk
	}

	var victim audio.Speaker
	if a, ok := e.backend.(audio.Arbiter); ok {
		victim = a.Victim(priority)
	} else {
		_, victim = e.table.victim(priority)
	}
	if victim == nil {
		e.log.Debug("no channel available", "priority", priority)
		return nil
	}

	if p, ok := victim.(audio.Preempter); ok {
		p.Preempt()
	} else {
		victim.Stop()
	}
	id, owned, registered := e.table.removeSpeaker(victim)
	if owned != nil {
		owned.Close()
	}
	e.log.Debug("speaker pre-empted", "id", int64(id), "registered", registered, "priority", victim.Priority(), "by", priority)

	return create()
}
