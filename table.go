// SPDX-License-Identifier: EPL-2.0

package audeng

import (
	"sync"

	"github.com/ik5/audeng/audio"
)

const genMask = 0x7fffffff

// entry is one slot of the speaker table. A slot keeps its generation after
// the speaker leaves so that ids handed out earlier stop resolving.
type entry struct {
	spk   audio.Speaker
	owned audio.Stream // closed when the speaker is released
	gen   uint32
	seq   uint64
}

// speakerTable maps speaker ids to speakers. An id packs the slot
// generation in the high 32 bits and slot+1 in the low 32 bits, so 0 is
// never a valid id.
type speakerTable struct {
	mu    sync.RWMutex
	slots []entry
	free  []int
	seq   uint64
	count int
}

func makeID(slot int, gen uint32) audio.SpeakerID {
	return audio.SpeakerID(int64(gen)<<32 | int64(slot+1))
}

func splitID(id audio.SpeakerID) (slot int, gen uint32, ok bool) {
	if id <= 0 {
		return 0, 0, false
	}
	low := int64(id) & 0xffffffff
	if low == 0 {
		return 0, 0, false
	}
	return int(low - 1), uint32(int64(id) >> 32), true
}

func (t *speakerTable) add(spk audio.Speaker, owned audio.Stream) audio.SpeakerID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var slot int
	if n := len(t.free); n > 0 {
		slot = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		slot = len(t.slots)
		t.slots = append(t.slots, entry{})
	}

	t.seq++
	e := &t.slots[slot]
	e.spk, e.owned, e.seq = spk, owned, t.seq
	t.count++

	return makeID(slot, e.gen)
}

// lookup returns the live entry for id. Callers hold mu.
func (t *speakerTable) lookup(id audio.SpeakerID) *entry {
	slot, gen, ok := splitID(id)
	if !ok || slot >= len(t.slots) {
		return nil
	}
	e := &t.slots[slot]
	if e.spk == nil || e.gen != gen {
		return nil
	}
	return e
}

func (t *speakerTable) get(id audio.SpeakerID) audio.Speaker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if e := t.lookup(id); e != nil {
		return e.spk
	}
	return nil
}

// resolve has the audio.SpeakerResolver signature.
func (t *speakerTable) resolve(id audio.SpeakerID) audio.Speaker {
	return t.get(id)
}

// releaseLocked frees a slot and returns the stream it owned.
func (t *speakerTable) releaseLocked(slot int) audio.Stream {
	e := &t.slots[slot]
	owned := e.owned
	e.spk, e.owned = nil, nil
	e.gen = (e.gen + 1) & genMask
	t.free = append(t.free, slot)
	t.count--

	return owned
}

// removeSpeaker drops spk wherever it is registered. Speakers the engine
// never registered report false.
func (t *speakerTable) removeSpeaker(spk audio.Speaker) (audio.SpeakerID, audio.Stream, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.slots {
		e := &t.slots[i]
		if e.spk != nil && e.spk == spk {
			id := makeID(i, e.gen)
			return id, t.releaseLocked(i), true
		}
	}
	return 0, nil, false
}

// reap releases every stopped speaker and returns the streams they owned.
func (t *speakerTable) reap() []audio.Stream {
	t.mu.Lock()
	defer t.mu.Unlock()

	var owned []audio.Stream
	for i := range t.slots {
		e := &t.slots[i]
		if e.spk == nil || e.spk.State() != audio.Stopped {
			continue
		}
		if st := t.releaseLocked(i); st != nil {
			owned = append(owned, st)
		}
	}
	return owned
}

// victim picks the speaker to give up its channel for a request at
// priority: the lowest priority below it, paused before playing, then the
// oldest.
func (t *speakerTable) victim(priority int) (audio.SpeakerID, audio.Speaker) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	best := -1
	var bestPrio int
	var bestPaused bool
	for i := range t.slots {
		e := &t.slots[i]
		if e.spk == nil {
			continue
		}
		state := e.spk.State()
		if state == audio.Stopped {
			continue
		}
		prio := e.spk.Priority()
		if prio >= priority {
			continue
		}
		paused := state == audio.Paused
		if best >= 0 {
			switch {
			case prio > bestPrio:
				continue
			case prio == bestPrio && bestPaused && !paused:
				continue
			case prio == bestPrio && paused == bestPaused && e.seq > t.slots[best].seq:
				continue
			}
		}
		best, bestPrio, bestPaused = i, prio, paused
	}

	if best < 0 {
		return 0, nil
	}
	e := &t.slots[best]
	return makeID(best, e.gen), e.spk
}

type drained struct {
	spk   audio.Speaker
	owned audio.Stream
}

// drain empties the table.
func (t *speakerTable) drain() []drained {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []drained
	for i := range t.slots {
		if t.slots[i].spk == nil {
			continue
		}
		spk := t.slots[i].spk
		out = append(out, drained{spk: spk, owned: t.releaseLocked(i)})
	}
	return out
}

func (t *speakerTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.count
}
