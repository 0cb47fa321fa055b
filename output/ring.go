// SPDX-License-Identifier: EPL-2.0

package output

import "sync"

// Ring is a bounded FIFO of interleaved float32 samples shared by the mixer
// (writer) and a driver goroutine (reader). A write that does not fit
// overwrites the oldest samples, so the mixer never blocks on the device.
type Ring struct {
	mu      sync.Mutex
	buf     []float32
	head    int // next read
	size    int
	dropped int64
}

// NewRing creates a ring holding up to capacity samples.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]float32, max(capacity, 1))}
}

func (r *Ring) Write(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.buf)
	if len(samples) > n {
		r.dropped += int64(len(samples) - n)
		samples = samples[len(samples)-n:]
	}

	if over := r.size + len(samples) - n; over > 0 {
		r.head = (r.head + over) % n
		r.size -= over
		r.dropped += int64(over)
	}

	tail := (r.head + r.size) % n
	c := copy(r.buf[tail:], samples)
	copy(r.buf, samples[c:])
	r.size += len(samples)
}

// Read moves up to len(dst) samples into dst and returns how many were
// available. It never blocks.
func (r *Ring) Read(dst []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := min(len(dst), r.size)
	c := copy(dst[:want], r.buf[r.head:])
	copy(dst[c:want], r.buf)

	r.head = (r.head + want) % len(r.buf)
	r.size -= want
	return want
}

// ReadFull fills dst completely, padding with silence on underrun.
func (r *Ring) ReadFull(dst []float32) int {
	n := r.Read(dst)
	clear(dst[n:])
	return n
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.size
}

func (r *Ring) Cap() int { return len(r.buf) }

// Dropped counts samples overwritten before a driver read them.
func (r *Ring) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.dropped
}
