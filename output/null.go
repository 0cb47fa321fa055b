// SPDX-License-Identifier: EPL-2.0

package output

import "sync/atomic"

// Null discards everything written to it. It is used when no device is
// wanted, such as on servers and in tests.
type Null struct {
	rate   int
	frames atomic.Int64
}

func NewNull(sampleRate int) *Null {
	return &Null{rate: sampleRate}
}

func (n *Null) Write(samples []float32) { n.frames.Add(int64(len(samples) / Channels)) }
func (n *Null) SampleRate() int         { return n.rate }
func (n *Null) Close() error            { return nil }

// Frames counts stereo frames written so far.
func (n *Null) Frames() int64 { return n.frames.Load() }
