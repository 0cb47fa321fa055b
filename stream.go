// SPDX-License-Identifier: EPL-2.0

package audeng

import "github.com/ik5/audeng/audio"

// engineStream keeps a stream in the engine's update set until it is
// closed.
type engineStream struct {
	audio.Stream
	e *Engine
}

func (e *Engine) track(st audio.Stream) *engineStream {
	es := &engineStream{Stream: st, e: e}

	e.streamsMu.Lock()
	e.streams[es] = struct{}{}
	e.streamsMu.Unlock()

	return es
}

func (e *Engine) liveStreams() []*engineStream {
	e.streamsMu.Lock()
	defer e.streamsMu.Unlock()

	out := make([]*engineStream, 0, len(e.streams))
	for st := range e.streams {
		out = append(out, st)
	}
	return out
}

// Close stops updating the stream and closes it.
func (s *engineStream) Close() error {
	s.e.streamsMu.Lock()
	delete(s.e.streams, s)
	s.e.streamsMu.Unlock()

	return s.Stream.Close()
}
