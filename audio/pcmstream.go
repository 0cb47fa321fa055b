// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
)

// PCMStream is a pull-based decoder cursor producing raw PCM bytes in the
// same layout as PCM.Data. It is the data source of a Stream.
type PCMStream interface {
	// Read fills buf (rounded down to whole frames) and returns fewer bytes
	// only at the end of data, together with io.EOF. (0, io.EOF) means the
	// stream is exhausted.
	Read(buf []byte) (int, error)

	// Close is idempotent. Reads after Close return ErrStreamClosed.
	Close() error
	IsOpen() bool

	// TotalSamples counts samples of all channels, 0 when unknown.
	TotalSamples() int64
	// TotalDuration in seconds, 0 when unknown.
	TotalDuration() float64

	Channels() int
	SampleRate() int
	BitsPerSample() int

	IsSeekable() bool
	// Seek moves the cursor to an absolute frame (sample per channel).
	Seek(frame int64) error
}

// FrameSize is the byte size of one frame of s.
func FrameSize(s PCMStream) int {
	return s.Channels() * s.BitsPerSample() / 8
}

// ReadFully reads until buf is full. When the source runs out and loop is
// set on a seekable stream it rewinds to frame 0 and keeps reading, so the
// caller never sees the loop seam: the result is exactly len(buf) bytes
// (rounded down to whole frames). Otherwise a short count is returned with
// io.EOF at the true end of data.
func ReadFully(s PCMStream, buf []byte, loop bool) (int, error) {
	fs := FrameSize(s)
	if fs <= 0 {
		return 0, ErrInvalidPCM
	}
	want := len(buf) - len(buf)%fs

	total := 0
	rewound := false
	for total < want {
		n, err := s.Read(buf[total:want])
		total += n
		if n > 0 {
			rewound = false
		}

		switch {
		case err == nil && n > 0:
			continue
		case err != nil && !errors.Is(err, io.EOF):
			return total, err
		}

		// End of data (io.EOF or an empty read).
		if total >= want {
			break
		}
		if !loop || !s.IsSeekable() || rewound {
			return total, io.EOF
		}
		if err := s.Seek(0); err != nil {
			return total, err
		}
		// A second empty read right after rewinding means the stream
		// holds no data at all.
		rewound = true
	}

	return total, nil
}
