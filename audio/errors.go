// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrInvalidPCM     = errors.New("invalid PCM layout")
	ErrNoSampleData   = errors.New("pcm has no sample data")
	ErrNotSeekable    = errors.New("stream is not seekable")
	ErrSeekOutOfRange = errors.New("seek position out of range")
	ErrStreamClosed   = errors.New("stream is closed")
)

// LoadError reports a failure to load or decode an audio asset.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
