// SPDX-License-Identifier: EPL-2.0

package audio

// Sound is a fully decoded, replayable asset.
type Sound interface {
	// Duration in seconds.
	Duration() float64
	// PCM returns the decoded data when the sound was created to keep it,
	// nil otherwise.
	PCM() *PCM
	// NewInstance creates a speaker playing this sound, or returns nil when
	// no channel is free.
	NewInstance(priority int) Speaker
}

// Stream is an incrementally decoded source played by at most one speaker at
// a time. Update keeps the bound speaker's buffer queue filled.
type Stream interface {
	// Source returns the decoder cursor when the stream was opened to keep
	// it, nil otherwise.
	Source() PCMStream

	// CreateSpeaker returns a speaker at PriorityHigh fed by this stream, or
	// nil when no channel is free.
	CreateSpeaker(loop bool) Speaker

	// BindSpeaker makes id the speaker receiving preloaded buffers. 0 only
	// unbinds the current one.
	BindSpeaker(id SpeakerID)
	Speaker() SpeakerID

	// Update tops up the bound speaker's queue. It never fails; decode
	// errors are reported by Err.
	Update(delta float64)

	// SetTime seeks the source to t seconds. ErrNotSeekable when the source
	// cannot seek.
	SetTime(t float64) error

	Err() error
	Close() error
}
