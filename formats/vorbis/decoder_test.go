// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// mockOggVorbisReader simulates oggvorbis.Reader for testing. Read returns
// at most one decoded packet of values per call.
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	packet     int
	length     int64
	err        error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }
func (m *mockOggVorbisReader) Length() int64   { return m.length }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}
	if m.packet > 0 && len(buf) > m.packet {
		buf = buf[:m.packet]
	}
	n := copy(buf, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{[]byte("OggS but not really"), {}} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", data)
		}
	}
}

func TestSource_ReadSamples_JoinsPackets(t *testing.T) {
	t.Parallel()

	samples := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	src := &source{
		dec:        &mockOggVorbisReader{sampleRate: 44100, channels: 2, samples: samples, packet: 2},
		sampleRate: 44100,
		channels:   2,
	}

	buf := make([]float32, 6)
	n, err := src.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 6 {
		t.Fatalf("ReadSamples() n = %d, want 6", n)
	}
	for i := range samples {
		if buf[i] != samples[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], samples[i])
		}
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() at end = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestSource_ReadSamples_ShortTail(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:      &mockOggVorbisReader{channels: 1, samples: []float32{1, 2, 3}},
		channels: 1,
	}

	n, err := src.ReadSamples(make([]float32, 10))
	if n != 3 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want 3, io.EOF", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	decErr := errors.New("invalid packet")
	src := &source{dec: &mockOggVorbisReader{channels: 1, err: decErr}, channels: 1}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, decErr) {
		t.Errorf("ReadSamples() error = %v, want %v", err, decErr)
	}
}

func TestSource_Len(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{length: 48000}, channels: 2}
	if got := src.Len(); got != 48000 {
		t.Errorf("Len() = %d, want 48000", got)
	}

	src = &source{dec: &mockOggVorbisReader{length: -1}, channels: 2}
	if got := src.Len(); got != 0 {
		t.Errorf("Len() for an unseekable stream = %d, want 0", got)
	}
}
