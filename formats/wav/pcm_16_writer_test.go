// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestWriteWAV16_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		samples  []int16
	}{
		{"mono", 8000, 1, []int16{1, -1, 2, -2}},
		{"stereo", 44100, 2, []int16{1, -1, 2, -2}},
		{"empty", 16000, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := WriteWAV16(&buf, tt.rate, tt.channels, tt.samples); err != nil {
				t.Fatalf("WriteWAV16() error = %v", err)
			}

			b := buf.Bytes()
			if got, want := len(b), 44+len(tt.samples)*2; got != want {
				t.Fatalf("len = %d, want %d", got, want)
			}
			if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" || string(b[36:40]) != "data" {
				t.Errorf("bad chunk ids: %q %q %q", b[0:4], b[8:12], b[36:40])
			}
			if got := int(binary.LittleEndian.Uint16(b[22:24])); got != tt.channels {
				t.Errorf("channels = %d, want %d", got, tt.channels)
			}
			if got := int(binary.LittleEndian.Uint32(b[24:28])); got != tt.rate {
				t.Errorf("rate = %d, want %d", got, tt.rate)
			}
			if got, want := binary.LittleEndian.Uint32(b[28:32]), uint32(tt.rate*tt.channels*2); got != want {
				t.Errorf("byte rate = %d, want %d", got, want)
			}
			for i, s := range tt.samples {
				if got := int16(binary.LittleEndian.Uint16(b[44+i*2:])); got != s {
					t.Errorf("sample %d = %d, want %d", i, got, s)
				}
			}
		})
	}
}

func TestWriteWAV16_LargeInput(t *testing.T) {
	t.Parallel()

	samples := make([]int16, 20000)
	for i := range samples {
		samples[i] = int16(i)
	}

	var buf bytes.Buffer
	if err := WriteWAV16(&buf, 8000, 1, samples); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}

	b := buf.Bytes()
	last := int16(binary.LittleEndian.Uint16(b[len(b)-2:]))
	if last != 19999 {
		t.Errorf("last sample = %d, want 19999", last)
	}
}

func TestWriteWAV16_BadChannels(t *testing.T) {
	t.Parallel()

	err := WriteWAV16(&bytes.Buffer{}, 8000, 0, nil)
	if !errors.Is(err, ErrUnsupportedWavLayout) {
		t.Errorf("WriteWAV16() error = %v, want ErrUnsupportedWavLayout", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestWriteWAV16_WriteError(t *testing.T) {
	t.Parallel()

	if err := WriteWAV16(failingWriter{}, 8000, 1, []int16{1}); err == nil {
		t.Error("WriteWAV16() error = nil, want write error")
	}
}
