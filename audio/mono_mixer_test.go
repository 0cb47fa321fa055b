// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestMonoMixer_Downmix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		want     float32
	}{
		{"mono passthrough", 1, 0},
		{"stereo", 2, 0.05},
		{"quad", 4, 0.15},
		{"5 channels", 5, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// channel c carries c/10
			src := newMockSource(8000, tt.channels, 100, func(_ int, ch int) float32 {
				return float32(ch) / 10
			})
			mixer := NewMonoMixer(src)

			if mixer.Channels() != 1 {
				t.Errorf("MonoMixer.Channels() = %d, want 1", mixer.Channels())
			}

			buf := make([]float32, 10)
			n, err := mixer.ReadSamples(buf)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != 10 {
				t.Fatalf("ReadSamples() n = %d, want 10", n)
			}
			for i := range n {
				if math.Abs(float64(buf[i]-tt.want)) > 1e-6 {
					t.Errorf("buf[%d] = %v, want %v", i, buf[i], tt.want)
				}
			}
		})
	}
}

func TestMonoMixer_EOF(t *testing.T) {
	t.Parallel()

	mixer := NewMonoMixer(newConstantSource(8000, 2, 5, 0))

	n, err := mixer.ReadSamples(make([]float32, 10))
	if n != 5 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want 5, io.EOF", n, err)
	}

	n, err = mixer.ReadSamples(make([]float32, 10))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after end = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestMonoMixer_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := NewMonoMixer(newConstantSource(8000, 2, 5, 0)).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestMonoMixer_LargeBuffer(t *testing.T) {
	t.Parallel()

	// Larger than the initial scratch buffer.
	mixer := NewMonoMixer(newConstantSource(8000, 2, 20000, 0.5))

	n, err := mixer.ReadSamples(make([]float32, 10000))
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 10000 {
		t.Errorf("ReadSamples() n = %d, want 10000", n)
	}
}

func TestMonoMixer_PreservesMetadata(t *testing.T) {
	t.Parallel()

	src := newConstantSource(22050, 2, 5, 0)
	mixer := NewMonoMixer(src)

	if mixer.SampleRate() != 22050 {
		t.Errorf("SampleRate() = %d, want 22050", mixer.SampleRate())
	}
	if err := mixer.Close(); err != nil || !src.closed {
		t.Errorf("Close() = %v, source closed = %v", err, src.closed)
	}
}

func BenchmarkMonoMixer_StereoToMono(b *testing.B) {
	buf := make([]float32, 4096)
	mixer := NewMonoMixer(newSineSource(44100, 2, math.MaxInt32, 440))

	b.ResetTimer()
	for range b.N {
		_, _ = mixer.ReadSamples(buf)
	}
}
