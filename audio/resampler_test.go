// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

// readAll drains r in chunks of size values.
func readAll(t *testing.T, r Source, size int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, size)
	for range 1 << 20 {
		n, err := r.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("source never reached EOF")
	return nil
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(newConstantSource(44100, 2, 1000, 0), 8000)

	if resampler.SampleRate() != 8000 {
		t.Errorf("Resampler.SampleRate() = %d, want 8000", resampler.SampleRate())
	}
	if resampler.Channels() != 2 {
		t.Errorf("Resampler.Channels() = %d, want 2", resampler.Channels())
	}
	if got, want := resampler.BaseRatio(), 44100.0/8000.0; got != want {
		t.Errorf("Resampler.BaseRatio() = %v, want %v", got, want)
	}
}

func TestResampler_SameRateIsIdentity(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(newRampSource(8000, 1, 100), 8000)
	out := readAll(t, resampler, 32)

	// The last source frame is the end point of the last interval.
	if len(out) != 99 {
		t.Fatalf("len = %d, want 99", len(out))
	}
	for i, v := range out {
		if v != float32(i) {
			t.Fatalf("out[%d] = %v, want %d", i, v, i)
		}
	}
}

func TestResampler_OutputLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		srcRate int
		dstRate int
		frames  int
		want    int
	}{
		{"downsample 44.1k to 8k", 44100, 8000, 44100, 8000},
		{"upsample 8k to 16k", 8000, 16000, 8000, 16000},
		{"44.1k to 48k", 44100, 48000, 44100, 48000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resampler := NewResampler(newSineSource(tt.srcRate, 1, tt.frames, 440), tt.dstRate)
			got := len(readAll(t, resampler, 4096))

			if math.Abs(float64(got-tt.want)) > 2 {
				t.Errorf("output frames = %d, want %d±2", got, tt.want)
			}
		})
	}
}

func TestResampler_ConstantPreserved(t *testing.T) {
	t.Parallel()

	for _, dst := range []int{22050, 48000} {
		resampler := NewResampler(newConstantSource(44100, 2, 2000, 0.5), dst)
		for i, v := range readAll(t, resampler, 512) {
			if math.Abs(float64(v-0.5)) > 1e-6 {
				t.Fatalf("rate %d: out[%d] = %v, want 0.5", dst, i, v)
			}
		}
	}
}

func TestResampler_SetRatio(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(newRampSource(8000, 1, 100), 8000)
	resampler.SetRatio(2)

	if got := len(readAll(t, resampler, 16)); got != 50 {
		t.Errorf("output frames at double speed = %d, want 50", got)
	}

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		resampler.SetRatio(bad)
		if resampler.Ratio() != 2 {
			t.Errorf("SetRatio(%v) changed ratio to %v", bad, resampler.Ratio())
		}
	}
}

func TestResampler_Starvation(t *testing.T) {
	t.Parallel()

	src := &gatedSource{mockSource: newRampSource(8000, 1, 10)}
	resampler := NewResampler(src, 8000)
	buf := make([]float32, 3)

	n, err := resampler.ReadSamples(buf)
	if n != 0 || err != nil {
		t.Fatalf("ReadSamples() on a dry source = %d, %v, want 0, nil", n, err)
	}

	src.open = true
	n, err = resampler.ReadSamples(buf)
	if n != 3 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v, want 3, nil", n, err)
	}
	if buf[0] != 0 || buf[1] != 1 || buf[2] != 2 {
		t.Errorf("buf = %v, want [0 1 2]", buf)
	}

	src.open = false
	if n, err := resampler.ReadSamples(buf); n != 0 || err != nil {
		t.Fatalf("ReadSamples() after running dry = %d, %v, want 0, nil", n, err)
	}

	// Playback resumes exactly where it stalled.
	src.open = true
	n, _ = resampler.ReadSamples(buf[:2])
	if n != 2 || buf[0] != 3 || buf[1] != 4 {
		t.Errorf("ReadSamples() after refill = %v, want [3 4]", buf[:n])
	}
}

func TestResampler_Reset(t *testing.T) {
	t.Parallel()

	src := newRampSource(8000, 1, 50)
	resampler := NewResampler(src, 8000)

	buf := make([]float32, 10)
	if _, err := resampler.ReadSamples(buf); err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}

	src.generated = 20
	resampler.Reset()

	n, err := resampler.ReadSamples(buf[:1])
	if n != 1 || err != nil {
		t.Fatalf("ReadSamples() after Reset = %d, %v", n, err)
	}
	if buf[0] != 20 {
		t.Errorf("first sample after Reset = %v, want 20", buf[0])
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(newConstantSource(8000, 1, 10, 0.25), 8000)

	n, err := resampler.ReadSamples(make([]float32, 100))
	if n != 9 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v, want 9, io.EOF", n, err)
	}

	n, err = resampler.ReadSamples(make([]float32, 100))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after end = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestResampler_VeryShortSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		frames int
		want   int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
	}

	for _, tt := range tests {
		resampler := NewResampler(newConstantSource(8000, 1, tt.frames, 1), 8000)
		if got := len(readAll(t, resampler, 8)); got != tt.want {
			t.Errorf("%d source frames gave %d output frames, want %d", tt.frames, got, tt.want)
		}
	}
}

func TestResampler_StereoPreserved(t *testing.T) {
	t.Parallel()

	src := newMockSource(44100, 2, 1000, func(_ int, ch int) float32 {
		if ch == 0 {
			return 0.25
		}
		return -0.75
	})

	out := readAll(t, NewResampler(src, 16000), 256)
	for i := 0; i < len(out); i += 2 {
		if math.Abs(float64(out[i]-0.25)) > 1e-6 || math.Abs(float64(out[i+1]+0.75)) > 1e-6 {
			t.Fatalf("frame %d = [%v %v], want [0.25 -0.75]", i/2, out[i], out[i+1])
		}
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	resampler := NewResampler(newConstantSource(8000, 2, 100, 0), 8000)

	if _, err := resampler.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := newConstantSource(8000, 1, 10, 0)
	if err := NewResampler(src, 16000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.closed {
		t.Error("Close() did not close the source")
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	buf := make([]float32, 4096)

	for range b.N {
		r := NewResampler(newSineSource(44100, 2, 44100, 440), 16000)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
