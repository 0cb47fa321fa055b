// SPDX-License-Identifier: EPL-2.0

package dummy

import (
	"errors"
	"testing"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/internal/audiotest"
)

func TestBackend(t *testing.T) {
	t.Parallel()

	b := New()
	if !b.IsDummy() {
		t.Error("IsDummy() = false")
	}
	if used, capacity := b.Speakers(); used != 0 || capacity != 0 {
		t.Errorf("Speakers() = %d, %d, want 0, 0", used, capacity)
	}

	b.SetListener(audio.Listener{})
	b.Update(1)

	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSound(t *testing.T) {
	t.Parallel()

	pcm, err := audio.NewPCM(make([]byte, 44100*2), 44100, 1, 16, 44100, true)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		keepPCM bool
		want    *audio.PCM
	}{
		{"keep", true, pcm},
		{"drop", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snd, err := New().CreateSound(pcm, tt.keepPCM)
			if err != nil {
				t.Fatalf("CreateSound() error = %v", err)
			}
			if got := snd.Duration(); got != 1 {
				t.Errorf("Duration() = %v, want 1", got)
			}
			if got := snd.PCM(); got != tt.want {
				t.Errorf("PCM() = %p, want %p", got, tt.want)
			}
			if spk := snd.NewInstance(audio.PriorityHigh); spk != nil {
				t.Errorf("NewInstance() = %v, want nil", spk)
			}
		})
	}
}

func TestSound_NoSampleData(t *testing.T) {
	t.Parallel()

	header, err := audio.NewPCM(nil, 44100, 1, 16, 44100, false)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		pcm  *audio.PCM
	}{
		{"nil", nil},
		{"header only", header},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snd, err := New().CreateSound(tt.pcm, true)
			if !errors.Is(err, audio.ErrNoSampleData) {
				t.Errorf("CreateSound() error = %v, want ErrNoSampleData", err)
			}
			if snd != nil {
				t.Errorf("CreateSound() = %v, want nil", snd)
			}
		})
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	src := audiotest.NewPCMStream(audiotest.Ramp16(1000), 1, 16, 1000, true)
	st, err := New().OpenStream(src, false)
	if err != nil {
		t.Fatalf("OpenStream() error = %v", err)
	}

	if spk := st.CreateSpeaker(true); spk != nil {
		t.Errorf("CreateSpeaker() = %v, want nil", spk)
	}
	if st.Source() != nil {
		t.Error("Source() kept without keepSource")
	}

	st.BindSpeaker(7)
	if got := st.Speaker(); got != 7 {
		t.Errorf("Speaker() = %d, want 7", got)
	}

	st.Update(1)
	if src.Reads != 0 {
		t.Errorf("Update read %d times, want 0", src.Reads)
	}

	if err := st.SetTime(0.5); err != nil {
		t.Errorf("SetTime() error = %v", err)
	}
	if got := src.Pos(); got != 1000 {
		t.Errorf("source position = %d, want 1000", got)
	}
	if err := st.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}

	st.Close()
	st.Close()
	if src.Closes != 1 {
		t.Errorf("source closes = %d, want 1", src.Closes)
	}
	if err := st.SetTime(0); !errors.Is(err, audio.ErrStreamClosed) {
		t.Errorf("SetTime() after Close error = %v, want ErrStreamClosed", err)
	}
}

func TestStream_NotSeekable(t *testing.T) {
	t.Parallel()

	src := audiotest.NewPCMStream(audiotest.Ramp16(10), 1, 16, 1000, false)
	st, err := New().OpenStream(src, true)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if err := st.SetTime(0); !errors.Is(err, audio.ErrNotSeekable) {
		t.Errorf("SetTime() error = %v, want ErrNotSeekable", err)
	}
	if st.Source() == nil {
		t.Error("Source() = nil with keepSource")
	}
}
