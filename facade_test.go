// SPDX-License-Identifier: EPL-2.0

package audeng

import (
	"errors"
	"testing"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/internal/audiotest"
	"github.com/ik5/audeng/internal/logger"
	"github.com/ik5/audeng/vec"
)

// Facade tests share the default engine and must not run in parallel.

func TestFacade_NotInitialized(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := LoadPCM("a.wav", false); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LoadPCM() error = %v, want ErrNotInitialized", err)
	}
	if _, err := LoadSound("a.wav", false); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("LoadSound() error = %v, want ErrNotInitialized", err)
	}
	if _, err := OpenStream("a.wav", false); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("OpenStream() error = %v, want ErrNotInitialized", err)
	}
	if _, err := OpenStreamSource(audiotest.NewPCMStream(nil, 1, 16, 1000, true), false); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("OpenStreamSource() error = %v, want ErrNotInitialized", err)
	}
	if got := PlayStreamFile("a.wav", DefaultPlayOptions()); got != 0 {
		t.Errorf("PlayStreamFile() = %d, want 0", got)
	}
	if got := Get(1); got != nil {
		t.Errorf("Get() = %v, want nil", got)
	}

	SetListener(vec.Vec3{}, vec.Vec3{}, vec.Forward, vec.Up)
	Update(0.1)
}

func TestFacade_Lifecycle(t *testing.T) {
	if err := InitializeWith(*testConfig(4), WithLogger(logger.Discard())); err != nil {
		t.Fatalf("InitializeWith() error = %v", err)
	}
	t.Cleanup(func() { Close() })

	path := audiotest.WriteWAV16(t, "blip.wav", testRate, 1, audiotest.Tone16(200, 2000))

	pcm, err := LoadPCM(path, true)
	if err != nil {
		t.Fatalf("LoadPCM(headerOnly) error = %v", err)
	}
	if pcm.Data() != nil || pcm.TotalSamples() != 200 {
		t.Errorf("header-only PCM = %d samples, data %v; want 200 samples, no data", pcm.TotalSamples(), pcm.Data() != nil)
	}

	snd, err := LoadSound(path, false)
	if err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}

	SetListener(vec.Vec3{}, vec.Vec3{}, vec.Forward, vec.Up)
	opts := DefaultPlayOptions()
	opts.Position = vec.Vec3{X: 2}
	id := Play(snd, opts)
	if id == 0 {
		t.Fatal("Play() = 0")
	}
	if got := Get(id).Position(); got != opts.Position {
		t.Errorf("Position() = %v, want %v", got, opts.Position)
	}

	Update(0.5)
	if got := Get(id).State(); got != audio.Stopped {
		t.Errorf("State() = %v, want stopped", got)
	}
	Update(0)
	if Get(id) != nil {
		t.Error("Get() after reap != nil")
	}

	prev := Default()
	if err := Initialize(false); err != nil {
		t.Fatalf("Initialize(false) error = %v", err)
	}
	if got := prev.Play(snd, DefaultPlayOptions()); got != 0 {
		t.Errorf("replaced engine Play() = %d, want 0", got)
	}
	if !Default().IsDummy() {
		t.Error("Initialize(false) engine is not dummy")
	}
}
