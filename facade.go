// SPDX-License-Identifier: EPL-2.0

package audeng

import (
	"sync"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/config"
	"github.com/ik5/audeng/vec"
)

var (
	stdMu sync.RWMutex
	std   *Engine
)

func current() *Engine {
	stdMu.RLock()
	defer stdMu.RUnlock()

	return std
}

// Initialize replaces the default engine with one built from the default
// configuration. With enabled false the engine is silent.
func Initialize(enabled bool) error {
	cfg := config.Default()
	cfg.Audio.Enabled = enabled

	return InitializeWith(*cfg)
}

// InitializeWith replaces the default engine with one built from cfg. A
// previous default engine is closed first.
func InitializeWith(cfg config.Config, opts ...Option) error {
	e, err := NewEngine(&cfg, opts...)
	if err != nil {
		return err
	}

	stdMu.Lock()
	prev := std
	std = e
	stdMu.Unlock()

	if prev != nil {
		return prev.Close()
	}
	return nil
}

// Close shuts the default engine down. Later calls behave as if Initialize
// was never called.
func Close() error {
	stdMu.Lock()
	e := std
	std = nil
	stdMu.Unlock()

	if e == nil {
		return nil
	}
	return e.Close()
}

// Default returns the default engine, or nil before Initialize.
func Default() *Engine { return current() }

func LoadPCM(path string, headerOnly bool) (*audio.PCM, error) {
	e := current()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.LoadPCM(path, headerOnly)
}

func LoadSound(path string, keepPCM bool) (audio.Sound, error) {
	e := current()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.LoadSound(path, keepPCM)
}

func CreateSound(pcm *audio.PCM, keepPCM bool) (audio.Sound, error) {
	e := current()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.CreateSound(pcm, keepPCM)
}

func OpenPCMStream(path string) (audio.PCMStream, error) {
	e := current()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.OpenPCMStream(path)
}

func OpenStream(path string, keepSource bool) (audio.Stream, error) {
	e := current()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.OpenStream(path, keepSource)
}

func OpenStreamSource(src audio.PCMStream, keepSource bool) (audio.Stream, error) {
	e := current()
	if e == nil {
		return nil, ErrNotInitialized
	}
	return e.OpenStreamSource(src, keepSource)
}

func SetListener(position, velocity, lookAt, up vec.Vec3) {
	if e := current(); e != nil {
		e.SetListener(position, velocity, lookAt, up)
	}
}

func Play(sound audio.Sound, opts PlayOptions) audio.SpeakerID {
	if e := current(); e != nil {
		return e.Play(sound, opts)
	}
	return 0
}

func PlayStream(st audio.Stream, opts PlayOptions) audio.SpeakerID {
	if e := current(); e != nil {
		return e.PlayStream(st, opts)
	}
	return 0
}

func PlayStreamFile(path string, opts PlayOptions) audio.SpeakerID {
	if e := current(); e != nil {
		return e.PlayStreamFile(path, opts)
	}
	return 0
}

func Get(id audio.SpeakerID) audio.Speaker {
	if e := current(); e != nil {
		return e.Get(id)
	}
	return nil
}

func Update(delta float64) {
	if e := current(); e != nil {
		e.Update(delta)
	}
}
