// SPDX-License-Identifier: EPL-2.0

package audeng

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/backend/dummy"
	"github.com/ik5/audeng/backend/softmix"
	"github.com/ik5/audeng/config"
	"github.com/ik5/audeng/internal/logger"
	"github.com/ik5/audeng/loader"
	"github.com/ik5/audeng/output"
	"github.com/ik5/audeng/vec"
)

// BackendFactory builds the backend of an Engine. resolve maps the engine's
// speaker ids back to speakers; backends that preload streams need it.
type BackendFactory func(resolve audio.SpeakerResolver) (audio.Backend, error)

// Option customizes NewEngine.
type Option func(*Engine)

// WithBackend replaces the backend selected from the configuration.
func WithBackend(f BackendFactory) Option {
	return func(e *Engine) { e.factory = f }
}

// WithLoader sets the loader used by LoadPCM, LoadSound and the stream
// openers. Defaults to a loader with every bundled decoder.
func WithLoader(l *loader.Loader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithLogger sets the logger the engine and its backend derive their
// component loggers from. Defaults to the slog default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.base = l }
}

// Engine owns a backend and a table of the speakers it started.
//
// Lock order: mu, then the speaker table, then anything inside the backend.
// The stream set has its own lock so a stream can be closed while the
// engine is updating.
type Engine struct {
	mu      sync.Mutex
	backend audio.Backend
	loader  *loader.Loader
	base    *slog.Logger
	log     *slog.Logger
	factory BackendFactory
	closed  bool

	table speakerTable

	streamsMu sync.Mutex
	streams   map[*engineStream]struct{}
}

// Stats is a snapshot of the engine.
type Stats struct {
	// Speakers registered with the engine, stopped ones included until the
	// next Update reaps them.
	Speakers int
	// Streams opened through the engine and not closed yet.
	Streams int
	// Channels in use and pool size of the backend.
	Used     int
	Capacity int
	Dummy    bool
}

// NewEngine builds an engine from cfg. A disabled configuration gets the
// dummy backend, and so does a failing output driver; the failure is
// logged, not returned. Only an invalid configuration is an error.
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{streams: make(map[*engineStream]struct{})}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logger.WithComponent(e.base, "audeng")
	if e.loader == nil {
		e.loader = loader.New(nil)
	}
	if e.factory == nil {
		e.factory = configuredBackend(cfg, e.base)
	}

	b, err := e.factory(e.table.resolve)
	if err != nil {
		e.log.Warn("audio backend unavailable, audio disabled", "error", err)
		b = dummy.New()
	}
	e.backend = b

	return e, nil
}

// configuredBackend opens the configured output driver and mixes into it.
// Both log through components of log.
func configuredBackend(cfg *config.Config, log *slog.Logger) BackendFactory {
	return func(resolve audio.SpeakerResolver) (audio.Backend, error) {
		a := cfg.Audio
		if !a.Enabled {
			return dummy.New(), nil
		}

		sink, err := output.Open(a.Driver, output.Options{
			SampleRate: a.SampleRate,
			Buffer:     a.Buffer,
			Gain:       a.OutputGain,
			Logger:     logger.WithComponent(log, "output"),
		})
		if err != nil {
			return nil, err
		}

		b, err := softmix.New(mixerConfig(a),
			softmix.WithOutput(sink),
			softmix.WithResolver(resolve),
			softmix.WithLogger(logger.WithComponent(log, "softmix")),
		)
		if err != nil {
			sink.Close()
			return nil, fmt.Errorf("mixer: %w", err)
		}
		return b, nil
	}
}

func mixerConfig(a config.AudioConfig) softmix.Config {
	return softmix.Config{
		SampleRate:         a.SampleRate,
		MaxSpeakers:        a.MaxSpeakers,
		StreamBuffers:      a.StreamBuffers,
		StreamBufferFrames: a.StreamBufferFrames,
		MasterVolume:       a.MasterVolume,
		DopplerFactor:      a.DopplerFactor,
		SpeedOfSound:       a.SpeedOfSound,
		ReferenceDistance:  a.ReferenceDistance,
		Rolloff:            a.Rolloff,
	}
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closed
}

// Backend returns the backend in use.
func (e *Engine) Backend() audio.Backend { return e.backend }

// IsDummy reports whether audio is disabled.
func (e *Engine) IsDummy() bool { return e.backend.IsDummy() }

func (e *Engine) Stats() Stats {
	used, capacity := e.backend.Speakers()

	e.streamsMu.Lock()
	streams := len(e.streams)
	e.streamsMu.Unlock()

	return Stats{
		Speakers: e.table.len(),
		Streams:  streams,
		Used:     used,
		Capacity: capacity,
		Dummy:    e.backend.IsDummy(),
	}
}

// LoadPCM decodes the file at path. With headerOnly only the format and
// length are read.
func (e *Engine) LoadPCM(path string, headerOnly bool) (*audio.PCM, error) {
	if e.isClosed() {
		return nil, ErrNotInitialized
	}
	return e.loader.LoadPCM(path, headerOnly)
}

// LoadSound decodes path into a Sound.
func (e *Engine) LoadSound(path string, keepPCM bool) (audio.Sound, error) {
	pcm, err := e.LoadPCM(path, false)
	if err != nil {
		return nil, err
	}
	return e.CreateSound(pcm, keepPCM)
}

func (e *Engine) CreateSound(pcm *audio.PCM, keepPCM bool) (audio.Sound, error) {
	if e.isClosed() {
		return nil, ErrNotInitialized
	}
	return e.backend.CreateSound(pcm, keepPCM)
}

// OpenPCMStream opens path for incremental decoding.
func (e *Engine) OpenPCMStream(path string) (audio.PCMStream, error) {
	if e.isClosed() {
		return nil, ErrNotInitialized
	}
	return e.loader.OpenPCMStream(path)
}

// OpenStream opens path as a Stream that Update keeps fed.
func (e *Engine) OpenStream(path string, keepSource bool) (audio.Stream, error) {
	src, err := e.OpenPCMStream(path)
	if err != nil {
		return nil, err
	}

	st, err := e.OpenStreamSource(src, keepSource)
	if err != nil {
		src.Close()
		return nil, err
	}
	return st, nil
}

// OpenStreamSource wraps an already open PCMStream. The returned stream is
// updated by Update until it is closed.
func (e *Engine) OpenStreamSource(src audio.PCMStream, keepSource bool) (audio.Stream, error) {
	if e.isClosed() {
		return nil, ErrNotInitialized
	}

	st, err := e.backend.OpenStream(src, keepSource)
	if err != nil {
		return nil, err
	}
	return e.track(st), nil
}

// SetListener places the listener. lookAt is a point in world space.
func (e *Engine) SetListener(position, velocity, lookAt, up vec.Vec3) {
	e.backend.SetListener(audio.Listener{
		Position: position,
		Velocity: velocity,
		LookAt:   lookAt,
		Up:       up,
	})
}

// Get returns the speaker named by id, or nil when the id is 0, unknown or
// refers to a speaker that was reaped.
func (e *Engine) Get(id audio.SpeakerID) audio.Speaker {
	return e.table.get(id)
}

// Update advances the engine by delta seconds: speakers stopped since the
// last call are released, streams top up their buffers and the backend
// renders. delta <= 0 only releases stopped speakers.
func (e *Engine) Update(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	for _, owned := range e.table.reap() {
		if err := owned.Close(); err != nil {
			e.log.Warn("close stream", "error", err)
		}
	}

	for _, st := range e.liveStreams() {
		st.Update(delta)
	}

	e.backend.Update(delta)
}

// Close stops every speaker, closes the streams the engine opened for
// PlayStreamFile and shuts the backend down. Closing twice is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	for _, ent := range e.table.drain() {
		ent.spk.Stop()
		if ent.owned != nil {
			ent.owned.Close()
		}
	}

	if err := e.backend.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}
