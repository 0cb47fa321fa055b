// SPDX-License-Identifier: EPL-2.0

// Package softmix is a software mixing backend. It owns a fixed pool of
// channels, resamples every playing speaker to the output rate (applying
// pitch and Doppler shift), pans and attenuates it relative to the listener
// and writes the stereo mix to an output.Sink.
package softmix

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/output"
	"github.com/ik5/audeng/vec"
)

// chunkFrames bounds the frames rendered per mixing pass.
const chunkFrames = 4096

// Config holds the mixer parameters.
type Config struct {
	SampleRate         int
	MaxSpeakers        int
	StreamBuffers      int
	StreamBufferFrames int
	MasterVolume       float64
	DopplerFactor      float64
	SpeedOfSound       float64
	ReferenceDistance  float64
	Rolloff            float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:         44100,
		MaxSpeakers:        32,
		StreamBuffers:      4,
		StreamBufferFrames: 4096,
		MasterVolume:       1,
		DopplerFactor:      1,
		SpeedOfSound:       343.3,
		ReferenceDistance:  1,
		Rolloff:            1,
	}
}

func (c Config) validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.MaxSpeakers < 1:
		return fmt.Errorf("%w: max speakers %d", ErrInvalidConfig, c.MaxSpeakers)
	case c.StreamBuffers < 1 || c.StreamBufferFrames < 1:
		return fmt.Errorf("%w: stream buffers %dx%d", ErrInvalidConfig, c.StreamBuffers, c.StreamBufferFrames)
	case c.SpeedOfSound <= 0:
		return fmt.Errorf("%w: speed of sound %v", ErrInvalidConfig, c.SpeedOfSound)
	case c.MasterVolume < 0 || c.DopplerFactor < 0 || c.ReferenceDistance < 0 || c.Rolloff < 0:
		return fmt.Errorf("%w: negative gain or factor", ErrInvalidConfig)
	}
	return nil
}

type Option func(*Backend)

// WithOutput sets the sink receiving the mix. The backend closes it on
// Close. Without it the mix is discarded by an output.Null.
func WithOutput(s output.Sink) Option {
	return func(b *Backend) { b.out = s }
}

// WithResolver sets how stream bindings find their speaker. Streams need
// it to preload; without one BindSpeaker only records the id.
func WithResolver(r audio.SpeakerResolver) Option {
	return func(b *Backend) { b.resolve = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.log = l }
}

// Backend implements audio.Backend. All speakers, streams and the listener
// share one mutex, so changes made between two Update calls are all visible
// to the next one.
type Backend struct {
	mu       sync.Mutex
	cfg      Config
	out      output.Sink
	resolve  audio.SpeakerResolver
	log      *slog.Logger
	slots    []*speaker
	seq      uint64
	listener audio.Listener
	frac     float64
	mix      []float32
	scratch  []float32
	closed   bool
}

var (
	_ audio.Backend = (*Backend)(nil)
	_ audio.Arbiter = (*Backend)(nil)
)

func New(cfg Config, opts ...Option) (*Backend, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	b := &Backend{
		cfg:      cfg,
		slots:    make([]*speaker, cfg.MaxSpeakers),
		listener: audio.Listener{LookAt: vec.Forward, Up: vec.Up},
		mix:      make([]float32, chunkFrames*output.Channels),
		scratch:  make([]float32, chunkFrames*output.Channels),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = slog.Default()
	}
	if b.out == nil {
		b.out = output.NewNull(cfg.SampleRate)
	}
	if r := b.out.SampleRate(); r != cfg.SampleRate {
		return nil, fmt.Errorf("%w: output runs at %d Hz, mixer at %d Hz", ErrInvalidConfig, r, cfg.SampleRate)
	}

	return b, nil
}

func (b *Backend) IsDummy() bool { return false }

func (b *Backend) Config() Config { return b.cfg }

func (b *Backend) CreateSound(pcm *audio.PCM, keepPCM bool) (audio.Sound, error) {
	if pcm == nil || pcm.IsHeaderOnly() {
		return nil, ErrNoSampleData
	}

	s := &sound{
		b:        b,
		data:     pcm.Float32(),
		channels: pcm.Channels(),
		rate:     pcm.SampleRate(),
		frames:   pcm.SamplesPerChannel(),
		duration: pcm.Duration(),
	}
	if keepPCM {
		s.pcm = pcm
	}
	return s, nil
}

// OpenStream wraps src. With keepSource the caller receives, through
// Source, a handle sharing src; src is closed once both that handle and the
// stream are closed.
func (b *Backend) OpenStream(src audio.PCMStream, keepSource bool) (audio.Stream, error) {
	if src == nil || !src.IsOpen() {
		return nil, audio.ErrStreamClosed
	}
	if ch := src.Channels(); ch != 1 && ch != 2 {
		return nil, fmt.Errorf("%w: %d channels", audio.ErrInvalidPCM, ch)
	}
	if bits := src.BitsPerSample(); bits != 8 && bits != 16 {
		return nil, fmt.Errorf("%w: %d bits per sample", audio.ErrInvalidPCM, bits)
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", audio.ErrInvalidPCM, src.SampleRate())
	}

	s := &stream{
		b:        b,
		src:      src,
		channels: src.Channels(),
		rate:     src.SampleRate(),
		bits:     src.BitsPerSample(),
		raw:      make([]byte, b.cfg.StreamBufferFrames*audio.FrameSize(src)),
	}
	if keepSource {
		shared := audio.Share(src)
		s.src = shared.Handle()
		s.kept = shared.Handle()
	}
	return s, nil
}

func (b *Backend) SetListener(l audio.Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listener = l
}

// Speakers reports the channels in use and the pool size.
func (b *Backend) Speakers() (used, capacity int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.slots {
		if s != nil {
			used++
		}
	}
	return used, len(b.slots)
}

// Update renders delta seconds of audio. The fractional frame left over is
// carried into the next call.
func (b *Backend) Update(delta float64) {
	if !(delta > 0) || math.IsInf(delta, 0) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	want := delta*float64(b.cfg.SampleRate) + b.frac
	frames := int(want)
	b.frac = want - float64(frames)

	view := newListenerView(b.listener)
	for frames > 0 {
		n := min(frames, chunkFrames)
		b.render(n, view)
		frames -= n
	}
}

// render mixes n frames of every playing speaker and writes them out.
func (b *Backend) render(n int, view listenerView) {
	mix := b.mix[:n*output.Channels]
	clear(mix)

	for _, spk := range b.slots {
		if spk == nil || spk.state != audio.Playing {
			continue
		}
		b.mixSpeaker(spk, mix, n, view)
	}

	master := float32(b.cfg.MasterVolume)
	for i, v := range mix {
		mix[i] = limit(v * master)
	}
	b.out.Write(mix)
}

func (b *Backend) mixSpeaker(spk *speaker, mix []float32, n int, view listenerView) {
	ch := spk.channels
	left, right := view.gains(spk, b.cfg)

	ratio := spk.rs.BaseRatio() * spk.pitch * view.doppler(spk, b.cfg)
	spk.rs.SetRatio(ratio)

	buf := b.scratch[:n*ch]
	got, err := spk.rs.ReadSamples(buf)
	frames := got / ch

	if ch == 1 {
		for i, v := range buf[:frames] {
			mix[i*2] += v * left
			mix[i*2+1] += v * right
		}
	} else {
		for i := range frames {
			mix[i*2] += buf[i*2] * left
			mix[i*2+1] += buf[i*2+1] * right
		}
	}

	if err != nil {
		if !isEOF(err) {
			b.log.Warn("speaker read failed", "error", err)
		}
		spk.finish()
	}
}

// acquire puts spk in a free slot.
func (b *Backend) acquire(spk *speaker) bool {
	for i, s := range b.slots {
		if s == nil {
			b.slots[i] = spk
			spk.slot = i
			b.seq++
			spk.acquired = b.seq
			return true
		}
	}
	return false
}

// Victim picks the channel holder to pre-empt for a request at priority.
func (b *Backend) Victim(priority int) audio.Speaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	var best *speaker
	for _, spk := range b.slots {
		if spk == nil || spk.state == audio.Stopped || spk.priority >= priority {
			continue
		}
		if best == nil || weaker(spk, best) {
			best = spk
		}
	}
	if best == nil {
		return nil
	}
	return best
}

// weaker orders pre-emption candidates.
func weaker(a, b *speaker) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	ap, bp := a.state == audio.Paused, b.state == audio.Paused
	if ap != bp {
		return ap
	}
	return a.acquired < b.acquired
}

func (b *Backend) release(spk *speaker) {
	if spk.slot >= 0 && b.slots[spk.slot] == spk {
		b.slots[spk.slot] = nil
	}
	spk.slot = -1
}

// Close stops every speaker and closes the output.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, spk := range b.slots {
		if spk != nil {
			spk.halt(false)
		}
	}
	if err := b.out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
