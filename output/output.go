// SPDX-License-Identifier: EPL-2.0

// Package output delivers the mixed stereo signal to an audio device.
//
// A Sink accepts interleaved stereo float32 samples in [-1,1] at its sample
// rate. Device drivers buffer them in a Ring that the device callback drains
// from its own goroutine.
package output

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Channels is the channel count of every sink.
const Channels = 2

var (
	ErrUnknownDriver     = errors.New("unknown output driver")
	ErrDriverUnavailable = errors.New("output driver not available in this build")
	ErrInvalidOptions    = errors.New("invalid output options")
)

// Sink consumes the mixer output.
type Sink interface {
	// Write queues interleaved stereo samples. It must not block.
	Write(samples []float32)
	SampleRate() int
	Close() error
}

// Options configure a driver.
type Options struct {
	SampleRate int
	// Buffer is the amount of audio the ring holds.
	Buffer time.Duration
	// Gain is the device level applied by the driver, 1 is unity.
	Gain   float64
	Logger *slog.Logger
}

func (o Options) validate() error {
	if o.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidOptions, o.SampleRate)
	}
	if o.Buffer <= 0 {
		return fmt.Errorf("%w: buffer %v", ErrInvalidOptions, o.Buffer)
	}
	if o.Gain < 0 {
		return fmt.Errorf("%w: gain %v", ErrInvalidOptions, o.Gain)
	}
	return nil
}

// ringSamples is the sample capacity of a ring holding o.Buffer of audio.
func (o Options) ringSamples() int {
	frames := int(o.Buffer.Seconds() * float64(o.SampleRate))
	return max(frames, 1) * Channels
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

type openFunc func(Options) (Sink, error)

var (
	driversMu sync.RWMutex
	drivers   = map[string]openFunc{
		"null": func(o Options) (Sink, error) { return NewNull(o.SampleRate), nil },
	}
)

func register(name string, fn openFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()

	drivers[name] = fn
}

// Drivers lists the registered driver names, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open starts the named driver.
func Open(driver string, opts Options) (Sink, error) {
	driversMu.RLock()
	open, ok := drivers[driver]
	driversMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	sink, err := open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	log := opts.logger().With("driver", driver)
	log.Info("output started", "sample_rate", opts.SampleRate, "buffer", opts.Buffer)
	return &loggedSink{Sink: sink, log: log}, nil
}

type loggedSink struct {
	Sink
	log *slog.Logger
}

func (s *loggedSink) Close() error {
	err := s.Sink.Close()
	if err != nil {
		s.log.Warn("output stopped", "error", err)
		return err
	}
	s.log.Info("output stopped")
	return nil
}
