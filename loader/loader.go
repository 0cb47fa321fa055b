// SPDX-License-Identifier: EPL-2.0

// Package loader turns audio files into PCM buffers and PCM streams, picking
// the decoder from the file extension.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/formats/aiff"
	"github.com/ik5/audeng/formats/mp3"
	"github.com/ik5/audeng/formats/vorbis"
	"github.com/ik5/audeng/formats/wav"
	"github.com/ik5/audeng/utils"
)

var ErrUnknownFormat = errors.New("unknown audio format")

// chunkFrames is how many frames are decoded per read while loading.
const chunkFrames = 4096

// DefaultRegistry returns a registry with every bundled decoder, keyed by
// file extension.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	return r
}

// Loader opens audio files through a decoder registry.
type Loader struct {
	registry *audio.Registry
}

func New(registry *audio.Registry) *Loader {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Loader{registry: registry}
}

var std = New(nil)

// LoadPCM decodes path with the default registry.
func LoadPCM(path string, headerOnly bool) (*audio.PCM, error) {
	return std.LoadPCM(path, headerOnly)
}

// OpenPCMStream opens path with the default registry.
func OpenPCMStream(path string) (audio.PCMStream, error) {
	return std.OpenPCMStream(path)
}

// Formats lists the extensions the loader can decode.
func (l *Loader) Formats() []string {
	return l.registry.Formats()
}

func (l *Loader) decoderFor(path string) (audio.Decoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	d, ok := l.registry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return d, nil
}

// decoded is an open file with its decoded source, normalized to at most
// two channels.
type decoded struct {
	file *os.File
	src  audio.Source
	bits int
	// frames is the decoded length, 0 when unknown.
	frames int64
}

func (d *decoded) Close() error {
	d.src.Close()
	return d.file.Close()
}

func (l *Loader) open(path string) (*decoded, error) {
	dec, err := l.decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w", err)
	}
	if src.Channels() < 1 || src.SampleRate() <= 0 {
		src.Close()
		f.Close()
		return nil, fmt.Errorf("%w: %d channels at %d Hz", audio.ErrInvalidPCM, src.Channels(), src.SampleRate())
	}

	d := &decoded{file: f, src: src, bits: 16}
	if bd, ok := src.(audio.BitDepther); ok && bd.BitDepth() == 8 {
		d.bits = 8
	}
	if le, ok := src.(audio.Lener); ok {
		d.frames = le.Len()
	}
	if src.Channels() > 2 {
		d.src = audio.NewMonoMixer(src)
	}

	return d, nil
}

// LoadPCM decodes the whole file into memory. With headerOnly set only the
// format and length are read; the returned PCM has no data. Files are
// always seekable.
func (l *Loader) LoadPCM(path string, headerOnly bool) (*audio.PCM, error) {
	d, err := l.open(path)
	if err != nil {
		return nil, &audio.LoadError{Path: path, Err: err}
	}
	defer d.Close()

	channels := d.src.Channels()
	rate := d.src.SampleRate()

	if headerOnly && d.frames > 0 {
		pcm, err := audio.NewPCM(nil, int(d.frames)*channels, channels, d.bits, rate, true)
		if err != nil {
			return nil, &audio.LoadError{Path: path, Err: err}
		}
		return pcm, nil
	}

	data, samples, err := decodeAll(d.src, d.bits, headerOnly)
	if err != nil {
		return nil, &audio.LoadError{Path: path, Err: err}
	}
	if headerOnly {
		data = nil
	}

	pcm, err := audio.NewPCM(data, samples, channels, d.bits, rate, true)
	if err != nil {
		return nil, &audio.LoadError{Path: path, Err: err}
	}
	return pcm, nil
}

// decodeAll reads src to the end. When countOnly is set the samples are
// counted but not kept.
func decodeAll(src audio.Source, bits int, countOnly bool) ([]byte, int, error) {
	channels := src.Channels()
	buf := make([]float32, chunkFrames*channels)
	out := []byte{}
	total := 0

	for {
		n, err := src.ReadSamples(buf)
		n -= n % channels
		total += n

		if !countOnly && n > 0 {
			chunk := make([]byte, n*bits/8)
			utils.EncodePCM(chunk, buf[:n], bits)
			out = append(out, chunk...)
		}

		if errors.Is(err, io.EOF) {
			return out, total, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode: %w", err)
		}
		if n == 0 {
			return out, total, nil
		}
	}
}

// sourceFile closes the file together with its decoder.
type sourceFile struct {
	audio.Source
	d *decoded
}

func (s sourceFile) Close() error { return s.d.Close() }

// OpenSource opens path for sample-level reading. Sources with more than
// two channels are mixed down to mono.
func (l *Loader) OpenSource(path string) (audio.Source, error) {
	d, err := l.open(path)
	if err != nil {
		return nil, &audio.LoadError{Path: path, Err: err}
	}
	return sourceFile{Source: d.src, d: d}, nil
}
