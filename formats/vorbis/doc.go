// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Samples come out as interleaved float32 at the stream's own rate and
// channel count. Seekable inputs also report their length in frames
// (audio.Lener).
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
package vorbis
