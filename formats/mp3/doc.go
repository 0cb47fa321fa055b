// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer 3 files with github.com/hajimehoshi/go-mp3.
//
// The decoder always yields 16-bit stereo at the file's sample rate. When
// the input is an io.Seeker the source also reports its length in frames
// (audio.Lener); otherwise the length is unknown and reported as 0.
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
package mp3
