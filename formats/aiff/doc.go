// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files through
// github.com/go-audio/aiff.
//
// 8-bit and 16-bit PCM with any channel count and sample rate is supported.
// The source reports its length from the COMM chunk (audio.Lener) and its
// encoded bit depth (audio.BitDepther).
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
package aiff
