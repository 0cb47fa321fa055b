// SPDX-License-Identifier: EPL-2.0

// Package wav decodes uncompressed PCM WAV files through go-audio/wav and
// writes canonical WAV files.
//
// 8-bit and 16-bit files with one or more channels are supported. The
// decoded source reports its length in frames (audio.Lener) and its encoded
// bit depth (audio.BitDepther), so loaders can keep 8-bit data 8-bit.
//
//	src, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, 4096)
//	n, err := src.ReadSamples(buf)
//
// WriteWAV16 and WriteWAV8 produce files with the 44-byte header layout:
//
//	err := wav.WriteWAV16(out, 44100, 2, samples)
package wav
