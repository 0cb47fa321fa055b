// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WriteWAV16 writes interleaved 16-bit PCM samples as a canonical 44-byte
// header WAV file.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	}

	numChannels := uint16(channels)
	const bitsPerSample = 16
	blockAlign := numChannels * bitsPerSample / 8
	byteRate := uint32(sampleRate) * uint32(blockAlign)
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	const chunkSize = 8192
	buf := make([]byte, min(len(samples), chunkSize)*2)

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		b := buf[:len(chunk)*2]
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(b[j*2:], uint16(s))
		}
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// WriteWAV8 writes interleaved unsigned 8-bit PCM samples.
func WriteWAV8(w io.Writer, sampleRate, channels int, samples []uint8) error {
	if channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	}

	header := make([]byte, 44)
	dataSize := uint32(len(samples))
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*channels))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels))
	binary.LittleEndian.PutUint16(header[34:36], 8)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}
	if _, err := w.Write(samples); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
