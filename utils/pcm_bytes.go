// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// DecodePCM converts raw PCM bytes into float32 samples in [-1,1].
// 8-bit data is unsigned, 16-bit data is signed little-endian.
// dst must hold len(src)/(bits/8) values. Returns the number of samples written.
func DecodePCM(dst []float32, src []byte, bits int) int {
	switch bits {
	case 8:
		for i, b := range src {
			dst[i] = (float32(b) - 128) / 128
		}
		return len(src)
	case 16:
		n := len(src) / 2
		for i := range n {
			dst[i] = float32(int16(binary.LittleEndian.Uint16(src[2*i:]))) / 32768
		}
		return n
	}
	return 0
}

// EncodePCM writes float32 samples as 8-bit unsigned or 16-bit signed
// little-endian bytes. dst must hold len(src)*bits/8 bytes.
// Returns the number of bytes written.
func EncodePCM(dst []byte, src []float32, bits int) int {
	switch bits {
	case 8:
		for i, x := range src {
			dst[i] = Float32ToUint8(x)
		}
		return len(src)
	case 16:
		for i, x := range src {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(Float32ToInt16(x)))
		}
		return len(src) * 2
	}
	return 0
}
