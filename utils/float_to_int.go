// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 scales x by 32768 and saturates to the int16 range. It is
// the inverse of the /32768 scaling DecodePCM uses, so 16-bit samples
// survive a decode/encode round trip unchanged.
func Float32ToInt16(x float32) int16 {
	v := x * 32768.0
	if v >= 32767 {
		return 32767
	}
	if v <= -32768 {
		return -32768
	}
	return int16(v)
}

// Float32ToUint8 maps [-1,1] onto unsigned 8-bit PCM where 128 is silence.
func Float32ToUint8(x float32) uint8 {
	v := 128 + x*128
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}
