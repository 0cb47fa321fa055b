// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audeng/formats/wav"
)

// WriteWAV16 stores samples as a 16-bit WAV file in a temporary directory
// and returns its path.
func WriteWAV16(t testing.TB, name string, rate, channels int, samples []int16) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := wav.WriteWAV16(f, rate, channels, samples); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteWAV8 stores unsigned 8-bit samples as a WAV file and returns its path.
func WriteWAV8(t testing.TB, name string, rate, channels int, samples []uint8) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if err := wav.WriteWAV8(f, rate, channels, samples); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Tone16 returns frames of a constant mono 16-bit value.
func Tone16(frames int, value int16) []int16 {
	s := make([]int16, frames)
	for i := range s {
		s[i] = value
	}
	return s
}
