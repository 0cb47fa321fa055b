// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestLoadError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("open asset: %w", &LoadError{Path: "boom.wav", Err: os.ErrNotExist})

	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("errors.As(%v, *LoadError) = false", err)
	}
	if le.Path != "boom.wav" {
		t.Errorf("LoadError.Path = %q, want %q", le.Path, "boom.wav")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("LoadError does not unwrap to its cause")
	}

	want := `load "boom.wav": file does not exist`
	if got := le.Error(); got != want {
		t.Errorf("LoadError.Error() = %q, want %q", got, want)
	}
}

func TestSentinels_Distinct(t *testing.T) {
	t.Parallel()

	errs := []error{ErrInvalidDstSize, ErrInvalidPCM, ErrNotSeekable, ErrSeekOutOfRange, ErrStreamClosed}
	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}
