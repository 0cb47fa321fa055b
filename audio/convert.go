// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audeng/utils"
)

// Convert16 resamples src to targetRate, folds it to mono when mono is set,
// and collects every sample as interleaved 16-bit PCM. It returns the
// samples and the output channel count.
//
// bufferSize is the number of float32 values read per iteration.
//
//	src, _ := decoder.Decode(file)
//	pcm16, channels, err := audio.Convert16(src, 8000, true, 4096)
func Convert16(src Source, targetRate int, mono bool, bufferSize int) ([]int16, int, error) {
	var s Source = NewResampler(src, targetRate)
	if mono {
		s = NewMonoMixer(s)
	}

	channels := s.Channels()
	bufferSize -= bufferSize % channels
	if bufferSize <= 0 {
		bufferSize = 4096 * channels
	}
	buf := make([]float32, bufferSize)

	var pcm16 []int16
	for {
		n, err := s.ReadSamples(buf)
		for _, v := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(v))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, channels, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// file-backed sources never starve; an empty read is the end
			break
		}
	}

	return pcm16, channels, nil
}
