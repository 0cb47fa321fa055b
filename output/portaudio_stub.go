// SPDX-License-Identifier: EPL-2.0

//go:build !portaudio

package output

func init() {
	register("portaudio", func(Options) (Sink, error) {
		return nil, ErrDriverUnavailable
	})
}
