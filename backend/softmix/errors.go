// SPDX-License-Identifier: EPL-2.0

package softmix

import (
	"errors"

	"github.com/ik5/audeng/audio"
)

var (
	ErrInvalidConfig = errors.New("invalid mixer config")
	ErrNoSampleData  = audio.ErrNoSampleData
)
