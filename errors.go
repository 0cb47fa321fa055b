// SPDX-License-Identifier: EPL-2.0

package audeng

import "errors"

// ErrNotInitialized is returned by loaders and constructors before
// Initialize or after Close.
var ErrNotInitialized = errors.New("audio engine not initialized")
