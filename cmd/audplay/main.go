// SPDX-License-Identifier: EPL-2.0

// Command audplay plays, inspects and converts audio files with the audeng
// engine.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
