// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audeng/loader"
	"github.com/ik5/audeng/output"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Print the format and length of audio files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, path := range args {
			pcm, err := loader.LoadPCM(path, true)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %d Hz, %d ch, %d bit, %.3fs\n",
				path, pcm.SampleRate(), pcm.Channels(), pcm.BitsPerSample(), pcm.Duration())
		}
		return nil
	},
}

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List output drivers and decodable formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "drivers: %s\n", strings.Join(output.Drivers(), ", "))
		fmt.Fprintf(w, "formats: %s\n", strings.Join(loader.New(nil).Formats(), ", "))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd, driversCmd)
}
