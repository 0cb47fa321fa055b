// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/formats/wav"
	"github.com/ik5/audeng/loader"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output.wav>",
	Short: "Resample an audio file into a 16-bit WAV file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().Int("to-rate", 8000, "target sample rate")
	convertCmd.Flags().Bool("mono", true, "mix down to mono")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	rate, _ := cmd.Flags().GetInt("to-rate")
	mono, _ := cmd.Flags().GetBool("mono")

	src, err := loader.New(nil).OpenSource(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	samples, channels, err := audio.Convert16(src, rate, mono, 4096)
	if err != nil {
		return fmt.Errorf("convert %s: %w", args[0], err)
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := wav.WriteWAV16(f, rate, channels, samples); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", args[1], err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	slog.Info("converted", "input", args[0], "output", args[1], "rate", rate, "channels", channels, "samples", len(samples))
	return nil
}
