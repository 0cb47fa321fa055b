// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audeng"
	"github.com/ik5/audeng/audio"
	"github.com/ik5/audeng/vec"
)

const tick = 20 * time.Millisecond

var playCmd = &cobra.Command{
	Use:   "play <file>",
	Short: "Play an audio file until it ends",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().Bool("stream", false, "stream the file instead of decoding it up front")
	playCmd.Flags().Bool("loop", false, "loop until interrupted")
	playCmd.Flags().Float64("volume", 1, "speaker volume")
	playCmd.Flags().Float64("pitch", 1, "pitch multiplier")
	playCmd.Flags().Float32Slice("pos", []float32{0, 0, 0}, "source position x,y,z relative to the listener")
	rootCmd.AddCommand(playCmd)
}

var errPlayFailed = errors.New("no channel available")

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	e, err := audeng.NewEngine(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.IsDummy() {
		slog.Warn("audio output disabled, nothing will be heard")
	}

	opts := audeng.DefaultPlayOptions()
	opts.Relative = true
	opts.Loop, _ = cmd.Flags().GetBool("loop")
	opts.Volume, _ = cmd.Flags().GetFloat64("volume")
	opts.Pitch, _ = cmd.Flags().GetFloat64("pitch")
	if pos, _ := cmd.Flags().GetFloat32Slice("pos"); len(pos) == 3 {
		opts.Position = vec.Vec3{X: pos[0], Y: pos[1], Z: pos[2]}
	}

	var id audio.SpeakerID
	if stream, _ := cmd.Flags().GetBool("stream"); stream {
		id = e.PlayStreamFile(args[0], opts)
	} else {
		snd, err := e.LoadSound(args[0], false)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %.3fs\n", args[0], snd.Duration())
		id = e.Play(snd, opts)
	}
	if id == 0 {
		if e.IsDummy() {
			return nil
		}
		return fmt.Errorf("play %s: %w", args[0], errPlayFailed)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return loop(ctx, e, id)
}

// loop drives the engine until the speaker is released or ctx ends.
func loop(ctx context.Context, e *audeng.Engine, id audio.SpeakerID) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted")
			return nil
		case now := <-ticker.C:
			e.Update(now.Sub(last).Seconds())
			last = now
		}

		if e.Get(id) == nil {
			return nil
		}
	}
}
