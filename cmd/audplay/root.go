// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audeng/config"
	"github.com/ik5/audeng/internal/logger"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "audplay",
	Short: "Play and inspect audio files",
	Long: `audplay drives the audeng engine from the command line.

Settings come from audeng.yaml, a .env file, AUDENG_* environment
variables and the flags below, in increasing priority.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./audeng.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("driver", "", "output driver (oto, beep, portaudio, null)")
	rootCmd.PersistentFlags().Int("rate", 0, "output sample rate")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
}

var flagKeys = map[string]string{
	"driver":     "audio.driver",
	"rate":       "audio.sample_rate",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// loadConfig reads the configuration with the command line on top and
// sets up logging from it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	l := config.NewLoader()
	for name, key := range flagKeys {
		if err := l.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}

	cfg, err := l.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cfg, nil
}
