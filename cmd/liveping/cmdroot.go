// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/siemens/liveping/reply"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thediveo/lxkns/log"
)

// config holds the effective settings after merging command line flags,
// environment variables, and an optional configuration file.
type config struct {
	Verbose      bool          `mapstructure:"verbose"`
	Debug        bool          `mapstructure:"debug"`
	Quiet        bool          `mapstructure:"quiet"`
	Count        uint          `mapstructure:"count"`
	Deadline     time.Duration `mapstructure:"deadline"`
	Width        int           `mapstructure:"width"`
	Height       int           `mapstructure:"height"`
	Fit          bool          `mapstructure:"fit"`
	Native       bool          `mapstructure:"native"`
	Unprivileged bool          `mapstructure:"unprivileged"`
	Interval     time.Duration `mapstructure:"interval"`
	Command      string        `mapstructure:"command"`
	SeqToken     string        `mapstructure:"seq-token"`
	InPlace      bool          `mapstructure:"inplace"`
	Resolve      bool          `mapstructure:"resolve"`
	Resolver     string        `mapstructure:"resolver"`
}

const (
	maxWidth  = 1000
	maxHeight = 1000
)

func newRootCmd() (rootCmd *cobra.Command) {
	v := viper.New()
	cfg := &config{}
	var configFile string

	rootCmd = &cobra.Command{
		Use:   "liveping [flags] host",
		Short: "liveping pings a host and live-charts the round-trip times of its replies",
		Long: `liveping pings a host and live-charts the round-trip times of its replies.
It additionally reports skipped and out-of-order replies.

All flags can also be set in a YAML configuration file "liveping.yaml" in the
current directory or in /etc/liveping/, as well as using LIVEPING_<FLAG>
environment variables, such as LIVEPING_SEQ_TOKEN=icmp_seq.`,
		Version:      "0.9",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v, cmd, configFile, cfg); err != nil {
				return err
			}
			if cfg.Width < 1 || cfg.Width > maxWidth {
				return fmt.Errorf("--width out of range [1..%d]", maxWidth)
			}
			if cfg.Height < 1 || cfg.Height > maxHeight {
				return fmt.Errorf("--height out of range [1..%d]", maxHeight)
			}
			if cfg.Deadline < 0 {
				return fmt.Errorf("--deadline must not be negative")
			}
			if cfg.Interval < 10*time.Millisecond {
				return fmt.Errorf("--interval must be at least 10ms")
			}
			if cfg.Command == "" {
				return fmt.Errorf("--command must not be empty")
			}
			if strings.ContainsAny(cfg.SeqToken, " =\t") {
				return fmt.Errorf("--seq-token must not contain whitespace or '='")
			}
			if cfg.Quiet && (cfg.Verbose || cfg.Debug) {
				return fmt.Errorf("--quiet cannot be combined with --verbose or --debug")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Debug || cfg.Verbose {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return PingAndChart(ctx, args[0], cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	// Sets up the flags.
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML configuration file")
	flags.BoolP("verbose", "v", false, "verbose output, same as --debug")
	flags.Bool("debug", false, "enable debugging output")
	flags.BoolP("quiet", "q", false, "do not report skipped and out-of-order replies")
	flags.UintP("count", "c", 0, "stop after sending count pings (0 = don't stop)")
	flags.VarP(newDurationFlag(0), "deadline", "w",
		"stop after the deadline has passed, in seconds or such as 1m30s (0 = no deadline)")
	flags.Int("width", 80, "chart width in characters")
	flags.Int("height", 34, "chart height in lines")
	flags.Bool("fit", false, "fit the chart to the terminal size")
	flags.Bool("native", false, "ping from inside liveping instead of running the ping command")
	flags.Bool("unprivileged", false, "use unprivileged UDP pings with --native")
	flags.Var(newDurationFlag(time.Second), "interval",
		"interval between pings with --native, in seconds or such as 200ms")
	flags.String("command", "ping", "ping command to run")
	flags.String("seq-token", "", "additional sequence number token in replies, such as icmp_seq")
	flags.Bool("inplace", false, "update the chart in place instead of clearing the screen")
	flags.Bool("resolve", false, "resolve the host's DNS name before pinging")
	flags.String("resolver", "", "DNS server address to resolve with, defaults to /etc/resolv.conf")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "debug")
	return
}

// loadConfig merges the command line flags with the environment and an
// optional configuration file, and then decodes the result into cfg.
func loadConfig(v *viper.Viper, cmd *cobra.Command, configFile string, cfg *config) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("cannot bind flags: %w", err)
	}
	v.SetEnvPrefix("liveping")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("liveping")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/liveping/")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("cannot read configuration: %w", err)
		}
	} else {
		log.Debugf("using configuration file %s", v.ConfigFileUsed())
	}
	if err := v.Unmarshal(cfg, viper.DecodeHook(decodeHook)); err != nil {
		return fmt.Errorf("cannot decode configuration: %w", err)
	}
	return nil
}

// parserOptions returns the reply parser options for the specified
// configuration.
func parserOptions(cfg *config) []reply.ParserOption {
	if cfg.SeqToken == "" {
		return nil
	}
	return []reply.ParserOption{reply.WithSeqToken(cfg.SeqToken)}
}
