// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/siemens/hostdig/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath      *string
	lanes           *int
	delay           *time.Duration
	outputDir       *string
	rateLimit       *float64
	spinnerInterval *time.Duration
	noProgress      *bool
	debug           *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "hostdig [flags] [hostname...]",
		Short: "hostdig diagnoses monitored hosts: uptime probe, DNS records and HTTP redirects",
		Long: `hostdig diagnoses the hosts monitored by the uptime monitoring service:
for each host it runs a single uptime probe, inspects its A, CNAME and NS
records, and traces its HTTP redirect chain. The results are written to a CSV
report named after the current UTC time.

The API credential is taken from the ` + config.CredentialEnv + ` environment variable.
Without any hostname arguments, hostdig prompts for a comma-separated list.`,
		Version: "0.9",
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			cfg, err := configuration(cmd)
			if err != nil {
				return err
			}
			hostnames := args
			if len(hostnames) == 0 {
				hostnames, err = promptHostnames(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}
			_, err = DiagnoseAndReport(context.Background(), runOptions{
				cfg:        cfg,
				credential: os.Getenv(config.CredentialEnv),
				hostnames:  hostnames,
				progress:   !*noProgress,
				spinner:    *spinnerInterval,
				out:        cmd.OutOrStdout(),
			})
			return err
		},
	}
	// Sets up the flags.
	configPath = rootCmd.PersistentFlags().String(
		"config", "", "TOML configuration file")
	lanes = rootCmd.PersistentFlags().Int(
		"lanes", 16, "number of parallel lanes")
	delay = rootCmd.PersistentFlags().Duration(
		"delay", 2*time.Second, "pause between diagnostics in the same lane")
	outputDir = rootCmd.PersistentFlags().String(
		"output-dir", ".", "directory to write the report to")
	rateLimit = rootCmd.PersistentFlags().Float64(
		"rate", 0, "maximum probe calls per second across all lanes (0 is unlimited)")
	spinnerInterval = rootCmd.PersistentFlags().Duration(
		"spinner", 100*time.Millisecond, "spinner interval")
	noProgress = rootCmd.PersistentFlags().Bool(
		"no-progress", false, "don't show live progress")
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	return
}

// configuration returns the defaults, overridden by the optional configuration
// file, in turn overridden by explicitly set flags.
func configuration(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("lanes") {
		cfg.Lanes = *lanes
	}
	if flags.Changed("delay") {
		cfg.Delay = config.Duration(*delay)
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = *outputDir
	}
	if flags.Changed("rate") {
		cfg.Probe.Rate = *rateLimit
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
