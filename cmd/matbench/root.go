// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/presenso/intmat/internal/logger"
)

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:           "matbench",
		Short:         "Benchmark sequential and parallel integer matrix multiplication",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := applyConfigFile(cmd.Flags(), configPath, &cfg); err != nil {
					return err
				}
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			log, err := logger.New(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			return run(cfg, log, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file; explicit flags take precedence")
	bindFlags(cmd.Flags(), &cfg)
	return cmd
}

// applyConfigFile loads path into cfg, then re-applies every flag the user
// set explicitly so the command line wins over the file.
func applyConfigFile(fs *pflag.FlagSet, path string, cfg *Config) error {
	explicit := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if err := loadConfigFile(path, cfg); err != nil {
		return err
	}

	for name, val := range explicit {
		if err := fs.Set(name, val); err != nil {
			return err
		}
	}
	return nil
}
