// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/presenso/intmat/imat/contrib/matmul"
	"github.com/presenso/intmat/internal/logger"
)

// Config describes one benchmark run.
type Config struct {
	Rows    int           `yaml:"rows"`    // rows of the left operand
	Inner   int           `yaml:"inner"`   // columns of left, rows of right
	Cols    int           `yaml:"cols"`    // columns of the right operand
	Loads   []int         `yaml:"loads"`   // LoadPerWorker values to try
	Workers int           `yaml:"workers"` // pool size, 0 = GOMAXPROCS
	Seed    uint64        `yaml:"seed"`
	Repeat  int           `yaml:"repeat"` // runs per strategy, best time wins
	Log     logger.Config `yaml:"log"`
}

func defaultConfig() Config {
	return Config{
		Rows:   256,
		Inner:  256,
		Cols:   256,
		Loads:  []int{matmul.DefaultLoadPerWorker, 16, 64},
		Seed:   1,
		Repeat: 3,
		Log:    logger.DefaultConfig(),
	}
}

func (c Config) validate() error {
	var errs []error
	if c.Rows <= 0 || c.Inner <= 0 || c.Cols <= 0 {
		errs = append(errs, fmt.Errorf("dimensions must be > 0, got %dx%d * %dx%d", c.Rows, c.Inner, c.Inner, c.Cols))
	}
	if c.Repeat <= 0 {
		errs = append(errs, fmt.Errorf("repeat must be > 0, got %d", c.Repeat))
	}
	if len(c.Loads) == 0 {
		errs = append(errs, errors.New("at least one load per worker is required"))
	}
	if bad := lo.Filter(c.Loads, func(l int, _ int) bool { return l <= 0 }); len(bad) > 0 {
		errs = append(errs, fmt.Errorf("loads must be > 0, got %v", bad))
	}
	return errors.Join(errs...)
}

// loadConfigFile decodes path on top of cfg. Keys missing from the file keep
// their current values.
func loadConfigFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// bindFlags registers every Config field on fs.
func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Rows, "rows", cfg.Rows, "rows of the left matrix")
	fs.IntVar(&cfg.Inner, "inner", cfg.Inner, "columns of the left matrix and rows of the right matrix")
	fs.IntVar(&cfg.Cols, "cols", cfg.Cols, "columns of the right matrix")
	fs.Var(&intList{p: &cfg.Loads}, "loads", "comma-separated LoadPerWorker values to benchmark")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker pool size (0 = GOMAXPROCS)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for the input matrices")
	fs.IntVar(&cfg.Repeat, "repeat", cfg.Repeat, "runs per strategy; the fastest is reported")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "log format (console, json)")
}

// intList is a pflag.Value for comma-separated ints. Unlike pflag's IntSlice,
// Set always replaces the list, so a flag can be re-applied after a config
// file has been loaded.
type intList struct {
	p *[]int
}

func (l *intList) String() string {
	if l.p == nil {
		return ""
	}
	return strings.Join(lo.Map(*l.p, func(v int, _ int) string { return strconv.Itoa(v) }), ",")
}

func (l *intList) Set(s string) error {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid integer %q", part)
		}
		out = append(out, v)
	}
	*l.p = lo.Uniq(out)
	return nil
}

func (l *intList) Type() string {
	return "ints"
}
