// Copyright 2025 The intmat Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/presenso/intmat/imat"
	"github.com/presenso/intmat/imat/contrib/matmul"
	"github.com/presenso/intmat/imat/contrib/workerpool"
)

// strategy is one way of computing the product.
type strategy struct {
	name string
	load int // 0 when the strategy has no split threshold
	mul  func(a, b imat.Matrix) (imat.Matrix, error)
}

// result is the outcome of timing one strategy.
type result struct {
	strategy
	best time.Duration
}

func randomMatrix(r *rand.Rand, rows, cols int) (imat.Matrix, error) {
	m, err := imat.New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		for j := range cols {
			m[i][j] = r.IntN(2001) - 1000
		}
	}
	return m, nil
}

func strategies(cfg Config, pool *workerpool.Pool, log *zap.Logger) []strategy {
	out := []strategy{{name: "sequential", mul: matmul.Multiply}}
	for _, load := range cfg.Loads {
		mc := matmul.Config{LoadPerWorker: load, Pool: pool, Logger: log}
		out = append(out, strategy{
			name: "fork-join",
			load: load,
			mul: func(a, b imat.Matrix) (imat.Matrix, error) {
				return matmul.MultiplyParallelWithConfig(a, b, mc)
			},
		})
	}
	out = append(out, strategy{
		name: "strips",
		mul: func(a, b imat.Matrix) (imat.Matrix, error) {
			return matmul.MultiplyStrips(a, b, matmul.Config{Pool: pool, Logger: log})
		},
	})
	return out
}

// run times every strategy on the same random operands, verifies each
// product against the sequential one and prints a summary table to out.
func run(cfg Config, log *zap.Logger, out io.Writer) error {
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	a, err := randomMatrix(r, cfg.Rows, cfg.Inner)
	if err != nil {
		return err
	}
	b, err := randomMatrix(r, cfg.Inner, cfg.Cols)
	if err != nil {
		return err
	}

	pool := workerpool.New(cfg.Workers)
	defer pool.Close()

	log.Info("starting benchmark",
		zap.Stringer("left", a.Dims()),
		zap.Stringer("right", b.Dims()),
		zap.Int("workers", pool.NumWorkers()),
		zap.Ints("loads", cfg.Loads),
		zap.Int("repeat", cfg.Repeat))

	var (
		want    imat.Matrix
		results []result
	)
	for _, s := range strategies(cfg, pool, log) {
		res := result{strategy: s}
		for i := range cfg.Repeat {
			start := time.Now()
			got, err := s.mul(a, b)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			if want == nil {
				want = got
			} else if !got.Equal(want) {
				return fmt.Errorf("%s (load %d): product differs from sequential result", s.name, s.load)
			}
			if i == 0 || elapsed < res.best {
				res.best = elapsed
			}
		}
		log.Info("strategy done",
			zap.String("strategy", s.name),
			zap.Int("load_per_worker", s.load),
			zap.Duration("best", res.best))
		results = append(results, res)
	}

	stats := pool.Stats()
	log.Debug("pool stats",
		zap.Int64("forked", stats.Forked),
		zap.Int64("stolen", stats.Stolen),
		zap.Int64("inlined", stats.Inlined))

	return printResults(out, results)
}

func printResults(out io.Writer, results []result) error {
	base := results[0].best
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tLOAD\tBEST\tSPEEDUP")
	for _, res := range results {
		load := "-"
		if res.load > 0 {
			load = fmt.Sprint(res.load)
		}
		speedup := "-"
		if res.best > 0 {
			speedup = fmt.Sprintf("%.2fx", float64(base)/float64(res.best))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.name, load, res.best.Round(time.Microsecond), speedup)
	}
	return tw.Flush()
}
