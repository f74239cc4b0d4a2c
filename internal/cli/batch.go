// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"context"
	"github.com/jfcg/sorty/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thinhdanggroup/executor"
	"io"
	"math"
	"os"
	"pwd-assessor/internal/assess"
	"pwd-assessor/internal/config"
	"pwd-assessor/internal/util"
	"pwd-assessor/pkg/strength"
	"runtime"
	"sync"
)

var (
	batchCmd = &cobra.Command{
		Use:   "batch",
		Short: "Assess every password in a file, one per line, and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return batchCommand()
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	batchCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line (required)")
	batchCmd.MarkFlagRequired("in-file")
	batchCmd.Flags().IntVarP(&threads, "threads", "t", 0, "Number of concurrent assessments. If omitted or less than 1, defaults to twice the number of logical processors of the machine.")

	rootCmd.AddCommand(batchCmd)
}

type lineResult struct {
	line    int
	label   string
	bits    float64
	found   bool
	errored bool
}

// batch collects line results from the worker pool.
type batch struct {
	ctx     context.Context
	engine  *assess.Engine
	mu      sync.Mutex
	results []lineResult
}

// Summary of a batch run. The percentiles are over the crack time bit estimates.
type Summary struct {
	Total      int
	Pwned      int
	Errored    int
	ByLabel    map[string]int
	MedianBits float64
	P90Bits    float64
}

func batchCommand() error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	file, err := os.Open(inputFile)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err = file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing passwords file")
		}
	}(file)

	// Roughly one result per 8 bytes of input, 64 bytes each.
	if info, err := file.Stat(); err == nil {
		util.CheckRam(uint64(info.Size()/8), 64)
	}

	ctx := context.Background()
	engine, release, err := newEngine(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer release()

	n := threads
	if n < 1 {
		n = runtime.NumCPU() * 2
	}

	summary, err := runBatch(ctx, engine, file, n)
	if err != nil {
		return err
	}

	logSummary(summary)
	return nil
}

func runBatch(ctx context.Context, engine *assess.Engine, in io.Reader, workers int) (Summary, error) {
	s := util.Stats()
	defer s()

	// This is a bounded thread pool, the queue keeps the file reader from racing ahead.
	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * workers,
		NumWorkers:    workers,
	})
	if err != nil {
		return Summary{}, err
	}
	defer tasks.Close()

	b := &batch{ctx: ctx, engine: engine}
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		if err = tasks.Publish(b.assessLine, line, scanner.Text()); err != nil {
			return Summary{}, err
		}
	}
	if err = scanner.Err(); err != nil {
		return Summary{}, err
	}

	tasks.Wait()
	return summarize(b.results), nil
}

func (b *batch) assessLine(line int, password string) {
	r := b.engine.Assess(b.ctx, password)

	res := lineResult{line: line, label: r.Strength.Label, found: r.Breach.Found, errored: r.Breach.Errored}
	if r.Crack != nil {
		res.bits = r.Crack.Bits
	}
	log.Debug().Msgf("line %d: %s, pwned: %v", line, res.label, res.found)

	b.mu.Lock()
	b.results = append(b.results, res)
	b.mu.Unlock()
}

func summarize(results []lineResult) Summary {
	sum := Summary{Total: len(results), ByLabel: make(map[string]int)}
	bits := make([]float64, 0, len(results))

	for _, r := range results {
		sum.ByLabel[r.label]++
		if r.found {
			sum.Pwned++
		}
		if r.errored {
			sum.Errored++
		}
		if r.label != strength.Empty.Label {
			bits = append(bits, r.bits)
		}
	}

	if len(bits) > 0 {
		sorty.SortSlice(bits)
		sum.MedianBits = percentile(bits, 0.5)
		sum.P90Bits = percentile(bits, 0.9)
	}

	return sum
}

// percentile of an ascending slice, nearest rank.
func percentile(sorted []float64, p float64) float64 {
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

func logSummary(s Summary) {
	log.Info().Msgf("assessed %s passwords", util.FormatCount(s.Total))
	log.Info().Msgf("present in the breach corpus: %s", util.FormatCount(s.Pwned))
	if s.Errored > 0 {
		log.Warn().Msgf("failed breach lookups: %s", util.FormatCount(s.Errored))
	}
	for _, label := range append([]string{strength.Empty.Label}, strength.Labels[:]...) {
		if n, ok := s.ByLabel[label]; ok {
			log.Info().Msgf("%s: %s", label, util.FormatCount(n))
		}
	}
	log.Info().Msgf("entropy estimate median: %.1f bits, 90th percentile: %.1f bits", s.MedianBits, s.P90Bits)
}
