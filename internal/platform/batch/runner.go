// Package batch parses many SPL documents concurrently. A failure in one
// document is recorded in the run summary and never stops the others.
package batch

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ehr/spl/internal/platform/kg"
	"github.com/ehr/spl/internal/platform/spl"
)

// Input is one document to parse. When Data is nil the file at Path is
// read.
type Input struct {
	Path string
	Data []byte
}

// Result is the outcome for one input. Results keep the order of the
// inputs regardless of completion order.
type Result struct {
	Index   int
	Path    string
	Record  *spl.Record
	Graph   *kg.Graph
	Err     error
	Skipped bool
}

// Failure names a document that could not be processed.
type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Summary reports a finished run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Failures  []Failure     `json:"failures"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"-"`
}

// SinkFunc receives every successfully parsed document, from the worker
// that parsed it. A sink error marks the document as failed.
type SinkFunc func(ctx context.Context, res *Result) error

// Runner drives a pool of parse workers.
type Runner struct {
	parser  *spl.Parser
	logger  zerolog.Logger
	workers int
	graph   bool
	sink    SinkFunc
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of documents parsed at once. Zero or less
// means one worker per CPU.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithGraph makes the runner build a knowledge graph for every record.
func WithGraph(enabled bool) Option {
	return func(r *Runner) { r.graph = enabled }
}

// WithSink hands every parsed document to fn.
func WithSink(fn SinkFunc) Option {
	return func(r *Runner) { r.sink = fn }
}

// NewRunner creates a batch runner around parser.
func NewRunner(parser *spl.Parser, logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{parser: parser, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers <= 0 {
		r.workers = runtime.NumCPU()
	}
	if r.sink != nil {
		// Sinks store graphs, so they always get one.
		r.graph = true
	}
	return r
}

// Run parses inputs with bounded concurrency. Cancelling ctx stops the
// submission of further documents; those are reported as skipped.
func (r *Runner) Run(ctx context.Context, inputs []Input) *Summary {
	start := time.Now()
	sum := &Summary{
		RunID:    ulid.Make().String(),
		Total:    len(inputs),
		Failures: []Failure{},
		Results:  make([]Result, len(inputs)),
	}
	log := r.logger.With().Str("run_id", sum.RunID).Logger()

	var g errgroup.Group
	g.SetLimit(r.workers)

	submitted := 0
	for i := range inputs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sum.Results[i] = r.process(ctx, i, inputs[i])
			return nil
		})
		submitted++
	}
	_ = g.Wait()

	for i := submitted; i < len(inputs); i++ {
		sum.Results[i] = Result{Index: i, Path: inputs[i].Path, Err: ctx.Err(), Skipped: true}
	}

	for i := range sum.Results {
		res := &sum.Results[i]
		switch {
		case res.Skipped:
			sum.Skipped++
		case res.Err != nil:
			sum.Failed++
			sum.Failures = append(sum.Failures, Failure{File: res.Path, Error: res.Err.Error()})
			log.Error().Err(res.Err).Str("file", res.Path).Msg("failed to process document")
		default:
			sum.Succeeded++
			if missing := spl.MissingFields(res.Record); len(missing) > 0 {
				log.Debug().Str("file", res.Path).Strs("missing", missing).Msg("optional fields absent")
			}
		}
	}
	sum.Duration = time.Since(start)

	log.Info().
		Int("total", sum.Total).
		Int("succeeded", sum.Succeeded).
		Int("failed", sum.Failed).
		Int("skipped", sum.Skipped).
		Dur("duration", sum.Duration).
		Msg("batch complete")
	return sum
}

func (r *Runner) process(ctx context.Context, index int, in Input) Result {
	res := Result{Index: index, Path: in.Path}

	data := in.Data
	if data == nil {
		b, err := os.ReadFile(in.Path)
		if err != nil {
			res.Err = fmt.Errorf("batch: reading %s: %w", in.Path, err)
			return res
		}
		data = b
	}

	rec, err := r.parser.Parse(data, in.Path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Record = rec
	if r.graph {
		res.Graph = kg.Build(rec)
	}

	if r.sink != nil {
		if err := r.sink(ctx, &res); err != nil {
			res.Err = fmt.Errorf("batch: storing %s: %w", in.Path, err)
		}
	}
	return res
}

// Records returns the parsed records of successful results, in input
// order.
func (s *Summary) Records() []*spl.Record {
	out := make([]*spl.Record, 0, s.Succeeded)
	for _, res := range s.Results {
		if res.Err == nil && res.Record != nil {
			out = append(out, res.Record)
		}
	}
	return out
}

// Graph merges the graphs of successful results into one.
func (s *Summary) Graph() *kg.Graph {
	g := kg.New()
	for _, res := range s.Results {
		if res.Err == nil {
			g.Merge(res.Graph)
		}
	}
	return g
}
