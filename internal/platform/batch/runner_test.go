package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ehr/spl/internal/platform/spl"
	"github.com/ehr/spl/internal/platform/spl/spltest"
)

func newTestRunner(opts ...Option) *Runner {
	return NewRunner(spl.NewParser(), zerolog.Nop(), opts...)
}

func TestRunner_Run_OrderAndFailures(t *testing.T) {
	inputs := []Input{
		{Path: "a.xml", Data: []byte(spltest.PrescriptionXML)},
		{Path: "b.xml", Data: []byte("<not-spl/>")},
		{Path: "c.xml", Data: []byte(spltest.NoProductXML)},
		{Path: "d.xml", Data: []byte("")},
		{Path: "e.xml", Data: []byte(spltest.HomeopathicXML)},
	}
	sum := newTestRunner(WithWorkers(3)).Run(context.Background(), inputs)

	if sum.Total != 5 || sum.Succeeded != 3 || sum.Failed != 2 {
		t.Errorf("expected 5/3/2, got %d/%d/%d", sum.Total, sum.Succeeded, sum.Failed)
	}
	if sum.RunID == "" {
		t.Error("expected a run id")
	}
	if len(sum.Failures) != 2 || sum.Failures[0].File != "b.xml" || sum.Failures[1].File != "d.xml" {
		t.Errorf("expected failures for b.xml and d.xml, got %+v", sum.Failures)
	}
	for i, res := range sum.Results {
		if res.Index != i || res.Path != inputs[i].Path {
			t.Errorf("result %d out of order: %+v", i, res)
		}
	}

	var mErr *spl.MalformedInputError
	if !errors.As(sum.Results[1].Err, &mErr) {
		t.Errorf("expected MalformedInputError, got %v", sum.Results[1].Err)
	}

	recs := sum.Records()
	if len(recs) != 3 || recs[0].Source.InputFilename != "a.xml" || recs[2].Source.InputFilename != "e.xml" {
		t.Errorf("unexpected records order")
	}
	if sum.Results[0].Graph != nil {
		t.Error("expected no graph without WithGraph")
	}
}

func TestRunner_Run_ReadsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prescription_1.xml")
	if err := os.WriteFile(path, []byte(spltest.PrescriptionXML), 0o644); err != nil {
		t.Fatal(err)
	}
	sum := newTestRunner(WithGraph(true)).Run(context.Background(), []Input{
		{Path: path},
		{Path: filepath.Join(dir, "missing.xml")},
	})
	if sum.Succeeded != 1 || sum.Failed != 1 {
		t.Errorf("expected 1 success and 1 failure, got %+v", sum)
	}
	if sum.Results[0].Graph == nil || len(sum.Results[0].Graph.Entities) == 0 {
		t.Error("expected a graph for the parsed file")
	}
	if g := sum.Graph(); len(g.Entities) != len(sum.Results[0].Graph.Entities) {
		t.Errorf("expected merged graph to match the single graph, got %d entities", len(g.Entities))
	}
}

func TestRunner_Run_Sink(t *testing.T) {
	var calls atomic.Int32
	sinkErr := errors.New("store down")
	sink := func(ctx context.Context, res *Result) error {
		calls.Add(1)
		if res.Graph == nil {
			t.Error("expected sink to receive a graph")
		}
		if res.Path == "fail.xml" {
			return sinkErr
		}
		return nil
	}
	sum := newTestRunner(WithSink(sink)).Run(context.Background(), []Input{
		{Path: "ok.xml", Data: []byte(spltest.PrescriptionXML)},
		{Path: "fail.xml", Data: []byte(spltest.NoProductXML)},
		{Path: "bad.xml", Data: []byte("garbage")},
	})
	if calls.Load() != 2 {
		t.Errorf("expected 2 sink calls, got %d", calls.Load())
	}
	if sum.Succeeded != 1 || sum.Failed != 2 {
		t.Errorf("expected 1 success and 2 failures, got %d/%d", sum.Succeeded, sum.Failed)
	}
	if !errors.Is(sum.Results[1].Err, sinkErr) {
		t.Errorf("expected sink error, got %v", sum.Results[1].Err)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum := newTestRunner().Run(ctx, []Input{
		{Path: "a.xml", Data: []byte(spltest.PrescriptionXML)},
		{Path: "b.xml", Data: []byte(spltest.PrescriptionXML)},
	})
	if sum.Skipped != 2 || sum.Succeeded != 0 || sum.Failed != 0 {
		t.Errorf("expected all inputs skipped, got %+v", sum)
	}
	if !errors.Is(sum.Results[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", sum.Results[0].Err)
	}
}

func TestRunner_Run_Empty(t *testing.T) {
	sum := newTestRunner().Run(context.Background(), nil)
	if sum.Total != 0 || sum.Failures == nil {
		t.Errorf("unexpected summary for empty run: %+v", sum)
	}
}
