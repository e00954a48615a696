package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ehr/spl/internal/domain/label"
	"github.com/ehr/spl/internal/platform/batch"
)

// errDocumentsFailed makes the process exit 1 after a run in which some
// documents failed. The failures were already logged.
var errDocumentsFailed = errors.New("one or more documents failed")

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <dir|file>...",
		Short: "Parse SPL files and print one JSON record per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			withKG, _ := cmd.Flags().GetBool("kg")
			ingest, _ := cmd.Flags().GetBool("store")
			workers, _ := cmd.Flags().GetInt("workers")

			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Workers
			}
			logger := newLogger(os.Stderr, cfg)

			inputs, err := batch.Scan(args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := []batch.Option{batch.WithWorkers(workers), batch.WithGraph(withKG)}
			if ingest {
				st, err := openStore(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer st.close()
				svc := label.NewService(newParser(cfg), st.repo, logger)
				opts = append(opts, batch.WithSink(svc.Sink()))
			}

			summary := batch.NewRunner(newParser(cfg), logger, opts...).Run(ctx, inputs)
			if err := writeResults(cmd.OutOrStdout(), summary, withKG); err != nil {
				return err
			}
			if summary.Failed > 0 {
				return errDocumentsFailed
			}
			return nil
		},
	}
	cmd.Flags().Bool("kg", false, "Also print the merged knowledge graph as entity and edge lines")
	cmd.Flags().Bool("store", false, "Ingest parsed labels into the configured store")
	cmd.Flags().Int("workers", 0, "Documents parsed at once (default: WORKERS or one per CPU)")
	return cmd
}

// writeResults prints every parsed record in input order, then, when
// withKG is set, every entity and edge of the merged graph.
func writeResults(w io.Writer, summary *batch.Summary, withKG bool) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for _, rec := range summary.Records() {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if withKG {
		g := summary.Graph()
		for _, e := range g.Entities {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		for _, e := range g.Edges {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
