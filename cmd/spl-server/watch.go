package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ehr/spl/internal/domain/label"
	"github.com/ehr/spl/internal/platform/batch"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Ingest SPL files as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settle, _ := cmd.Flags().GetDuration("settle")

			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}
			logger := newLogger(os.Stderr, cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.close()

			parser := newParser(cfg)
			svc := label.NewService(parser, st.repo, logger)
			runner := batch.NewRunner(parser, logger,
				batch.WithWorkers(cfg.Workers),
				batch.WithGraph(true),
				batch.WithSink(svc.Sink()),
			)

			w := batch.NewWatcher(args[0], runner, logger)
			w.SetSettle(settle)

			return w.Run(ctx)
		},
	}
	cmd.Flags().Duration("settle", batch.DefaultSettle, "Quiet period before a batch of new files is parsed")
	return cmd
}
