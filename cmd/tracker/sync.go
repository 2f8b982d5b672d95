package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sena-tracker/internal/metrics"
	"sena-tracker/internal/models/config"
	"sena-tracker/internal/reconcile"
	loader_service "sena-tracker/internal/service/loader"
	"sena-tracker/internal/sheet"
	"sena-tracker/internal/state"
)

type syncOutput struct {
	Report   reconcile.Report `json:"report" yaml:"report"`
	Snapshot state.Snapshot   `json:"snapshot" yaml:"snapshot"`
}

func syncCmd(envFile *string) *cobra.Command {
	var (
		format  string
		rowMode string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Load the spreadsheet once and print the reconciled data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return errors.Errorf("unknown format %q (yaml|json)", format)
			}
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			if rowMode != "" {
				mode, err := sheet.ParseMode(rowMode)
				if err != nil {
					return err
				}
				cfg.Sync.RowMode = mode
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return runSync(ctx, cfg, format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().StringVar(&rowMode, "row-mode", "", "override ROW_MODE (lenient|strict)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall timeout, 0 waits indefinitely")
	return cmd
}

func runSync(ctx context.Context, cfg *config.Config, format string, out io.Writer) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ds, err := newFixture(cfg)
	if err != nil {
		return err
	}
	repo, closeFn, err := openRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	store := newStateStore(ds)
	loader := loader_service.NewLoaderService(repo, newPipeline(cfg, log), ds, store, metrics.New(), log)

	report, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	return writeOutput(out, format, syncOutput{Report: report, Snapshot: loader.Snapshot()})
}

func writeOutput(out io.Writer, format string, v interface{}) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
