package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/petrijr/gridpath"
)

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var boardPath string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every registered algorithm on a board, without pacing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := gridpath.LoadBoard(boardPath)
			if err != nil {
				return err
			}

			cfg := opts.cfg
			cfg.UpdateSpeed = 0
			cfg.ReplayDelay = 0

			names := gridpath.NewInMemoryController(cfg, nil).Algorithms()
			results := make([]*gridpath.RunRecord, len(names))

			// One controller per algorithm: a controller runs one search at a time.
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, name := range names {
				g.Go(func() error {
					ctrl := gridpath.NewInMemoryController(cfg, gridpath.NewLoggingObserver(opts.logger))
					run, err := ctrl.Start(ctx, gridpath.RunRequest{Algorithm: name, Board: board})
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					rec, err := run.Wait(ctx)
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					results[i] = rec
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ALGORITHM\tOUTCOME\tSTEPS\tCOST\tVISITS\tDURATION")
			for _, rec := range results {
				steps, cost := "-", "-"
				if rec.Outcome == gridpath.OutcomePath {
					steps = strconv.Itoa(rec.Steps())
					cost = strconv.Itoa(rec.Cost)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					rec.Algorithm, rec.Outcome, steps, cost, rec.VisitCount, rec.Duration().Round(time.Microsecond))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&boardPath, "board", "b", "", "YAML board file")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}
