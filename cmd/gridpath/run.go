package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/petrijr/gridpath"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		boardPath string
		algorithm string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one algorithm against a board file",
		Long: `Run one algorithm against a board file and print the outcome.

Interrupting the command (Ctrl+C) cancels the search. An interrupt during
path replay abandons the replay.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := gridpath.LoadBoard(boardPath)
			if err != nil {
				return err
			}

			ctrl, closeDB, err := opts.openController(opts.cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			// Interrupts go through Cancel, so the run context is detached
			// from the command's.
			runCtx, abandon := context.WithCancel(context.WithoutCancel(cmd.Context()))
			defer abandon()

			run, err := ctrl.Start(runCtx, gridpath.RunRequest{Algorithm: algorithm, Board: board})
			if err != nil {
				return err
			}

			go func() {
				select {
				case <-cmd.Context().Done():
					if err := ctrl.Cancel(); err != nil {
						abandon()
					}
				case <-run.Done():
				}
			}()

			rec, err := run.Wait(context.Background())
			if err != nil {
				return err
			}
			printOutcome(cmd.OutOrStdout(), rec)
			return nil
		},
	}

	cmd.Flags().StringVarP(&boardPath, "board", "b", "", "YAML board file")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "astar", "algorithm name")
	_ = cmd.MarkFlagRequired("board")
	return cmd
}

func printOutcome(w io.Writer, rec *gridpath.RunRecord) {
	switch rec.Outcome {
	case gridpath.OutcomePath:
		fmt.Fprintf(w, "%d step path found\n", rec.Steps())
		fmt.Fprintf(w, "cost %d, %d visits, run %s\n", rec.Cost, rec.VisitCount, rec.ID)
	case gridpath.OutcomeNoPath:
		fmt.Fprintln(w, "No path could be found")
		fmt.Fprintf(w, "%d visits, run %s\n", rec.VisitCount, rec.ID)
	case gridpath.OutcomeCancelled:
		fmt.Fprintln(w, "Run was stopped")
	}
}
