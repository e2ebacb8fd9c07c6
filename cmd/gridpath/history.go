package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/petrijr/gridpath"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		algorithm string
		outcome   string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs stored in --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dbPath == "" {
				return fmt.Errorf("history needs --db")
			}
			ctrl, closeDB, err := opts.openController(opts.cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			runs, err := ctrl.ListRuns(cmd.Context(), gridpath.RunListOptions{
				Algorithm: algorithm,
				Outcome:   gridpath.Outcome(outcome),
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tALGORITHM\tBOARD\tOUTCOME\tSTEPS\tCOST\tVISITS\tSTARTED")
			for _, rec := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\t%d\t%d\t%d\t%s\n",
					rec.ID, rec.Algorithm, rec.Rows, rec.Columns, rec.Outcome,
					rec.Steps(), rec.Cost, rec.VisitCount, rec.StartedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "only runs of this algorithm")
	cmd.Flags().StringVar(&outcome, "outcome", "", "only runs with this outcome (PATH, NO_PATH, CANCELLED, ERRORED)")
	return cmd
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events RUN_ID",
		Short: "Print the recorded history of one run in --db",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dbPath == "" {
				return fmt.Errorf("events needs --db")
			}
			ctrl, closeDB, err := opts.openController(opts.cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			events, err := ctrl.RunEvents(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SEQ\tTYPE\tPOSITION\tCOUNT\tDETAIL")
			for _, ev := range events {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", ev.Seq, ev.Type, ev.Pos.Key(), ev.Count, ev.Detail)
			}
			return tw.Flush()
		},
	}
}

func newAlgorithmsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the available algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range gridpath.NewInMemoryController(opts.cfg, nil).Algorithms() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
