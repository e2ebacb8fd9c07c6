package main

import (
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petrijr/gridpath"
)

func newRandomizeCmd(opts *rootOptions) *cobra.Command {
	var (
		rows, columns  int
		walls, weights int
		seed           uint64
	)

	cmd := &cobra.Command{
		Use:   "randomize",
		Short: "Print a random board as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			flags := cmd.Flags()
			if flags.Changed("rows") {
				cfg.BoardRows = rows
			}
			if flags.Changed("columns") {
				cfg.BoardColumns = columns
			}
			if flags.Changed("walls") {
				cfg.PercentWalls = walls
			}
			if flags.Changed("weights") {
				cfg.PercentWeights = weights
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if !flags.Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			board, err := gridpath.RandomBoard(cfg, rand.New(rand.NewPCG(seed, seed)))
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(board); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&rows, "rows", 0, "board rows (config board_rows)")
	flags.IntVar(&columns, "columns", 0, "board columns (config board_columns)")
	flags.IntVar(&walls, "walls", 0, "percentage of wall cells, at most 40 (config percent_walls)")
	flags.IntVar(&weights, "weights", 0, "percentage of weighted cells, at most 40 (config percent_weights)")
	flags.Uint64Var(&seed, "seed", 0, "random seed (time based when omitted)")
	return cmd
}
