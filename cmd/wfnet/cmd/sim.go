/*
Copyright © 2024 Jonathan Taylor <jonrtaylor12@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jt05610/wfnet/netfile"
	"github.com/jt05610/wfnet/sim"
	"github.com/spf13/cobra"
)

var (
	fire       []string
	strategy   string
	seed       int64
	until      string
	maxSteps   int
	outputFile string
)

// simCmd represents the sim command
var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Play the token game on a workflow net",
	Long: `Sim puts the net in its initial marking and fires enabled transitions until the end
place is marked, the net deadlocks, the --until condition holds or --steps firings
were made. With --fire the given transitions are replayed in order instead.

The --until condition is an expression over the place identifiers, marked["id"],
finished, deadlocked and step, for example: P3 && !P4 || step > 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := loadNet(cmd)
		if err != nil {
			return err
		}
		s, err := sim.ParseStrategy(strategy)
		if err != nil {
			return err
		}
		cfg := &sim.Config{
			Strategy: s,
			Seed:     seed,
			MaxSteps: maxSteps,
			Until:    until,
		}
		if !cmd.Flags().Changed("seed") {
			cfg.Seed = time.Now().UnixNano()
		}
		if !cmd.Flags().Changed("steps") {
			cfg.MaxSteps = environment.MaxSteps
		}
		r := sim.NewRunner(cfg, logger)

		var tr *sim.Trace
		if len(fire) > 0 {
			tr, err = r.Replay(cmd.Context(), n, fire)
		} else {
			tr, err = r.Run(cmd.Context(), n)
		}
		if tr != nil {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fired: %s\n", orNone(tr.Fired))
			fmt.Fprintf(out, "marking: %s\n", orNone(tr.Marking))
			fmt.Fprintf(out, "outcome: %s after %d steps\n", tr.Outcome, tr.Steps)
		}
		if err != nil {
			return err
		}
		if outputFile != "" {
			return netfile.Save(cmd.Context(), outputFile, n, logger)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().StringSliceVar(&fire, "fire", nil, "transitions to replay, in order")
	simCmd.Flags().StringVar(&strategy, "strategy", "first", "how to pick among enabled transitions: "+strings.Join([]string{sim.First.String(), sim.Random.String()}, "|"))
	simCmd.Flags().Int64Var(&seed, "seed", 0, "seed for the random strategy (default time based)")
	simCmd.Flags().StringVar(&until, "until", "", "stop once this condition holds")
	simCmd.Flags().IntVar(&maxSteps, "steps", 0, "maximum number of firings (default $WFNET_MAX_STEPS)")
	simCmd.Flags().StringVarP(&outputFile, "output", "o", "", "save the net with its final marking to this file")
}
