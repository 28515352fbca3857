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

	"github.com/jt05610/wfnet/analysis"
	"github.com/spf13/cobra"
)

var limit int

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Explore every reachable marking of a workflow net",
	Long: `Explore builds the reachability graph of the net from its initial marking and reports
deadlocks, dead transitions and whether the net is sound: the final marking is always
reachable, it is reached cleanly and every transition can fire in some marking.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := loadNet(cmd)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("limit") {
			limit = environment.MaxStates
		}
		ss, err := analysis.NewExplorer(limit, logger).Explore(cmd.Context(), n)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "states: %d\n", len(ss.States))
		for _, i := range ss.Deadlocks {
			fmt.Fprintf(out, "deadlock: %s\n", orNone(ss.Marked(ss.States[i])))
		}
		fmt.Fprintf(out, "dead transitions: %s\n", orNone(ss.DeadTransitions))
		fmt.Fprintf(out, "option to complete: %t\n", ss.OptionToComplete)
		fmt.Fprintf(out, "proper completion: %t\n", ss.ProperCompletion)
		fmt.Fprintf(out, "sound: %t\n", ss.Sound())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of states (default $WFNET_MAX_STATES)")
}
