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

	"github.com/jt05610/wfnet"
	"github.com/jt05610/wfnet/analysis"
	"github.com/spf13/cobra"
)

func orNone(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, " ")
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that a net is a workflow net",
	Long: `Check runs the structural analysis of a net: it looks for a unique start and end place
and verifies that every node lies on a path between them. Nodes breaking the path
property are listed. The command fails when the net is not a workflow net.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := loadNet(cmd)
		if err != nil {
			return err
		}
		r := analysis.Coverage(n)
		s := r.Structure
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "net: %s (%d places, %d transitions, %d arcs)\n",
			n.Name, len(n.Places()), len(n.Transitions()), len(n.Arcs()))
		fmt.Fprintf(out, "start exists: %t\n", s.StartExists)
		fmt.Fprintf(out, "start more than one: %t\n", s.StartMoreThanOne)
		fmt.Fprintf(out, "end exists: %t\n", s.EndExists)
		fmt.Fprintf(out, "end more than one: %t\n", s.EndMoreThanOne)
		fmt.Fprintf(out, "path property holds: %t\n", s.PathPropertyHolds)
		if r.Start != "" {
			fmt.Fprintf(out, "start: %s\nend: %s\n", r.Start, r.End)
			fmt.Fprintf(out, "off path: %s\n", orNone(r.Offenders()))
		}
		for _, c := range r.Cycles {
			fmt.Fprintf(out, "cycle: %s\n", strings.Join(c, " "))
		}
		if !s.WorkflowNet() {
			return fmt.Errorf("%s: %w", inputFile, wfnet.ErrNotWorkflowNet)
		}
		fmt.Fprintln(out, "workflow net: true")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
