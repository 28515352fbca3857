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
	"errors"
	"os"

	"github.com/jt05610/wfnet"
	"github.com/jt05610/wfnet/env"
	"github.com/jt05610/wfnet/netfile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile   string
	inputFile string

	environment *env.Environment
	logger      = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wfnet",
	Short: "Model, check and simulate workflow nets",
	Long: `wfnet reads workflow nets from PNML, YAML or DOT files, checks their structure,
plays the token game on them and renders them with graphviz.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}
		var err error
		if environment, err = env.Load(files...); err != nil {
			return err
		}
		logger, err = environment.Logger()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "configuration file (default .env)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "input", "i", "", "input net file (.pnml, .xml, .yaml, .yml, .dot, .gv)")
}

func loadNet(cmd *cobra.Command) (*wfnet.Net, error) {
	if inputFile == "" {
		return nil, errors.New("no input file, use -i")
	}
	n, err := netfile.Load(cmd.Context(), inputFile, logger)
	if err != nil {
		return nil, err
	}
	return n.WithLogger(logger), nil
}
