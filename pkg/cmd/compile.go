// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] expression",
	Short: "compile an expression into an automaton snapshot.",
	Long: `Compile a sequential extended regular expression into an automaton snapshot,
either nondeterministic (nfasl) or deterministic (dfasl), encoded in the binary
or JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		text := readExpression(cmd, args)
		cfg := getCompileConfig(cmd)
		compiled := compileExpression(text, cfg)
		//
		bytes, err := compiled.Bytes()
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
		//
		writeOutput(GetString(cmd, "output"), bytes)
	},
}

// Read the expression either from the command line, or from a file.
func readExpression(cmd *cobra.Command, args []string) string {
	filename := GetString(cmd, "file")
	//
	switch {
	case filename != "" && len(args) == 0:
		bytes, err := os.ReadFile(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		return strings.TrimSpace(string(bytes))
	case filename == "" && len(args) == 1:
		return args[0]
	default:
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	// unreachable
	return ""
}

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "read expression from file")
	cmd.Flags().StringP("output", "o", "", "specify output file.")
	cmd.Flags().String("config", "", "read compilation options from a YAML file")
	cmd.Flags().String("target", "nfasl", "kind of automaton to produce (nfasl or dfasl)")
	cmd.Flags().Bool("no-minimize", false, "clean but do not minimize the automaton")
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	addCompileFlags(compileCmd)
	compileCmd.Flags().String("format", "binary", "snapshot encoding (binary or json)")
}
