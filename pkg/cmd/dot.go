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
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/spf13/cobra"
)

var dotCmd = &cobra.Command{
	Use:   "dot [flags] expression",
	Short: "export the automaton of an expression in DOT format.",
	Long:  `Compile an expression and write its automaton as a graphviz (DOT) digraph.`,
	Run: func(cmd *cobra.Command, args []string) {
		text := readExpression(cmd, args)
		compiled := compileExpression(text, getCompileConfig(cmd))
		// Deterministic automata are exported as such
		automaton := compiled.Nfasl
		if compiled.Dfasl != nil {
			automaton = compiled.Dfasl.ToNfasl()
		}
		//
		dot := nfasl.Dot(compiled.Context, automaton, compiled.Names)
		//
		writeOutput(GetString(cmd, "output"), []byte(dot))
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(dotCmd)
	addCompileFlags(dotCmd)
}
