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

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/rt"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] snapshot",
	Short: "inspect a compiled snapshot.",
	Long:  `Print the header, states and rules of a compiled snapshot in either format.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		snapshot, names := readSnapshotFile(args[0])
		//
		printSnapshot(snapshot, names)
	},
}

func printSnapshot(snapshot *rt.Snapshot, names []string) {
	ctx := boolean.NewContext()
	//
	fmt.Printf("kind: %s\n", snapshot.Kind)
	fmt.Printf("atoms: %d", snapshot.AtomicCount)
	//
	if len(names) > 0 {
		fmt.Printf(" (%s)", strings.Join(names, ", "))
	}
	//
	fmt.Println()
	fmt.Printf("states: %d\n", snapshot.StateCount)
	fmt.Printf("initial: %v\n", snapshot.Initials)
	fmt.Printf("final: %v\n", snapshot.Finals)
	//
	for q, transitions := range snapshot.Transitions {
		fmt.Printf("state %d:\n", q)
		//
		for _, tr := range transitions {
			guard := tr.Guard.Decompile(ctx)
			fmt.Printf("\t--[ %s ]--> %d\t(%d bytes)\n", ctx.String(guard, names), tr.Target, len(tr.Guard))
		}
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(inspectCmd)
}
