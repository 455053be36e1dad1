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
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set by the linker for release builds.
var Version string

var rootCmd = &cobra.Command{
	Use:   "sere",
	Short: "A compiler for sequential extended regular expressions.",
	Long: `Compiles sequential extended regular expressions (SEREs) into symbolic
automata, and executes the resulting snapshots over streams of letters.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
		//
		switch {
		case GetFlag(cmd, "verbose"):
			log.SetLevel(log.DebugLevel)
		case GetFlag(cmd, "quiet"):
			log.SetLevel(log.ErrorLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Printf("sere %s\n", version())
		} else {
			fmt.Println(cmd.UsageString())
		}
	},
}

// Determine the version of this executable, preferring one set at link time
// over the module version recorded by "go install".
func version() string {
	if Version != "" {
		return Version
	} else if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	//
	return "(unknown version)"
}

// Execute runs the command selected by the command-line arguments, exiting
// with a non-zero status on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log timings and automaton sizes")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
}
