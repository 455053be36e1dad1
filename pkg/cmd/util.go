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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-sere/pkg/rt"
	"github.com/consensys/go-sere/pkg/sere"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt64 gets an expected signed integer, or panic if an error arises.
func GetInt64(cmd *cobra.Command, flag string) int64 {
	r, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Determine the compilation configuration from an (optional) configuration
// file, followed by any flags given explicitly.
func getCompileConfig(cmd *cobra.Command) sere.CompileConfig {
	var (
		cfg  = sere.DefaultConfig()
		file = GetString(cmd, "config")
		err  error
	)
	//
	if file != "" {
		var bytes []byte
		//
		if bytes, err = os.ReadFile(file); err == nil {
			cfg, err = sere.ReadConfig(bytes)
		}
		//
		if err != nil {
			fmt.Printf("%s: %s\n", file, err)
			os.Exit(2)
		}
	}
	// Flags override configuration file
	if cmd.Flags().Changed("target") {
		cfg.Target = sere.Target(GetString(cmd, "target"))
	}
	//
	if cmd.Flags().Changed("format") {
		cfg.Format = sere.Format(GetString(cmd, "format"))
	}
	//
	if cmd.Flags().Changed("no-minimize") {
		cfg.Minimize = !GetFlag(cmd, "no-minimize")
	}
	//
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return cfg
}

// Compile an expression, exiting with a highlighted error message if the
// expression is malformed.
func compileExpression(text string, cfg sere.CompileConfig) *sere.Compiled {
	compiled, err := sere.Compile(text, cfg)
	//
	if err == nil {
		return compiled
	}
	// Handle error
	var serr *sere.SyntaxError
	//
	if errors.As(err, &serr) {
		printSyntaxError("<expr>", serr.Message, serr.Start, serr.End, text)
	} else {
		fmt.Println(err)
	}
	//
	os.Exit(2)
	// unreachable
	return nil
}

// Read and decode a snapshot file in either format.
func readSnapshotFile(filename string) (*rt.Snapshot, []string) {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		snapshot, names, err := sere.Decode(bytes)
		if err == nil {
			return snapshot, names
		}
		//
		fmt.Printf("%s: %s\n", filename, err)
	} else {
		fmt.Println(err)
	}
	//
	os.Exit(2)
	// unreachable
	return nil, nil
}

// Write bytes to the given file, or to stdout when no file is given.
func writeOutput(filename string, bytes []byte) {
	var err error
	//
	if filename == "" {
		_, err = os.Stdout.Write(bytes)
	} else {
		err = os.WriteFile(filename, bytes, 0644)
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(4)
	}
}

// Print a syntax error with appropriate highlighting.
func printSyntaxError(filename string, msg string, start int, end int, text string) {
	line, offset, num := findEnclosingLine(start, text)
	// Print error + line number
	fmt.Printf("%s:%d: %s\n", filename, num, msg)
	// Print line
	fmt.Println(line)
	// Print indent (todo: account for tabs)
	fmt.Print(strings.Repeat(" ", max(0, start-offset)))
	// Print highlight
	fmt.Println(strings.Repeat("^", max(1, end-start)))
}

// Determine the enclosing line for the given index in a string.
func findEnclosingLine(index int, text string) (string, int, int) {
	num := 1
	start := 0
	// Handle case where we've reached the end-of-file unexpectedly.  This
	// essentially means the error is reported at the end of the last physical
	// line.
	if index >= len(text) {
		index = len(text) - 1
	}
	// Find the line.
	for i := 0; i < len(text); i++ {
		if i == index {
			end := findEndOfLine(index, text)
			return text[start:end], start, num
		} else if text[i] == '\n' {
			num++
			start = i + 1
		}
	}
	// Empty text
	return "", 0, num
}

// Find the end of the enclosing line
func findEndOfLine(index int, text string) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	// No end in sight!
	return len(text)
}
