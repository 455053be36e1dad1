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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/match"
	"github.com/consensys/go-sere/pkg/rt"
	"github.com/consensys/go-sere/pkg/util/termio"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] snapshot [letters_file]",
	Short: "execute a snapshot over a stream of letters.",
	Long: `Execute a compiled snapshot over a stream of letters, reporting the verdict after
each letter.  Letters are read one per line (from stdin when no file is given),
each being a whitespace or comma separated list of the atoms which hold.  Atoms
are given either by name or by index.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 || len(args) > 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		snapshot, names := readSnapshotFile(args[0])
		input := os.Stdin
		//
		if len(args) == 2 {
			file, err := os.Open(args[1])
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			defer file.Close()
			input = file
		}
		//
		word := readLetters(input, names)
		colour := termio.IsTerminal() && !GetFlag(cmd, "no-colour")
		//
		if GetFlag(cmd, "extended") {
			runExtended(rt.NewSearchExecutor(snapshot), word, names, colour)
		} else {
			runPlain(rt.NewExecutor(snapshot), word, names, colour)
		}
	},
}

func runPlain(executor rt.Executor, word []*bitset.BitSet, names []string, colour bool) {
	m := executor.Reset()
	printVerdict(0, "", m.String(), verdictColour(m), colour)
	//
	for i, letter := range word {
		m = executor.Advance(letter)
		printVerdict(i+1, rt.LetterString(letter, names), m.String(), verdictColour(m), colour)
	}
}

func runExtended(executor rt.ExtendedExecutor, word []*bitset.BitSet, names []string, colour bool) {
	m := executor.Reset()
	printVerdict(0, "", m.String(), verdictColour(m.Match), colour)
	//
	for i, letter := range word {
		m = executor.Advance(letter)
		printVerdict(i+1, rt.LetterString(letter, names), m.String(), verdictColour(m.Match), colour)
	}
}

func printVerdict(step int, letter string, verdict string, col uint, colour bool) {
	fmt.Printf("%4d %-20s %s\n", step, letter, termio.Colour(verdict, col, colour))
}

func verdictColour(m match.Match) uint {
	switch m {
	case match.Ok:
		return termio.TERM_GREEN
	case match.Partial:
		return termio.TERM_YELLOW
	default:
		return termio.TERM_RED
	}
}

// Read a sequence of letters, one per line.
func readLetters(input io.Reader, names []string) []*bitset.BitSet {
	var (
		word    []*bitset.BitSet
		scanner = bufio.NewScanner(input)
		line    = 0
	)
	//
	for scanner.Scan() {
		line++
		//
		text := strings.TrimSpace(scanner.Text())
		// Skip comments
		if strings.HasPrefix(text, "#") {
			continue
		}
		//
		tokens := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		//
		letter, err := rt.ParseLetter(tokens, names)
		if err != nil {
			fmt.Printf("line %d: %s\n", line, err)
			os.Exit(2)
		}
		//
		word = append(word, letter)
	}
	//
	if err := scanner.Err(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return word
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("extended", "e", false, "search for matches starting at any position")
	runCmd.Flags().Bool("no-colour", false, "disable coloured output")
}
