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
package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	util "github.com/consensys/go-sere/pkg/cmd"
	"github.com/consensys/go-sere/pkg/match"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/sere"
	test_util "github.com/consensys/go-sere/pkg/test/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint("min-len", 0, "Minimum word length")
	rootCmd.Flags().Uint("max-len", 4, "Maximum word length")
	rootCmd.Flags().Uint("count", 64, "Number of random words per length, when not enumerating")
	rootCmd.Flags().Uint("max-words", 4096, "Enumerate all words of a given length when there are at most this many")
	rootCmd.Flags().Uint64("seed", 0, "Seed for random word generation")
	rootCmd.Flags().String("dir", "testdata", "Directory holding test files")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen",
	Short: "Test generation utility for go-sere.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var cfg TestGenConfig
		//
		cfg.name = args[0]
		cfg.dir = util.GetString(cmd, "dir")
		cfg.min_len = util.GetUint(cmd, "min-len")
		cfg.max_len = util.GetUint(cmd, "max-len")
		cfg.count = util.GetUint(cmd, "count")
		cfg.max_words = util.GetUint(cmd, "max-words")
		seed, _ := cmd.Flags().GetUint64("seed")
		cfg.seed = seed
		// Read expression
		filename := path.Join(cfg.dir, fmt.Sprintf("%s.sere", cfg.name))
		expr, names := readExpressionFile(filename)
		oracle := findOracle(expr, names)
		// Generate & split words
		valid, invalid := generateTestWords(cfg, uint(len(names)), oracle)
		// Write out
		writeTestWords(cfg, "accepts", names, valid)
		writeTestWords(cfg, "rejects", names, invalid)
		os.Exit(0)
	},
}

// TestGenConfig encapsulates configuration related to test generation.
type TestGenConfig struct {
	name      string
	dir       string
	min_len   uint
	max_len   uint
	count     uint
	max_words uint
	seed      uint64
}

// OracleFn defines function which determines whether or not a given word is
// accepted.
type OracleFn = func([]*bitset.BitSet) bool

// Determine an oracle for the given expression.  Where possible this is the
// reference semantics, which is independent of any automaton.  Otherwise,
// the minimized automaton is used instead.
func findOracle(expr sere.Expr, names []string) OracleFn {
	if isReferenceSupported(expr) {
		return func(word []*bitset.BitSet) bool {
			return test_util.Accepts(expr, word)
		}
	}
	//
	log.Warnf("expression contains a prefix closure; using automaton as oracle")
	//
	compiled, err := sere.CompileExpr(boolean.NewContext(), expr, names, sere.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return func(word []*bitset.BitSet) bool {
		return nfasl.Eval(compiled.Context, compiled.Nfasl, word) == match.Ok
	}
}

func isReferenceSupported(expr sere.Expr) bool {
	switch e := expr.(type) {
	case sere.Bool, sere.Empty:
		return true
	case sere.Union:
		return isReferenceSupported(e.Lhs) && isReferenceSupported(e.Rhs)
	case sere.Intersect:
		return isReferenceSupported(e.Lhs) && isReferenceSupported(e.Rhs)
	case sere.Concat:
		return isReferenceSupported(e.Lhs) && isReferenceSupported(e.Rhs)
	case sere.Fusion:
		return isReferenceSupported(e.Lhs) && isReferenceSupported(e.Rhs)
	case sere.KleeneStar:
		return isReferenceSupported(e.Arg)
	case sere.KleenePlus:
		return isReferenceSupported(e.Arg)
	case sere.Complement:
		return isReferenceSupported(e.Arg)
	default:
		return false
	}
}

// Generate test words
func generateTestWords(cfg TestGenConfig, atoms uint, oracle OracleFn) ([][]*bitset.BitSet, [][]*bitset.BitSet) {
	var (
		rng     = test_util.NewRandom(cfg.seed)
		valid   = make([][]*bitset.BitSet, 0)
		invalid = make([][]*bitset.BitSet, 0)
		letters = uint(1) << atoms
	)
	//
	for n := cfg.min_len; n <= cfg.max_len; n++ {
		var words [][]*bitset.BitSet
		// Enumerate when feasible, otherwise sample.
		if total, ok := power(letters, n); ok && total <= cfg.max_words {
			words = enumerateWords(atoms, n)
		} else {
			for range cfg.count {
				words = append(words, test_util.RandomWord(rng, atoms, n))
			}
		}
		// Split the words
		for _, word := range words {
			if oracle(word) {
				valid = append(valid, word)
			} else {
				invalid = append(invalid, word)
			}
		}
	}
	// Done
	return valid, invalid
}

// Enumerate all words of exactly the given length.
func enumerateWords(atoms uint, n uint) [][]*bitset.BitSet {
	words := test_util.AllWords(atoms, n)
	// Drop shorter words
	for len(words) > 0 && uint(len(words[0])) < n {
		words = words[1:]
	}
	//
	return words
}

func power(base uint, exp uint) (uint, bool) {
	result := uint(1)
	//
	for range exp {
		if result > (1<<32)/base {
			return 0, false
		}
		//
		result *= base
	}
	//
	return result, true
}

func writeTestWords(cfg TestGenConfig, ext string, names []string, words [][]*bitset.BitSet) {
	// Construct filename
	filename := path.Join(cfg.dir, fmt.Sprintf("%s.auto.%s", cfg.name, ext))
	// Write the file
	if err := test_util.WriteWordsFile(filename, names, words); err != nil {
		panic(err)
	}
	// Log what happened
	log.Infof("Wrote %s (%d words)\n", filename, len(words))
}

func readExpressionFile(filename string) (sere.Expr, []string) {
	// Read expression file
	bytes, err := os.ReadFile(filename)
	// Handle errors
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	// Attempt to parse expression
	expr, names, err2 := sere.Parse(strings.TrimSpace(string(bytes)))
	// Check whether parsed successfully or not
	if err2 == nil {
		// Ok
		return expr, names
	}
	// Errors
	fmt.Println(err2)
	os.Exit(1)
	// unreachable
	return nil, nil
}
