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
package test

import (
	"fmt"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/dfasl"
	"github.com/consensys/go-sere/pkg/match"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/rt"
	"github.com/consensys/go-sere/pkg/sere"
	"github.com/consensys/go-sere/pkg/test/util"
	"github.com/stretchr/testify/require"
)

// Number of atoms used for random expressions.
const RANDOM_ATOMS = 2

// Maximum length of words checked for random expressions.
const RANDOM_LENGTH = 4

// ===================================================================
// Whole words
// ===================================================================

func Test_Random_Sere_01(t *testing.T) {
	check_RandomSeres(t, 0, 50, 2)
}

func Test_Random_Sere_02(t *testing.T) {
	check_RandomSeres(t, 50, 100, 3)
}

func Test_Random_Sere_03(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	//
	check_RandomSeres(t, 100, 200, 4)
}

// ===================================================================
// Suffix search
// ===================================================================

func Test_Random_Search_01(t *testing.T) {
	check_RandomSearches(t, 0, 50, 2)
}

func Test_Random_Search_02(t *testing.T) {
	check_RandomSearches(t, 50, 100, 3)
}

// ===================================================================
// Helpers
// ===================================================================

// Check that every stage of compilation agrees with the reference semantics
// of randomly generated expressions, on all short words.
func check_RandomSeres(t *testing.T, from uint64, to uint64, depth uint) {
	t.Parallel()
	//
	words := util.AllWords(RANDOM_ATOMS, RANDOM_LENGTH)
	//
	for seed := from; seed < to; seed++ {
		var (
			rng = util.NewRandom(seed)
			e   = util.RandomSere(rng, RANDOM_ATOMS, depth)
			ctx = boolean.NewContext()
			id  = fmt.Sprintf("seed %d: %s", seed, e)
		)
		//
		lowered := sere.ToNfasl(ctx, e)
		require.NoError(t, lowered.Validate(ctx), id)
		//
		cleaned := nfasl.Clean(ctx, lowered)
		minimized := nfasl.Minimize(ctx, lowered)
		determinized := dfasl.FromNfasl(ctx, minimized)
		require.NoError(t, determinized.Validate(ctx), id)
		require.LessOrEqual(t, minimized.StateCount, cleaned.StateCount, id)
		//
		snapshot, err := rt.FromDfasl(ctx, determinized)
		require.NoError(t, err, id)
		//
		executor := rt.NewExecutor(snapshot)
		//
		for _, word := range words {
			expected := util.Accepts(e, word)
			//
			require.Equal(t, expected, nfasl.Eval(ctx, lowered, word) == match.Ok, "%s (lowered) on %v", id, word)
			require.Equal(t, expected, nfasl.Eval(ctx, cleaned, word) == match.Ok, "%s (cleaned) on %v", id, word)
			require.Equal(t, expected, nfasl.Eval(ctx, minimized, word) == match.Ok, "%s (minimized) on %v", id, word)
			require.Equal(t, expected, dfasl.Eval(ctx, determinized, word) == match.Ok, "%s (dfa) on %v", id, word)
			require.Equal(t, expected, execute(executor, word) == match.Ok, "%s (executor) on %v", id, word)
		}
	}
}

// Check that the extended executor reports exactly the shortest and longest
// matching suffixes at every position.
func check_RandomSearches(t *testing.T, from uint64, to uint64, depth uint) {
	t.Parallel()
	//
	for seed := from; seed < to; seed++ {
		var (
			rng = util.NewRandom(seed)
			e   = util.RandomSere(rng, RANDOM_ATOMS, depth)
			ctx = boolean.NewContext()
			id  = fmt.Sprintf("seed %d: %s", seed, e)
		)
		//
		snapshot, err := rt.FromNfasl(ctx, nfasl.Minimize(ctx, sere.ToNfasl(ctx, e)))
		require.NoError(t, err, id)
		//
		executor := rt.NewSearchExecutor(snapshot)
		//
		for range 10 {
			word := util.RandomWord(rng, RANDOM_ATOMS, 6)
			//
			executor.Reset()
			//
			for j, letter := range word {
				actual := executor.Advance(letter)
				shortest, longest, ok := suffixes(e, word[:j+1])
				//
				if ok {
					require.Equal(t, match.ExtendedOk(shortest, longest, actual.Horizon), actual, "%s on %v", id, word[:j+1])
					require.GreaterOrEqual(t, actual.Horizon, longest, id)
				} else {
					require.NotEqual(t, match.Ok, actual.Match, "%s on %v", id, word[:j+1])
				}
			}
		}
	}
}

// Determine the shortest and longest non-empty suffixes of a word matched by
// an expression.
func suffixes(e sere.Expr, word []*bitset.BitSet) (uint, uint, bool) {
	var (
		shortest, longest uint
		matched           bool
	)
	//
	for k := 1; k <= len(word); k++ {
		if util.Accepts(e, word[len(word)-k:]) {
			if !matched {
				shortest, matched = uint(k), true
			}
			//
			longest = uint(k)
		}
	}
	//
	return shortest, longest, matched
}

func execute(executor rt.Executor, word []*bitset.BitSet) match.Match {
	executor.Reset()
	//
	for _, letter := range word {
		executor.Advance(letter)
	}
	//
	return executor.Result()
}
