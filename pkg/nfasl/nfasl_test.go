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
package nfasl_test

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/match"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/test/util"
	"github.com/consensys/go-sere/pkg/util/collection/set"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Number of random automata considered by each property test.
const N_RANDOM = 100

// Number of atomic propositions used by random automata.
const N_ATOMS = 2

// Longest word checked against random automata.
const MAX_LENGTH = 3

// ===================================================================
// Evaluation
// ===================================================================

func Test_Nfasl_Eval_01(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		a   = nfasl.New(2, 2, 0)
	)
	// 0 --a--> 1 --!b--> 0
	a.Finals = set.NewSortedSet[uint](1)
	a.Transitions[0] = []nfasl.Rule{{Guard: ctx.Var(0), Target: 1}}
	a.Transitions[1] = []nfasl.Rule{{Guard: ctx.Not(ctx.Var(1)), Target: 0}}
	//
	require.NoError(t, a.Validate(ctx))
	assert.Equal(t, match.Partial, nfasl.Eval(ctx, a, word()))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, a, word(letter())))
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, a, word(letter(0))))
	assert.Equal(t, match.Partial, nfasl.Eval(ctx, a, word(letter(0), letter(0))))
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, a, word(letter(0), letter(0), letter(0))))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, a, word(letter(0), letter(0, 1))))
}

func Test_Nfasl_Eval_02(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		a   = nfasl.New(1, 2, 0)
	)
	// An automaton without finals never matches, even when letters remain
	// possible.
	a.Transitions[0] = []nfasl.Rule{{Guard: ctx.True(), Target: 1}}
	a.Transitions[1] = []nfasl.Rule{{Guard: ctx.True(), Target: 1}}
	//
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, a, word()))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, a, word(letter(0))))
}

// ===================================================================
// Minimization
// ===================================================================

func Test_Nfasl_Minimize_01(t *testing.T) {
	var (
		ctx  = boolean.NewContext()
		a    = nfasl.New(2, 5, 0)
		notB = ctx.Not(ctx.Var(1))
	)
	// Two identical branches 0 --a--> 1 --!b--> 2 and 0 --a--> 3 --!b--> 4
	a.Finals = set.NewSortedSet[uint](2, 4)
	a.Transitions[0] = []nfasl.Rule{{Guard: ctx.Var(0), Target: 1}, {Guard: ctx.Var(0), Target: 3}}
	a.Transitions[1] = []nfasl.Rule{{Guard: notB, Target: 2}}
	a.Transitions[3] = []nfasl.Rule{{Guard: notB, Target: 4}}
	//
	m := nfasl.Minimize(ctx, a)
	require.NoError(t, m.Validate(ctx))
	assert.Equal(t, uint(3), m.StateCount)
	assert.Equal(t, 1, len(m.Finals))
	//
	assert.Equal(t, match.Partial, nfasl.Eval(ctx, m, word()))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, m, word(letter(1))))
	assert.Equal(t, match.Partial, nfasl.Eval(ctx, m, word(letter(0))))
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, m, word(letter(0), letter(0))))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, m, word(letter(0), letter(0), letter(0))))
}

func Test_Nfasl_Minimize_02(t *testing.T) {
	ctx := boolean.NewContext()
	// Guards with the same meaning but different shapes must still merge.
	a := nfasl.New(2, 3, 0)
	a.Finals = set.NewSortedSet[uint](1, 2)
	a.Transitions[0] = []nfasl.Rule{
		{Guard: ctx.And(ctx.Var(0), ctx.Var(1)), Target: 1},
		{Guard: ctx.And(ctx.Var(1), ctx.Var(0)), Target: 2},
	}
	//
	m := nfasl.Minimize(ctx, a)
	assert.Equal(t, uint(2), m.StateCount)
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, m, word(letter(0, 1))))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, m, word(letter(0))))
}

func Test_Nfasl_Minimize_03(t *testing.T) {
	check_RandomAutomata(t, 1, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		var (
			cleaned   = nfasl.Clean(ctx, as[0])
			minimized = nfasl.Minimize(ctx, as[0])
		)
		//
		require.NoError(t, minimized.Validate(ctx))
		assert.LessOrEqual(t, minimized.StateCount, cleaned.StateCount)
		//
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			require.Equal(t, nfasl.Eval(ctx, cleaned, w), nfasl.Eval(ctx, minimized, w))
		}
	})
}

// ===================================================================
// Cleaning
// ===================================================================

func Test_Nfasl_Clean_01(t *testing.T) {
	ctx := boolean.NewContext()
	// State 2 is unreachable, state 3 cannot reach a final and state 4 is
	// only reachable by an unsatisfiable guard.
	a := nfasl.New(1, 5, 0)
	a.Finals = set.NewSortedSet[uint](1, 2, 4)
	a.Transitions[0] = []nfasl.Rule{
		{Guard: ctx.Var(0), Target: 1},
		{Guard: ctx.True(), Target: 3},
		{Guard: ctx.False(), Target: 4},
	}
	a.Transitions[2] = []nfasl.Rule{{Guard: ctx.True(), Target: 1}}
	//
	c := nfasl.Clean(ctx, a)
	require.NoError(t, c.Validate(ctx))
	assert.Equal(t, uint(2), c.StateCount)
	assert.Equal(t, uint(1), c.RuleCount())
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, c, word(letter(0))))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, c, word(letter())))
}

func Test_Nfasl_Clean_02(t *testing.T) {
	ctx := boolean.NewContext()
	// Nothing is accepted, hence only the initial state survives.
	a := nfasl.New(1, 2, 1)
	a.Transitions[1] = []nfasl.Rule{{Guard: ctx.True(), Target: 0}}
	//
	c := nfasl.Clean(ctx, a)
	assert.Equal(t, uint(1), c.StateCount)
	assert.Equal(t, uint(0), c.Initial)
	assert.Equal(t, 0, len(c.Finals))
	assert.Equal(t, uint(0), c.RuleCount())
}

func Test_Nfasl_Clean_03(t *testing.T) {
	check_RandomAutomata(t, 1, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		cleaned := nfasl.Clean(ctx, as[0])
		//
		require.NoError(t, cleaned.Validate(ctx))
		//
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			r0 := nfasl.Eval(ctx, as[0], w)
			r1 := nfasl.Eval(ctx, cleaned, w)
			// Cleaning can only turn a partial match into a failure
			if r0 == match.Partial {
				require.NotEqual(t, match.Ok, r1)
			} else {
				require.Equal(t, r0, r1)
			}
		}
	})
}

// ===================================================================
// Algebra
// ===================================================================

func Test_Nfasl_Union_01(t *testing.T) {
	check_RandomAutomata(t, 2, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		a := nfasl.Union(as[0], as[1])
		require.NoError(t, a.Validate(ctx))
		//
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			expected := accepts(ctx, as[0], w) || accepts(ctx, as[1], w)
			require.Equal(t, expected, accepts(ctx, a, w))
		}
	})
}

func Test_Nfasl_Intersect_01(t *testing.T) {
	check_RandomAutomata(t, 2, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		a := nfasl.Intersect(ctx, as[0], as[1])
		require.NoError(t, a.Validate(ctx))
		//
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			var (
				r0 = nfasl.Eval(ctx, as[0], w)
				r1 = nfasl.Eval(ctx, as[1], w)
				r  = nfasl.Eval(ctx, a, w)
			)
			//
			switch {
			case r0 == match.Ok && r1 == match.Ok:
				require.Equal(t, match.Ok, r)
			case r0 == match.Failed || r1 == match.Failed:
				require.Equal(t, match.Failed, r)
			default:
				require.Equal(t, match.Partial, r)
			}
		}
	})
}

func Test_Nfasl_Concat_01(t *testing.T) {
	check_RandomAutomata(t, 2, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		a := nfasl.Concat(as[0], as[1])
		require.NoError(t, a.Validate(ctx))
		//
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			expected := false
			//
			for i := 0; i <= len(w) && !expected; i++ {
				expected = accepts(ctx, as[0], w[:i]) && accepts(ctx, as[1], w[i:])
			}
			//
			require.Equal(t, expected, accepts(ctx, a, w))
		}
	})
}

func Test_Nfasl_Fuse_01(t *testing.T) {
	check_RandomAutomata(t, 2, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		a := nfasl.Fuse(ctx, as[0], as[1])
		require.NoError(t, a.Validate(ctx))
		// Both sides share the letter at position i-1
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			expected := false
			//
			for i := 1; i <= len(w) && !expected; i++ {
				expected = accepts(ctx, as[0], w[:i]) && accepts(ctx, as[1], w[i-1:])
			}
			//
			require.Equal(t, expected, accepts(ctx, a, w))
		}
	})
}

func Test_Nfasl_Star_01(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		a   = nfasl.New(3, 3, 0)
	)
	// 0 --a--> 1 --b--> 0 and 1 --c--> 2, which accepts (a;b)[*];a;c and
	// re-enters its initial state.
	a.Finals = set.NewSortedSet[uint](2)
	a.Transitions[0] = []nfasl.Rule{{Guard: ctx.Var(0), Target: 1}}
	a.Transitions[1] = []nfasl.Rule{{Guard: ctx.Var(1), Target: 0}, {Guard: ctx.Var(2), Target: 2}}
	//
	s := nfasl.Star(a)
	require.NoError(t, s.Validate(ctx))
	//
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, s, word()))
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, s, word(letter(0), letter(2))))
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, s, word(letter(0), letter(1), letter(0), letter(2))))
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, s, word(letter(0), letter(2), letter(0), letter(2))))
	// Returning to the initial state is not the end of an iteration
	assert.Equal(t, match.Partial, nfasl.Eval(ctx, s, word(letter(0), letter(1))))
	assert.Equal(t, match.Partial, nfasl.Eval(ctx, s, word(letter(0), letter(2), letter(0), letter(1))))
}

func Test_Nfasl_Star_02(t *testing.T) {
	check_RandomAutomata(t, 1, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		a := nfasl.Star(as[0])
		require.NoError(t, a.Validate(ctx))
		//
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			require.Equal(t, len(w) == 0 || acceptsPlus(ctx, as[0], w), accepts(ctx, a, w))
		}
	})
}

func Test_Nfasl_Plus_01(t *testing.T) {
	check_RandomAutomata(t, 1, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		a := nfasl.Plus(as[0])
		require.NoError(t, a.Validate(ctx))
		//
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			require.Equal(t, acceptsPlus(ctx, as[0], w), accepts(ctx, a, w))
		}
	})
}

func Test_Nfasl_Partial_01(t *testing.T) {
	check_RandomAutomata(t, 1, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		var (
			cleaned = nfasl.Clean(ctx, as[0])
			a       = nfasl.Partial(ctx, as[0])
		)
		// Every prefix of an accepted word is accepted
		for _, w := range util.AllWords(N_ATOMS, MAX_LENGTH) {
			require.Equal(t, nfasl.Eval(ctx, cleaned, w) != match.Failed, accepts(ctx, a, w))
		}
	})
}

func Test_Nfasl_Eps_01(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		phi = nfasl.Phi(ctx, ctx.Var(0))
	)
	//
	assert.Equal(t, match.Ok, nfasl.Eval(ctx, nfasl.Eps(), word()))
	assert.Equal(t, match.Failed, nfasl.Eval(ctx, nfasl.Eps(), word(letter())))
	// Eps is the identity of concatenation
	for _, w := range util.AllWords(1, 2) {
		assert.Equal(t, nfasl.Eval(ctx, phi, w), nfasl.Eval(ctx, nfasl.Concat(nfasl.Eps(), phi), w))
		assert.Equal(t, accepts(ctx, phi, w), accepts(ctx, nfasl.Concat(phi, nfasl.Eps()), w))
	}
}

// ===================================================================
// Validation & JSON
// ===================================================================

func Test_Nfasl_Validate_01(t *testing.T) {
	ctx := boolean.NewContext()
	//
	a := nfasl.New(1, 2, 2)
	assert.Error(t, a.Validate(ctx))
	//
	a = nfasl.New(1, 2, 0)
	a.Finals = set.NewSortedSet[uint](2)
	assert.Error(t, a.Validate(ctx))
	//
	a = nfasl.New(1, 2, 0)
	a.Transitions[0] = []nfasl.Rule{{Guard: ctx.True(), Target: 5}}
	assert.Error(t, a.Validate(ctx))
	// Guard refers to an atom beyond the alphabet
	a = nfasl.New(1, 2, 0)
	a.Transitions[0] = []nfasl.Rule{{Guard: ctx.Var(1), Target: 1}}
	assert.Error(t, a.Validate(ctx))
	//
	assert.Error(t, nfasl.New(0, 0, 0).Validate(ctx))
}

func Test_Nfasl_Json_01(t *testing.T) {
	check_RandomAutomata(t, 1, func(t *testing.T, ctx *boolean.Context, as []*nfasl.Automaton) {
		bytes, err := nfasl.Marshal(ctx, as[0])
		require.NoError(t, err)
		// Decode into a fresh context
		other := boolean.NewContext()
		a, err := nfasl.Unmarshal(other, bytes)
		require.NoError(t, err)
		//
		assert.Equal(t, as[0].StateCount, a.StateCount)
		assert.Equal(t, as[0].RuleCount(), a.RuleCount())
		//
		for _, w := range util.AllWords(N_ATOMS, 2) {
			require.Equal(t, nfasl.Eval(ctx, as[0], w), nfasl.Eval(other, a, w))
		}
	})
}

func Test_Nfasl_Json_02(t *testing.T) {
	ctx := boolean.NewContext()
	//
	_, err := nfasl.Unmarshal(ctx, []byte(`{"atomicCount": 1, "stateCount": 2`))
	assert.Error(t, err)
	// Wrong number of transition lists
	_, err = nfasl.FromJson(ctx, &nfasl.JsonAutomaton{AtomicCount: 1, StateCount: 2, Transitions: [][]nfasl.JsonRule{{}}})
	assert.Error(t, err)
	// Rule targets a state which does not exist
	_, err = nfasl.FromJson(ctx, &nfasl.JsonAutomaton{
		AtomicCount: 1,
		StateCount:  1,
		Transitions: [][]nfasl.JsonRule{{{Phi: ctx.ToJson(ctx.Var(0)), State: 1}}},
	})
	assert.Error(t, err)
}

func Test_Nfasl_Dot_01(t *testing.T) {
	var (
		ctx   = boolean.NewContext()
		names = []string{"a", "b"}
		a     = nfasl.Concat(nfasl.Phi(ctx, ctx.Var(0)), nfasl.Phi(ctx, ctx.Not(ctx.Var(1))))
	)
	//
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "concat", []byte(nfasl.Dot(ctx, a, names)))
}

// ===================================================================
// Helpers
// ===================================================================

// Check a property over a number of randomly generated automata which share
// the same context.
func check_RandomAutomata(t *testing.T, n uint, property func(*testing.T, *boolean.Context, []*nfasl.Automaton)) {
	rng := util.NewRandom(uint64(len(t.Name())))
	//
	for range N_RANDOM {
		var (
			ctx = boolean.NewContext()
			as  = make([]*nfasl.Automaton, n)
		)
		//
		for i := range as {
			as[i] = util.RandomAutomaton(rng, ctx, N_ATOMS, 1+rng.UintN(4), 2)
		}
		//
		property(t, ctx, as)
	}
}

func accepts(ctx *boolean.Context, a *nfasl.Automaton, w []*bitset.BitSet) bool {
	return nfasl.Eval(ctx, a, w) == match.Ok
}

// Determine whether a word splits into one or more non-empty words accepted
// by a given automaton or, failing that, is itself accepted.
func acceptsPlus(ctx *boolean.Context, a *nfasl.Automaton, w []*bitset.BitSet) bool {
	if accepts(ctx, a, w) {
		return true
	}
	//
	for i := 1; i < len(w); i++ {
		if accepts(ctx, a, w[:i]) && acceptsPlus(ctx, a, w[i:]) {
			return true
		}
	}
	//
	return false
}

func letter(atoms ...uint) *bitset.BitSet {
	b := bitset.New(N_ATOMS)
	//
	for _, i := range atoms {
		b.Set(i)
	}
	//
	return b
}

func word(letters ...*bitset.BitSet) []*bitset.BitSet {
	return letters
}
