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
package boolean_test

import (
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/test/util"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Number of random formulas considered by each property test.
const N_RANDOM = 200

// ===================================================================
// Construction
// ===================================================================

func Test_Boolean_HashCons_01(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		a   = ctx.Var(0)
		b   = ctx.Var(1)
	)
	//
	e1 := ctx.And(a, ctx.Not(b))
	size := ctx.Size()
	e2 := ctx.And(ctx.Var(0), ctx.Not(ctx.Var(1)))
	//
	assert.Equal(t, e1, e2)
	assert.Equal(t, size, ctx.Size())
	assert.NotEqual(t, ctx.And(a, b), ctx.And(b, a))
	assert.NotEqual(t, ctx.And(a, b), ctx.Or(a, b))
}

func Test_Boolean_HashCons_02(t *testing.T) {
	ctx := boolean.NewContext()
	// Constructors never fold
	e := ctx.And(ctx.True(), ctx.Var(0))
	//
	assert.Equal(t, boolean.AND, e.Kind())
	lhs, rhs := ctx.Args(e)
	assert.True(t, lhs.IsTrue())
	assert.Equal(t, uint(0), rhs.Index())
	assert.Equal(t, ctx.Var(0), ctx.Arg(ctx.Not(ctx.Var(0))))
}

func Test_Boolean_Conjunction_01(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		a   = ctx.Var(0)
		b   = ctx.Var(1)
	)
	//
	assert.True(t, ctx.Conjunction().IsTrue())
	assert.True(t, ctx.Disjunction().IsFalse())
	assert.Equal(t, a, ctx.Conjunction(ctx.True(), a))
	assert.True(t, ctx.Conjunction(a, ctx.False(), b).IsFalse())
	assert.True(t, ctx.Disjunction(a, ctx.True(), b).IsTrue())
	assert.Equal(t, ctx.Or(a, b), ctx.Disjunction(ctx.False(), a, b))
}

func Test_Boolean_VarCount_01(t *testing.T) {
	ctx := boolean.NewContext()
	//
	assert.Equal(t, uint(0), ctx.VarCount(ctx.True()))
	assert.Equal(t, uint(1), ctx.VarCount(ctx.Var(0)))
	assert.Equal(t, uint(8), ctx.VarCount(ctx.Or(ctx.Not(ctx.Var(7)), ctx.Var(2))))
}

// ===================================================================
// Normal Form
// ===================================================================

func Test_Boolean_Nnf_01(t *testing.T) {
	var (
		ctx   = boolean.NewContext()
		names = []string{"a", "b"}
		a     = ctx.Var(0)
		b     = ctx.Var(1)
	)
	//
	check_Nnf(t, ctx, names, ctx.Not(ctx.And(a, b)), "!a || !b")
	check_Nnf(t, ctx, names, ctx.Not(ctx.Or(a, ctx.Not(b))), "!a && b")
	check_Nnf(t, ctx, names, ctx.Not(ctx.Not(a)), "a")
	check_Nnf(t, ctx, names, ctx.And(a, ctx.True()), "a")
	check_Nnf(t, ctx, names, ctx.Or(a, ctx.Not(ctx.False())), "true")
	check_Nnf(t, ctx, names, ctx.And(a, a), "a")
}

func Test_Boolean_Nnf_02(t *testing.T) {
	rng := util.NewRandom(1)
	//
	for range N_RANDOM {
		ctx := boolean.NewContext()
		e := util.RandomFormula(rng, ctx, 3, 5)
		nnf := ctx.Nnf(e)
		//
		require.True(t, ctx.IsNnf(nnf))
		require.Equal(t, nnf, ctx.Nnf(nnf))
		check_SameValues(t, ctx, e, nnf, 3)
	}
}

// ===================================================================
// Satisfiability
// ===================================================================

func Test_Boolean_Sat_01(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		a   = ctx.Var(0)
		b   = ctx.Var(1)
	)
	//
	assert.True(t, ctx.Sat(ctx.True()))
	assert.False(t, ctx.Sat(ctx.False()))
	assert.True(t, ctx.Sat(ctx.Not(a)))
	assert.False(t, ctx.Sat(ctx.And(a, ctx.Not(a))))
	assert.True(t, ctx.Prove(ctx.Or(a, ctx.Not(a))))
	assert.False(t, ctx.Prove(ctx.Or(a, b)))
	assert.True(t, ctx.Equivalent(ctx.Not(ctx.And(a, b)), ctx.Or(ctx.Not(a), ctx.Not(b))))
}

func Test_Boolean_Sat_02(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		e   = ctx.And(ctx.Var(0), ctx.Or(ctx.Var(1), ctx.Var(2)))
	)
	//
	ctx.Sat(e)
	calls := ctx.SolverCalls()
	// Results are memoised
	ctx.Sat(e)
	assert.Equal(t, calls, ctx.SolverCalls())
}

func Test_Boolean_Sat_03(t *testing.T) {
	rng := util.NewRandom(2)
	//
	for range N_RANDOM {
		var (
			ctx      = boolean.NewContext()
			e        = util.RandomFormula(rng, ctx, 3, 5)
			expected = false
		)
		//
		for _, letter := range util.AllLetters(3) {
			expected = expected || ctx.Eval(e, letter)
		}
		//
		require.Equal(t, expected, ctx.Sat(e))
		//
		witness, ok := ctx.Witness(e)
		require.Equal(t, expected, ok)
		//
		if ok {
			letter := bitset.New(3)
			//
			for i, v := range witness {
				letter.SetTo(uint(i), v)
			}
			//
			require.True(t, ctx.Eval(e, letter))
		}
	}
}

// ===================================================================
// Simplification
// ===================================================================

func Test_Boolean_Simplify_01(t *testing.T) {
	var (
		ctx   = boolean.NewContext()
		names = []string{"a", "b"}
		a     = ctx.Var(0)
		b     = ctx.Var(1)
	)
	//
	check_Simplify(t, ctx, names, ctx.Or(ctx.And(a, b), a), "a")
	check_Simplify(t, ctx, names, ctx.And(a, ctx.Or(a, b)), "a")
	check_Simplify(t, ctx, names, ctx.And(a, ctx.Not(a)), "false")
	check_Simplify(t, ctx, names, ctx.Or(a, ctx.Not(a)), "true")
	check_Simplify(t, ctx, names, ctx.Not(ctx.Or(a, b)), "!a && !b")
}

func Test_Boolean_Simplify_02(t *testing.T) {
	rng := util.NewRandom(3)
	//
	for range N_RANDOM {
		ctx := boolean.NewContext()
		e := util.RandomFormula(rng, ctx, 3, 5)
		s := ctx.Simplify(e)
		//
		require.True(t, ctx.IsNnf(s))
		require.True(t, ctx.Equivalent(e, s))
		check_SameValues(t, ctx, e, s, 3)
	}
}

func Test_Boolean_Simplify_03(t *testing.T) {
	ctx := boolean.NewContext()
	// Repeated conjuncts are all redundant
	e := ctx.Var(0)
	//
	for i := range 64 {
		e = ctx.And(ctx.Var(uint(i%3)), e)
	}
	//
	s := ctx.Simplify(e)
	//
	require.True(t, ctx.IsNnf(s))
	require.Equal(t, uint(3), countLeaves(ctx, s))
	check_SameValues(t, ctx, e, s, 3)
}

// ===================================================================
// Formatting
// ===================================================================

func Test_Boolean_String_01(t *testing.T) {
	var (
		ctx     = boolean.NewContext()
		names   = []string{"a", "b", "c"}
		a, b, c = ctx.Var(0), ctx.Var(1), ctx.Var(2)
	)
	//
	formulas := []boolean.Expr{
		ctx.And(ctx.Or(a, b), c),
		ctx.Or(a, ctx.And(b, c)),
		ctx.Not(ctx.And(a, b)),
		ctx.Or(ctx.Or(a, b), c),
		ctx.Or(a, ctx.Or(b, c)),
		ctx.Not(ctx.Not(ctx.Var(3))),
		ctx.And(ctx.True(), ctx.False()),
	}
	//
	var builder strings.Builder
	//
	for _, e := range formulas {
		builder.WriteString(ctx.String(e, names))
		builder.WriteString("\n")
	}
	//
	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "formulas", []byte(builder.String()))
}

// ===================================================================
// JSON
// ===================================================================

func Test_Boolean_Json_01(t *testing.T) {
	var (
		ctx = boolean.NewContext()
		e   = ctx.And(ctx.Var(0), ctx.Not(ctx.True()))
	)
	//
	bytes, err := ctx.MarshalExpr(e)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"kind":"and","arg0":{"kind":"var","variable":0},"arg1":{"kind":"not","arg":{"kind":"const","value":true}}}`,
		string(bytes))
	//
	decoded, err := ctx.UnmarshalExpr(bytes)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func Test_Boolean_Json_02(t *testing.T) {
	ctx := boolean.NewContext()
	//
	for _, text := range []string{
		`{"kind":"const"}`,
		`{"kind":"var"}`,
		`{"kind":"not"}`,
		`{"kind":"and","arg0":{"kind":"const","value":true}}`,
		`{"kind":"xor"}`,
		`[1,2]`,
	} {
		_, err := ctx.UnmarshalExpr([]byte(text))
		assert.Error(t, err, text)
	}
}

// ===================================================================
// Helpers
// ===================================================================

func check_Nnf(t *testing.T, ctx *boolean.Context, names []string, e boolean.Expr, expected string) {
	t.Helper()
	//
	nnf := ctx.Nnf(e)
	assert.True(t, ctx.IsNnf(nnf))
	assert.Equal(t, expected, ctx.String(nnf, names))
}

func check_Simplify(t *testing.T, ctx *boolean.Context, names []string, e boolean.Expr, expected string) {
	t.Helper()
	//
	s := ctx.Simplify(e)
	assert.Equal(t, expected, ctx.String(s, names))
	assert.True(t, ctx.Equivalent(e, s))
}

func countLeaves(ctx *boolean.Context, e boolean.Expr) uint {
	switch e.Kind() {
	case boolean.AND, boolean.OR:
		lhs, rhs := ctx.Args(e)
		return countLeaves(ctx, lhs) + countLeaves(ctx, rhs)
	default:
		return 1
	}
}

// Check two formulas agree on every letter over a given number of atoms.
func check_SameValues(t *testing.T, ctx *boolean.Context, lhs boolean.Expr, rhs boolean.Expr, atoms uint) {
	t.Helper()
	//
	for _, letter := range util.AllLetters(atoms) {
		require.Equal(t, ctx.Eval(lhs, letter), ctx.Eval(rhs, letter), "%s vs %s on %s", ctx.String(lhs, nil),
			ctx.String(rhs, nil), letter)
	}
}
