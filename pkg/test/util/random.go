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
package util

import (
	"math/rand/v2"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/sere"
	"github.com/consensys/go-sere/pkg/util/collection/set"
)

// NewRandom constructs a deterministic source of randomness from a seed, such
// that failing tests can be reproduced.
func NewRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomFormula generates a random formula over a given number of atoms, whose
// nesting depth is at most depth.
func RandomFormula(rng *rand.Rand, ctx *boolean.Context, atoms uint, depth uint) boolean.Expr {
	if depth == 0 || rng.UintN(4) == 0 {
		switch k := rng.UintN(atoms + 2); k {
		case 0:
			return ctx.True()
		case 1:
			return ctx.False()
		default:
			return ctx.Var(k - 2)
		}
	}
	//
	switch rng.UintN(3) {
	case 0:
		return ctx.Not(RandomFormula(rng, ctx, atoms, depth-1))
	case 1:
		return ctx.And(RandomFormula(rng, ctx, atoms, depth-1), RandomFormula(rng, ctx, atoms, depth-1))
	default:
		return ctx.Or(RandomFormula(rng, ctx, atoms, depth-1), RandomFormula(rng, ctx, atoms, depth-1))
	}
}

// RandomBoolExpr generates a random boolean expression over a given number of
// atoms, whose nesting depth is at most depth.
func RandomBoolExpr(rng *rand.Rand, atoms uint, depth uint) sere.BoolExpr {
	if depth == 0 || rng.UintN(3) == 0 {
		switch k := rng.UintN(atoms + 1); k {
		case 0:
			if rng.UintN(2) == 0 {
				return sere.True{}
			}
			//
			return sere.False{}
		default:
			return sere.Atom{Index: k - 1}
		}
	}
	//
	switch rng.UintN(3) {
	case 0:
		return sere.Not{Arg: RandomBoolExpr(rng, atoms, depth-1)}
	case 1:
		return sere.And{Lhs: RandomBoolExpr(rng, atoms, depth-1), Rhs: RandomBoolExpr(rng, atoms, depth-1)}
	default:
		return sere.Or{Lhs: RandomBoolExpr(rng, atoms, depth-1), Rhs: RandomBoolExpr(rng, atoms, depth-1)}
	}
}

// RandomSere generates a random expression over a given number of atoms,
// whose nesting depth is at most depth.  Prefix closures are never generated,
// and complements only rarely.
func RandomSere(rng *rand.Rand, atoms uint, depth uint) sere.Expr {
	if depth == 0 || rng.UintN(4) == 0 {
		if rng.UintN(8) == 0 {
			return sere.Empty{}
		}
		//
		return sere.Bool{Formula: RandomBoolExpr(rng, atoms, 2)}
	}
	//
	arg := func() sere.Expr { return RandomSere(rng, atoms, depth-1) }
	//
	switch rng.UintN(15) {
	case 0, 1:
		return sere.Union{Lhs: arg(), Rhs: arg()}
	case 2, 3:
		return sere.Intersect{Lhs: arg(), Rhs: arg()}
	case 4, 5, 6:
		return sere.Concat{Lhs: arg(), Rhs: arg()}
	case 7, 8:
		return sere.Fusion{Lhs: arg(), Rhs: arg()}
	case 9, 10:
		return sere.KleeneStar{Arg: arg()}
	case 11, 12:
		return sere.KleenePlus{Arg: arg()}
	case 13:
		return sere.Repeat(arg(), rng.UintN(2), 1+rng.UintN(2))
	default:
		return sere.Complement{Arg: RandomSere(rng, atoms, min(depth-1, 1))}
	}
}

// RandomAutomaton generates a random automaton over a given number of atoms,
// with the given number of states (at least one) and at most a given number
// of rules per state.
func RandomAutomaton(rng *rand.Rand, ctx *boolean.Context, atoms uint, states uint, rules uint) *nfasl.Automaton {
	a := nfasl.New(atoms, states, rng.UintN(states))
	//
	for q := range states {
		if rng.UintN(3) == 0 {
			a.Finals = append(a.Finals, q)
		}
		//
		for range rng.UintN(rules + 1) {
			guard := RandomFormula(rng, ctx, atoms, 2)
			a.Transitions[q] = append(a.Transitions[q], nfasl.Rule{Guard: guard, Target: rng.UintN(states)})
		}
	}
	//
	a.Finals = set.NewSortedSet(a.Finals...)
	//
	return a
}

// RandomLetter generates a letter over a given number of atoms, where each
// atom holds with even chance.
func RandomLetter(rng *rand.Rand, atoms uint) *bitset.BitSet {
	letter := bitset.New(atoms)
	//
	for i := range atoms {
		if rng.UintN(2) == 0 {
			letter.Set(i)
		}
	}
	//
	return letter
}

// RandomWord generates a word of a given length over a given number of atoms.
func RandomWord(rng *rand.Rand, atoms uint, length uint) []*bitset.BitSet {
	word := make([]*bitset.BitSet, length)
	//
	for i := range word {
		word[i] = RandomLetter(rng, atoms)
	}
	//
	return word
}

// AllLetters enumerates every letter over a given number of atoms.
func AllLetters(atoms uint) []*bitset.BitSet {
	letters := make([]*bitset.BitSet, 1<<atoms)
	//
	for i := range letters {
		letters[i] = bitset.From([]uint64{uint64(i)})
	}
	//
	return letters
}

// AllWords enumerates every word over a given number of atoms, whose length
// is at most a given bound.  Shorter words come first.
func AllWords(atoms uint, length uint) [][]*bitset.BitSet {
	var (
		letters = AllLetters(atoms)
		words   = [][]*bitset.BitSet{{}}
		last    = words
	)
	//
	for range length {
		var next [][]*bitset.BitSet
		//
		for _, word := range last {
			for _, letter := range letters {
				next = append(next, append(append([]*bitset.BitSet{}, word...), letter))
			}
		}
		//
		words = append(words, next...)
		last = next
	}
	//
	return words
}
