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
package nfasl

import (
	"slices"

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/util/collection/set"
)

// Eps constructs the automaton accepting only the empty word.
func Eps() *Automaton {
	a := New(0, 1, 0)
	a.Finals = set.NewSortedSet[uint](0)
	//
	return a
}

// Phi constructs the automaton accepting exactly those one-letter words whose
// letter satisfies the given guard.
func Phi(ctx *boolean.Context, guard boolean.Expr) *Automaton {
	a := New(ctx.VarCount(guard), 2, 0)
	a.Finals = set.NewSortedSet[uint](1)
	a.addRule(0, guard, 1)
	//
	return a
}

// Union constructs an automaton accepting any word accepted by either
// operand.  States of the left operand keep their identifiers, those of the
// right operand follow, and a fresh initial state is placed last.
func Union(a0 *Automaton, a1 *Automaton) *Automaton {
	var (
		offset = a0.StateCount
		a      = New(max(a0.AtomicCount, a1.AtomicCount), a0.StateCount+a1.StateCount+1, a0.StateCount+a1.StateCount)
	)
	//
	a.Finals = a0.Finals.Clone()
	a.Finals.InsertSorted(shift(a1.Finals, offset))
	//
	if a0.IsFinal(a0.Initial) || a1.IsFinal(a1.Initial) {
		a.Finals.Insert(a.Initial)
	}
	//
	a.embed(a0, 0)
	a.embed(a1, offset)
	//
	for _, rule := range a0.Transitions[a0.Initial] {
		a.addRule(a.Initial, rule.Guard, rule.Target)
	}
	//
	for _, rule := range a1.Transitions[a1.Initial] {
		a.addRule(a.Initial, rule.Guard, rule.Target+offset)
	}
	//
	return a
}

// Intersect constructs the product automaton accepting any word accepted by
// both operands.  Product state (s0,s1) is numbered s0*n1+s1 where n1 is the
// number of states of the right operand.
func Intersect(ctx *boolean.Context, a0 *Automaton, a1 *Automaton) *Automaton {
	var (
		n1    = a1.StateCount
		remap = func(s0, s1 uint) uint { return s0*n1 + s1 }
		a     = New(max(a0.AtomicCount, a1.AtomicCount), a0.StateCount*n1, remap(a0.Initial, a1.Initial))
	)
	//
	for _, f0 := range a0.Finals {
		for _, f1 := range a1.Finals {
			a.Finals.Insert(remap(f0, f1))
		}
	}
	//
	for s0 := range a0.StateCount {
		for s1 := range n1 {
			for _, r0 := range a0.Transitions[s0] {
				for _, r1 := range a1.Transitions[s1] {
					a.addRule(remap(s0, s1), ctx.And(r0.Guard, r1.Guard), remap(r0.Target, r1.Target))
				}
			}
		}
	}
	//
	return a
}

// Concat constructs an automaton accepting any word formed from a word
// accepted by the left operand followed by a word accepted by the right.
// Final states of the left operand gain copies of the right operand's
// initial rules, and remain final only when the right operand accepts the
// empty word.
func Concat(a0 *Automaton, a1 *Automaton) *Automaton {
	var (
		offset = a0.StateCount
		a      = New(max(a0.AtomicCount, a1.AtomicCount), a0.StateCount+a1.StateCount, a0.Initial)
	)
	//
	if a1.IsFinal(a1.Initial) {
		a.Finals = a0.Finals.Clone()
	}
	//
	a.Finals.InsertSorted(shift(a1.Finals, offset))
	//
	for s0 := range a0.StateCount {
		for _, rule := range a0.Transitions[s0] {
			a.addRule(s0, rule.Guard, rule.Target)
		}
		//
		if a0.IsFinal(s0) {
			for _, rule := range a1.Transitions[a1.Initial] {
				a.addRule(s0, rule.Guard, rule.Target+offset)
			}
		}
	}
	//
	a.embed(a1, offset)
	//
	return a
}

// Fuse constructs an automaton accepting words formed from a word accepted by
// the left operand overlapping by one letter with a word accepted by the
// right operand.  Whenever a rule of the left operand enters one of its final
// states, an additional rule guarded by the conjunction of that rule and an
// initial rule of the right operand jumps directly into the right operand.
// Only the right operand's final states are final.
func Fuse(ctx *boolean.Context, a0 *Automaton, a1 *Automaton) *Automaton {
	var (
		offset = a0.StateCount
		a      = New(max(a0.AtomicCount, a1.AtomicCount), a0.StateCount+a1.StateCount, a0.Initial)
	)
	//
	a.Finals = shift(a1.Finals, offset)
	//
	for s0 := range a0.StateCount {
		for _, rule := range a0.Transitions[s0] {
			a.addRule(s0, rule.Guard, rule.Target)
			//
			if a0.IsFinal(rule.Target) {
				for _, rule1 := range a1.Transitions[a1.Initial] {
					a.addRule(s0, ctx.And(rule.Guard, rule1.Guard), rule1.Target+offset)
				}
			}
		}
	}
	//
	a.embed(a1, offset)
	//
	return a
}

// Star constructs an automaton accepting any concatenation of zero or more
// words accepted by the operand.
func Star(a0 *Automaton) *Automaton {
	a := repeat(isolate(a0))
	a.Finals.Insert(a.Initial)
	//
	return a
}

// Plus constructs an automaton accepting any concatenation of one or more
// words accepted by the operand.
func Plus(a0 *Automaton) *Automaton {
	return repeat(a0)
}

// Partial constructs an automaton accepting every prefix of a word accepted
// by the operand.  The operand is cleaned first so that only states lying on
// some accepting path become final.  If the cleaned operand accepts nothing,
// it is returned as is (i.e. without final states).
func Partial(ctx *boolean.Context, a0 *Automaton) *Automaton {
	a := Clean(ctx, a0)
	//
	if len(a.Finals) == 0 {
		return a
	}
	//
	a.Finals = make(set.SortedSet[uint], a.StateCount)
	for q := range a.StateCount {
		a.Finals[q] = q
	}
	//
	return a
}

// Copy an automaton such that every final state can re-enter the loop via
// copies of the initial state's rules.
func repeat(a0 *Automaton) *Automaton {
	a := New(a0.AtomicCount, a0.StateCount, a0.Initial)
	a.Finals = a0.Finals.Clone()
	//
	initials := a0.Transitions[a0.Initial]
	//
	for q, rules := range a0.Transitions {
		a.Transitions[q] = slices.Clone(rules)
		//
		if a0.IsFinal(uint(q)) {
			a.Transitions[q] = append(a.Transitions[q], initials...)
		}
	}
	//
	return a
}

// Ensure no rule re-enters the initial state, by adding a fresh initial state
// (placed last) when necessary.  The fresh state has copies of the initial
// state's rules, and is final only when the initial state is.
func isolate(a0 *Automaton) *Automaton {
	reentrant := false
	//
	for _, rules := range a0.Transitions {
		for _, rule := range rules {
			reentrant = reentrant || rule.Target == a0.Initial
		}
	}
	//
	if !reentrant {
		return a0
	}
	//
	a := New(a0.AtomicCount, a0.StateCount+1, a0.StateCount)
	a.Finals = a0.Finals.Clone()
	a.embed(a0, 0)
	//
	if a0.IsFinal(a0.Initial) {
		a.Finals.Insert(a.Initial)
	}
	//
	for _, rule := range a0.Transitions[a0.Initial] {
		a.addRule(a.Initial, rule.Guard, rule.Target)
	}
	//
	return a
}

func shift(states set.SortedSet[uint], offset uint) set.SortedSet[uint] {
	shifted := make(set.SortedSet[uint], len(states))
	//
	for i, q := range states {
		shifted[i] = q + offset
	}
	//
	return shifted
}
