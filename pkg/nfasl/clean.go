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
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/util/collection/stack"
	log "github.com/sirupsen/logrus"
)

// Clean removes every state which is either unreachable from the initial
// state or from which no final state can be reached, considering only rules
// whose guards are satisfiable.  Rules with unsatisfiable guards are dropped.
// Should no state survive, the initial state alone is retained so that the
// result is never empty.  Surviving states are renumbered densely, preserving
// their relative order.
func Clean(ctx *boolean.Context, a *Automaton) *Automaton {
	var (
		forward  = make([][]uint, a.StateCount)
		backward = make([][]uint, a.StateCount)
	)
	// Build reachability graphs over feasible rules
	for q, rules := range a.Transitions {
		for _, rule := range rules {
			if ctx.Sat(rule.Guard) {
				forward[q] = append(forward[q], rule.Target)
				backward[rule.Target] = append(backward[rule.Target], uint(q))
			}
		}
	}
	//
	live := reachable(forward, []uint{a.Initial})
	live.InPlaceIntersection(reachable(backward, a.Finals))
	//
	if live.None() {
		live.Set(a.Initial)
	}
	//
	cleaned := filter(ctx, a, live)
	//
	log.Debugf("cleaned automaton from %d to %d states", a.StateCount, cleaned.StateCount)
	//
	return cleaned
}

// Determine the set of states reachable from the given roots.
func reachable(arcs [][]uint, roots []uint) *bitset.BitSet {
	var (
		visited  = bitset.New(uint(len(arcs)))
		worklist = stack.NewStack[uint]()
	)
	//
	for _, q := range roots {
		if !visited.Test(q) {
			visited.Set(q)
			worklist.Push(q)
		}
	}
	//
	for !worklist.IsEmpty() {
		q := worklist.Pop()
		//
		for _, r := range arcs[q] {
			if !visited.Test(r) {
				visited.Set(r)
				worklist.Push(r)
			}
		}
	}
	//
	return visited
}

// Restrict an automaton to a given set of states, which must include the
// initial state, dropping any rule whose guard is infeasible.
func filter(ctx *boolean.Context, a *Automaton, keep *bitset.BitSet) *Automaton {
	var (
		remap = make([]uint, a.StateCount)
		next  uint
	)
	//
	for q, ok := keep.NextSet(0); ok; q, ok = keep.NextSet(q + 1) {
		remap[q] = next
		next++
	}
	//
	b := New(a.AtomicCount, next, remap[a.Initial])
	//
	for _, q := range a.Finals {
		if keep.Test(q) {
			b.Finals = append(b.Finals, remap[q])
		}
	}
	//
	for q, ok := keep.NextSet(0); ok; q, ok = keep.NextSet(q + 1) {
		for _, rule := range a.Transitions[q] {
			if keep.Test(rule.Target) && ctx.Sat(rule.Guard) {
				b.addRule(remap[q], rule.Guard, remap[rule.Target])
			}
		}
	}
	//
	return b
}
