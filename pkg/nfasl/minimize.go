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
	log "github.com/sirupsen/logrus"
)

// Minimize computes an automaton with as few states as the bisimulation
// quotient allows which gives the same verdict as the original on every
// word.  The automaton is cleaned first, then its states are partitioned
// using the greedy refinement of D'Antoni and Veanes ("Forward Bisimulations
// for Nondeterministic Symbolic Finite Automata", TACAS'17) and, finally,
// every block is collapsed into a single state.
func Minimize(ctx *boolean.Context, a *Automaton) *Automaton {
	var (
		cleaned   = Clean(ctx, a)
		partition = newPartitioner(ctx, cleaned).run()
		minimized = quotient(ctx, cleaned, partition)
	)
	//
	log.Debugf("minimized automaton from %d to %d states (%d SAT calls)", cleaned.StateCount,
		minimized.StateCount, ctx.SolverCalls())
	//
	return minimized
}

// partitioner maintains the state of a partition refinement.  Blocks are
// identified by their position in the blocks array and are never modified
// once created; a split retires the old block and allocates two new ones.
type partitioner struct {
	ctx *boolean.Context
	nfa *Automaton
	// Every block ever allocated.
	blocks []set.SortedSet[uint]
	// Parent block recorded for each block, used to obtain the complementary
	// splitter.
	super []set.SortedSet[uint]
	// Identifiers of blocks currently in the partition.
	partition []uint
	// Identifiers of blocks awaiting use as splitters.
	worklist []uint
}

func newPartitioner(ctx *boolean.Context, a *Automaton) *partitioner {
	var (
		p       = &partitioner{ctx: ctx, nfa: a}
		states  = set.NewSortedSet[uint]()
		finals  = a.Finals
		others  set.SortedSet[uint]
		smaller uint
	)
	//
	for q := range a.StateCount {
		states = append(states, q)
	}
	//
	others = states.Difference(finals)
	//
	for _, block := range []set.SortedSet[uint]{finals, others} {
		if len(block) > 0 {
			id := p.allocate(block, states)
			p.partition = append(p.partition, id)
		}
	}
	// Start refining from the smaller block
	if len(p.partition) == 2 && len(others) < len(finals) {
		smaller = 1
	}
	//
	p.worklist = append(p.worklist, p.partition[smaller])
	//
	return p
}

func (p *partitioner) allocate(block set.SortedSet[uint], parent set.SortedSet[uint]) uint {
	p.blocks = append(p.blocks, block)
	p.super = append(p.super, parent)
	//
	return uint(len(p.blocks) - 1)
}

func (p *partitioner) run() []set.SortedSet[uint] {
	for len(p.worklist) > 0 {
		id := p.worklist[0]
		p.worklist = p.worklist[1:]
		//
		splitter := p.blocks[id]
		complement := p.super[id].Difference(splitter)
		//
		for changed := true; changed; {
			changed = p.refine(splitter, complement)
		}
	}
	// Refine until the partition is stable with respect to each of its own
	// blocks.
	for changed := true; changed; {
		changed = p.refine(p.current()...)
	}
	//
	return p.current()
}

// Return the blocks in the current partition, ordered by least member.
func (p *partitioner) current() []set.SortedSet[uint] {
	blocks := make([]set.SortedSet[uint], len(p.partition))
	//
	for i, id := range p.partition {
		blocks[i] = p.blocks[id]
	}
	//
	slices.SortFunc(blocks, func(l, r set.SortedSet[uint]) int {
		return int(l[0]) - int(r[0])
	})
	//
	return blocks
}

// Attempt to split a single block of the current partition using any of the
// given splitters.  Returns true if a split occurred.
func (p *partitioner) refine(splitters ...set.SortedSet[uint]) bool {
	for i, id := range p.partition {
		for _, splitter := range splitters {
			if len(splitter) == 0 {
				continue
			}
			//
			if d, rest, ok := p.split(p.blocks[id], splitter); ok {
				p.replace(i, id, d, rest)
				return true
			}
		}
	}
	//
	return false
}

// Attempt to split a block by a splitter.  This looks for two states q and r
// of the block such that δ(q,R) ∧ ¬δ(r,R) is satisfiable and, if found,
// separates those states agreeing with q on this witness from the others.
func (p *partitioner) split(block, splitter set.SortedSet[uint]) (set.SortedSet[uint], set.SortedSet[uint], bool) {
	if len(block) < 2 {
		return nil, nil, false
	}
	//
	deltas := make([]boolean.Expr, len(block))
	for i, q := range block {
		deltas[i] = p.delta(q, splitter)
	}
	//
	for i := range block {
		for j := range block {
			if i == j || deltas[i].IsFalse() {
				continue
			}
			//
			witness := p.ctx.And(deltas[i], p.ctx.Not(deltas[j]))
			//
			if !p.ctx.Sat(witness) {
				continue
			}
			//
			var d, rest set.SortedSet[uint]
			//
			for k, q := range block {
				if p.ctx.Sat(p.ctx.And(deltas[k], witness)) {
					d = append(d, q)
				} else {
					rest = append(rest, q)
				}
			}
			//
			return d, rest, true
		}
	}
	//
	return nil, nil, false
}

// Replace the ith block of the partition by its two halves, updating the
// worklist accordingly.
func (p *partitioner) replace(i int, id uint, d, rest set.SortedSet[uint]) {
	var (
		block  = p.blocks[id]
		queued = slices.Index(p.worklist, id)
		parent = block
	)
	//
	if queued >= 0 {
		parent = p.super[id]
	}
	//
	dID := p.allocate(d, parent)
	restID := p.allocate(rest, parent)
	//
	p.partition[i] = dID
	p.partition = append(p.partition, restID)
	//
	switch {
	case queued >= 0:
		p.worklist[queued] = dID
		p.worklist = append(p.worklist, restID)
	case len(d) <= len(rest):
		p.worklist = append(p.worklist, dID)
	default:
		p.worklist = append(p.worklist, restID)
	}
}

// Compute the disjunction of all guards on rules from q into a given set of
// states.
func (p *partitioner) delta(q uint, states set.SortedSet[uint]) boolean.Expr {
	var guards []boolean.Expr
	//
	for _, rule := range p.nfa.Transitions[q] {
		if states.Contains(rule.Target) {
			guards = append(guards, rule.Guard)
		}
	}
	//
	return p.ctx.Disjunction(guards...)
}

// Collapse each block of a partition into a single state.  Rules between two
// blocks are combined into one whose guard is the disjunction of the
// originals.
func quotient(ctx *boolean.Context, a *Automaton, partition []set.SortedSet[uint]) *Automaton {
	var remap = make([]uint, a.StateCount)
	//
	for b, block := range partition {
		for _, q := range block {
			remap[q] = uint(b)
		}
	}
	//
	m := New(a.AtomicCount, uint(len(partition)), remap[a.Initial])
	//
	for _, q := range a.Finals {
		m.Finals.Insert(remap[q])
	}
	//
	for b := range partition {
		var (
			guards  = make(map[uint][]boolean.Expr)
			targets []uint
		)
		//
		for _, q := range partition[b] {
			for _, rule := range a.Transitions[q] {
				t := remap[rule.Target]
				//
				if _, ok := guards[t]; !ok {
					targets = append(targets, t)
				}
				//
				if !slices.Contains(guards[t], rule.Guard) {
					guards[t] = append(guards[t], rule.Guard)
				}
			}
		}
		//
		for _, t := range targets {
			m.addRule(uint(b), ctx.Disjunction(guards[t]...), t)
		}
	}
	//
	return m
}
