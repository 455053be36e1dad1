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
package dfasl

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/util/collection/hash"
	log "github.com/sirupsen/logrus"
)

// FromNfasl determinizes an automaton using the subset construction.  Each
// state of the result represents a set of states of the original.  Since
// guards are symbolic, the successors of a set are found by splitting the
// space of letters: for each reachable target in turn, a letter either
// enables it or does not, and only satisfiable combinations are kept.  This
// yields one rule per distinct reachable target set, with pairwise disjoint
// guards that together cover every letter enabling at least one rule.
// Final states reachable only through unsatisfiable rules are never
// materialized, hence the result agrees with the input on every word only
// when the input is clean.
func FromNfasl(ctx *boolean.Context, a *nfasl.Automaton) *Automaton {
	b := &builder{ctx: ctx, nfa: a, ids: hash.NewMap[hash.BitSetKey, uint](0)}
	b.candidate(bitset.New(a.StateCount).Set(a.Initial))
	// Sets discovered during expansion are appended, hence this loop runs
	// until a fixpoint is reached.
	for i := 0; i < len(b.sets); i++ {
		b.expand(uint(i))
	}
	//
	d := &Automaton{
		AtomicCount: a.AtomicCount,
		StateCount:  uint(len(b.sets)),
		Initial:     0,
		Transitions: b.transitions,
	}
	//
	for i, states := range b.sets {
		for _, q := range a.Finals {
			if states.Test(q) {
				d.Finals = append(d.Finals, uint(i))
				break
			}
		}
	}
	//
	log.Debugf("determinized automaton from %d to %d states", a.StateCount, d.StateCount)
	//
	return d
}

type builder struct {
	ctx *boolean.Context
	nfa *nfasl.Automaton
	// Maps each set of states discovered so far to its identifier.
	ids *hash.Map[hash.BitSetKey, uint]
	// Sets of states discovered so far, indexed by identifier.
	sets []*bitset.BitSet
	// Rules constructed so far, indexed by identifier.
	transitions [][]Rule
}

// Register a set of states, returning its identifier.
func (p *builder) candidate(states *bitset.BitSet) uint {
	key := hash.NewBitSetKey(states)
	//
	if id, ok := p.ids.Get(key); ok {
		return id
	}
	//
	id := uint(len(p.sets))
	p.ids.Insert(key, id)
	p.sets = append(p.sets, states)
	p.transitions = append(p.transitions, nil)
	//
	return id
}

// Construct the outgoing rules for the set of states with a given identifier.
func (p *builder) expand(id uint) {
	var (
		sources = p.sets[id]
		guards  = make(map[uint]boolean.Expr)
		targets []uint
	)
	// Combine the guards of all rules leading to the same target
	for q, ok := sources.NextSet(0); ok; q, ok = sources.NextSet(q + 1) {
		for _, rule := range p.nfa.Transitions[q] {
			if guard, ok := guards[rule.Target]; ok {
				guards[rule.Target] = p.ctx.Or(guard, rule.Guard)
			} else {
				guards[rule.Target] = rule.Guard
				targets = append(targets, rule.Target)
			}
		}
	}
	//
	p.split(id, guards, targets, p.ctx.True(), bitset.New(p.nfa.StateCount))
}

// Decide, for the first remaining target, whether or not it is enabled.
// Upon deciding every target, a rule is emitted to the set of enabled
// targets (unless there are none).
func (p *builder) split(id uint, guards map[uint]boolean.Expr, targets []uint, upper boolean.Expr,
	enabled *bitset.BitSet) {
	//
	if len(targets) == 0 {
		if enabled.Any() {
			target := p.candidate(enabled)
			p.transitions[id] = append(p.transitions[id], Rule{Guard: p.ctx.Simplify(upper), Target: target})
		}
		//
		return
	}
	//
	var (
		q       = targets[0]
		include = p.ctx.And(upper, guards[q])
		exclude = p.ctx.And(upper, p.ctx.Not(guards[q]))
	)
	//
	if p.ctx.Sat(include) {
		p.split(id, guards, targets[1:], include, enabled.Clone().Set(q))
	}
	//
	if p.ctx.Sat(exclude) {
		p.split(id, guards, targets[1:], exclude, enabled)
	}
}

// Totalize extends an automaton with an absorbing state, placed last, such
// that every letter enables some rule from every state.  Each state gains a
// rule into the absorbing state guarded by the negation of its existing
// guards, where satisfiable, and the absorbing state loops on every letter.
// The absorbing state is not final.
func Totalize(ctx *boolean.Context, d *Automaton) *Automaton {
	var (
		sink = d.StateCount
		t    = &Automaton{
			AtomicCount: d.AtomicCount,
			StateCount:  d.StateCount + 1,
			Initial:     d.Initial,
			Finals:      d.Finals.Clone(),
			Transitions: make([][]Rule, d.StateCount+1),
		}
	)
	//
	for q, rules := range d.Transitions {
		var guards = make([]boolean.Expr, len(rules))
		//
		for i, rule := range rules {
			guards[i] = rule.Guard
		}
		//
		t.Transitions[q] = append([]Rule{}, rules...)
		//
		if rest := ctx.Simplify(ctx.Not(ctx.Disjunction(guards...))); ctx.Sat(rest) {
			t.Transitions[q] = append(t.Transitions[q], Rule{Guard: rest, Target: sink})
		}
	}
	//
	t.Transitions[sink] = []Rule{{Guard: ctx.True(), Target: sink}}
	//
	return t
}

// Complement constructs an automaton which accepts exactly those words the
// given automaton does not.  The automaton is determinized and totalized, its
// final states are inverted, and the result is cleaned.
func Complement(ctx *boolean.Context, a *nfasl.Automaton) *nfasl.Automaton {
	var (
		t        = Totalize(ctx, FromNfasl(ctx, a))
		inverted = t.ToNfasl()
	)
	//
	inverted.Finals = nil
	//
	for q := range t.StateCount {
		if !t.IsFinal(q) {
			inverted.Finals = append(inverted.Finals, q)
		}
	}
	//
	return nfasl.Clean(ctx, inverted)
}
