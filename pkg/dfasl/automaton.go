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
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/match"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/util/collection/set"
)

// Rule is a single transition of a deterministic automaton.
type Rule = nfasl.Rule

// Automaton is a deterministic finite automaton with symbolic guards.  It
// has the same shape as a nondeterministic automaton but, additionally, the
// guards of the rules leaving any one state are pairwise disjoint.  An
// automaton need not be total: a letter satisfying no guard is rejected.
type Automaton struct {
	AtomicCount uint
	StateCount  uint
	Initial     uint
	Finals      set.SortedSet[uint]
	Transitions [][]Rule
}

// IsFinal determines whether a given state is accepting.
func (p *Automaton) IsFinal(state uint) bool {
	return p.Finals.Contains(state)
}

// ToNfasl views this automaton as a nondeterministic one.
func (p *Automaton) ToNfasl() *nfasl.Automaton {
	a := nfasl.New(p.AtomicCount, p.StateCount, p.Initial)
	a.Finals = p.Finals.Clone()
	//
	for q, rules := range p.Transitions {
		a.Transitions[q] = append([]Rule{}, rules...)
	}
	//
	return a
}

// Validate checks the structural invariants of this automaton and, using the
// solver, that the guards leaving each state are mutually exclusive.
func (p *Automaton) Validate(ctx *boolean.Context) error {
	if err := p.ToNfasl().Validate(ctx); err != nil {
		return err
	}
	//
	for q, rules := range p.Transitions {
		for i := range rules {
			for j := i + 1; j < len(rules); j++ {
				if ctx.Sat(ctx.And(rules[i].Guard, rules[j].Guard)) {
					return fmt.Errorf("state %d has overlapping rules %d and %d", q, i, j)
				}
			}
		}
	}
	//
	return nil
}

// Eval determines the verdict of this automaton on a complete word.  At most
// one rule fires per letter, hence the first satisfied guard is followed.
func Eval(ctx *boolean.Context, a *Automaton, word []*bitset.BitSet) match.Match {
	if len(a.Finals) == 0 {
		return match.Failed
	}
	//
	curr := a.Initial
	//
	for _, letter := range word {
		next, ok := step(ctx, a.Transitions[curr], letter)
		if !ok {
			return match.Failed
		}
		//
		curr = next
	}
	//
	if a.IsFinal(curr) {
		return match.Ok
	}
	//
	return match.Partial
}

func step(ctx *boolean.Context, rules []Rule, letter *bitset.BitSet) (uint, bool) {
	for _, rule := range rules {
		if ctx.Eval(rule.Guard, letter) {
			return rule.Target, true
		}
	}
	//
	return 0, false
}
