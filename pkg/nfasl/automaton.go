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
	"fmt"
	"strings"

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/util/collection/set"
)

// Rule is a single transition which can be taken on any letter satisfying
// its guard.
type Rule struct {
	Guard  boolean.Expr
	Target uint
}

// Automaton is a nondeterministic finite automaton whose transitions are
// labelled with boolean formulas over a fixed number of atomic propositions.
// Several rules leaving the same state may fire on the same letter.
// Automata are treated as immutable once constructed.
type Automaton struct {
	// Number of atomic propositions guards may refer to.
	AtomicCount uint
	// Number of states.  States are identified as 0..StateCount-1.
	StateCount uint
	// The single initial state.
	Initial uint
	// Accepting states.
	Finals set.SortedSet[uint]
	// Outgoing rules for each state.
	Transitions [][]Rule
}

// New constructs an automaton with a given number of states, none of which
// have any outgoing rules, and none of which are final.
func New(atomicCount uint, stateCount uint, initial uint) *Automaton {
	return &Automaton{
		AtomicCount: atomicCount,
		StateCount:  stateCount,
		Initial:     initial,
		Transitions: make([][]Rule, stateCount),
	}
}

// IsFinal determines whether a given state is accepting.
func (p *Automaton) IsFinal(state uint) bool {
	return p.Finals.Contains(state)
}

// RuleCount returns the total number of rules across all states.
func (p *Automaton) RuleCount() uint {
	var count uint
	//
	for _, rules := range p.Transitions {
		count += uint(len(rules))
	}
	//
	return count
}

// Validate checks the structural invariants of this automaton: every state
// identifier is in bounds and every guard refers only to declared atomic
// propositions.
func (p *Automaton) Validate(ctx *boolean.Context) error {
	if p.StateCount == 0 {
		return fmt.Errorf("automaton has no states")
	} else if p.Initial >= p.StateCount {
		return fmt.Errorf("initial state %d out-of-bounds", p.Initial)
	} else if uint(len(p.Transitions)) != p.StateCount {
		return fmt.Errorf("expected %d transition lists, found %d", p.StateCount, len(p.Transitions))
	}
	//
	for _, q := range p.Finals {
		if q >= p.StateCount {
			return fmt.Errorf("final state %d out-of-bounds", q)
		}
	}
	//
	for q, rules := range p.Transitions {
		for _, rule := range rules {
			if rule.Target >= p.StateCount {
				return fmt.Errorf("state %d has rule targeting %d (out-of-bounds)", q, rule.Target)
			} else if n := ctx.VarCount(rule.Guard); n > p.AtomicCount {
				return fmt.Errorf("state %d has guard referring to atom %d (out-of-bounds)", q, n-1)
			}
		}
	}
	//
	return nil
}

// String returns a multi-line rendering of this automaton, using the given
// names for atomic propositions.
func (p *Automaton) String(ctx *boolean.Context, names []string) string {
	var builder strings.Builder
	//
	builder.WriteString(fmt.Sprintf("states %d, initial %d, finals %v\n", p.StateCount, p.Initial, []uint(p.Finals)))
	//
	for q, rules := range p.Transitions {
		for _, rule := range rules {
			builder.WriteString(fmt.Sprintf("  %d --[%s]--> %d\n", q, ctx.String(rule.Guard, names), rule.Target))
		}
	}
	//
	return builder.String()
}

// Copy over all rules from a given automaton, renumbering states by a fixed
// offset.
func (p *Automaton) embed(a *Automaton, offset uint) {
	for q, rules := range a.Transitions {
		for _, rule := range rules {
			p.addRule(uint(q)+offset, rule.Guard, rule.Target+offset)
		}
	}
}

func (p *Automaton) addRule(source uint, guard boolean.Expr, target uint) {
	p.Transitions[source] = append(p.Transitions[source], Rule{guard, target})
}
