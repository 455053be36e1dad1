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
package rt

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/match"
)

// Age records, for a live state, the lengths of the longest and shortest
// stream suffixes along which a match attempt has reached it.  An age is
// undefined until some attempt has started.
type Age struct {
	Longest  uint
	Shortest uint
	Defined  bool
}

// Started notes that a new match attempt begins at this state.  An attempt
// already in progress keeps its longest length.
func (a Age) Started() Age {
	if !a.Defined {
		return Age{0, 0, true}
	}
	//
	return Age{a.Longest, 0, true}
}

// Step ages a context by one letter.
func (a Age) Step() Age {
	if !a.Defined {
		return Age{0, 0, true}
	}
	//
	return Age{a.Longest + 1, a.Shortest + 1, true}
}

// Merge combines the ages of two paths converging on the same state.
func (a Age) Merge(b Age) Age {
	switch {
	case !b.Defined:
		return a
	case !a.Defined:
		return b
	}
	//
	return Age{max(a.Longest, b.Longest), min(a.Shortest, b.Shortest), true}
}

// SearchExecutor executes a snapshot such that matches may begin at any
// position of the stream.  Before every letter the initial states are
// seeded into the live set, and the age of every live state is tracked.
type SearchExecutor struct {
	snapshot *Snapshot
	finals   *bitset.BitSet
	live     *bitset.BitSet
	ages     []Age
	verdict  match.Extended
}

var _ ExtendedExecutor = &SearchExecutor{}

// NewSearchExecutor constructs an extended executor positioned at the start
// of the stream.  Both deterministic and nondeterministic snapshots are
// accepted.
func NewSearchExecutor(s *Snapshot) *SearchExecutor {
	e := &SearchExecutor{snapshot: s, finals: toBitSet(s.StateCount, s.Finals)}
	e.Reset()
	//
	return e
}

// AtomicCount implementation for ExtendedExecutor interface.
func (p *SearchExecutor) AtomicCount() uint {
	return p.snapshot.AtomicCount
}

// Reset implementation for ExtendedExecutor interface.
func (p *SearchExecutor) Reset() match.Extended {
	p.live = bitset.New(p.snapshot.StateCount)
	p.ages = make([]Age, p.snapshot.StateCount)
	//
	if p.finals.None() {
		p.verdict = match.ExtendedFailed()
	} else {
		p.verdict = match.ExtendedPartial(0)
	}
	//
	return p.verdict
}

// Advance implementation for ExtendedExecutor interface.
func (p *SearchExecutor) Advance(letter *bitset.BitSet) match.Extended {
	if p.verdict.Match == match.Failed {
		return p.verdict
	}
	// Start new attempts from every initial state
	for _, q := range p.snapshot.Initials {
		p.ages[q] = p.ages[q].Started()
		p.live.Set(q)
	}
	//
	var (
		next = bitset.New(p.snapshot.StateCount)
		ages = make([]Age, p.snapshot.StateCount)
	)
	//
	for q, ok := p.live.NextSet(0); ok; q, ok = p.live.NextSet(q + 1) {
		aged := p.ages[q].Step()
		//
		for _, tr := range p.snapshot.Transitions[q] {
			if tr.Guard.Eval(letter) {
				next.Set(tr.Target)
				ages[tr.Target] = ages[tr.Target].Merge(aged)
			}
		}
	}
	//
	p.live, p.ages = next, ages
	p.verdict = p.classify()
	//
	return p.verdict
}

// Result implementation for ExtendedExecutor interface.
func (p *SearchExecutor) Result() match.Extended {
	return p.verdict
}

func (p *SearchExecutor) classify() match.Extended {
	var (
		horizon  uint
		matched  bool
		shortest uint
		longest  uint
	)
	//
	for q, ok := p.live.NextSet(0); ok; q, ok = p.live.NextSet(q + 1) {
		age := p.ages[q]
		horizon = max(horizon, age.Longest)
		//
		if !p.finals.Test(q) {
			continue
		} else if !matched {
			matched, shortest, longest = true, age.Shortest, age.Longest
		} else {
			shortest, longest = min(shortest, age.Shortest), max(longest, age.Longest)
		}
	}
	//
	if matched {
		return match.ExtendedOk(shortest, longest, horizon)
	}
	// Nothing live gives a horizon of zero
	return match.ExtendedPartial(horizon)
}
