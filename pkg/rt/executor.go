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
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/match"
)

// Executor incrementally matches an automaton against a stream of letters,
// where each letter identifies the set of atomic propositions which hold.
// A match must start at the beginning of the stream.  Once the verdict
// becomes Failed it remains so until the executor is reset.
type Executor interface {
	// Reset returns the executor to the start of the stream.
	Reset() match.Match
	// Advance consumes the next letter of the stream.
	Advance(letter *bitset.BitSet) match.Match
	// Result returns the verdict for the stream consumed so far.
	Result() match.Match
	// AtomicCount returns the number of atomic propositions each letter is
	// expected to range over.
	AtomicCount() uint
}

// ExtendedExecutor incrementally searches a stream of letters for matches
// starting at any position.
type ExtendedExecutor interface {
	// Reset returns the executor to the start of the stream.
	Reset() match.Extended
	// Advance consumes the next letter of the stream.
	Advance(letter *bitset.BitSet) match.Extended
	// Result returns the verdict for the stream consumed so far.
	Result() match.Extended
	// AtomicCount returns the number of atomic propositions each letter is
	// expected to range over.
	AtomicCount() uint
}

// NewExecutor constructs an executor for a snapshot, according to its kind.
func NewExecutor(s *Snapshot) Executor {
	switch s.Kind {
	case NFASL:
		return NewNfaExecutor(s)
	case DFASL:
		return NewDfaExecutor(s)
	default:
		panic(fmt.Sprintf("unknown snapshot kind %s", s.Kind))
	}
}

func toBitSet(n uint, states []uint) *bitset.BitSet {
	bits := bitset.New(n)
	//
	for _, q := range states {
		bits.Set(q)
	}
	//
	return bits
}

// ============================================================================
// Nondeterministic
// ============================================================================

// NfaExecutor executes a snapshot by tracking the set of live states.
type NfaExecutor struct {
	snapshot *Snapshot
	finals   *bitset.BitSet
	live     *bitset.BitSet
	verdict  match.Match
}

var _ Executor = &NfaExecutor{}

// NewNfaExecutor constructs an executor positioned at the start of the
// stream.  Both deterministic and nondeterministic snapshots are accepted.
func NewNfaExecutor(s *Snapshot) *NfaExecutor {
	e := &NfaExecutor{snapshot: s, finals: toBitSet(s.StateCount, s.Finals)}
	e.Reset()
	//
	return e
}

// AtomicCount implementation for Executor interface.
func (p *NfaExecutor) AtomicCount() uint {
	return p.snapshot.AtomicCount
}

// Reset implementation for Executor interface.
func (p *NfaExecutor) Reset() match.Match {
	p.live = toBitSet(p.snapshot.StateCount, p.snapshot.Initials)
	//
	if p.finals.None() {
		p.verdict = match.Failed
	} else {
		p.classify()
	}
	//
	return p.verdict
}

// Advance implementation for Executor interface.
func (p *NfaExecutor) Advance(letter *bitset.BitSet) match.Match {
	if p.verdict == match.Failed {
		return p.verdict
	}
	//
	next := bitset.New(p.snapshot.StateCount)
	//
	for q, ok := p.live.NextSet(0); ok; q, ok = p.live.NextSet(q + 1) {
		for _, tr := range p.snapshot.Transitions[q] {
			if tr.Guard.Eval(letter) {
				next.Set(tr.Target)
			}
		}
	}
	//
	p.live = next
	//
	if next.None() {
		p.verdict = match.Failed
	} else {
		p.classify()
	}
	//
	return p.verdict
}

// Result implementation for Executor interface.
func (p *NfaExecutor) Result() match.Match {
	return p.verdict
}

func (p *NfaExecutor) classify() {
	if p.live.IntersectionCardinality(p.finals) > 0 {
		p.verdict = match.Ok
	} else {
		p.verdict = match.Partial
	}
}

// ============================================================================
// Deterministic
// ============================================================================

// DfaExecutor executes a deterministic snapshot by tracking its single
// current state.  At each step the first rule whose guard holds is followed.
type DfaExecutor struct {
	snapshot *Snapshot
	finals   *bitset.BitSet
	current  uint
	verdict  match.Match
}

var _ Executor = &DfaExecutor{}

// NewDfaExecutor constructs an executor positioned at the start of the
// stream.
func NewDfaExecutor(s *Snapshot) *DfaExecutor {
	e := &DfaExecutor{snapshot: s, finals: toBitSet(s.StateCount, s.Finals)}
	e.Reset()
	//
	return e
}

// AtomicCount implementation for Executor interface.
func (p *DfaExecutor) AtomicCount() uint {
	return p.snapshot.AtomicCount
}

// Reset implementation for Executor interface.
func (p *DfaExecutor) Reset() match.Match {
	p.current = p.snapshot.Initials[0]
	//
	if p.finals.None() {
		p.verdict = match.Failed
	} else {
		p.classify()
	}
	//
	return p.verdict
}

// Advance implementation for Executor interface.
func (p *DfaExecutor) Advance(letter *bitset.BitSet) match.Match {
	if p.verdict == match.Failed {
		return p.verdict
	}
	//
	for _, tr := range p.snapshot.Transitions[p.current] {
		if tr.Guard.Eval(letter) {
			p.current = tr.Target
			p.classify()
			//
			return p.verdict
		}
	}
	//
	p.verdict = match.Failed
	//
	return p.verdict
}

// Result implementation for Executor interface.
func (p *DfaExecutor) Result() match.Match {
	return p.verdict
}

func (p *DfaExecutor) classify() {
	if p.finals.Test(p.current) {
		p.verdict = match.Ok
	} else {
		p.verdict = match.Partial
	}
}
