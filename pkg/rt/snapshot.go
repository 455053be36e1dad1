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
	"encoding/binary"
	"fmt"

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/dfasl"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/util/collection/set"
)

// Transition is a compiled rule.
type Transition struct {
	Guard  Bytecode
	Target uint
}

// Snapshot is the executable form of an automaton, with every guard compiled
// to bytecode.  Snapshots are immutable and may be shared between any number
// of executors.
type Snapshot struct {
	Kind        Kind
	AtomicCount uint
	StateCount  uint
	// Initial states, in ascending order.  A DFASL snapshot has exactly one.
	Initials []uint
	// Final states, in ascending order.
	Finals []uint
	// Compiled rules for each state.
	Transitions [][]Transition
}

// FromNfasl compiles a nondeterministic automaton into a snapshot.  The
// automaton is compiled as given, so it should be cleaned first for its
// verdicts to agree with a snapshot of its determinized form.
func FromNfasl(ctx *boolean.Context, a *nfasl.Automaton) (*Snapshot, error) {
	return compileSnapshot(ctx, NFASL, a)
}

// FromDfasl compiles a deterministic automaton into a snapshot.
func FromDfasl(ctx *boolean.Context, d *dfasl.Automaton) (*Snapshot, error) {
	return compileSnapshot(ctx, DFASL, d.ToNfasl())
}

func compileSnapshot(ctx *boolean.Context, kind Kind, a *nfasl.Automaton) (*Snapshot, error) {
	s := &Snapshot{
		Kind:        kind,
		AtomicCount: a.AtomicCount,
		StateCount:  a.StateCount,
		Initials:    []uint{a.Initial},
		Finals:      append([]uint{}, a.Finals...),
		Transitions: make([][]Transition, a.StateCount),
	}
	//
	for q, rules := range a.Transitions {
		s.Transitions[q] = make([]Transition, len(rules))
		//
		for i, rule := range rules {
			code, err := Compile(ctx, rule.Guard)
			if err != nil {
				return nil, err
			}
			//
			s.Transitions[q][i] = Transition{code, rule.Target}
		}
	}
	//
	return s, nil
}

// ToNfasl decompiles this snapshot back into an automaton.  Only the first
// initial state is retained.
func (p *Snapshot) ToNfasl(ctx *boolean.Context) *nfasl.Automaton {
	a := nfasl.New(p.AtomicCount, p.StateCount, p.Initials[0])
	a.Finals = set.NewSortedSet(p.Finals...)
	//
	for q, trs := range p.Transitions {
		for _, tr := range trs {
			a.Transitions[q] = append(a.Transitions[q], nfasl.Rule{Guard: tr.Guard.Decompile(ctx), Target: tr.Target})
		}
	}
	//
	return a
}

// MarshalBinary encodes this snapshot in the binary format: a header, the
// initial and final state sets (each a two byte count followed by two byte
// identifiers) and, for each state, a four byte rule count followed by each
// rule (four byte guard length, guard bytecode, two byte target).  All values
// are little endian.
func (p *Snapshot) MarshalBinary() ([]byte, error) {
	if p.AtomicCount > maxUint16 {
		return nil, fmt.Errorf("%w: %d atoms", ErrTooLarge, p.AtomicCount)
	} else if p.StateCount > maxUint16 {
		return nil, fmt.Errorf("%w: %d states", ErrTooLarge, p.StateCount)
	}
	//
	header := Header{p.Kind, uint16(p.AtomicCount), uint16(p.StateCount)}
	data, _ := header.MarshalBinary()
	//
	for _, states := range [][]uint{p.Initials, p.Finals} {
		if len(states) > maxUint16 {
			return nil, fmt.Errorf("%w: %d states in set", ErrTooLarge, len(states))
		}
		//
		data = binary.LittleEndian.AppendUint16(data, uint16(len(states)))
		//
		for _, q := range states {
			data = binary.LittleEndian.AppendUint16(data, uint16(q))
		}
	}
	//
	for _, trs := range p.Transitions {
		data = binary.LittleEndian.AppendUint32(data, uint32(len(trs)))
		//
		for _, tr := range trs {
			data = binary.LittleEndian.AppendUint32(data, uint32(len(tr.Guard)))
			data = append(data, tr.Guard...)
			data = binary.LittleEndian.AppendUint16(data, uint16(tr.Target))
		}
	}
	//
	return data, nil
}

// Load decodes a binary snapshot.  Every read is bounds checked and every
// state identifier, atom offset and guard is validated, such that either a
// well-formed snapshot is returned or an error wrapping ErrMalformed (or
// ErrUnsupportedKind).
func Load(data []byte) (*Snapshot, error) {
	var header Header
	//
	if err := header.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	//
	r := reader{data: data, pos: HEADER_SIZE}
	s := &Snapshot{
		Kind:        header.Kind,
		AtomicCount: uint(header.AtomicCount),
		StateCount:  uint(header.StateCount),
		Transitions: make([][]Transition, header.StateCount),
	}
	//
	if s.StateCount == 0 {
		return nil, fmt.Errorf("%w: no states", ErrMalformed)
	}
	//
	s.Initials = r.states(s.StateCount)
	s.Finals = r.states(s.StateCount)
	//
	for q := range s.StateCount {
		count := r.u32()
		// Every rule occupies at least seven bytes, which bounds the
		// allocation by the remaining data.
		if r.err == nil && uint(count) > r.remaining()/7 {
			r.fail("state %d has %d rules", q, count)
		}
		//
		for i := uint32(0); r.err == nil && i < count; i++ {
			code := Bytecode(r.bytes(uint(r.u32())))
			target := uint(r.u16())
			//
			if r.err != nil {
				break
			} else if err := code.Check(s.AtomicCount); err != nil {
				return nil, fmt.Errorf("state %d rule %d: %w", q, i, err)
			} else if target >= s.StateCount {
				r.fail("state %d rule %d targets state %d", q, i, target)
			}
			//
			s.Transitions[q] = append(s.Transitions[q], Transition{code, target})
		}
	}
	//
	switch {
	case r.err != nil:
		return nil, r.err
	case r.remaining() != 0:
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.remaining())
	case len(s.Initials) == 0:
		return nil, fmt.Errorf("%w: no initial state", ErrMalformed)
	case s.Kind == DFASL && len(s.Initials) != 1:
		return nil, fmt.Errorf("%w: deterministic snapshot with %d initial states", ErrMalformed, len(s.Initials))
	}
	//
	return s, nil
}

// reader consumes little endian values from a byte slice.  After the first
// failure every subsequent read yields zero and the failure is retained.
type reader struct {
	data []byte
	pos  uint
	err  error
}

func (p *reader) remaining() uint {
	return uint(len(p.data)) - p.pos
}

func (p *reader) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
	}
}

func (p *reader) bytes(n uint) []byte {
	if p.err != nil {
		return nil
	} else if n > p.remaining() {
		p.fail("truncated at byte %d", p.pos)
		return nil
	}
	//
	bytes := p.data[p.pos : p.pos+n]
	p.pos += n
	//
	return bytes
}

func (p *reader) u16() uint16 {
	if bytes := p.bytes(2); bytes != nil {
		return binary.LittleEndian.Uint16(bytes)
	}
	//
	return 0
}

func (p *reader) u32() uint32 {
	if bytes := p.bytes(4); bytes != nil {
		return binary.LittleEndian.Uint32(bytes)
	}
	//
	return 0
}

// Read a set of states, checking each is in bounds.
func (p *reader) states(stateCount uint) []uint {
	var (
		count  = uint(p.u16())
		states = set.NewSortedSet[uint]()
	)
	//
	for i := uint(0); p.err == nil && i < count; i++ {
		q := uint(p.u16())
		//
		if p.err == nil && q >= stateCount {
			p.fail("state %d out-of-bounds", q)
		}
		//
		states.Insert(q)
	}
	//
	return states
}
