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
	"errors"
	"fmt"
)

// MAGIC identifies a binary automaton snapshot.
const MAGIC uint32 = 0x82337462

const maxUint16 = 0xFFFF

// Kind identifies which form of automaton a snapshot holds.
type Kind uint16

const (
	// NFASL identifies a nondeterministic automaton.
	NFASL Kind = 0
	// DFASL identifies a deterministic automaton.
	DFASL Kind = 1
)

func (k Kind) String() string {
	switch k {
	case NFASL:
		return "nfasl"
	case DFASL:
		return "dfasl"
	default:
		return fmt.Sprintf("kind(%d)", uint16(k))
	}
}

// ErrMalformed is reported when a snapshot is truncated, holds trailing
// bytes, or refers to states or atoms which are out-of-bounds.
var ErrMalformed = errors.New("malformed snapshot")

// ErrUnsupportedKind is reported when a snapshot holds an unknown kind of
// automaton.
var ErrUnsupportedKind = errors.New("unsupported snapshot kind")

// ErrTooLarge is reported when an automaton cannot be written because some
// count or identifier does not fit its field.
var ErrTooLarge = errors.New("automaton too large for snapshot")

// HEADER_SIZE gives the number of bytes in a snapshot header.
const HEADER_SIZE = 10

// Header provides the fixed-size preamble of every snapshot.
type Header struct {
	Kind        Kind
	AtomicCount uint16
	StateCount  uint16
}

// MarshalBinary converts the header into a sequence of bytes, beginning with
// the magic number.
func (p *Header) MarshalBinary() ([]byte, error) {
	var data = make([]byte, 0, HEADER_SIZE)
	//
	data = binary.LittleEndian.AppendUint32(data, MAGIC)
	data = binary.LittleEndian.AppendUint16(data, uint16(p.Kind))
	data = binary.LittleEndian.AppendUint16(data, p.AtomicCount)
	data = binary.LittleEndian.AppendUint16(data, p.StateCount)
	//
	return data, nil
}

// UnmarshalBinary initialises this header from the start of a snapshot.
// This should match exactly the encoding above.
func (p *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HEADER_SIZE {
		return fmt.Errorf("%w: truncated header", ErrMalformed)
	} else if magic := binary.LittleEndian.Uint32(data); magic != MAGIC {
		return fmt.Errorf("%w: bad magic number 0x%08x", ErrMalformed, magic)
	}
	//
	p.Kind = Kind(binary.LittleEndian.Uint16(data[4:]))
	p.AtomicCount = binary.LittleEndian.Uint16(data[6:])
	p.StateCount = binary.LittleEndian.Uint16(data[8:])
	//
	if p.Kind != NFASL && p.Kind != DFASL {
		return fmt.Errorf("%w (%d)", ErrUnsupportedKind, uint16(p.Kind))
	}
	//
	return nil
}

// IsSnapshot checks whether the given data begins with the snapshot magic
// number.
func IsSnapshot(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == MAGIC
}
