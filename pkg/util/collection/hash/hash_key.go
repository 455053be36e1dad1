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
package hash

import (
	"github.com/bits-and-blooms/bitset"
)

// Hasher provides a generic definition of a hashing function suitable for use
// within the hashmap.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// BitSetKey wraps a bitset so it can be used as a key into a hashmap.  The
// bitset must not be modified once wrapped.
type BitSetKey struct {
	bits *bitset.BitSet
}

var _ Hasher[BitSetKey] = BitSetKey{}

// NewBitSetKey constructs a new key from a given bitset.
func NewBitSetKey(bits *bitset.BitSet) BitSetKey {
	return BitSetKey{bits}
}

// BitSet returns the underlying bitset.
func (p BitSetKey) BitSet() *bitset.BitSet {
	return p.bits
}

// Equals compares two keys by the members of their sets, irrespective of
// their allocated lengths.
func (p BitSetKey) Equals(other BitSetKey) bool {
	return p.bits.SymmetricDifferenceCardinality(other.bits) == 0
}

// Hash returns a hashcode for the members of this set.  Trailing zero words
// are ignored so that equal sets of different allocated lengths collide.
func (p BitSetKey) Hash() uint64 {
	var (
		words = p.bits.Words()
		n     = len(words)
	)
	//
	for n > 0 && words[n-1] == 0 {
		n--
	}
	// FNV1a hash implementation
	hash := offset64
	//
	for _, w := range words[:n] {
		hash ^= w
		hash *= prime64
	}
	//
	return hash
}

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)
