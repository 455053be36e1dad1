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
	"fmt"
	"strings"
)

// Map associates keys which cannot be compared by Go's builtin equality
// (such as sets of states) with values.  Keys are grouped by hashcode, and
// keys sharing a hashcode are distinguished using Equals.
type Map[K Hasher[K], V any] struct {
	buckets map[uint64][]entry[K, V]
	size    uint
}

type entry[K any, V any] struct {
	key   K
	value V
}

// NewMap constructs an empty map with room for a given number of hashcodes.
func NewMap[K Hasher[K], V any](capacity uint) *Map[K, V] {
	return &Map[K, V]{buckets: make(map[uint64][]entry[K, V], capacity)}
}

// Size returns the number of distinct keys in this map.
func (p *Map[K, V]) Size() uint {
	return p.size
}

// Insert associates a value with a key, returning true if the key was already
// present (in which case its value is replaced).
func (p *Map[K, V]) Insert(key K, value V) bool {
	var (
		hash   = key.Hash()
		bucket = p.buckets[hash]
	)
	//
	if i := find(bucket, key); i >= 0 {
		bucket[i].value = value
		return true
	}
	//
	p.buckets[hash] = append(bucket, entry[K, V]{key, value})
	p.size++
	//
	return false
}

// ContainsKey checks whether a key is present in this map.
func (p *Map[K, V]) ContainsKey(key K) bool {
	return find(p.buckets[key.Hash()], key) >= 0
}

// Get returns the value associated with a key, if any.
func (p *Map[K, V]) Get(key K) (V, bool) {
	var (
		bucket = p.buckets[key.Hash()]
		empty  V
	)
	//
	if i := find(bucket, key); i >= 0 {
		return bucket[i].value, true
	}
	//
	return empty, false
}

func (p *Map[K, V]) String() string {
	var (
		builder strings.Builder
		first   = true
	)
	//
	builder.WriteString("{")
	//
	for _, bucket := range p.buckets {
		for _, e := range bucket {
			if !first {
				builder.WriteString(",")
			}
			//
			first = false
			builder.WriteString(fmt.Sprintf("%v:=%v", any(e.key), any(e.value)))
		}
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

func find[K Hasher[K], V any](bucket []entry[K, V], key K) int {
	for i, e := range bucket {
		if key.Equals(e.key) {
			return i
		}
	}
	//
	return -1
}
