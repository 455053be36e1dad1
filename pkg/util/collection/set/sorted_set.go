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
package set

import (
	"cmp"
	"slices"
)

// SortedSet is a set of values held in ascending order without duplicates.
// The zero value is the empty set.  Sets of states are typically small, so
// a sorted slice is preferred over a map.
type SortedSet[T cmp.Ordered] []T

// NewSortedSet returns a sorted set holding the given elements, which may be
// in any order and may contain duplicates.
func NewSortedSet[T cmp.Ordered](elements ...T) SortedSet[T] {
	set := slices.Clone(elements)
	slices.Sort(set)
	//
	return slices.Compact(set)
}

// Contains determines whether a given element is in this set.
func (p SortedSet[T]) Contains(element T) bool {
	_, found := slices.BinarySearch(p, element)
	return found
}

// Insert an element into this set, if not already present.
func (p *SortedSet[T]) Insert(element T) {
	if i, found := slices.BinarySearch(*p, element); !found {
		*p = slices.Insert(*p, i, element)
	}
}

// InsertSorted inserts every element of another set into this set.
func (p *SortedSet[T]) InsertSorted(other SortedSet[T]) {
	var (
		left   = *p
		merged = make(SortedSet[T], 0, len(left)+len(other))
		i, j   int
	)
	//
	for i < len(left) && j < len(other) {
		switch {
		case left[i] < other[j]:
			merged = append(merged, left[i])
			i++
		case left[i] > other[j]:
			merged = append(merged, other[j])
			j++
		default:
			merged = append(merged, left[i])
			i++
			j++
		}
	}
	//
	merged = append(merged, left[i:]...)
	*p = append(merged, other[j:]...)
}

// Difference returns the elements of this set which are not in another.
func (p SortedSet[T]) Difference(other SortedSet[T]) SortedSet[T] {
	var (
		result SortedSet[T]
		j      int
	)
	//
	for _, e := range p {
		for j < len(other) && other[j] < e {
			j++
		}
		//
		if j >= len(other) || other[j] != e {
			result = append(result, e)
		}
	}
	//
	return result
}

// Clone returns a copy of this set which can be modified independently.
func (p SortedSet[T]) Clone() SortedSet[T] {
	return slices.Clone(p)
}
