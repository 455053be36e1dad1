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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_SortedSet_00(t *testing.T) {
	check_SortedSet_Insert(t, 5, 10)
	check_SortedSet_InsertSorted(t, 5, 10)
}

func Test_SortedSet_01(t *testing.T) {
	for range 1000 {
		check_SortedSet_Insert(t, 10, 32)
		check_SortedSet_InsertSorted(t, 10, 32)
	}
}

func Test_SortedSet_02(t *testing.T) {
	check_SortedSet_Insert(t, 100, 32)
	check_SortedSet_InsertSorted(t, 50, 32)
}

func Test_SortedSet_03(t *testing.T) {
	check_SortedSet_Insert(t, 1000, 64)
	check_SortedSet_InsertSorted(t, 500, 64)
}

func Test_SortedSet_04(t *testing.T) {
	left := NewSortedSet[uint](4, 1, 3)
	right := NewSortedSet[uint](3, 5, 1)
	//
	require.Equal(t, SortedSet[uint]{1, 3, 4}, left)
	require.Equal(t, SortedSet[uint]{1, 3, 4}, NewSortedSet[uint](3, 4, 1, 4))
	require.Equal(t, SortedSet[uint]{4}, left.Difference(right))
	require.Equal(t, SortedSet[uint]{5}, right.Difference(left))
	require.Empty(t, left.Difference(left))
	//
	left.InsertSorted(right)
	require.Equal(t, SortedSet[uint]{1, 3, 4, 5}, left)
}

func Test_SortedSet_05(t *testing.T) {
	var empty SortedSet[uint]
	//
	require.False(t, empty.Contains(0))
	require.Empty(t, empty.Difference(NewSortedSet[uint](1)))
	//
	empty.Insert(2)
	empty.Insert(0)
	empty.Insert(2)
	require.Equal(t, SortedSet[uint]{0, 2}, empty)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_SortedSet_Insert(t *testing.T, n uint, m uint) {
	items := generateRandomUints(n, m)
	aset := NewSortedSet(items...)

	for i := uint(0); i < m; i++ {
		require.Equal(t, array_contains(items, i), aset.Contains(i), "item %d", i)
	}
}

func check_SortedSet_InsertSorted(t *testing.T, n uint, m uint) {
	left := generateRandomUints(n, m)
	right := generateRandomUints(n, m)
	aset := NewSortedSet(left...)

	aset.InsertSorted(NewSortedSet(right...))
	//
	for i := uint(0); i < m; i++ {
		l := array_contains(left, i) || array_contains(right, i)
		require.Equal(t, l, aset.Contains(i), "item %d", i)
	}
}

func array_contains(items []uint, element uint) bool {
	for _, e := range items {
		if e == element {
			return true
		}
	}
	// Not present
	return false
}

func generateRandomUints(n, m uint) []uint {
	items := make([]uint, n)
	for i := range items {
		items[i] = uint(rand.Intn(int(m)))
	}
	//
	return items
}
