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
	"math/rand"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/require"
)

func Test_HashMap_01(t *testing.T) {
	items := []uint{1, 2, 3, 4, 3, 2, 1}
	check_HashMap(t, items)
}

func Test_HashMap_02(t *testing.T) {
	check_HashMap(t, generateRandomUints(10, 32))
}

func Test_HashMap_03(t *testing.T) {
	check_HashMap(t, generateRandomUints(100, 32))
}

func Test_HashMap_04(t *testing.T) {
	check_HashMap(t, generateRandomUints(1000, 256))
}

func Test_BitSetKey_01(t *testing.T) {
	// Same members, different allocated lengths
	left := bitset.New(8).Set(1).Set(5)
	right := bitset.New(512).Set(5).Set(1)
	//
	require.True(t, NewBitSetKey(left).Equals(NewBitSetKey(right)))
	require.Equal(t, NewBitSetKey(left).Hash(), NewBitSetKey(right).Hash())
}

func Test_BitSetKey_02(t *testing.T) {
	left := bitset.New(8).Set(1)
	right := bitset.New(8).Set(2)
	//
	require.False(t, NewBitSetKey(left).Equals(NewBitSetKey(right)))
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_HashMap(t *testing.T, items []uint) {
	gmap := initGoMap(items)
	hmap := NewMap[BitSetKey, uint](0)
	// Insert items
	for key, val := range gmap {
		hmap.Insert(toKey(key), val)
	}
	// Sanity check number of unique items
	require.Equal(t, uint(len(gmap)), hmap.Size(), hmap.String())
	// Sanity check containership
	for key, val := range gmap {
		require.True(t, hmap.ContainsKey(toKey(key)), "missing key %d", key)
		//
		v, ok := hmap.Get(toKey(key))
		require.True(t, ok)
		require.Equal(t, val, v)
	}
	// Check non-membership
	require.False(t, hmap.ContainsKey(toKey(1000)))
}

// Encode a number as the set of its binary digits.
func toKey(n uint) BitSetKey {
	bits := bitset.New(0)
	//
	for i := uint(0); n > 0; i, n = i+1, n>>1 {
		if n&1 == 1 {
			bits.Set(i)
		}
	}
	//
	return NewBitSetKey(bits)
}

func initGoMap(items []uint) map[uint]uint {
	gmap := make(map[uint]uint)
	//
	for _, v := range items {
		if w, ok := gmap[v]; ok {
			gmap[v] = w + 1
		} else {
			gmap[v] = 1
		}
	}
	//
	return gmap
}

func generateRandomUints(n, m uint) []uint {
	items := make([]uint, n)
	for i := range items {
		items[i] = uint(rand.Intn(int(m)))
	}
	//
	return items
}
