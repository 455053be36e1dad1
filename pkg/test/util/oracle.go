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
package util

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/sere"
)

// Accepts determines whether an expression matches a given word, directly
// from the meaning of each operator rather than via an automaton.  This is
// exponential in the length of the word and is intended only as a reference
// for short words.  Prefix closures are not supported.
func Accepts(e sere.Expr, word []*bitset.BitSet) bool {
	switch e := e.(type) {
	case sere.Bool:
		return len(word) == 1 && Holds(e.Formula, word[0])
	case sere.Empty:
		return len(word) == 0
	case sere.Union:
		return Accepts(e.Lhs, word) || Accepts(e.Rhs, word)
	case sere.Intersect:
		return Accepts(e.Lhs, word) && Accepts(e.Rhs, word)
	case sere.Concat:
		for i := 0; i <= len(word); i++ {
			if Accepts(e.Lhs, word[:i]) && Accepts(e.Rhs, word[i:]) {
				return true
			}
		}
		//
		return false
	case sere.Fusion:
		// Both sides share the letter at position i-1
		for i := 1; i <= len(word); i++ {
			if Accepts(e.Lhs, word[:i]) && Accepts(e.Rhs, word[i-1:]) {
				return true
			}
		}
		//
		return false
	case sere.KleeneStar:
		return len(word) == 0 || acceptsRepeat(e.Arg, word)
	case sere.KleenePlus:
		return acceptsRepeat(e.Arg, word) || (len(word) == 0 && Accepts(e.Arg, word))
	case sere.Complement:
		return !Accepts(e.Arg, word)
	default:
		panic(fmt.Sprintf("unsupported expression %T", e))
	}
}

// Check whether a non-empty word splits into one or more non-empty words each
// matching a given expression.
func acceptsRepeat(e sere.Expr, word []*bitset.BitSet) bool {
	for i := 1; i <= len(word); i++ {
		if Accepts(e, word[:i]) && (i == len(word) || acceptsRepeat(e, word[i:])) {
			return true
		}
	}
	//
	return false
}

// Holds determines whether a boolean expression holds for a given letter.
func Holds(e sere.BoolExpr, letter *bitset.BitSet) bool {
	switch e := e.(type) {
	case sere.True:
		return true
	case sere.False:
		return false
	case sere.Atom:
		return letter.Test(e.Index)
	case sere.Not:
		return !Holds(e.Arg, letter)
	case sere.And:
		return Holds(e.Lhs, letter) && Holds(e.Rhs, letter)
	case sere.Or:
		return Holds(e.Lhs, letter) || Holds(e.Rhs, letter)
	default:
		panic(fmt.Sprintf("unsupported boolean expression %T", e))
	}
}
