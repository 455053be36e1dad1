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
package nfasl

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/match"
)

// Eval determines the verdict of an automaton on a complete word, where each
// letter identifies the set of atomic propositions which hold.  An automaton
// without final states fails on every word.
func Eval(ctx *boolean.Context, a *Automaton, word []*bitset.BitSet) match.Match {
	if len(a.Finals) == 0 {
		return match.Failed
	}
	//
	live := bitset.New(a.StateCount)
	live.Set(a.Initial)
	//
	for _, letter := range word {
		next := bitset.New(a.StateCount)
		//
		for q, ok := live.NextSet(0); ok; q, ok = live.NextSet(q + 1) {
			for _, rule := range a.Transitions[q] {
				if ctx.Eval(rule.Guard, letter) {
					next.Set(rule.Target)
				}
			}
		}
		//
		if next.None() {
			return match.Failed
		}
		//
		live = next
	}
	//
	for _, q := range a.Finals {
		if live.Test(q) {
			return match.Ok
		}
	}
	//
	return match.Partial
}
