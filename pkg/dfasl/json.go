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
package dfasl

import (
	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/nfasl"
)

// FromDeterministic reinterprets an automaton which is already deterministic,
// such as one decoded from a snapshot.  This fails if the automaton is
// malformed or if two rules leaving the same state overlap.
func FromDeterministic(ctx *boolean.Context, a *nfasl.Automaton) (*Automaton, error) {
	d := &Automaton{
		AtomicCount: a.AtomicCount,
		StateCount:  a.StateCount,
		Initial:     a.Initial,
		Finals:      a.Finals.Clone(),
		Transitions: a.Transitions,
	}
	//
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}
	//
	return d, nil
}

// ToJson converts an automaton into its JSON representation.
func ToJson(ctx *boolean.Context, d *Automaton) *nfasl.JsonAutomaton {
	return nfasl.ToJson(ctx, d.ToNfasl())
}

// FromJson constructs the deterministic automaton described by a JSON
// representation.
func FromJson(ctx *boolean.Context, j *nfasl.JsonAutomaton) (*Automaton, error) {
	a, err := nfasl.FromJson(ctx, j)
	if err != nil {
		return nil, err
	}
	//
	return FromDeterministic(ctx, a)
}
