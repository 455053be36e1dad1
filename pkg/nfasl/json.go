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
	"encoding/json"
	"fmt"

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/util/collection/set"
)

// JsonRule is the JSON representation of a single rule.
type JsonRule struct {
	Phi   *boolean.JsonExpr `json:"phi"`
	State uint              `json:"state"`
}

// JsonAutomaton is the JSON representation of an automaton.
type JsonAutomaton struct {
	AtomicCount uint         `json:"atomicCount"`
	StateCount  uint         `json:"stateCount"`
	Initial     uint         `json:"initial"`
	Finals      []uint       `json:"finals"`
	Transitions [][]JsonRule `json:"transitions"`
}

// ToJson converts an automaton into its JSON representation.
func ToJson(ctx *boolean.Context, a *Automaton) *JsonAutomaton {
	j := &JsonAutomaton{
		AtomicCount: a.AtomicCount,
		StateCount:  a.StateCount,
		Initial:     a.Initial,
		Finals:      append([]uint{}, a.Finals...),
		Transitions: make([][]JsonRule, a.StateCount),
	}
	//
	for q, rules := range a.Transitions {
		j.Transitions[q] = make([]JsonRule, len(rules))
		//
		for i, rule := range rules {
			j.Transitions[q][i] = JsonRule{ctx.ToJson(rule.Guard), rule.Target}
		}
	}
	//
	return j
}

// FromJson constructs the automaton described by a JSON representation,
// checking it is well-formed.
func FromJson(ctx *boolean.Context, j *JsonAutomaton) (*Automaton, error) {
	if uint(len(j.Transitions)) != j.StateCount {
		return nil, fmt.Errorf("expected %d transition lists, found %d", j.StateCount, len(j.Transitions))
	}
	//
	a := New(j.AtomicCount, j.StateCount, j.Initial)
	a.Finals = set.NewSortedSet(j.Finals...)
	//
	for q, rules := range j.Transitions {
		for _, rule := range rules {
			guard, err := ctx.FromJson(rule.Phi)
			if err != nil {
				return nil, fmt.Errorf("state %d: %w", q, err)
			}
			//
			a.addRule(uint(q), guard, rule.State)
		}
	}
	//
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}
	//
	return a, nil
}

// Marshal encodes an automaton as indented JSON.
func Marshal(ctx *boolean.Context, a *Automaton) ([]byte, error) {
	return json.MarshalIndent(ToJson(ctx, a), "", "    ")
}

// Unmarshal decodes an automaton from JSON.
func Unmarshal(ctx *boolean.Context, data []byte) (*Automaton, error) {
	var j JsonAutomaton
	//
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	//
	return FromJson(ctx, &j)
}
