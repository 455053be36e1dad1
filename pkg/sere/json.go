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
package sere

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/dfasl"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/rt"
)

// JsonSnapshot is the JSON representation of a compiled automaton, along
// with the names of its atomic propositions.
type JsonSnapshot struct {
	Kind    Target               `json:"kind"`
	Atomics []string             `json:"atomics"`
	Fasl    *nfasl.JsonAutomaton `json:"fasl"`
}

// MarshalSnapshot encodes a compiled automaton as JSON.
func MarshalSnapshot(c *Compiled) ([]byte, error) {
	snapshot := JsonSnapshot{NFASL, c.Names, nil}
	//
	if c.Dfasl != nil {
		snapshot.Kind = DFASL
		snapshot.Fasl = dfasl.ToJson(c.Context, c.Dfasl)
	} else {
		snapshot.Fasl = nfasl.ToJson(c.Context, c.Nfasl)
	}
	//
	if snapshot.Atomics == nil {
		snapshot.Atomics = []string{}
	}
	//
	return json.MarshalIndent(&snapshot, "", "    ")
}

// Decode a snapshot which is in either the binary or the JSON format.  Names
// of atomic propositions are only available from JSON snapshots, and are nil
// otherwise.
func Decode(data []byte) (*rt.Snapshot, []string, error) {
	if rt.IsSnapshot(data) {
		snapshot, err := rt.Load(data)
		return snapshot, nil, err
	}
	//
	var (
		ctx      = boolean.NewContext()
		jsnap    JsonSnapshot
		snapshot *rt.Snapshot
	)
	//
	if err := json.Unmarshal(data, &jsnap); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", rt.ErrMalformed, err.Error())
	} else if jsnap.Fasl == nil {
		return nil, nil, fmt.Errorf("%w: missing automaton", rt.ErrMalformed)
	}
	//
	switch jsnap.Kind {
	case NFASL:
		a, err := nfasl.FromJson(ctx, jsnap.Fasl)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", rt.ErrMalformed, err.Error())
		}
		//
		if snapshot, err = rt.FromNfasl(ctx, a); err != nil {
			return nil, nil, err
		}
	case DFASL:
		d, err := dfasl.FromJson(ctx, jsnap.Fasl)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", rt.ErrMalformed, err.Error())
		}
		//
		if snapshot, err = rt.FromDfasl(ctx, d); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", rt.ErrUnsupportedKind, jsnap.Kind)
	}
	//
	return snapshot, jsnap.Atomics, nil
}
