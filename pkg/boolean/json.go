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
package boolean

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JsonExpr is the JSON representation of a formula, for example
// {"kind":"and","arg0":{"kind":"var","variable":0},"arg1":{"kind":"const","value":true}}.
type JsonExpr struct {
	Kind     string    `json:"kind"`
	Value    *bool     `json:"value,omitempty"`
	Variable *uint     `json:"variable,omitempty"`
	Arg      *JsonExpr `json:"arg,omitempty"`
	Arg0     *JsonExpr `json:"arg0,omitempty"`
	Arg1     *JsonExpr `json:"arg1,omitempty"`
}

// ToJson converts a formula into its JSON representation.
func (p *Context) ToJson(e Expr) *JsonExpr {
	switch e.kind {
	case CONST:
		value := e.Value()
		return &JsonExpr{Kind: "const", Value: &value}
	case VAR:
		index := e.Index()
		return &JsonExpr{Kind: "var", Variable: &index}
	case NOT:
		return &JsonExpr{Kind: "not", Arg: p.ToJson(p.Arg(e))}
	case AND, OR:
		lhs, rhs := p.Args(e)
		return &JsonExpr{Kind: e.kind.String(), Arg0: p.ToJson(lhs), Arg1: p.ToJson(rhs)}
	default:
		panic("unreachable")
	}
}

// FromJson constructs the formula described by a given JSON representation.
func (p *Context) FromJson(j *JsonExpr) (Expr, error) {
	if j == nil {
		return p.False(), errors.New("missing formula")
	}
	//
	switch j.Kind {
	case "const":
		if j.Value == nil {
			return p.False(), errors.New("constant missing value")
		}
		//
		return p.Value(*j.Value), nil
	case "var":
		if j.Variable == nil {
			return p.False(), errors.New("variable missing index")
		}
		//
		return p.Var(*j.Variable), nil
	case "not":
		arg, err := p.FromJson(j.Arg)
		if err != nil {
			return arg, err
		}
		//
		return p.Not(arg), nil
	case "and", "or":
		lhs, err := p.FromJson(j.Arg0)
		if err != nil {
			return lhs, err
		}
		//
		rhs, err := p.FromJson(j.Arg1)
		if err != nil {
			return rhs, err
		}
		//
		if j.Kind == "and" {
			return p.And(lhs, rhs), nil
		}
		//
		return p.Or(lhs, rhs), nil
	default:
		return p.False(), fmt.Errorf("unknown formula kind \"%s\"", j.Kind)
	}
}

// MarshalExpr encodes a formula as JSON.
func (p *Context) MarshalExpr(e Expr) ([]byte, error) {
	return json.Marshal(p.ToJson(e))
}

// UnmarshalExpr decodes a formula from JSON.
func (p *Context) UnmarshalExpr(data []byte) (Expr, error) {
	var j JsonExpr
	//
	if err := json.Unmarshal(data, &j); err != nil {
		return p.False(), err
	}
	//
	return p.FromJson(&j)
}
