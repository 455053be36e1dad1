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
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Sat determines whether there is some letter under which the formula holds.
// Constants and literals are decided directly, otherwise the formula is
// translated into a circuit whose Tseitin encoding is given to a fresh solver.
// Results are memoised per handle.
func (p *Context) Sat(e Expr) bool {
	switch e.kind {
	case CONST:
		return e.Value()
	case VAR:
		return true
	case NOT:
		if p.Arg(e).kind == VAR {
			return true
		}
	}
	//
	if r, ok := p.sats[e]; ok {
		return r
	}
	//
	r := p.solve(e) == 1
	p.sats[e] = r
	//
	return r
}

// Prove determines whether a formula holds under every letter.
func (p *Context) Prove(e Expr) bool {
	return !p.Sat(p.Not(e))
}

// Equivalent determines whether two formulas hold under exactly the same
// letters.
func (p *Context) Equivalent(lhs Expr, rhs Expr) bool {
	return p.Prove(p.Implies(lhs, rhs)) && p.Prove(p.Implies(rhs, lhs))
}

// Witness returns a letter (as an assignment indexed by variable) under which
// the given formula holds, or false if no such letter exists.
func (p *Context) Witness(e Expr) ([]bool, bool) {
	var (
		n       = p.VarCount(e)
		circuit = logic.NewC()
		enc     = newEncoder(p, circuit)
		root    = enc.encode(e)
		solver  = gini.New()
	)
	//
	circuit.ToCnf(solver)
	solver.Assume(root)
	p.solverCalls++
	//
	if solver.Solve() != 1 {
		return nil, false
	}
	// Variables absorbed during encoding are unconstrained.
	letter := make([]bool, n)
	for i := range n {
		if lit, ok := enc.inputs[i]; ok {
			letter[i] = solver.Value(lit)
		}
	}
	//
	return letter, true
}

func (p *Context) solve(e Expr) int {
	var (
		circuit = logic.NewC()
		root    = newEncoder(p, circuit).encode(e)
		solver  = gini.New()
	)
	//
	circuit.ToCnf(solver)
	solver.Assume(root)
	p.solverCalls++
	//
	return solver.Solve()
}

// encoder translates formulas into a gini circuit, sharing the literal of
// every subformula encountered more than once.
type encoder struct {
	ctx     *Context
	circuit *logic.C
	inputs  map[uint]z.Lit
	nodes   map[Expr]z.Lit
}

func newEncoder(ctx *Context, circuit *logic.C) *encoder {
	return &encoder{ctx, circuit, make(map[uint]z.Lit), make(map[Expr]z.Lit)}
}

func (p *encoder) input(index uint) z.Lit {
	if lit, ok := p.inputs[index]; ok {
		return lit
	}
	//
	lit := p.circuit.Lit()
	p.inputs[index] = lit
	//
	return lit
}

func (p *encoder) encode(e Expr) z.Lit {
	switch e.kind {
	case CONST:
		if e.Value() {
			return p.circuit.T
		}
		//
		return p.circuit.F
	case VAR:
		return p.input(e.Index())
	}
	//
	if lit, ok := p.nodes[e]; ok {
		return lit
	}
	//
	var lit z.Lit
	//
	switch e.kind {
	case NOT:
		lit = p.encode(p.ctx.Arg(e)).Not()
	case AND:
		lhs, rhs := p.ctx.Args(e)
		lit = p.circuit.And(p.encode(lhs), p.encode(rhs))
	case OR:
		lhs, rhs := p.ctx.Args(e)
		lit = p.circuit.Or(p.encode(lhs), p.encode(rhs))
	default:
		panic("unreachable")
	}
	//
	p.nodes[e] = lit
	//
	return lit
}
