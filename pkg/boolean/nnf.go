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

// Nnf converts a formula into negation normal form.  The result is either a
// constant or a formula free of constants in which negation is applied only
// to variables.  Results are memoised within the context, and the normal form
// of a normal form is itself.
func (p *Context) Nnf(e Expr) Expr {
	if e.kind == CONST || e.kind == VAR {
		return e
	} else if r, ok := p.nnfs[e]; ok {
		return r
	}
	//
	r := p.nnf(e)
	p.nnfs[e] = r
	p.nnfs[r] = r
	//
	return r
}

func (p *Context) nnf(e Expr) Expr {
	switch e.kind {
	case NOT:
		return p.nnfNot(p.Nnf(p.Arg(e)))
	case AND:
		lhs, rhs := p.Args(e)
		return p.nnfAnd(p.Nnf(lhs), p.Nnf(rhs))
	case OR:
		lhs, rhs := p.Args(e)
		return p.nnfOr(p.Nnf(lhs), p.Nnf(rhs))
	default:
		panic("unreachable")
	}
}

// Negate an argument already in normal form.
func (p *Context) nnfNot(arg Expr) Expr {
	switch arg.kind {
	case CONST:
		return p.Value(!arg.Value())
	case VAR:
		return p.Not(arg)
	case NOT:
		return p.Arg(arg)
	case AND:
		lhs, rhs := p.Args(arg)
		return p.nnfOr(p.nnfNot(lhs), p.nnfNot(rhs))
	case OR:
		lhs, rhs := p.Args(arg)
		return p.nnfAnd(p.nnfNot(lhs), p.nnfNot(rhs))
	default:
		panic("unreachable")
	}
}

// Conjoin two arguments already in normal form.
func (p *Context) nnfAnd(lhs Expr, rhs Expr) Expr {
	switch {
	case lhs == rhs:
		return lhs
	case lhs.IsConst():
		if lhs.Value() {
			return rhs
		}
		//
		return lhs
	case rhs.IsConst():
		if rhs.Value() {
			return lhs
		}
		//
		return rhs
	}
	//
	return p.And(lhs, rhs)
}

// Disjoin two arguments already in normal form.
func (p *Context) nnfOr(lhs Expr, rhs Expr) Expr {
	switch {
	case lhs == rhs:
		return lhs
	case lhs.IsConst():
		if lhs.Value() {
			return lhs
		}
		//
		return rhs
	case rhs.IsConst():
		if rhs.Value() {
			return rhs
		}
		//
		return lhs
	}
	//
	return p.Or(lhs, rhs)
}

// IsNnf checks whether a formula is in negation normal form.
func (p *Context) IsNnf(e Expr) bool {
	if e.kind == CONST {
		return true
	}
	//
	return p.isNnfBody(e)
}

func (p *Context) isNnfBody(e Expr) bool {
	switch e.kind {
	case VAR:
		return true
	case NOT:
		return p.Arg(e).kind == VAR
	case AND, OR:
		lhs, rhs := p.Args(e)
		return p.isNnfBody(lhs) && p.isNnfBody(rhs)
	default:
		return false
	}
}
