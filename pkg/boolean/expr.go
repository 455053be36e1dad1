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

import "fmt"

// Kind identifies which variant of formula a given handle refers to.
type Kind uint8

const (
	// CONST represents a constant true or false.
	CONST Kind = iota
	// VAR represents an atomic proposition, identified by its index.
	VAR
	// NOT represents the logical negation of a formula.
	NOT
	// AND represents the logical conjunction of two formulas.
	AND
	// OR represents the logical disjunction of two formulas.
	OR
)

func (k Kind) String() string {
	switch k {
	case CONST:
		return "const"
	case VAR:
		return "var"
	case NOT:
		return "not"
	case AND:
		return "and"
	case OR:
		return "or"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Expr is a handle for a formula held in some Context.  Handles are small
// comparable values and two handles minted by the same context are equal if,
// and only if, they refer to syntactically identical formulas.  For constants
// the reference holds the value (0 or 1), for variables it holds the variable
// index and, otherwise, it holds the position of the node within the context.
type Expr struct {
	kind Kind
	ref  uint32
}

// Kind returns the variant of this formula.
func (e Expr) Kind() Kind {
	return e.kind
}

// IsConst checks whether this formula is a constant.
func (e Expr) IsConst() bool {
	return e.kind == CONST
}

// IsVar checks whether this formula is a single atomic proposition.
func (e Expr) IsVar() bool {
	return e.kind == VAR
}

// IsTrue checks whether this formula is the constant true.
func (e Expr) IsTrue() bool {
	return e.kind == CONST && e.ref == 1
}

// IsFalse checks whether this formula is the constant false.
func (e Expr) IsFalse() bool {
	return e.kind == CONST && e.ref == 0
}

// Value returns the value of a constant formula.  This panics if the formula
// is not a constant.
func (e Expr) Value() bool {
	if e.kind != CONST {
		panic(fmt.Sprintf("formula is not a constant (%s)", e.kind))
	}
	//
	return e.ref == 1
}

// Index returns the variable index of an atomic proposition.  This panics if
// the formula is not a variable.
func (e Expr) Index() uint {
	if e.kind != VAR {
		panic(fmt.Sprintf("formula is not a variable (%s)", e.kind))
	}
	//
	return uint(e.ref)
}

// binary captures the operands of a conjunction or disjunction.
type binary struct {
	lhs Expr
	rhs Expr
}

// Context is the arena owning every formula node.  It hash-conses nodes so
// that constructing the same formula twice always yields the same handle.
// Contexts only ever grow and are not safe for concurrent construction.
type Context struct {
	// Operands of negations, indexed by node reference.
	nots []Expr
	// Operands of conjunctions, indexed by node reference.
	ands []binary
	// Operands of disjunctions, indexed by node reference.
	ors []binary
	// Consing tables
	notIndex map[Expr]uint32
	andIndex map[binary]uint32
	orIndex  map[binary]uint32
	// Memoised normal forms
	nnfs map[Expr]Expr
	// Memoised satisfiability results
	sats map[Expr]bool
	// Number of times the SAT solver was actually invoked.
	solverCalls uint
}

// NewContext constructs an empty formula arena.
func NewContext() *Context {
	return &Context{
		notIndex: make(map[Expr]uint32),
		andIndex: make(map[binary]uint32),
		orIndex:  make(map[binary]uint32),
		nnfs:     make(map[Expr]Expr),
		sats:     make(map[Expr]bool),
	}
}

// Size returns the number of distinct compound nodes allocated so far.
func (p *Context) Size() uint {
	return uint(len(p.nots) + len(p.ands) + len(p.ors))
}

// SolverCalls returns the number of times this context has invoked the
// underlying SAT solver.
func (p *Context) SolverCalls() uint {
	return p.solverCalls
}

// True returns the constant true.
func (p *Context) True() Expr {
	return Expr{CONST, 1}
}

// False returns the constant false.
func (p *Context) False() Expr {
	return Expr{CONST, 0}
}

// Value returns the constant corresponding to a given boolean.
func (p *Context) Value(b bool) Expr {
	if b {
		return p.True()
	}
	//
	return p.False()
}

// Var returns the atomic proposition with the given index.
func (p *Context) Var(index uint) Expr {
	return Expr{VAR, uint32(index)}
}

// Not constructs the negation of a formula.
func (p *Context) Not(arg Expr) Expr {
	if ref, ok := p.notIndex[arg]; ok {
		return Expr{NOT, ref}
	}
	//
	ref := uint32(len(p.nots))
	p.nots = append(p.nots, arg)
	p.notIndex[arg] = ref
	//
	return Expr{NOT, ref}
}

// And constructs the conjunction of two formulas.  Operand order is
// significant: And(a,b) and And(b,a) are distinct handles.
func (p *Context) And(lhs Expr, rhs Expr) Expr {
	key := binary{lhs, rhs}
	//
	if ref, ok := p.andIndex[key]; ok {
		return Expr{AND, ref}
	}
	//
	ref := uint32(len(p.ands))
	p.ands = append(p.ands, key)
	p.andIndex[key] = ref
	//
	return Expr{AND, ref}
}

// Or constructs the disjunction of two formulas.  Operand order is
// significant: Or(a,b) and Or(b,a) are distinct handles.
func (p *Context) Or(lhs Expr, rhs Expr) Expr {
	key := binary{lhs, rhs}
	//
	if ref, ok := p.orIndex[key]; ok {
		return Expr{OR, ref}
	}
	//
	ref := uint32(len(p.ors))
	p.ors = append(p.ors, key)
	p.orIndex[key] = ref
	//
	return Expr{OR, ref}
}

// Implies constructs "lhs ==> rhs", encoded as "!lhs || rhs".
func (p *Context) Implies(lhs Expr, rhs Expr) Expr {
	return p.Or(p.Not(lhs), rhs)
}

// Conjunction folds zero or more formulas together using And, returning true
// for the empty list.  Constant operands are absorbed.
func (p *Context) Conjunction(args ...Expr) Expr {
	var r = p.True()
	//
	for _, arg := range args {
		switch {
		case arg.IsFalse():
			return arg
		case arg.IsTrue():
			continue
		case r.IsTrue():
			r = arg
		default:
			r = p.And(r, arg)
		}
	}
	//
	return r
}

// Disjunction folds zero or more formulas together using Or, returning false
// for the empty list.  Constant operands are absorbed.
func (p *Context) Disjunction(args ...Expr) Expr {
	var r = p.False()
	//
	for _, arg := range args {
		switch {
		case arg.IsTrue():
			return arg
		case arg.IsFalse():
			continue
		case r.IsFalse():
			r = arg
		default:
			r = p.Or(r, arg)
		}
	}
	//
	return r
}

// Arg returns the operand of a negation.  This panics if the formula is not a
// negation.
func (p *Context) Arg(e Expr) Expr {
	if e.kind != NOT {
		panic(fmt.Sprintf("formula is not a negation (%s)", e.kind))
	}
	//
	return p.nots[e.ref]
}

// Args returns the operands of a conjunction or disjunction.  This panics if
// the formula is neither.
func (p *Context) Args(e Expr) (Expr, Expr) {
	var b binary
	//
	switch e.kind {
	case AND:
		b = p.ands[e.ref]
	case OR:
		b = p.ors[e.ref]
	default:
		panic(fmt.Sprintf("formula is not binary (%s)", e.kind))
	}
	//
	return b.lhs, b.rhs
}

// VarCount returns one more than the largest variable index occurring in the
// formula, or zero if the formula mentions no variables.
func (p *Context) VarCount(e Expr) uint {
	var (
		count   uint
		visited = make(map[Expr]bool)
		work    = []Expr{e}
	)
	//
	for len(work) > 0 {
		next := work[len(work)-1]
		work = work[:len(work)-1]
		//
		if visited[next] {
			continue
		}
		//
		visited[next] = true
		//
		switch next.kind {
		case VAR:
			count = max(count, next.Index()+1)
		case NOT:
			work = append(work, p.Arg(next))
		case AND, OR:
			lhs, rhs := p.Args(next)
			work = append(work, lhs, rhs)
		}
	}
	//
	return count
}
