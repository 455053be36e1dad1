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
	"fmt"
	"strings"

	"github.com/consensys/go-sere/pkg/boolean"
)

// BoolExpr is a boolean formula over atomic propositions, as written in a
// SERE.  This is a closed union whose variants are True, False, Atom, Not,
// And and Or.
type BoolExpr interface {
	isBoolExpr()
	fmt.Stringer
}

// True is the constant true.
type True struct{}

// False is the constant false.
type False struct{}

// Atom is an atomic proposition, identified by its index.
type Atom struct{ Index uint }

// Not is boolean negation.
type Not struct{ Arg BoolExpr }

// And is boolean conjunction.
type And struct{ Lhs, Rhs BoolExpr }

// Or is boolean disjunction.
type Or struct{ Lhs, Rhs BoolExpr }

func (True) isBoolExpr() {}
func (False) isBoolExpr() {}
func (Atom) isBoolExpr() {}
func (Not) isBoolExpr() {}
func (And) isBoolExpr() {}
func (Or) isBoolExpr() {}

func (True) String() string { return "true" }
func (False) String() string { return "false" }
func (e Atom) String() string { return fmt.Sprintf("x%d", e.Index) }
func (e Not) String() string { return fmt.Sprintf("!(%s)", e.Arg) }
func (e And) String() string { return fmt.Sprintf("(%s && %s)", e.Lhs, e.Rhs) }
func (e Or) String() string { return fmt.Sprintf("(%s || %s)", e.Lhs, e.Rhs) }

// Expr is a sequence extended regular expression.  This is a closed union
// whose variants are Bool, Empty, Union, Intersect, Concat, Fusion,
// KleeneStar, KleenePlus, Partial and Complement.
type Expr interface {
	isExpr()
	fmt.Stringer
}

// Bool matches any single letter satisfying a formula.
type Bool struct{ Formula BoolExpr }

// Empty matches only the empty sequence.
type Empty struct{}

// Union matches anything either operand matches.
type Union struct{ Lhs, Rhs Expr }

// Intersect matches anything both operands match.
type Intersect struct{ Lhs, Rhs Expr }

// Concat matches a match of the lhs followed by a match of the rhs.
type Concat struct{ Lhs, Rhs Expr }

// Fusion matches a match of the lhs overlapping by exactly one letter with a
// match of the rhs.
type Fusion struct{ Lhs, Rhs Expr }

// KleeneStar matches zero or more repetitions.
type KleeneStar struct{ Arg Expr }

// KleenePlus matches one or more repetitions.
type KleenePlus struct{ Arg Expr }

// Partial matches any prefix of a match.
type Partial struct{ Arg Expr }

// Complement matches exactly those sequences its operand does not.
type Complement struct{ Arg Expr }

func (Bool) isExpr() {}
func (Empty) isExpr() {}
func (Union) isExpr() {}
func (Intersect) isExpr() {}
func (Concat) isExpr() {}
func (Fusion) isExpr() {}
func (KleeneStar) isExpr() {}
func (KleenePlus) isExpr() {}
func (Partial) isExpr() {}
func (Complement) isExpr() {}

func (e Bool) String() string { return e.Formula.String() }
func (Empty) String() string { return "()" }
func (e Union) String() string { return infix(e.Lhs, "|", e.Rhs) }
func (e Intersect) String() string { return infix(e.Lhs, "&", e.Rhs) }
func (e Concat) String() string { return infix(e.Lhs, ";", e.Rhs) }
func (e Fusion) String() string { return infix(e.Lhs, ":", e.Rhs) }
func (e KleeneStar) String() string { return fmt.Sprintf("(%s)[*]", e.Arg) }
func (e KleenePlus) String() string { return fmt.Sprintf("(%s)[+]", e.Arg) }
func (e Partial) String() string { return fmt.Sprintf("PARTIAL(%s)", e.Arg) }
func (e Complement) String() string { return fmt.Sprintf("~(%s)", e.Arg) }

func infix(lhs Expr, op string, rhs Expr) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	builder.WriteString(lhs.String())
	builder.WriteString(" ")
	builder.WriteString(op)
	builder.WriteString(" ")
	builder.WriteString(rhs.String())
	builder.WriteString(")")
	//
	return builder.String()
}

// ToFormula translates a boolean expression into a formula of the given
// context.
func ToFormula(ctx *boolean.Context, e BoolExpr) boolean.Expr {
	switch e := e.(type) {
	case True:
		return ctx.True()
	case False:
		return ctx.False()
	case Atom:
		return ctx.Var(e.Index)
	case Not:
		return ctx.Not(ToFormula(ctx, e.Arg))
	case And:
		return ctx.And(ToFormula(ctx, e.Lhs), ToFormula(ctx, e.Rhs))
	case Or:
		return ctx.Or(ToFormula(ctx, e.Lhs), ToFormula(ctx, e.Rhs))
	default:
		panic(fmt.Sprintf("unknown boolean expression %T", e))
	}
}
