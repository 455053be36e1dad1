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

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/dfasl"
	"github.com/consensys/go-sere/pkg/nfasl"
)

// ToNfasl translates an expression into an equivalent automaton by
// structural recursion.
func ToNfasl(ctx *boolean.Context, e Expr) *nfasl.Automaton {
	switch e := e.(type) {
	case Bool:
		return nfasl.Phi(ctx, ToFormula(ctx, e.Formula))
	case Empty:
		return nfasl.Eps()
	case Union:
		return nfasl.Union(ToNfasl(ctx, e.Lhs), ToNfasl(ctx, e.Rhs))
	case Intersect:
		return nfasl.Intersect(ctx, ToNfasl(ctx, e.Lhs), ToNfasl(ctx, e.Rhs))
	case Concat:
		return nfasl.Concat(ToNfasl(ctx, e.Lhs), ToNfasl(ctx, e.Rhs))
	case Fusion:
		return nfasl.Fuse(ctx, ToNfasl(ctx, e.Lhs), ToNfasl(ctx, e.Rhs))
	case KleeneStar:
		return nfasl.Star(ToNfasl(ctx, e.Arg))
	case KleenePlus:
		return nfasl.Plus(ToNfasl(ctx, e.Arg))
	case Partial:
		return nfasl.Partial(ctx, ToNfasl(ctx, e.Arg))
	case Complement:
		return dfasl.Complement(ctx, ToNfasl(ctx, e.Arg))
	default:
		panic(fmt.Sprintf("unknown expression %T", e))
	}
}

// Permute constructs the union of every concatenation of the given
// expressions in some order.  Permuting nothing gives the empty expression.
func Permute(args ...Expr) Expr {
	switch len(args) {
	case 0:
		return Empty{}
	case 1:
		return args[0]
	}
	//
	var result Expr
	//
	for i, arg := range args {
		rest := make([]Expr, 0, len(args)-1)
		rest = append(rest, args[:i]...)
		rest = append(rest, args[i+1:]...)
		//
		alt := Concat{arg, Permute(rest...)}
		//
		if result == nil {
			result = alt
		} else {
			result = Union{result, alt}
		}
	}
	//
	return result
}

// Abort matches any match of its body, as well as any prefix of a match of
// its body followed by a match of the abort condition.
func Abort(body Expr, abort Expr) Expr {
	return Union{Concat{Partial{body}, abort}, body}
}

// Repeat matches between lo and hi consecutive repetitions of an
// expression.
func Repeat(arg Expr, lo uint, hi uint) Expr {
	var (
		prefix Expr
		suffix Expr
	)
	//
	for range lo {
		prefix = concat(prefix, arg)
	}
	// Nested optional tails, as in () | arg;(() | arg)
	for i := lo; i < hi; i++ {
		if suffix == nil {
			suffix = Union{Empty{}, arg}
		} else {
			suffix = Union{Empty{}, Concat{arg, suffix}}
		}
	}
	//
	switch {
	case prefix == nil && suffix == nil:
		return Empty{}
	case suffix == nil:
		return prefix
	case prefix == nil:
		return suffix
	default:
		return Concat{prefix, suffix}
	}
}

// RepeatAtLeast matches lo or more consecutive repetitions of an
// expression.
func RepeatAtLeast(arg Expr, lo uint) Expr {
	switch lo {
	case 0:
		return KleeneStar{arg}
	case 1:
		return KleenePlus{arg}
	}
	//
	var prefix Expr
	//
	for range lo {
		prefix = concat(prefix, arg)
	}
	//
	return Concat{prefix, KleeneStar{arg}}
}

func concat(lhs Expr, rhs Expr) Expr {
	if lhs == nil {
		return rhs
	}
	//
	return Concat{lhs, rhs}
}
