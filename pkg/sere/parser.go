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
	"errors"
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// SyntaxError is a structured error which retains the span of the original
// text where an error occurred, along with an error message.
type SyntaxError struct {
	// Byte index of the first character covered by this error.
	Start int
	// Byte index one past the last character covered by this error.
	End int
	// Error message being reported
	Message string
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d:%s", p.Start, p.End, p.Message)
}

// ============================================================================
// Grammar
// ============================================================================

// Each level below binds tighter than the one above.

type unionNode struct {
	Terms []*intersectNode `@@ ( "|" @@ )*`
}

type intersectNode struct {
	Terms []*concatNode `@@ ( "&" @@ )*`
}

type concatNode struct {
	Terms []*fusionNode `@@ ( ";" @@ )*`
}

type fusionNode struct {
	Terms []*boolOrNode `@@ ( ":" @@ )*`
}

type boolOrNode struct {
	Pos   lexer.Position
	Terms []*boolAndNode `@@ ( "||" @@ )*`
}

type boolAndNode struct {
	Pos   lexer.Position
	Terms []*prefixNode `@@ ( "&&" @@ )*`
}

type prefixNode struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Ops    []string     `@( "!" | "~" )*`
	Arg    *postfixNode `@@`
}

type postfixNode struct {
	Arg     *primaryNode  `@@`
	Repeats []*repeatNode `@@*`
}

type repeatNode struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Kleene *string `  "[" @( "*" | "+" ) "]"`
	Min    *string `| "{" @Int`
	Comma  bool    `  ( @","`
	Max    *string `    @Int? )? "}"`
}

type primaryNode struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Empty   bool         `  @( "(" ")" )`
	Group   *unionNode   `| "(" @@ ")"`
	Partial *unionNode   `| "PARTIAL" "(" @@ ")"`
	Abort   *abortNode   `| "ABORT" @@`
	Permute *permuteNode `| "PERMUTE" @@`
	True    bool         `| @"true"`
	False   bool         `| @"false"`
	Ident   *string      `| @Ident`
}

type abortNode struct {
	Body  *unionNode `"(" @@ ","`
	Error *unionNode `@@ ")"`
}

type permuteNode struct {
	Args []*unionNode `"(" ( @@ ( "," @@ )* )? ")"`
}

// The boolean connectives are single tokens, so "a | | b" is not "a || b".
var sereLexer = lexer.MustSimple([]lexer.Rule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Connective", Pattern: `\|\||&&`},
	{Name: "Punct", Pattern: `[\[\](){}|&;:!~*+,]`},
	{Name: "whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild(&unionNode{}, participle.Lexer(sereLexer), participle.UseLookahead(2))

// ============================================================================
// Parsing
// ============================================================================

// Parse a SERE from the given source text.  This returns the expression along
// with the names of its atomic propositions, where the name of atom i is at
// index i.  Atoms are numbered in order of their first occurrence.
func Parse(src string) (Expr, []string, error) {
	var root unionNode
	// Parse text into a syntax tree
	if err := parser.ParseString("", src, &root); err != nil {
		var perr participle.Error
		//
		if errors.As(err, &perr) {
			offset := perr.Position().Offset
			return nil, nil, &SyntaxError{offset, offset + 1, perr.Message()}
		}
		//
		return nil, nil, &SyntaxError{0, len(src), err.Error()}
	}
	// Translate syntax tree into an expression
	p := translator{src: src, atoms: make(map[string]uint)}
	//
	expr, err := p.union(&root)
	if err != nil {
		return nil, nil, err
	}
	//
	return expr, p.names, nil
}

// MustParse parses a SERE, panicking when the source is malformed.
func MustParse(src string) (Expr, []string) {
	expr, names, err := Parse(src)
	if err != nil {
		panic(err.Error())
	}
	//
	return expr, names
}

type translator struct {
	src   string
	names []string
	atoms map[string]uint
}

func (p *translator) atom(name string) uint {
	if index, ok := p.atoms[name]; ok {
		return index
	}
	//
	index := uint(len(p.names))
	p.atoms[name] = index
	p.names = append(p.names, name)
	//
	return index
}

func (p *translator) union(node *unionNode) (Expr, error) {
	return fold(node.Terms, p.intersect, func(l, r Expr) Expr { return Union{l, r} })
}

func (p *translator) intersect(node *intersectNode) (Expr, error) {
	return fold(node.Terms, p.concat, func(l, r Expr) Expr { return Intersect{l, r} })
}

func (p *translator) concat(node *concatNode) (Expr, error) {
	return fold(node.Terms, p.fusion, func(l, r Expr) Expr { return Concat{l, r} })
}

func (p *translator) fusion(node *fusionNode) (Expr, error) {
	return fold(node.Terms, p.boolOr, func(l, r Expr) Expr { return Fusion{l, r} })
}

func (p *translator) boolOr(node *boolOrNode) (Expr, error) {
	if len(node.Terms) == 1 {
		return p.boolAnd(node.Terms[0])
	}
	//
	var formula BoolExpr
	//
	for _, term := range node.Terms {
		arg, err := p.boolAnd(term)
		if err != nil {
			return nil, err
		}
		//
		f, err := p.formula(arg, term.Pos, "||")
		if err != nil {
			return nil, err
		}
		//
		if formula == nil {
			formula = f
		} else {
			formula = Or{formula, f}
		}
	}
	//
	return Bool{formula}, nil
}

func (p *translator) boolAnd(node *boolAndNode) (Expr, error) {
	if len(node.Terms) == 1 {
		return p.prefix(node.Terms[0])
	}
	//
	var formula BoolExpr
	//
	for _, term := range node.Terms {
		arg, err := p.prefix(term)
		if err != nil {
			return nil, err
		}
		//
		f, err := p.formula(arg, term.Pos, "&&")
		if err != nil {
			return nil, err
		}
		//
		if formula == nil {
			formula = f
		} else {
			formula = And{formula, f}
		}
	}
	//
	return Bool{formula}, nil
}

func (p *translator) prefix(node *prefixNode) (Expr, error) {
	expr, err := p.postfix(node.Arg)
	if err != nil {
		return nil, err
	}
	// Operators apply innermost first
	for i := len(node.Ops) - 1; i >= 0; i-- {
		switch node.Ops[i] {
		case "!":
			f, err := p.formula(expr, node.Pos, "!")
			if err != nil {
				return nil, err
			}
			//
			expr = Bool{Not{f}}
		case "~":
			expr = Complement{expr}
		default:
			panic("unreachable")
		}
	}
	//
	return expr, nil
}

func (p *translator) postfix(node *postfixNode) (Expr, error) {
	// A zero-width repetition never looks at what precedes it.
	for i := len(node.Repeats) - 1; i >= 0; i-- {
		if node.Repeats[i].isZeroWidth() {
			return p.repeats(Empty{}, node.Repeats[i+1:])
		}
	}
	//
	expr, err := p.primary(node.Arg)
	if err != nil {
		return nil, err
	}
	//
	return p.repeats(expr, node.Repeats)
}

// Check whether this repetition is either {0} or {0,0}.
func (r *repeatNode) isZeroWidth() bool {
	if r.Min == nil || !isZero(*r.Min) {
		return false
	}
	//
	return !r.Comma || (r.Max != nil && isZero(*r.Max))
}

func isZero(text string) bool {
	n, err := strconv.ParseUint(text, 10, 16)
	return err == nil && n == 0
}

func (p *translator) repeats(expr Expr, repeats []*repeatNode) (Expr, error) {
	for _, r := range repeats {
		switch {
		case r.Kleene != nil && *r.Kleene == "*":
			expr = KleeneStar{expr}
		case r.Kleene != nil:
			expr = KleenePlus{expr}
		default:
			lo, err := p.count(r, *r.Min)
			if err != nil {
				return nil, err
			}
			//
			switch {
			case !r.Comma:
				expr = Repeat(expr, lo, lo)
			case r.Max == nil:
				expr = RepeatAtLeast(expr, lo)
			default:
				hi, err := p.count(r, *r.Max)
				if err != nil {
					return nil, err
				}
				//
				if lo > hi {
					return nil, p.error(r.Pos, r.EndPos, fmt.Sprintf("invalid range {%d,%d}", lo, hi))
				}
				//
				expr = Repeat(expr, lo, hi)
			}
		}
	}
	//
	return expr, nil
}

func (p *translator) count(r *repeatNode, text string) (uint, error) {
	n, err := strconv.ParseUint(text, 10, 16)
	if err != nil {
		return 0, p.error(r.Pos, r.EndPos, fmt.Sprintf("invalid repetition count %s", text))
	}
	//
	return uint(n), nil
}

func (p *translator) primary(node *primaryNode) (Expr, error) {
	switch {
	case node.Empty:
		return Empty{}, nil
	case node.Group != nil:
		return p.union(node.Group)
	case node.Partial != nil:
		arg, err := p.union(node.Partial)
		if err != nil {
			return nil, err
		}
		//
		return Partial{arg}, nil
	case node.Abort != nil:
		body, err := p.union(node.Abort.Body)
		if err != nil {
			return nil, err
		}
		//
		abort, err := p.union(node.Abort.Error)
		if err != nil {
			return nil, err
		}
		//
		return Abort(body, abort), nil
	case node.Permute != nil:
		args := make([]Expr, len(node.Permute.Args))
		//
		for i, arg := range node.Permute.Args {
			expr, err := p.union(arg)
			if err != nil {
				return nil, err
			}
			//
			args[i] = expr
		}
		//
		return Permute(args...), nil
	case node.True:
		return Bool{True{}}, nil
	case node.False:
		return Bool{False{}}, nil
	case node.Ident != nil:
		return Bool{Atom{p.atom(*node.Ident)}}, nil
	default:
		return nil, p.error(node.Pos, node.EndPos, "unknown expression")
	}
}

// Extract the formula of a boolean operand, or report an error.
func (p *translator) formula(expr Expr, pos lexer.Position, op string) (BoolExpr, error) {
	if b, ok := expr.(Bool); ok {
		return b.Formula, nil
	}
	//
	return nil, p.error(pos, pos, fmt.Sprintf("operand of %s is not boolean (%s)", op, expr))
}

func (p *translator) error(start lexer.Position, end lexer.Position, msg string) *SyntaxError {
	s, e := start.Offset, end.Offset
	// Trim trailing whitespace
	for e > s && e <= len(p.src) && isSpace(p.src[e-1]) {
		e--
	}
	//
	if e <= s {
		e = s + 1
	}
	//
	return &SyntaxError{s, e, msg}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Left fold a chain of terms using a given binary constructor.
func fold[T any](terms []T, translate func(T) (Expr, error), combine func(Expr, Expr) Expr) (Expr, error) {
	var result Expr
	//
	for _, term := range terms {
		expr, err := translate(term)
		if err != nil {
			return nil, err
		}
		//
		if result == nil {
			result = expr
		} else {
			result = combine(result, expr)
		}
	}
	//
	return result, nil
}
