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
	"fmt"
	"strings"
)

// Binding strength of each connective when printing.
const (
	precOr = iota + 1
	precAnd
	precNot
)

// String returns a human-readable rendering of a formula, such as
// "a && !b || c".  Variables are named using the given atom names where
// available and as "x<index>" otherwise.
func (p *Context) String(e Expr, names []string) string {
	var builder strings.Builder
	//
	p.write(&builder, e, names, 0)
	//
	return builder.String()
}

func (p *Context) write(out *strings.Builder, e Expr, names []string, outer int) {
	switch e.kind {
	case CONST:
		if e.Value() {
			out.WriteString("true")
		} else {
			out.WriteString("false")
		}
	case VAR:
		out.WriteString(VarName(e.Index(), names))
	case NOT:
		out.WriteString("!")
		p.write(out, p.Arg(e), names, precNot)
	case AND:
		p.writeInfix(out, e, " && ", precAnd, names, outer)
	case OR:
		p.writeInfix(out, e, " || ", precOr, names, outer)
	default:
		panic("unreachable")
	}
}

func (p *Context) writeInfix(out *strings.Builder, e Expr, op string, prec int, names []string, outer int) {
	lhs, rhs := p.Args(e)
	//
	if outer > prec {
		out.WriteString("(")
	}
	//
	p.write(out, lhs, names, prec)
	out.WriteString(op)
	// Both connectives are associative, but the rhs is bracketed to preserve
	// the exact shape of the formula.
	p.write(out, rhs, names, prec+1)
	//
	if outer > prec {
		out.WriteString(")")
	}
}

// VarName returns the printable name of a given atomic proposition.
func VarName(index uint, names []string) string {
	if index < uint(len(names)) {
		return names[index]
	}
	//
	return fmt.Sprintf("x%d", index)
}
