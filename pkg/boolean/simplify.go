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
	"github.com/consensys/go-sere/pkg/util/collection/stack"
)

// SimplifyDepth bounds the number of connectives the simplifier descends
// through.  Subformulas lying deeper than this are treated as opaque leaves.
const SimplifyDepth = 2048

// Position of the subformula being explored within its parent connective.
type hole bool

const (
	inLhs hole = false
	inRhs hole = true
)

// frame records one connective on the path from the root down to the
// subformula currently being explored.
type frame struct {
	kind Kind
	hole hole
	lhs  Expr
	rhs  Expr
}

// Plug a replacement for the explored operand back into this connective.
func (f frame) plug(ctx *Context, arg Expr) Expr {
	var lhs, rhs = f.lhs, f.rhs
	//
	if f.hole == inLhs {
		lhs = arg
	} else {
		rhs = arg
	}
	//
	if f.kind == AND {
		return ctx.And(lhs, rhs)
	}
	//
	return ctx.Or(lhs, rhs)
}

// Simplify removes redundant leaves from a formula.  Starting from its
// normal form, each leaf L is in turn replaced by true (giving φ+) and by
// false (giving φ-).  When φ+ ⇒ φ the leaf is non-constraining and φ+
// becomes the new candidate, likewise when φ ⇒ φ- the leaf is non-relaxing
// and φ- becomes the candidate.  After any reduction the search restarts
// from the root.  The result is logically equivalent to the original and is
// in negation normal form.
func (p *Context) Simplify(e Expr) Expr {
	var (
		top  = p.Nnf(e)
		path = stack.NewBoundedStack[frame](SimplifyDepth)
		curr = top
	)
	//
	for {
		if curr.kind == AND || curr.kind == OR {
			if !path.IsFull() {
				lhs, rhs := p.Args(curr)
				path.Push(frame{curr.kind, inLhs, lhs, rhs})
				curr = lhs
				//
				continue
			}
		}
		// Found a leaf (or hit the depth bound)
		if path.IsEmpty() {
			return top
		}
		//
		if reduced, ok := p.reduceLeaf(top, path); ok {
			top, curr = reduced, reduced
			path.Clear()
			//
			continue
		}
		// Backtrack to the nearest connective whose rhs is unexplored
		for !path.IsEmpty() && path.Peek(0).hole == inRhs {
			path.Pop()
		}
		//
		if path.IsEmpty() {
			return top
		}
		//
		f := path.Pop()
		f.hole = inRhs
		path.Push(f)
		curr = f.rhs
	}
}

// Attempt to eliminate the leaf identified by a given path.
func (p *Context) reduceLeaf(top Expr, path *stack.Stack[frame]) (Expr, bool) {
	var pos, neg = p.True(), p.False()
	//
	for i := range path.Len() {
		f := path.Peek(i)
		pos = f.plug(p, pos)
		neg = f.plug(p, neg)
	}
	//
	pos, neg = p.Nnf(pos), p.Nnf(neg)
	//
	if pos != top && p.Prove(p.Implies(pos, top)) {
		return pos, true
	} else if neg != top && p.Prove(p.Implies(top, neg)) {
		return neg, true
	}
	//
	return top, false
}
