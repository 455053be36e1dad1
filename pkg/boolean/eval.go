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

import "github.com/bits-and-blooms/bitset"

// Eval determines the truth of a formula under a given letter, where the set
// bits of the letter identify those atomic propositions which hold.
func (p *Context) Eval(e Expr, letter *bitset.BitSet) bool {
	switch e.kind {
	case CONST:
		return e.Value()
	case VAR:
		return letter.Test(e.Index())
	case NOT:
		return !p.Eval(p.Arg(e), letter)
	case AND:
		lhs, rhs := p.Args(e)
		return p.Eval(lhs, letter) && p.Eval(rhs, letter)
	case OR:
		lhs, rhs := p.Args(e)
		return p.Eval(lhs, letter) || p.Eval(rhs, letter)
	default:
		panic("unreachable")
	}
}
