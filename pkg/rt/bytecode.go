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
package rt

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
)

// Opcodes of the guard bytecode.  Every formula is encoded in prefix form: an
// opcode followed by the encodings of its operands.  NAME is additionally
// followed by a two byte (little endian) atom offset.
const (
	FALSE byte = 0
	TRUE  byte = 1
	NAME  byte = 2
	NOT   byte = 3
	AND   byte = 4
	OR    byte = 5
)

// Bytecode is the compiled form of a guard.
type Bytecode []byte

// Compile encodes a formula as bytecode.  This fails if the formula refers
// to an atom whose offset does not fit in two bytes.
func Compile(ctx *boolean.Context, e boolean.Expr) (Bytecode, error) {
	var code Bytecode
	//
	if err := compile(ctx, e, &code); err != nil {
		return nil, err
	}
	//
	return code, nil
}

func compile(ctx *boolean.Context, e boolean.Expr, code *Bytecode) error {
	switch e.Kind() {
	case boolean.CONST:
		if e.Value() {
			*code = append(*code, TRUE)
		} else {
			*code = append(*code, FALSE)
		}
	case boolean.VAR:
		if e.Index() > maxUint16 {
			return fmt.Errorf("%w: atom offset %d", ErrTooLarge, e.Index())
		}
		//
		*code = append(*code, NAME)
		*code = binary.LittleEndian.AppendUint16(*code, uint16(e.Index()))
	case boolean.NOT:
		*code = append(*code, NOT)
		return compile(ctx, ctx.Arg(e), code)
	case boolean.AND, boolean.OR:
		lhs, rhs := ctx.Args(e)
		//
		if e.Kind() == boolean.AND {
			*code = append(*code, AND)
		} else {
			*code = append(*code, OR)
		}
		//
		if err := compile(ctx, lhs, code); err != nil {
			return err
		}
		//
		return compile(ctx, rhs, code)
	default:
		panic("unreachable")
	}
	//
	return nil
}

// Decompile reconstructs the formula encoded by a (valid) bytecode.
func (p Bytecode) Decompile(ctx *boolean.Context) boolean.Expr {
	e, _ := p.decompile(ctx, 0)
	return e
}

func (p Bytecode) decompile(ctx *boolean.Context, pc uint) (boolean.Expr, uint) {
	switch p[pc] {
	case FALSE:
		return ctx.False(), pc + 1
	case TRUE:
		return ctx.True(), pc + 1
	case NAME:
		return ctx.Var(uint(binary.LittleEndian.Uint16(p[pc+1:]))), pc + 3
	case NOT:
		arg, next := p.decompile(ctx, pc+1)
		return ctx.Not(arg), next
	case AND, OR:
		lhs, next := p.decompile(ctx, pc+1)
		rhs, next := p.decompile(ctx, next)
		//
		if p[pc] == AND {
			return ctx.And(lhs, rhs), next
		}
		//
		return ctx.Or(lhs, rhs), next
	default:
		panic(fmt.Sprintf("invalid opcode %d", p[pc]))
	}
}

// Eval interprets this bytecode against a letter in a single forward scan.
// The bytecode must be valid (see Check).
func (p Bytecode) Eval(letter *bitset.BitSet) bool {
	r, _ := p.eval(letter, 0)
	return r
}

func (p Bytecode) eval(letter *bitset.BitSet, pc uint) (bool, uint) {
	switch p[pc] {
	case FALSE:
		return false, pc + 1
	case TRUE:
		return true, pc + 1
	case NAME:
		return letter.Test(uint(binary.LittleEndian.Uint16(p[pc+1:]))), pc + 3
	case NOT:
		r, next := p.eval(letter, pc+1)
		return !r, next
	case AND, OR:
		// Both operands are scanned, as the position of the rhs is only known
		// after the lhs.
		lhs, next := p.eval(letter, pc+1)
		rhs, next := p.eval(letter, next)
		//
		if p[pc] == AND {
			return lhs && rhs, next
		}
		//
		return lhs || rhs, next
	default:
		panic(fmt.Sprintf("invalid opcode %d", p[pc]))
	}
}

// Check that this bytecode encodes exactly one formula, consuming every
// byte, and that every atom offset is below the given count.
func (p Bytecode) Check(atomicCount uint) error {
	next, err := p.check(atomicCount, 0)
	//
	if err != nil {
		return err
	} else if next != uint(len(p)) {
		return fmt.Errorf("%w: %d trailing bytes in guard", ErrMalformed, uint(len(p))-next)
	}
	//
	return nil
}

func (p Bytecode) check(atomicCount uint, pc uint) (uint, error) {
	if pc >= uint(len(p)) {
		return pc, fmt.Errorf("%w: truncated guard", ErrMalformed)
	}
	//
	switch p[pc] {
	case FALSE, TRUE:
		return pc + 1, nil
	case NAME:
		if pc+3 > uint(len(p)) {
			return pc, fmt.Errorf("%w: truncated guard", ErrMalformed)
		} else if offset := uint(binary.LittleEndian.Uint16(p[pc+1:])); offset >= atomicCount {
			return pc, fmt.Errorf("%w: atom offset %d out-of-bounds", ErrMalformed, offset)
		}
		//
		return pc + 3, nil
	case NOT:
		return p.check(atomicCount, pc+1)
	case AND, OR:
		next, err := p.check(atomicCount, pc+1)
		if err != nil {
			return next, err
		}
		//
		return p.check(atomicCount, next)
	default:
		return pc, fmt.Errorf("%w: invalid opcode %d", ErrMalformed, p[pc])
	}
}
