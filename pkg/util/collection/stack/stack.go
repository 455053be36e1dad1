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
package stack

// Stack is a LIFO stack backed by a slice.  A bounded stack refuses to grow
// beyond a fixed depth, which lets iterative algorithms cap the amount of
// context they retain.
type Stack[T any] struct {
	items []T
	// Maximum depth, or zero when unbounded.
	bound uint
}

// NewStack returns an empty, unbounded stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// NewBoundedStack returns an empty stack which holds at most bound items.
func NewBoundedStack[T any](bound uint) *Stack[T] {
	if bound == 0 {
		panic("stack bound must be positive")
	}
	//
	return &Stack[T]{items: make([]T, 0, bound), bound: bound}
}

// IsEmpty checks whether this stack holds no items.
func (p *Stack[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// IsFull checks whether this stack has reached its bound.  An unbounded stack
// is never full.
func (p *Stack[T]) IsFull() bool {
	return p.bound != 0 && uint(len(p.items)) >= p.bound
}

// Len returns the number of items on this stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Peek returns the item at a given depth, where depth zero is the top.
func (p *Stack[T]) Peek(depth uint) T {
	if depth >= p.Len() {
		panic("stack peek out-of-bounds")
	}
	//
	return p.items[p.Len()-depth-1]
}

// Push an item onto this stack, which must not be full.
func (p *Stack[T]) Push(item T) {
	if p.IsFull() {
		panic("stack overflow")
	}
	//
	p.items = append(p.items, item)
}

// PushAll pushes items in order, such that the last ends up on top.
func (p *Stack[T]) PushAll(items []T) {
	for _, item := range items {
		p.Push(item)
	}
}

// Pop removes and returns the top item of this stack, which must not be
// empty.
func (p *Stack[T]) Pop() T {
	if p.IsEmpty() {
		panic("stack underflow")
	}
	//
	n := len(p.items) - 1
	item := p.items[n]
	p.items = p.items[:n]
	//
	return item
}

// Clear removes every item, keeping the underlying storage.
func (p *Stack[T]) Clear() {
	p.items = p.items[:0]
}
