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
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/boolean"
)

// NewLetter constructs a letter in which exactly the given atomic
// propositions hold.
func NewLetter(atoms ...uint) *bitset.BitSet {
	letter := bitset.New(0)
	//
	for _, atom := range atoms {
		letter.Set(atom)
	}
	//
	return letter
}

// ParseLetter constructs a letter from the atomic propositions which hold in
// it.  Each token is either the name of an atom, or its index.
func ParseLetter(tokens []string, names []string) (*bitset.BitSet, error) {
	letter := bitset.New(uint(len(names)))
	//
	for _, token := range tokens {
		atom, ok := findAtom(token, names)
		//
		if !ok {
			index, err := strconv.ParseUint(token, 10, 16)
			if err != nil {
				return nil, fmt.Errorf("unknown atom %q", token)
			}
			//
			atom = uint(index)
		}
		//
		letter.Set(atom)
	}
	//
	return letter, nil
}

// FormatLetter returns the tokens identifying the atomic propositions which
// hold in a letter, in ascending order of index.  An atom without a name is
// identified by its index, such that ParseLetter recovers the letter.
func FormatLetter(letter *bitset.BitSet, names []string) []string {
	tokens := make([]string, 0, letter.Count())
	//
	for i, ok := letter.NextSet(0); ok; i, ok = letter.NextSet(i + 1) {
		if i < uint(len(names)) {
			tokens = append(tokens, names[i])
		} else {
			tokens = append(tokens, strconv.FormatUint(uint64(i), 10))
		}
	}
	//
	return tokens
}

// LetterString returns a human-readable representation of a letter.
func LetterString(letter *bitset.BitSet, names []string) string {
	var tokens []string
	//
	for i, ok := letter.NextSet(0); ok; i, ok = letter.NextSet(i + 1) {
		tokens = append(tokens, boolean.VarName(i, names))
	}
	//
	return fmt.Sprintf("{%s}", strings.Join(tokens, ","))
}

func findAtom(name string, names []string) (uint, bool) {
	for i, n := range names {
		if n == name {
			return uint(i), true
		}
	}
	//
	return 0, false
}
