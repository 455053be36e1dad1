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
package util

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/rt"
)

// ReadWordsFile reads a file of words, one per line.  Each line is a JSON
// array of letters, where each letter is an array holding the names of the
// atoms which hold.  Blank lines are ignored.
func ReadWordsFile(filename string, names []string) ([][]*bitset.BitSet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	//
	defer file.Close()
	//
	var (
		words   [][]*bitset.BitSet
		scanner = bufio.NewScanner(file)
		line    = 0
	)
	//
	for scanner.Scan() {
		var letters [][]string
		//
		line++
		text := strings.TrimSpace(scanner.Text())
		//
		if text == "" {
			continue
		} else if err := json.Unmarshal([]byte(text), &letters); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
		}
		//
		word := make([]*bitset.BitSet, len(letters))
		//
		for i, tokens := range letters {
			if word[i], err = rt.ParseLetter(tokens, names); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", filename, line, err)
			}
		}
		//
		words = append(words, word)
	}
	//
	return words, scanner.Err()
}

// WriteWordsFile writes a file of words, one per line, in the format
// understood by ReadWordsFile.
func WriteWordsFile(filename string, names []string, words [][]*bitset.BitSet) error {
	var builder strings.Builder
	//
	for _, word := range words {
		letters := make([][]string, len(word))
		//
		for i, letter := range word {
			letters[i] = rt.FormatLetter(letter, names)
		}
		//
		bytes, err := json.Marshal(letters)
		if err != nil {
			return err
		}
		//
		builder.Write(bytes)
		builder.WriteString("\n")
	}
	//
	return os.WriteFile(filename, []byte(builder.String()), 0644)
}
