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
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-sere/pkg/match"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/rt"
	"github.com/consensys/go-sere/pkg/sere"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the sere test files and the corresponding words (accepts/rejects) are
// found.
const TestDir = "../../testdata"

// COMPILE_CONFIGS identifies the configurations every test is checked
// against.
var COMPILE_CONFIGS = []sere.CompileConfig{
	{Target: sere.NFASL, Format: sere.BINARY, Minimize: true},
	{Target: sere.NFASL, Format: sere.BINARY, Minimize: false},
	{Target: sere.NFASL, Format: sere.JSON, Minimize: true},
	{Target: sere.DFASL, Format: sere.BINARY, Minimize: true},
	{Target: sere.DFASL, Format: sere.JSON, Minimize: false},
}

// TESTFILE_EXTENSIONS identifies the word files considered for each test,
// along with whether they are expected to match.
var TESTFILE_EXTENSIONS = []struct {
	extension string
	expected  bool
}{
	{"accepts", true},
	{"rejects", false},
}

// Check that all words which we expect to be accepted are accepted by a given
// expression, and all words that we expect to be rejected are rejected.  The
// expression is compiled under every configuration, and both the automaton
// and its loaded snapshot are checked.
func Check(t *testing.T, test string) {
	// Enable testing each expression in parallel
	t.Parallel()
	//
	filename := fmt.Sprintf("%s/%s.sere", TestDir, test)
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	text := strings.TrimSpace(string(bytes))
	// Record how many tests executed.
	nTests := 0
	//
	for _, cfg := range COMPILE_CONFIGS {
		compiled, err := sere.Compile(text, cfg)
		if err != nil {
			t.Fatalf("%s: %s", filename, err)
		}
		//
		snapshot, err := compiled.Bytes()
		if err != nil {
			t.Fatalf("%s: %s", filename, err)
		}
		//
		executor, err := sere.Load(snapshot)
		if err != nil {
			t.Fatalf("%s: %s", filename, err)
		}
		//
		for _, ext := range TESTFILE_EXTENSIONS {
			wordsFilename := fmt.Sprintf("%s/%s.%s", TestDir, test, ext.extension)
			// Missing word files are skipped
			if _, err := os.Stat(wordsFilename); err != nil {
				continue
			}
			//
			words, err := ReadWordsFile(wordsFilename, compiled.Names)
			if err != nil {
				t.Fatal(err)
			}
			//
			for i, word := range words {
				checkWord(t, compiled, executor, word, ext.expected, fmt.Sprintf("%s:%d (%v)", wordsFilename, i+1, cfg))
				nTests++
			}
		}
	}
	//
	if nTests == 0 {
		t.Fatalf("missing word files for %s", test)
	}
}

func checkWord(t *testing.T, compiled *sere.Compiled, executor rt.Executor, word []*bitset.BitSet, expected bool,
	id string) {
	//
	executor.Reset()
	//
	for _, letter := range word {
		executor.Advance(letter)
	}
	//
	if actual := executor.Result() == match.Ok; actual != expected {
		t.Errorf("%s: executor expected %t, got %t", id, expected, actual)
	}
	//
	if actual := nfasl.Eval(compiled.Context, compiled.Nfasl, word) == match.Ok; actual != expected {
		t.Errorf("%s: automaton expected %t, got %t", id, expected, actual)
	}
}
