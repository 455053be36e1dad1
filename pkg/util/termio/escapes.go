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
package termio

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// TERM_RED represents red
const TERM_RED = uint(1)

// TERM_GREEN represents green
const TERM_GREEN = uint(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = uint(3)

// AnsiEscape accumulates the parameters of a Select Graphic Rendition escape
// sequence.
type AnsiEscape struct {
	params []string
}

// NewAnsiEscape constructs an escape without parameters.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{}
}

// ResetAnsiEscape constructs an escape restoring the default rendition.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]string{"0"}}
}

// FgColour adds a foreground colour.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	params := append([]string{}, p.params...)
	return AnsiEscape{append(params, fmt.Sprint(30+col))}
}

// Build constructs the final escape sequence.
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("\033[%sm", strings.Join(p.params, ";"))
}

// IsTerminal determines whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Colour renders text in a given foreground colour, or returns it unchanged
// when colour is disabled.
func Colour(text string, col uint, enabled bool) string {
	if !enabled {
		return text
	}
	//
	return NewAnsiEscape().FgColour(col).Build() + text + ResetAnsiEscape().Build()
}
