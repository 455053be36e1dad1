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
package nfasl

import (
	"fmt"
	"strings"

	"github.com/consensys/go-sere/pkg/boolean"
)

// Dot renders an automaton in the Graphviz DOT language.  Final states are
// drawn as double circles and the initial state is marked by an arrow from
// an invisible node.
func Dot(ctx *boolean.Context, a *Automaton, names []string) string {
	var out strings.Builder
	//
	out.WriteString("digraph nfasl {\n")
	out.WriteString("    rankdir=LR;\n")
	out.WriteString("    start [shape=point, style=invis];\n")
	//
	for q := range a.StateCount {
		shape := "circle"
		if a.IsFinal(q) {
			shape = "doublecircle"
		}
		//
		out.WriteString(fmt.Sprintf("    q%d [shape=%s, label=\"%d\"];\n", q, shape, q))
	}
	//
	out.WriteString(fmt.Sprintf("    start -> q%d;\n", a.Initial))
	//
	for q, rules := range a.Transitions {
		for _, rule := range rules {
			label := strings.ReplaceAll(ctx.String(rule.Guard, names), "\"", "\\\"")
			out.WriteString(fmt.Sprintf("    q%d -> q%d [label=\"%s\"];\n", q, rule.Target, label))
		}
	}
	//
	out.WriteString("}\n")
	//
	return out.String()
}
