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
package match

import "fmt"

// Match is the three-valued verdict given for a prefix of the input stream.
type Match uint8

const (
	// Ok indicates the stream (or some suffix of it) has been matched.
	Ok Match = iota
	// Partial indicates no match yet, though one remains possible.
	Partial
	// Failed indicates no match is possible any longer, whatever follows.
	Failed
)

func (m Match) String() string {
	switch m {
	case Ok:
		return "ok"
	case Partial:
		return "partial"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("match(%d)", uint8(m))
	}
}

// Extended refines a verdict with positional information.  Lengths are
// measured backwards from the current position.  Shortest and Longest give
// the lengths of the shortest and longest matching suffixes, and are only
// meaningful for Ok.  Horizon gives the length of the oldest match attempt
// still alive, bounding how much history a caller must retain.  It is
// meaningful for both Ok and Partial.
type Extended struct {
	Match    Match
	Shortest uint
	Longest  uint
	Horizon  uint
}

// ExtendedOk constructs an Ok extended verdict.
func ExtendedOk(shortest, longest, horizon uint) Extended {
	return Extended{Ok, shortest, longest, horizon}
}

// ExtendedPartial constructs a Partial extended verdict.
func ExtendedPartial(horizon uint) Extended {
	return Extended{Match: Partial, Horizon: horizon}
}

// ExtendedFailed constructs a Failed extended verdict.
func ExtendedFailed() Extended {
	return Extended{Match: Failed}
}

func (m Extended) String() string {
	switch m.Match {
	case Ok:
		return fmt.Sprintf("ok(shortest=%d, longest=%d, horizon=%d)", m.Shortest, m.Longest, m.Horizon)
	case Partial:
		return fmt.Sprintf("partial(horizon=%d)", m.Horizon)
	default:
		return m.Match.String()
	}
}
