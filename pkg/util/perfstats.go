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
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats measures the time taken, and memory allocated, by a stage of
// compilation.
type PerfStats struct {
	start  time.Time
	allocs uint64
	gcs    uint32
}

// NewPerfStats begins measuring a stage from this point.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Log reports the time and memory used since this measurement began, at the
// debug level.  Nothing is measured unless debug logging is enabled.
func (p *PerfStats) Log(stage string) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	//
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	log.WithFields(log.Fields{
		"secs": time.Since(p.start).Seconds(),
		"kb":   (m.TotalAlloc - p.allocs) / 1024,
		"gcs":  m.NumGC - p.gcs,
	}).Debug(stage)
}
