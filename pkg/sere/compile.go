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
package sere

import (
	"fmt"

	"github.com/consensys/go-sere/pkg/boolean"
	"github.com/consensys/go-sere/pkg/dfasl"
	"github.com/consensys/go-sere/pkg/nfasl"
	"github.com/consensys/go-sere/pkg/rt"
	"github.com/consensys/go-sere/pkg/util"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Target identifies the kind of automaton a compilation produces.
type Target string

// Format identifies the encoding of a compiled snapshot.
type Format string

const (
	// NFASL targets a nondeterministic automaton.
	NFASL Target = "nfasl"
	// DFASL targets a deterministic automaton.
	DFASL Target = "dfasl"
	// BINARY encodes snapshots in the compact binary format.
	BINARY Format = "binary"
	// JSON encodes snapshots as JSON documents.
	JSON Format = "json"
)

// CompileConfig determines how an expression is compiled.
type CompileConfig struct {
	Target   Target `yaml:"target"`
	Format   Format `yaml:"format"`
	Minimize bool   `yaml:"minimize"`
}

// DefaultConfig returns the configuration used when none is given, namely a
// minimized nondeterministic automaton in binary form.
func DefaultConfig() CompileConfig {
	return CompileConfig{NFASL, BINARY, true}
}

// ReadConfig reads a configuration from YAML.  Any key which is absent keeps
// its default value.
func ReadConfig(data []byte) (CompileConfig, error) {
	cfg := DefaultConfig()
	//
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	//
	return cfg, cfg.Validate()
}

// Validate checks that the target and format are known.
func (p CompileConfig) Validate() error {
	switch p.Target {
	case NFASL, DFASL:
	default:
		return fmt.Errorf("unknown target %q", p.Target)
	}
	//
	switch p.Format {
	case BINARY, JSON:
	default:
		return fmt.Errorf("unknown format %q", p.Format)
	}
	//
	return nil
}

// Compiled is the result of compiling an expression.
type Compiled struct {
	Config CompileConfig
	// Context holding every guard of the automaton.
	Context *boolean.Context
	// Names of the atomic propositions, indexed by atom.
	Names []string
	// The (cleaned and possibly minimized) automaton.
	Nfasl *nfasl.Automaton
	// The determinized automaton, which is nil unless the target is DFASL.
	Dfasl *dfasl.Automaton
}

// Compile parses an expression and compiles it according to the given
// configuration.  Syntax errors are reported as a *SyntaxError.
func Compile(src string, cfg CompileConfig) (*Compiled, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	//
	stats := util.NewPerfStats()
	//
	expr, names, err := Parse(src)
	if err != nil {
		return nil, err
	}
	//
	stats.Log("Parsing expression")
	//
	return CompileExpr(boolean.NewContext(), expr, names, cfg)
}

// CompileExpr compiles an already parsed expression within a given context.
func CompileExpr(ctx *boolean.Context, expr Expr, names []string, cfg CompileConfig) (*Compiled, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	//
	stats := util.NewPerfStats()
	a := ToNfasl(ctx, expr)
	// Every named atom is part of the alphabet, even when unused.
	a.AtomicCount = max(a.AtomicCount, uint(len(names)))
	//
	stats.Log("Lowering expression")
	log.Debugf("lowered automaton: %d states, %d rules", a.StateCount, a.RuleCount())
	//
	stats = util.NewPerfStats()
	//
	if cfg.Minimize {
		a = nfasl.Minimize(ctx, a)
		stats.Log("Minimizing automaton")
	} else {
		a = nfasl.Clean(ctx, a)
		stats.Log("Cleaning automaton")
	}
	//
	result := &Compiled{cfg, ctx, names, a, nil}
	//
	if cfg.Target == DFASL {
		stats = util.NewPerfStats()
		result.Dfasl = dfasl.FromNfasl(ctx, a)
		stats.Log("Determinizing automaton")
	}
	//
	log.Debugf("%d satisfiability checks over %d formulas", ctx.SolverCalls(), ctx.Size())
	//
	return result, nil
}

// Snapshot compiles the automaton into its executable form.
func (p *Compiled) Snapshot() (*rt.Snapshot, error) {
	if p.Dfasl != nil {
		return rt.FromDfasl(p.Context, p.Dfasl)
	}
	//
	return rt.FromNfasl(p.Context, p.Nfasl)
}

// Bytes encodes the compiled automaton in the configured format.
func (p *Compiled) Bytes() ([]byte, error) {
	if p.Config.Format == JSON {
		return MarshalSnapshot(p)
	}
	//
	snapshot, err := p.Snapshot()
	if err != nil {
		return nil, err
	}
	//
	return snapshot.MarshalBinary()
}

// Load decodes a snapshot in either format, and constructs an executor for
// it.  The executor matches whole words, with deterministic snapshots using a
// deterministic executor.
func Load(data []byte) (rt.Executor, error) {
	snapshot, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	//
	return rt.NewExecutor(snapshot), nil
}

// LoadExtended decodes a snapshot in either format, and constructs an
// executor for it which searches for matches ending at every position.
func LoadExtended(data []byte) (rt.ExtendedExecutor, error) {
	snapshot, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	//
	return rt.NewSearchExecutor(snapshot), nil
}
