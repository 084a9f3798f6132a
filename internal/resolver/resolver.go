//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package resolver maps a (node kind, explicit tag, scalar value, implicit
// flag) tuple to a canonical tag, via an ordered table of first-character
// filtered regular expressions plus a few non-scalar defaults. Callers may
// extend the table with RegisterImplicitResolver.
package resolver

import (
	"regexp"
	"sync"

	"go.yamlcore.dev/yaml/internal/token"
)

// Kind is the node kind being resolved; it determines which default tag
// applies when no implicit rule matches (or when the node isn't a scalar).
type Kind int8

const (
	ScalarKind Kind = iota
	SequenceKind
	MappingKind
)

type rule struct {
	tag        string
	firstChars string
	re         *regexp.Regexp
}

// Resolver holds the mutable implicit-resolver table. The zero value is not
// usable; use New, which seeds the YAML 1.1 core rule set.
type Resolver struct {
	mu    sync.RWMutex
	rules []rule
}

// New returns a Resolver seeded with the YAML 1.1 core implicit rules: bool,
// int (decimal/octal/hex/binary/sexagesimal with '_' separators), float
// (including sexagesimal, .inf, .nan), null, timestamp, merge and value.
func New() *Resolver {
	r := &Resolver{}
	for _, c := range coreRules {
		r.rules = append(r.rules, c)
	}
	return r
}

// RegisterImplicitResolver extends the table. Rules are tried in
// registration order after the built-ins and resolution stops at the first
// match, so a caller-registered rule never shadows a core tag: it only
// applies to values that no built-in rule matches.
func (r *Resolver) RegisterImplicitResolver(tag, firstChars, pattern string) {
	re := regexp.MustCompile("^(?:" + pattern + ")$")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{tag: tag, firstChars: firstChars, re: re})
}

// Resolve implements spec.md §4.3's algorithm.
func (r *Resolver) Resolve(kind Kind, tag string, value []byte, implicit bool) string {
	if !implicit {
		return tag
	}
	switch kind {
	case SequenceKind:
		return token.DefaultSequenceTag
	case MappingKind:
		return token.DefaultMappingTag
	}

	if len(value) == 0 {
		return token.NullTag
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	first := value[0]
	for _, rl := range r.rules {
		if len(rl.firstChars) > 0 && !containsByte(rl.firstChars, first) {
			continue
		}
		if rl.re.Match(value) {
			return rl.tag
		}
	}
	return token.DefaultScalarTag
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

const (
	boolFirst = "yYnNtTfFoO"
	intFirst  = "-+0123456789"
	fltFirst  = "-+0123456789."
	nulFirst  = "~nN\x00"
	tsFirst   = "0123456789"
)

var coreRules = []rule{
	{
		tag:        token.BoolTag,
		firstChars: boolFirst,
		re:         regexp.MustCompile(`^(?:[yY]|[yY][eE][sS]|[nN][oO]|[nN]|[tT][rR][uU][eE]|[fF][aA][lL][sS][eE]|[oO][nN]|[oO][fF][fF])$`),
	},
	{
		tag:        token.IntTag,
		firstChars: intFirst,
		re:         regexp.MustCompile(`^(?:[-+]?0b[0-1_]+|[-+]?0[0-7_]+|[-+]?(?:0|[1-9][0-9_]*)|[-+]?0x[0-9a-fA-F_]+|[-+]?[1-9][0-9_]*(?::[0-5]?[0-9])+)$`),
	},
	{
		tag:        token.FloatTag,
		firstChars: fltFirst,
		re: regexp.MustCompile(`^(?:[-+]?(?:[0-9][0-9_]*)\.[0-9_]*(?:[eE][-+]?[0-9]+)?` +
			`|\.[0-9][0-9_]*(?:[eE][-+]?[0-9]+)?` +
			`|[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+\.[0-9_]*` +
			`|[-+]?\.(?:inf|Inf|INF)` +
			`|\.(?:nan|NaN|NAN))$`),
	},
	{
		tag:        token.NullTag,
		firstChars: nulFirst,
		re:         regexp.MustCompile(`^(?:~|null|Null|NULL|)$`),
	},
	{
		tag:        token.TimestampTag,
		firstChars: tsFirst,
		re: regexp.MustCompile(`^(?:[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]` +
			`|[0-9][0-9][0-9][0-9]-[0-9][0-9]?-[0-9][0-9]?(?:[Tt]|[ \t]+)[0-9][0-9]?:[0-9][0-9]:[0-9][0-9](?:\.[0-9]*)?(?:[ \t]*(?:Z|[-+][0-9][0-9]?(?::[0-9][0-9])?))?)$`),
	},
	{
		tag:        token.MergeTag,
		firstChars: "<",
		re:         regexp.MustCompile(`^(?:<<)$`),
	},
	{
		tag:        token.ValueTag,
		firstChars: "=",
		re:         regexp.MustCompile(`^(?:=)$`),
	},
}
