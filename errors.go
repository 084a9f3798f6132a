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

package yaml

import "strings"

// TypeError aggregates every field-level decode failure found while
// unmarshalling a single document, rather than aborting at the first one.
type TypeError struct {
	Errors []string
}

func (e *TypeError) Error() string {
	return "yaml: unmarshal errors:\n  " + strings.Join(e.Errors, "\n  ")
}

// ConstructorError wraps a failure from the tag-to-value Constructor layer:
// an error returned by a registered constructor, a repeated !!omap key, or
// an !!set entry that is repeated or has a non-null value. Failures of the
// reflection-based default and of UnmarshalYAML implementations are
// reported as plain TypeError entries.
type ConstructorError struct {
	Tag string
	Err error
}

func (e *ConstructorError) Error() string {
	return "yaml: constructing " + e.Tag + ": " + e.Err.Error()
}

func (e *ConstructorError) Unwrap() error { return e.Err }
