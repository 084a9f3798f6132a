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

// Package compose drives a parser.Parser and builds a tree of Nodes,
// maintaining the anchor table and flattening merge keys along the way.
package compose

import "go.yamlcore.dev/yaml/internal/token"

type Kind int8

const (
	DocumentNode Kind = iota + 1
	SequenceNode
	MappingNode
	ScalarNode
	AliasNode
)

// Style is a bitmask of how a node was (or should be) written.
type Style int8

const (
	TaggedStyle Style = 1 << iota
	DoubleQuotedStyle
	SingleQuotedStyle
	LiteralStyle
	FoldedStyle
	FlowStyle
)

// Node is the tree shape produced by the Composer and consumed by the
// emitter and the Constructor layer. Mappings store their pairs as a flat
// [key0, value0, key1, value1, ...] Content list rather than a map, so that
// key order, non-string keys and !!omap/!!pairs/merge-key positional
// semantics all fall out of the same representation.
type Node struct {
	Kind  Kind
	Style Style
	Tag   string
	Value string

	Anchor string
	Alias  *Node

	Content []*Node

	Line, Column int
}

// Mark is the node's start position, useful for diagnostics when a
// Constructor rejects a node.
func (n *Node) Mark() token.Mark {
	return token.Mark{Line: n.Line - 1, Column: n.Column - 1}
}

// IsZero reports whether n is the zero Node (no Kind set).
func (n *Node) IsZero() bool {
	return n == nil || n.Kind == 0
}
