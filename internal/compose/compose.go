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

package compose

import (
	"fmt"

	"go.yamlcore.dev/yaml/internal/parser"
	"go.yamlcore.dev/yaml/internal/resolver"
	"go.yamlcore.dev/yaml/internal/token"
)

// Error is a ComposerError: undefined alias, recursive alias, or duplicate
// anchor.
type Error struct {
	Context     string
	ContextMark token.Mark
	Problem     string
	ProblemMark token.Mark
}

func (e *Error) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("yaml: %s at %s", e.Problem, e.ProblemMark)
	}
	return fmt.Sprintf("yaml: %s at %s: %s at %s", e.Context, e.ContextMark, e.Problem, e.ProblemMark)
}

func errorf(mark token.Mark, problem string, args ...interface{}) error {
	return &Error{Problem: fmt.Sprintf(problem, args...), ProblemMark: mark}
}

// sentinel marks an anchor whose node is still being composed, so a
// reference to it from within its own subtree (a recursive alias) can be
// rejected instead of looping forever.
var sentinel = &Node{}

// Composer drives a parser.Parser and builds Node trees, one per document.
type Composer struct {
	p   *parser.Parser
	res *resolver.Resolver

	started bool
	anchors map[string]*Node

	pending *token.Event
}

func New(p *parser.Parser, res *resolver.Resolver) *Composer {
	return &Composer{p: p, res: res}
}

func (c *Composer) next() (*token.Event, error) {
	if c.pending != nil {
		ev := c.pending
		c.pending = nil
		return ev, nil
	}
	return c.p.Next()
}

func (c *Composer) peek() (*token.Event, error) {
	if c.pending == nil {
		ev, err := c.p.Next()
		if err != nil {
			return nil, err
		}
		c.pending = ev
	}
	return c.pending, nil
}

// CheckNode reports whether a document follows, consuming STREAM-START once.
func (c *Composer) CheckNode() (bool, error) {
	if !c.started {
		ev, err := c.next()
		if err != nil {
			return false, err
		}
		if ev.Kind != token.StreamStartEvent {
			return false, errorf(ev.Start, "did not find expected <stream-start>")
		}
		c.started = true
	}
	ev, err := c.peek()
	if err != nil {
		return false, err
	}
	return ev.Kind != token.StreamEndEvent, nil
}

// GetNode builds the next document's root, or returns nil if the stream is
// exhausted.
func (c *Composer) GetNode() (*Node, error) {
	ok, err := c.CheckNode()
	if err != nil || !ok {
		return nil, err
	}

	c.anchors = make(map[string]*Node)

	ev, err := c.next()
	if err != nil {
		return nil, err
	}
	if ev.Kind != token.DocumentStartEvent {
		return nil, errorf(ev.Start, "expected document start, found %s", ev.Kind)
	}

	node, err := c.composeNode()
	if err != nil {
		return nil, err
	}

	ev, err = c.next()
	if err != nil {
		return nil, err
	}
	if ev.Kind != token.DocumentEndEvent {
		return nil, errorf(ev.Start, "expected document end, found %s", ev.Kind)
	}
	return node, nil
}

// GetSingleNode asserts the stream holds exactly one document.
func (c *Composer) GetSingleNode() (*Node, error) {
	node, err := c.GetNode()
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, errorf(token.Mark{}, "expected a single document in the stream, found none")
	}
	ok, err := c.CheckNode()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, errorf(node.Mark(), "expected a single document in the stream")
	}
	return node, nil
}

func (c *Composer) composeNode() (*Node, error) {
	ev, err := c.peek()
	if err != nil {
		return nil, err
	}

	if ev.Kind == token.AliasEvent {
		if _, err := c.next(); err != nil {
			return nil, err
		}
		anchor := string(ev.Anchor)
		target, ok := c.anchors[anchor]
		if !ok {
			return nil, errorf(ev.Start, "found undefined alias %q", anchor)
		}
		if target == sentinel {
			return nil, errorf(ev.Start, "found recursive alias %q", anchor)
		}
		return &Node{Kind: AliasNode, Value: anchor, Alias: target, Line: ev.Start.Line + 1, Column: ev.Start.Column + 1}, nil
	}

	anchor := string(ev.Anchor)
	if anchor != "" {
		if _, dup := c.anchors[anchor]; dup {
			return nil, errorf(ev.Start, "found duplicate anchor %q", anchor)
		}
		c.anchors[anchor] = sentinel
	}

	var node *Node
	switch ev.Kind {
	case token.ScalarEvent:
		node, err = c.composeScalar(ev)
	case token.SequenceStartEvent:
		node, err = c.composeSequence(ev)
	case token.MappingStartEvent:
		node, err = c.composeMapping(ev)
	default:
		return nil, errorf(ev.Start, "did not find expected node content, found %s", ev.Kind)
	}
	if err != nil {
		return nil, err
	}

	if anchor != "" {
		node.Anchor = anchor
		c.anchors[anchor] = node
	}
	return node, nil
}

func (c *Composer) composeScalar(ev *token.Event) (*Node, error) {
	if _, err := c.next(); err != nil {
		return nil, err
	}
	implicit := ev.Implicit || ev.QuotedImplicit
	tag := c.res.Resolve(resolver.ScalarKind, string(ev.Tag), ev.Value, implicit && len(ev.Tag) == 0)
	if len(ev.Tag) > 0 && string(ev.Tag) != token.NonSpecificTag {
		tag = string(ev.Tag)
	}
	n := &Node{
		Kind:  ScalarNode,
		Tag:   tag,
		Value: string(ev.Value),
		Line:  ev.Start.Line + 1, Column: ev.Start.Column + 1,
	}
	switch ev.ScalarStyle {
	case token.SingleQuotedScalarStyle:
		n.Style = SingleQuotedStyle
	case token.DoubleQuotedScalarStyle:
		n.Style = DoubleQuotedStyle
	case token.LiteralScalarStyle:
		n.Style = LiteralStyle
	case token.FoldedScalarStyle:
		n.Style = FoldedStyle
	}
	if len(ev.Tag) > 0 && string(ev.Tag) != token.NonSpecificTag && !ev.Implicit && !ev.QuotedImplicit {
		n.Style |= TaggedStyle
	}
	return n, nil
}

func (c *Composer) composeSequence(ev *token.Event) (*Node, error) {
	if _, err := c.next(); err != nil {
		return nil, err
	}
	tag := c.res.Resolve(resolver.SequenceKind, string(ev.Tag), nil, ev.Implicit)
	n := &Node{Kind: SequenceNode, Tag: tag, Line: ev.Start.Line + 1, Column: ev.Start.Column + 1}
	if ev.CollectionStyle == token.FlowCollectionStyle {
		n.Style |= FlowStyle
	}
	for {
		next, err := c.peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == token.SequenceEndEvent {
			break
		}
		child, err := c.composeNode()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, child)
	}
	if _, err := c.next(); err != nil {
		return nil, err
	}
	return n, nil
}

func (c *Composer) composeMapping(ev *token.Event) (*Node, error) {
	if _, err := c.next(); err != nil {
		return nil, err
	}
	tag := c.res.Resolve(resolver.MappingKind, string(ev.Tag), nil, ev.Implicit)
	n := &Node{Kind: MappingNode, Tag: tag, Line: ev.Start.Line + 1, Column: ev.Start.Column + 1}
	if ev.CollectionStyle == token.FlowCollectionStyle {
		n.Style |= FlowStyle
	}

	var merges []*Node
	for {
		next, err := c.peek()
		if err != nil {
			return nil, err
		}
		if next.Kind == token.MappingEndEvent {
			break
		}
		key, err := c.composeNode()
		if err != nil {
			return nil, err
		}
		value, err := c.composeNode()
		if err != nil {
			return nil, err
		}
		if isMergeKey(key) {
			merges = append(merges, value)
			continue
		}
		n.Content = append(n.Content, key, value)
	}
	if _, err := c.next(); err != nil {
		return nil, err
	}

	for _, m := range merges {
		if err := mergeInto(n, m); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func isMergeKey(n *Node) bool {
	return n.Kind == ScalarNode && n.Tag == token.MergeTag
}

// mergeInto flattens a merge value (spec.md §4.4): a mapping's pairs are
// appended (first occurrence wins on key collision); a sequence of mappings
// is flattened in order; anything else is an error.
func mergeInto(dst *Node, value *Node) error {
	src := value
	if src.Kind == AliasNode {
		src = src.Alias
	}
	switch src.Kind {
	case MappingNode:
		appendMissing(dst, src)
	case SequenceNode:
		for _, item := range src.Content {
			if err := mergeInto(dst, item); err != nil {
				return err
			}
		}
	default:
		return errorf(value.Mark(), "map merge requires map or sequence of maps as the value")
	}
	return nil
}

func appendMissing(dst, src *Node) {
	for i := 0; i+1 < len(src.Content); i += 2 {
		k, v := src.Content[i], src.Content[i+1]
		if hasKey(dst, k) {
			continue
		}
		dst.Content = append(dst.Content, k, v)
	}
}

func hasKey(n *Node, key *Node) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Kind == ScalarNode && key.Kind == ScalarNode && n.Content[i].Value == key.Value && n.Content[i].Tag == key.Tag {
			return true
		}
	}
	return false
}
