//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package parser turns a Scanner's token stream into a stream of Events by
// running a recursive-descent LL(1) grammar over an explicit state stack,
// resolving tags against the document's active tag directives along the
// way. See the grammar comment on Parser.Next for the production set.
package parser

import (
	"bytes"
	"fmt"

	"go.yamlcore.dev/yaml/internal/scanner"
	"go.yamlcore.dev/yaml/internal/token"
)

// Error is a ParserError: a token arrived that the grammar's current state
// doesn't accept.
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

type state int8

const (
	stateStreamStart state = iota
	stateImplicitDocumentStart
	stateDocumentStart
	stateDocumentContent
	stateDocumentEnd
	stateBlockNode
	stateBlockNodeOrIndentlessSequence
	stateFlowNode
	stateBlockSequenceFirstEntry
	stateBlockSequenceEntry
	stateIndentlessSequenceEntry
	stateBlockMappingFirstKey
	stateBlockMappingKey
	stateBlockMappingValue
	stateFlowSequenceFirstEntry
	stateFlowSequenceEntry
	stateFlowSequenceEntryMappingKey
	stateFlowSequenceEntryMappingValue
	stateFlowSequenceEntryMappingEnd
	stateFlowMappingFirstKey
	stateFlowMappingKey
	stateFlowMappingValue
	stateFlowMappingEmptyValue
	stateEnd
)

// Parser drives the grammar. Create with New and call Next repeatedly until
// it returns a STREAM-END event (or an error).
type Parser struct {
	sc *scanner.Scanner

	state  state
	states []state
	marks  []token.Mark

	tagDirectives []token.TagDirective

	streamEndProduced bool
}

func New(sc *scanner.Scanner) *Parser {
	return &Parser{sc: sc}
}

func (p *Parser) errorf(context string, contextMark token.Mark, problem string, mark token.Mark, args ...interface{}) error {
	return &Error{
		Context:     context,
		ContextMark: contextMark,
		Problem:     fmt.Sprintf(problem, args...),
		ProblemMark: mark,
	}
}

func (p *Parser) pushState(s state) { p.states = append(p.states, s) }

func (p *Parser) popState() state {
	s := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return s
}

func (p *Parser) pushMark(m token.Mark) { p.marks = append(p.marks, m) }

func (p *Parser) popMark() token.Mark {
	m := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]
	return m
}

// Next returns the next event in the grammar:
//
//	stream            ::= STREAM-START implicit_document? explicit_document* STREAM-END
//	implicit_document ::= block_node DOCUMENT-END*
//	explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
//	block_node        ::= ALIAS | properties block_content? | block_content
//	flow_node         ::= ALIAS | properties flow_content? | flow_content
//	properties        ::= TAG ANCHOR? | ANCHOR TAG?
//	block_content     ::= block_collection | flow_collection | SCALAR
//	flow_content      ::= flow_collection | SCALAR
//	block_sequence    ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY block_node?)* BLOCK-END
//	indentless_sequence ::= (BLOCK-ENTRY block_node?)+
//	block_mapping     ::= BLOCK-MAPPING-START ((KEY block_node_or_indentless_sequence?)? (VALUE block_node_or_indentless_sequence?)?)* BLOCK-END
//	flow_sequence     ::= FLOW-SEQUENCE-START (flow_sequence_entry FLOW-ENTRY)* flow_sequence_entry? FLOW-SEQUENCE-END
//	flow_sequence_entry ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//	flow_mapping      ::= FLOW-MAPPING-START (flow_mapping_entry FLOW-ENTRY)* flow_mapping_entry? FLOW-MAPPING-END
//	flow_mapping_entry  ::= flow_node | KEY flow_node? (VALUE flow_node?)?
func (p *Parser) Next() (*token.Event, error) {
	if p.streamEndProduced || p.state == stateEnd {
		return &token.Event{Kind: token.NoEvent}, nil
	}
	return p.dispatch()
}

func (p *Parser) peek() (*token.Token, error) {
	tok, err := p.sc.Peek()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, p.errorf("", token.Mark{}, "unexpected end of token stream", token.Mark{})
	}
	return tok, nil
}

func (p *Parser) skip() error {
	tok, err := p.sc.Get()
	if err != nil {
		return err
	}
	if tok.Kind == token.StreamEnd {
		p.streamEndProduced = true
	}
	return nil
}

func (p *Parser) dispatch() (*token.Event, error) {
	switch p.state {
	case stateStreamStart:
		return p.parseStreamStart()
	case stateImplicitDocumentStart:
		return p.parseDocumentStart(true)
	case stateDocumentStart:
		return p.parseDocumentStart(false)
	case stateDocumentContent:
		return p.parseDocumentContent()
	case stateDocumentEnd:
		return p.parseDocumentEnd()
	case stateBlockNode:
		return p.parseNode(true, false)
	case stateBlockNodeOrIndentlessSequence:
		return p.parseNode(true, true)
	case stateFlowNode:
		return p.parseNode(false, false)
	case stateBlockSequenceFirstEntry:
		return p.parseBlockSequenceEntry(true)
	case stateBlockSequenceEntry:
		return p.parseBlockSequenceEntry(false)
	case stateIndentlessSequenceEntry:
		return p.parseIndentlessSequenceEntry()
	case stateBlockMappingFirstKey:
		return p.parseBlockMappingKey(true)
	case stateBlockMappingKey:
		return p.parseBlockMappingKey(false)
	case stateBlockMappingValue:
		return p.parseBlockMappingValue()
	case stateFlowSequenceFirstEntry:
		return p.parseFlowSequenceEntry(true)
	case stateFlowSequenceEntry:
		return p.parseFlowSequenceEntry(false)
	case stateFlowSequenceEntryMappingKey:
		return p.parseFlowSequenceEntryMappingKey()
	case stateFlowSequenceEntryMappingValue:
		return p.parseFlowSequenceEntryMappingValue()
	case stateFlowSequenceEntryMappingEnd:
		return p.parseFlowSequenceEntryMappingEnd()
	case stateFlowMappingFirstKey:
		return p.parseFlowMappingKey(true)
	case stateFlowMappingKey:
		return p.parseFlowMappingKey(false)
	case stateFlowMappingValue:
		return p.parseFlowMappingValue(false)
	case stateFlowMappingEmptyValue:
		return p.parseFlowMappingValue(true)
	}
	panic("yaml: invalid parser state")
}

func (p *Parser) parseStreamStart() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.StreamStart {
		return nil, p.errorf("", token.Mark{}, "did not find expected <stream-start>", tok.Start)
	}
	p.state = stateImplicitDocumentStart
	ev := &token.Event{Kind: token.StreamStartEvent, Start: tok.Start, End: tok.End, Encoding: tok.Encoding}
	return ev, p.skip()
}

func (p *Parser) parseDocumentStart(implicit bool) (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if !implicit {
		for tok.Kind == token.DocumentEnd {
			if err := p.skip(); err != nil {
				return nil, err
			}
			tok, err = p.peek()
			if err != nil {
				return nil, err
			}
		}
	}

	if implicit && tok.Kind != token.Directive && tok.Kind != token.DocumentStart && tok.Kind != token.StreamEnd {
		if err := p.processDirectives(nil, nil); err != nil {
			return nil, err
		}
		p.pushState(stateDocumentEnd)
		p.state = stateBlockNode
		return &token.Event{Kind: token.DocumentStartEvent, Start: tok.Start, End: tok.End, Implicit: true}, nil
	}

	if tok.Kind != token.StreamEnd {
		var version *token.VersionDirective
		var tagDirectives []token.TagDirective
		start := tok.Start
		if err := p.processDirectives(&version, &tagDirectives); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.DocumentStart {
			return nil, p.errorf("", token.Mark{}, "did not find expected <document start>", tok.Start)
		}
		p.pushState(stateDocumentEnd)
		p.state = stateDocumentContent
		ev := &token.Event{
			Kind:             token.DocumentStartEvent,
			Start:            start,
			End:              tok.End,
			VersionDirective: version,
			TagDirectives:    tagDirectives,
			Implicit:         false,
		}
		return ev, p.skip()
	}

	p.state = stateEnd
	ev := &token.Event{Kind: token.StreamEndEvent, Start: tok.Start, End: tok.End}
	return ev, p.skip()
}

func (p *Parser) parseDocumentContent() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Directive || tok.Kind == token.DocumentStart || tok.Kind == token.DocumentEnd || tok.Kind == token.StreamEnd {
		p.state = p.popState()
		return emptyScalar(tok.Start), nil
	}
	return p.parseNode(true, false)
}

func (p *Parser) parseDocumentEnd() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	start, end := tok.Start, tok.Start
	implicit := true
	if tok.Kind == token.DocumentEnd {
		end = tok.End
		implicit = false
		if err := p.skip(); err != nil {
			return nil, err
		}
	}
	p.tagDirectives = p.tagDirectives[:0]
	p.state = stateDocumentStart
	return &token.Event{Kind: token.DocumentEndEvent, Start: start, End: end, Implicit: implicit}, nil
}

func emptyScalar(m token.Mark) *token.Event {
	return &token.Event{Kind: token.ScalarEvent, Start: m, End: m, Implicit: true, ScalarStyle: token.PlainScalarStyle}
}

func (p *Parser) parseNode(block, indentlessSequence bool) (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.Alias {
		p.state = p.popState()
		ev := &token.Event{Kind: token.AliasEvent, Start: tok.Start, End: tok.End, Anchor: tok.Value}
		return ev, p.skip()
	}

	start, end := tok.Start, tok.Start

	var haveTag bool
	var tagHandle, tagSuffix, anchor []byte
	var tagMark token.Mark

	if tok.Kind == token.Anchor {
		anchor = tok.Value
		start, end = tok.Start, tok.End
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.Tag {
			haveTag = true
			tagHandle, tagSuffix, tagMark = tok.Value, tok.Suffix, tok.Start
			end = tok.End
			if err := p.skip(); err != nil {
				return nil, err
			}
			tok, err = p.peek()
			if err != nil {
				return nil, err
			}
		}
	} else if tok.Kind == token.Tag {
		haveTag = true
		tagHandle, tagSuffix, tagMark = tok.Value, tok.Suffix, tok.Start
		start, end = tok.Start, tok.End
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.Anchor {
			anchor = tok.Value
			end = tok.End
			if err := p.skip(); err != nil {
				return nil, err
			}
			tok, err = p.peek()
			if err != nil {
				return nil, err
			}
		}
	}

	var tag []byte
	if haveTag {
		if len(tagHandle) == 0 {
			tag = tagSuffix
		} else {
			for _, td := range p.tagDirectives {
				if bytes.Equal(td.Handle, tagHandle) {
					tag = append(append([]byte(nil), td.Prefix...), tagSuffix...)
					break
				}
			}
			if len(tag) == 0 {
				return nil, p.errorf("", start, "found undefined tag handle", tagMark)
			}
		}
	}

	implicit := len(tag) == 0

	if indentlessSequence && tok.Kind == token.BlockEntry {
		end = tok.End
		p.state = stateIndentlessSequenceEntry
		return &token.Event{
			Kind: token.SequenceStartEvent, Start: start, End: end,
			Anchor: anchor, Tag: tag, Implicit: implicit, CollectionStyle: token.BlockCollectionStyle,
		}, nil
	}

	if tok.Kind == token.Scalar {
		var plainImplicit, quotedImplicit bool
		end = tok.End
		switch {
		case len(tag) == 0 && tok.Style == token.PlainScalarStyle:
			plainImplicit = true
		case len(tag) == 1 && tag[0] == '!':
			plainImplicit = true
		case len(tag) == 0:
			quotedImplicit = true
		}
		p.state = p.popState()
		ev := &token.Event{
			Kind: token.ScalarEvent, Start: start, End: end,
			Anchor: anchor, Tag: tag, Value: tok.Value,
			Implicit: plainImplicit, QuotedImplicit: quotedImplicit, ScalarStyle: tok.Style,
		}
		return ev, p.skip()
	}

	if tok.Kind == token.FlowSequenceStart {
		end = tok.End
		p.state = stateFlowSequenceFirstEntry
		return &token.Event{
			Kind: token.SequenceStartEvent, Start: start, End: end,
			Anchor: anchor, Tag: tag, Implicit: implicit, CollectionStyle: token.FlowCollectionStyle,
		}, nil
	}
	if tok.Kind == token.FlowMappingStart {
		end = tok.End
		p.state = stateFlowMappingFirstKey
		return &token.Event{
			Kind: token.MappingStartEvent, Start: start, End: end,
			Anchor: anchor, Tag: tag, Implicit: implicit, CollectionStyle: token.FlowCollectionStyle,
		}, nil
	}
	if block && tok.Kind == token.BlockSequenceStart {
		end = tok.End
		p.state = stateBlockSequenceFirstEntry
		return &token.Event{
			Kind: token.SequenceStartEvent, Start: start, End: end,
			Anchor: anchor, Tag: tag, Implicit: implicit, CollectionStyle: token.BlockCollectionStyle,
		}, nil
	}
	if block && tok.Kind == token.BlockMappingStart {
		end = tok.End
		p.state = stateBlockMappingFirstKey
		return &token.Event{
			Kind: token.MappingStartEvent, Start: start, End: end,
			Anchor: anchor, Tag: tag, Implicit: implicit, CollectionStyle: token.BlockCollectionStyle,
		}, nil
	}
	if len(anchor) > 0 || len(tag) > 0 {
		p.state = p.popState()
		return &token.Event{
			Kind: token.ScalarEvent, Start: start, End: end,
			Anchor: anchor, Tag: tag, Implicit: implicit, ScalarStyle: token.PlainScalarStyle,
		}, nil
	}

	return nil, p.errorf("", start, "did not find expected node content", tok.Start)
}

func (p *Parser) parseBlockSequenceEntry(first bool) (*token.Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.pushMark(tok.Start)
		if err := p.skip(); err != nil {
			return nil, err
		}
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.BlockEntry {
		mark := tok.End
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.BlockEntry && tok.Kind != token.BlockEnd {
			p.pushState(stateBlockSequenceEntry)
			return p.parseNode(true, false)
		}
		p.state = stateBlockSequenceEntry
		return emptyScalar(mark), nil
	}
	if tok.Kind == token.BlockEnd {
		p.state = p.popState()
		p.popMark()
		ev := &token.Event{Kind: token.SequenceEndEvent, Start: tok.Start, End: tok.End}
		return ev, p.skip()
	}

	contextMark := p.popMark()
	return nil, p.errorf("", contextMark, "did not find expected '-' indicator", tok.Start)
}

func (p *Parser) parseIndentlessSequenceEntry() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.BlockEntry {
		mark := tok.End
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.BlockEntry && tok.Kind != token.Key && tok.Kind != token.Value && tok.Kind != token.BlockEnd {
			p.pushState(stateIndentlessSequenceEntry)
			return p.parseNode(true, false)
		}
		p.state = stateIndentlessSequenceEntry
		return emptyScalar(mark), nil
	}
	p.state = p.popState()
	return &token.Event{Kind: token.SequenceEndEvent, Start: tok.Start, End: tok.Start}, nil
}

func (p *Parser) parseBlockMappingKey(first bool) (*token.Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.pushMark(tok.Start)
		if err := p.skip(); err != nil {
			return nil, err
		}
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.Key {
		mark := tok.End
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Key && tok.Kind != token.Value && tok.Kind != token.BlockEnd {
			p.pushState(stateBlockMappingValue)
			return p.parseNode(true, true)
		}
		p.state = stateBlockMappingValue
		return emptyScalar(mark), nil
	}
	if tok.Kind == token.BlockEnd {
		p.state = p.popState()
		p.popMark()
		ev := &token.Event{Kind: token.MappingEndEvent, Start: tok.Start, End: tok.End}
		return ev, p.skip()
	}

	contextMark := p.popMark()
	return nil, p.errorf("", contextMark, "did not find expected key", tok.Start)
}

func (p *Parser) parseBlockMappingValue() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Value {
		mark := tok.End
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Key && tok.Kind != token.Value && tok.Kind != token.BlockEnd {
			p.pushState(stateBlockMappingKey)
			return p.parseNode(true, true)
		}
		p.state = stateBlockMappingKey
		return emptyScalar(mark), nil
	}
	p.state = stateBlockMappingKey
	return emptyScalar(tok.Start), nil
}

func (p *Parser) parseFlowSequenceEntry(first bool) (*token.Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.pushMark(tok.Start)
		if err := p.skip(); err != nil {
			return nil, err
		}
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.FlowSequenceEnd {
		if !first {
			if tok.Kind == token.FlowEntry {
				if err := p.skip(); err != nil {
					return nil, err
				}
				tok, err = p.peek()
				if err != nil {
					return nil, err
				}
			} else {
				contextMark := p.popMark()
				return nil, p.errorf("", contextMark, "did not find expected ',' or ']'", tok.Start)
			}
		}

		if tok.Kind == token.Key {
			p.state = stateFlowSequenceEntryMappingKey
			ev := &token.Event{
				Kind: token.MappingStartEvent, Start: tok.Start, End: tok.End,
				Implicit: true, CollectionStyle: token.FlowCollectionStyle,
			}
			return ev, p.skip()
		}
		if tok.Kind != token.FlowSequenceEnd {
			p.pushState(stateFlowSequenceEntry)
			return p.parseNode(false, false)
		}
	}

	p.state = p.popState()
	p.popMark()
	ev := &token.Event{Kind: token.SequenceEndEvent, Start: tok.Start, End: tok.End}
	return ev, p.skip()
}

func (p *Parser) parseFlowSequenceEntryMappingKey() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.Value && tok.Kind != token.FlowEntry && tok.Kind != token.FlowSequenceEnd {
		p.pushState(stateFlowSequenceEntryMappingValue)
		return p.parseNode(false, false)
	}
	mark := tok.End
	if err := p.skip(); err != nil {
		return nil, err
	}
	p.state = stateFlowSequenceEntryMappingValue
	return emptyScalar(mark), nil
}

func (p *Parser) parseFlowSequenceEntryMappingValue() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Value {
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.FlowEntry && tok.Kind != token.FlowSequenceEnd {
			p.pushState(stateFlowSequenceEntryMappingEnd)
			return p.parseNode(false, false)
		}
	}
	p.state = stateFlowSequenceEntryMappingEnd
	return emptyScalar(tok.Start), nil
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	p.state = stateFlowSequenceEntry
	return &token.Event{Kind: token.MappingEndEvent, Start: tok.Start, End: tok.Start}, nil
}

func (p *Parser) parseFlowMappingKey(first bool) (*token.Event, error) {
	if first {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		p.pushMark(tok.Start)
		if err := p.skip(); err != nil {
			return nil, err
		}
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind != token.FlowMappingEnd {
		if !first {
			if tok.Kind == token.FlowEntry {
				if err := p.skip(); err != nil {
					return nil, err
				}
				tok, err = p.peek()
				if err != nil {
					return nil, err
				}
			} else {
				contextMark := p.popMark()
				return nil, p.errorf("", contextMark, "did not find expected ',' or '}'", tok.Start)
			}
		}

		if tok.Kind == token.Key {
			if err := p.skip(); err != nil {
				return nil, err
			}
			tok, err = p.peek()
			if err != nil {
				return nil, err
			}
			if tok.Kind != token.Value && tok.Kind != token.FlowEntry && tok.Kind != token.FlowMappingEnd {
				p.pushState(stateFlowMappingValue)
				return p.parseNode(false, false)
			}
			p.state = stateFlowMappingValue
			return emptyScalar(tok.Start), nil
		}
		if tok.Kind != token.FlowMappingEnd {
			p.pushState(stateFlowMappingEmptyValue)
			return p.parseNode(false, false)
		}
	}

	p.state = p.popState()
	p.popMark()
	ev := &token.Event{Kind: token.MappingEndEvent, Start: tok.Start, End: tok.End}
	return ev, p.skip()
}

func (p *Parser) parseFlowMappingValue(empty bool) (*token.Event, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if empty {
		p.state = stateFlowMappingKey
		return emptyScalar(tok.Start), nil
	}
	if tok.Kind == token.Value {
		if err := p.skip(); err != nil {
			return nil, err
		}
		tok, err = p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.FlowEntry && tok.Kind != token.FlowMappingEnd {
			p.pushState(stateFlowMappingKey)
			return p.parseNode(false, false)
		}
	}
	p.state = stateFlowMappingKey
	return emptyScalar(tok.Start), nil
}

func (p *Parser) processDirectives(versionRef **token.VersionDirective, tagDirectivesRef *[]token.TagDirective) error {
	var version *token.VersionDirective
	var tagDirectives []token.TagDirective

	tok, err := p.peek()
	if err != nil {
		return err
	}

	for tok.Kind == token.Directive {
		switch tok.Directive {
		case token.YAMLDirective:
			if version != nil {
				return p.errorf("", token.Mark{}, "found duplicate %%YAML directive", tok.Start)
			}
			if tok.Major != 1 {
				return p.errorf("", token.Mark{}, "found incompatible YAML document", tok.Start)
			}
			version = &token.VersionDirective{Major: tok.Major, Minor: tok.Minor}
		case token.TagDirectiveKind:
			value := token.TagDirective{Handle: tok.Value, Prefix: tok.Prefix}
			if err := p.appendTagDirective(value, false, tok.Start); err != nil {
				return err
			}
			tagDirectives = append(tagDirectives, value)
		}
		if err := p.skip(); err != nil {
			return err
		}
		tok, err = p.peek()
		if err != nil {
			return err
		}
	}

	for _, d := range token.DefaultTagDirectives {
		if err := p.appendTagDirective(d, true, tok.Start); err != nil {
			return err
		}
	}

	if versionRef != nil {
		*versionRef = version
	}
	if tagDirectivesRef != nil {
		*tagDirectivesRef = tagDirectives
	}
	return nil
}

func (p *Parser) appendTagDirective(value token.TagDirective, allowDuplicates bool, mark token.Mark) error {
	for _, d := range p.tagDirectives {
		if bytes.Equal(value.Handle, d.Handle) {
			if allowDuplicates {
				return nil
			}
			return p.errorf("", token.Mark{}, "found duplicate %%TAG directive", mark)
		}
	}
	p.tagDirectives = append(p.tagDirectives, value)
	return nil
}
