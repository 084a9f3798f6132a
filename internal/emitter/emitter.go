// Package emitter turns an event stream back into characters: scalar
// analysis, style selection, indent/wrap and round-trip fidelity, as a
// continuation-passing state machine mirroring the parser's grammar.
package emitter

import (
	"bytes"
	"fmt"
	"io"

	"go.yamlcore.dev/yaml/internal/token"
)

// Error is an EmitterError: an invalid anchor/tag, an empty tag/handle/
// prefix, or a write-sink failure.
type Error struct {
	Problem string
}

func (e *Error) Error() string { return "yaml: " + e.Problem }

func errorf(format string, args ...interface{}) error {
	return &Error{Problem: fmt.Sprintf(format, args...)}
}

type state int8

const (
	stateStreamStart state = iota
	stateFirstDocumentStart
	stateDocumentStart
	stateDocumentContent
	stateDocumentEnd
	stateFlowSequenceFirstItem
	stateFlowSequenceTrailItem
	stateFlowSequenceItem
	stateFlowMappingFirstKey
	stateFlowMappingTrailKey
	stateFlowMappingKey
	stateFlowMappingSimpleValue
	stateFlowMappingValue
	stateBlockSequenceFirstItem
	stateBlockSequenceItem
	stateBlockMappingFirstKey
	stateBlockMappingKey
	stateBlockMappingSimpleValue
	stateBlockMappingValue
	stateEnd
)

// Options configures the Emitter per spec.md §6's dumper options.
type Options struct {
	Canonical             bool
	Indent                int // default 2, must be in [1,9]
	Width                 int // default 80, must be >= 2*Indent
	LineBreak             token.LineBreak
	ExplicitStart         bool
	ExplicitEnd           bool
	DefaultScalarStyle    token.ScalarStyle
	DefaultCollectionStyle token.CollectionStyle
}

func (o *Options) normalize() {
	if o.Indent < 1 || o.Indent > 9 {
		o.Indent = 2
	}
	if o.Width < 2*o.Indent {
		o.Width = 80
	}
}

// Emitter consumes events and writes characters to w.
type Emitter struct {
	w   io.Writer
	opt Options

	state  state
	states []state

	queue     []token.Event
	queueHead int

	indent      int
	indentStack []int
	flowLevel   int

	tagDirectives []token.TagDirective

	root       bool
	simpleKey  bool

	line, column     int
	lastCharWhite    bool
	lastCharIndent   bool
	openEnded        bool

	anchor     []byte
	alias      bool
	tagHandle  []byte
	tagSuffix  []byte

	scalar           []byte
	multiline        bool
	flowPlainOK      bool
	blockPlainOK     bool
	singleQuotedOK   bool
	blockOK          bool
	chosenStyle      token.ScalarStyle
}

func New(w io.Writer, opt Options) *Emitter {
	opt.normalize()
	return &Emitter{w: w, opt: opt, indent: -1}
}

// Emit queues event and drives the state machine while enough lookahead is
// available (spec.md §4.5 "Lookahead").
func (e *Emitter) Emit(event *token.Event) error {
	e.queue = append(e.queue, *event)
	for e.readyToEmit() {
		ev := &e.queue[e.queueHead]
		if err := e.analyzeEvent(ev); err != nil {
			return err
		}
		if err := e.dispatch(ev); err != nil {
			return err
		}
		e.queueHead++
	}
	return nil
}

func (e *Emitter) readyToEmit() bool {
	if e.queueHead == len(e.queue) {
		return false
	}
	var need int
	switch e.queue[e.queueHead].Kind {
	case token.DocumentStartEvent:
		need = 1
	case token.SequenceStartEvent:
		need = 2
	case token.MappingStartEvent:
		need = 3
	default:
		return true
	}
	if len(e.queue)-e.queueHead > need {
		return true
	}
	level := 0
	for i := e.queueHead; i < len(e.queue); i++ {
		switch e.queue[i].Kind {
		case token.StreamStartEvent, token.DocumentStartEvent, token.SequenceStartEvent, token.MappingStartEvent:
			level++
		case token.StreamEndEvent, token.DocumentEndEvent, token.SequenceEndEvent, token.MappingEndEvent:
			level--
		}
		if level == 0 {
			return true
		}
	}
	return false
}

func (e *Emitter) pushState(s state) { e.states = append(e.states, s) }

func (e *Emitter) popState() state {
	s := e.states[len(e.states)-1]
	e.states = e.states[:len(e.states)-1]
	return s
}

func (e *Emitter) increaseIndent(flow, indentless bool) {
	e.indentStack = append(e.indentStack, e.indent)
	if e.indent < 0 {
		if flow {
			e.indent = e.opt.Indent
		} else {
			e.indent = 0
		}
		return
	}
	if !indentless {
		if len(e.states) > 0 && e.states[len(e.states)-1] == stateBlockSequenceItem {
			e.indent += 2
		} else {
			e.indent = e.opt.Indent * ((e.indent + e.opt.Indent) / e.opt.Indent)
		}
	}
}

func (e *Emitter) popIndent() {
	e.indent = e.indentStack[len(e.indentStack)-1]
	e.indentStack = e.indentStack[:len(e.indentStack)-1]
}

func (e *Emitter) appendTagDirective(value token.TagDirective, allowDuplicates bool) error {
	for _, td := range e.tagDirectives {
		if bytes.Equal(value.Handle, td.Handle) {
			if allowDuplicates {
				return nil
			}
			return errorf("found duplicate %%TAG directive")
		}
	}
	e.tagDirectives = append(e.tagDirectives, value)
	return nil
}

func (e *Emitter) put(b byte) error {
	if _, err := e.w.Write([]byte{b}); err != nil {
		return errorf("write error: %v", err)
	}
	e.column++
	e.lastCharWhite = false
	e.lastCharIndent = false
	return nil
}

func (e *Emitter) putBreak() error {
	if _, err := e.w.Write(e.opt.LineBreak.Bytes()); err != nil {
		return errorf("write error: %v", err)
	}
	e.column = 0
	e.line++
	e.lastCharIndent = true
	e.lastCharWhite = true
	return nil
}

func (e *Emitter) writeAll(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return errorf("write error: %v", err)
	}
	e.column += len([]rune(string(b)))
	e.lastCharWhite = false
	e.lastCharIndent = false
	return nil
}

func (e *Emitter) writeIndent() error {
	indent := e.indent
	if indent < 0 {
		indent = 0
	}
	if !e.lastCharIndent || e.column > indent || (e.column == indent && !e.lastCharWhite) {
		if err := e.putBreak(); err != nil {
			return err
		}
	}
	for e.column < indent {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	e.lastCharIndent = true
	return nil
}

func (e *Emitter) writeIndicator(indicator string, needWhitespace, isWhitespace, isIndention bool) error {
	if needWhitespace && !e.lastCharWhite {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	if err := e.writeAll([]byte(indicator)); err != nil {
		return err
	}
	e.lastCharWhite = isWhitespace
	e.lastCharIndent = e.lastCharIndent && isIndention
	e.openEnded = false
	return nil
}
