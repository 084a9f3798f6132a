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

// Package token defines the shared vocabulary that flows between the
// Scanner, Parser and Emitter: marks, tokens, events and the small set of
// directive/tag types attached to them.
package token

import "fmt"

// Mark is an immutable position in the input or output stream, produced by
// the Reader and attached to every token, event and node for diagnostics.
type Mark struct {
	Index  int // 0-based code-point offset (not a byte offset)
	Line   int // 0-based line
	Column int // 0-based column
}

func (m Mark) String() string {
	return fmt.Sprintf("line %d, column %d", m.Line+1, m.Column+1)
}

type Encoding int

const (
	AnyEncoding Encoding = iota
	UTF8Encoding
	UTF16LEEncoding
	UTF16BEEncoding
	UTF32LEEncoding
	UTF32BEEncoding
)

type LineBreak int

const (
	AnyBreak LineBreak = iota
	UnixBreak
	WindowsBreak
	MacBreak
)

func (lb LineBreak) Bytes() []byte {
	switch lb {
	case WindowsBreak:
		return []byte("\r\n")
	case MacBreak:
		return []byte("\r")
	default:
		return []byte("\n")
	}
}

// ScalarStyle is a bitmask so that "any style" (the zero value) can be
// distinguished from an explicit style request.
type ScalarStyle int8

const (
	AnyScalarStyle ScalarStyle = 0

	PlainScalarStyle ScalarStyle = 1 << iota
	SingleQuotedScalarStyle
	DoubleQuotedScalarStyle
	LiteralScalarStyle
	FoldedScalarStyle
)

type CollectionStyle int8

const (
	AnyCollectionStyle CollectionStyle = iota
	BlockCollectionStyle
	FlowCollectionStyle
)

// Chomping is the trailing-break disposition of a block scalar.
type Chomping int8

const (
	ClipChomping Chomping = iota
	StripChomping
	KeepChomping
)

type DirectiveKind int8

const (
	NoDirective DirectiveKind = iota
	YAMLDirective
	TagDirectiveKind
	ReservedDirective
)

type Kind int

const (
	NoToken Kind = iota

	StreamStart
	StreamEnd

	Directive
	DocumentStart
	DocumentEnd

	BlockSequenceStart
	BlockMappingStart
	BlockEnd

	FlowSequenceStart
	FlowSequenceEnd
	FlowMappingStart
	FlowMappingEnd

	BlockEntry
	FlowEntry
	Key
	Value

	Alias
	Anchor
	Tag
	Scalar
)

func (k Kind) String() string {
	switch k {
	case NoToken:
		return "NO-TOKEN"
	case StreamStart:
		return "STREAM-START"
	case StreamEnd:
		return "STREAM-END"
	case Directive:
		return "DIRECTIVE"
	case DocumentStart:
		return "DOCUMENT-START"
	case DocumentEnd:
		return "DOCUMENT-END"
	case BlockSequenceStart:
		return "BLOCK-SEQUENCE-START"
	case BlockMappingStart:
		return "BLOCK-MAPPING-START"
	case BlockEnd:
		return "BLOCK-END"
	case FlowSequenceStart:
		return "FLOW-SEQUENCE-START"
	case FlowSequenceEnd:
		return "FLOW-SEQUENCE-END"
	case FlowMappingStart:
		return "FLOW-MAPPING-START"
	case FlowMappingEnd:
		return "FLOW-MAPPING-END"
	case BlockEntry:
		return "BLOCK-ENTRY"
	case FlowEntry:
		return "FLOW-ENTRY"
	case Key:
		return "KEY"
	case Value:
		return "VALUE"
	case Alias:
		return "ALIAS"
	case Anchor:
		return "ANCHOR"
	case Tag:
		return "TAG"
	case Scalar:
		return "SCALAR"
	}
	return "<unknown token>"
}

// Token is a tagged variant over the 21 token kinds the Scanner produces.
//
// Value/Suffix/Prefix are byte slices the scanner builds for each token by
// copying the scanned text out of the Reader's buffer; the token owns them.
type Token struct {
	Kind Kind

	Start, End Mark

	Encoding Encoding // STREAM-START only

	Value  []byte // ALIAS, ANCHOR, SCALAR, TAG handle, DIRECTIVE name
	Suffix []byte // TAG only: the suffix half of a handle!suffix pair

	// Divider marks the byte offset inside Value that splits a TAG token's
	// raw text into handle and suffix without a second allocation. -1 when
	// the token does not need the split (e.g. it was already split into
	// Value/Suffix by the scanner).
	Divider int

	Style ScalarStyle // SCALAR only

	Directive    DirectiveKind
	Major, Minor int8   // DIRECTIVE (YAML) only
	Prefix       []byte // DIRECTIVE (TAG) only
}

type EventKind int8

const (
	NoEvent EventKind = iota
	StreamStartEvent
	StreamEndEvent
	DocumentStartEvent
	DocumentEndEvent
	AliasEvent
	ScalarEvent
	SequenceStartEvent
	SequenceEndEvent
	MappingStartEvent
	MappingEndEvent
)

var eventNames = [...]string{
	NoEvent:            "none",
	StreamStartEvent:   "stream start",
	StreamEndEvent:     "stream end",
	DocumentStartEvent: "document start",
	DocumentEndEvent:   "document end",
	AliasEvent:         "alias",
	ScalarEvent:        "scalar",
	SequenceStartEvent: "sequence start",
	SequenceEndEvent:   "sequence end",
	MappingStartEvent:  "mapping start",
	MappingEndEvent:    "mapping end",
}

func (k EventKind) String() string {
	if int(k) < 0 || int(k) >= len(eventNames) {
		return fmt.Sprintf("unknown event %d", k)
	}
	return eventNames[k]
}

type VersionDirective struct {
	Major, Minor int8
}

type TagDirective struct {
	Handle, Prefix []byte
}

// Event is a tagged variant over the 10 event kinds the Parser emits.
type Event struct {
	Kind EventKind

	Start, End Mark

	Encoding Encoding // STREAM-START only

	VersionDirective *VersionDirective // DOCUMENT-START only
	TagDirectives    []TagDirective    // DOCUMENT-START only

	Anchor []byte // SCALAR, SEQUENCE-START, MAPPING-START, ALIAS
	Tag    []byte // SCALAR, SEQUENCE-START, MAPPING-START

	Value []byte // SCALAR only

	// Implicit is true when the tag was inferred rather than written out
	// (DOCUMENT-START/END indicator, or SEQUENCE/MAPPING/SCALAR tag).
	Implicit bool

	// QuotedImplicit additionally marks a quoted scalar whose tag is
	// still implicit (the quoting forces a non-plain style but does not
	// by itself specify a tag).
	QuotedImplicit bool

	ScalarStyle     ScalarStyle
	CollectionStyle CollectionStyle
}

func (e *Event) SequenceStyle() CollectionStyle { return e.CollectionStyle }
func (e *Event) MappingStyle() CollectionStyle  { return e.CollectionStyle }

// Canonical YAML 1.1 core tags.
const (
	NullTag       = "tag:yaml.org,2002:null"
	BoolTag       = "tag:yaml.org,2002:bool"
	StrTag        = "tag:yaml.org,2002:str"
	IntTag        = "tag:yaml.org,2002:int"
	FloatTag      = "tag:yaml.org,2002:float"
	TimestampTag  = "tag:yaml.org,2002:timestamp"
	SeqTag        = "tag:yaml.org,2002:seq"
	MapTag        = "tag:yaml.org,2002:map"
	BinaryTag     = "tag:yaml.org,2002:binary"
	MergeTag      = "tag:yaml.org,2002:merge"
	ValueTag      = "tag:yaml.org,2002:value"
	SetTag        = "tag:yaml.org,2002:set"
	OrderedMapTag = "tag:yaml.org,2002:omap"
	PairsTag      = "tag:yaml.org,2002:pairs"

	DefaultScalarTag   = StrTag
	DefaultSequenceTag = SeqTag
	DefaultMappingTag  = MapTag

	NonSpecificTag = "!"
)

// SimpleKey records a position in the token stream that might later be
// promoted to a KEY token when a ':' retroactively confirms it.
type SimpleKey struct {
	Possible    bool
	Required    bool
	TokenNumber int
	Mark        Mark
}

// DefaultTagDirectives are merged into every document's tag directive list
// unless overridden.
var DefaultTagDirectives = []TagDirective{
	{Handle: []byte("!"), Prefix: []byte("!")},
	{Handle: []byte("!!"), Prefix: []byte("tag:yaml.org,2002:")},
}

const (
	InitialStackSize = 16
	InitialQueueSize = 16
	MaxSimpleKeyLength = 1024
)
