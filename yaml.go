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

// Package yaml implements YAML 1.1 encoding and decoding, in the tradition
// of the JSON and XML packages in the standard library: Marshal/Unmarshal
// for whole values, plus an Encoder/Decoder pair for streams of documents.
//
// Internally it is a four-stage pipeline — Scanner, Parser, Composer and
// Emitter — wired together by this package's reflection-based
// construction/representation layer.
package yaml

import (
	"bytes"
	"io"

	"go.yamlcore.dev/yaml/internal/compose"
	"go.yamlcore.dev/yaml/internal/emitter"
	"go.yamlcore.dev/yaml/internal/parser"
	"go.yamlcore.dev/yaml/internal/resolver"
	"go.yamlcore.dev/yaml/internal/scanner"
	"go.yamlcore.dev/yaml/internal/token"
)

// Node is a YAML document tree node: a document root, sequence, mapping,
// scalar or alias. It is the value Marshal/Unmarshal convert to and from Go
// values when a *Node is the target, and the type RegisterConstructor
// callbacks and UnmarshalYAML(*Node) implementations receive.
type Node = compose.Node

type Kind = compose.Kind

const (
	DocumentNode = compose.DocumentNode
	SequenceNode = compose.SequenceNode
	MappingNode  = compose.MappingNode
	ScalarNode   = compose.ScalarNode
	AliasNode    = compose.AliasNode
)

type Style = compose.Style

const (
	TaggedStyle        = compose.TaggedStyle
	DoubleQuotedStyle  = compose.DoubleQuotedStyle
	SingleQuotedStyle  = compose.SingleQuotedStyle
	LiteralStyle       = compose.LiteralStyle
	FoldedStyle        = compose.FoldedStyle
	FlowStyle          = compose.FlowStyle
)

// Canonical tag names, re-exported for callers writing RegisterConstructor
// hooks or inspecting a Node's Tag.
const (
	NullTag       = token.NullTag
	BoolTag       = token.BoolTag
	StrTag        = token.StrTag
	IntTag        = token.IntTag
	FloatTag      = token.FloatTag
	TimestampTag  = token.TimestampTag
	SeqTag        = token.SeqTag
	MapTag        = token.MapTag
	BinaryTag     = token.BinaryTag
	MergeTag      = token.MergeTag
	SetTag        = token.SetTag
	OrderedMapTag = token.OrderedMapTag
	PairsTag      = token.PairsTag
)

// MapItem is a single key/value pair of a MapSlice.
type MapItem struct {
	Key, Value interface{}
}

// MapSlice decodes an ordered YAML mapping (!!omap or !!pairs) without
// losing key order the way a Go map would. Unmarshal into a MapSlice (or
// interface{}, which receives one) when order matters; Marshal emits a
// MapSlice back out as a !!omap sequence of single-pair mappings.
type MapSlice []MapItem

// MarshalYAML implements Marshaler, emitting ms as a !!omap: a sequence of
// single-pair mappings, per spec.md §4.3's ordered-map representation.
func (ms MapSlice) MarshalYAML() (interface{}, error) {
	n := &Node{Kind: SequenceNode, Tag: OrderedMapTag}
	for _, item := range ms {
		kn, err := marshalNode(item.Key)
		if err != nil {
			return nil, err
		}
		vn, err := marshalNode(item.Value)
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &Node{Kind: MappingNode, Tag: MapTag, Content: []*Node{kn, vn}})
	}
	return n, nil
}

// Marshaler is implemented by types that know how to represent themselves
// as YAML, returning a value that Marshal re-encodes (typically a Node, a
// map, a slice, or any other value Marshal knows how to walk).
type Marshaler interface {
	MarshalYAML() (interface{}, error)
}

// Unmarshaler is implemented by types that decode their own YAML
// representation from a *Node, such as a custom timestamp or duration.
type Unmarshaler interface {
	UnmarshalYAML(*Node) error
}

var defaultResolver = resolver.New()

// RegisterImplicitResolver extends the package-wide implicit-tag table used
// by every Unmarshal/Decoder: a scalar whose value matches pattern (and
// whose first byte is one of firstChars, when firstChars is non-empty) is
// resolved to tag.
func RegisterImplicitResolver(tag, firstChars, pattern string) {
	defaultResolver.RegisterImplicitResolver(tag, firstChars, pattern)
}

// Marshal serializes v into a single YAML document using the default
// encoder options (2-space indent, 80-column wrap, plain/block styles
// preferred).
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the first YAML document in data into v.
func Unmarshal(data []byte, v interface{}) error {
	dec := NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}

// Decoder reads a sequence of YAML documents from a stream.
type Decoder struct {
	comp     *compose.Composer
	knownTag map[string]func(*Node) (interface{}, error)
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := scanner.New(r)
	p := parser.New(sc)
	return &Decoder{comp: compose.New(p, defaultResolver)}
}

// RegisterConstructor installs a tag-specific constructor used in place of
// the default reflection-based decode whenever a node with this tag is
// unmarshalled through d.
func (d *Decoder) RegisterConstructor(tag string, fn func(*Node) (interface{}, error)) {
	if d.knownTag == nil {
		d.knownTag = make(map[string]func(*Node) (interface{}, error))
	}
	d.knownTag[tag] = fn
}

// Decode reads the next document and stores it in v. It returns io.EOF once
// the stream is exhausted.
func (d *Decoder) Decode(v interface{}) error {
	n, err := d.comp.GetNode()
	if err != nil {
		return err
	}
	if n == nil {
		return io.EOF
	}
	return d.unmarshal(n, v)
}

// Encoder writes a sequence of YAML documents to a stream.
type Encoder struct {
	em      *emitter.Emitter
	started bool
	err     error
}

// EncoderOption configures an Encoder; see WithIndent, WithWidth,
// WithCanonical, WithLineBreak, WithExplicitStart and WithExplicitEnd.
type EncoderOption func(*emitter.Options)

func WithIndent(n int) EncoderOption { return func(o *emitter.Options) { o.Indent = n } }
func WithWidth(n int) EncoderOption  { return func(o *emitter.Options) { o.Width = n } }
func WithCanonical(v bool) EncoderOption {
	return func(o *emitter.Options) { o.Canonical = v }
}
func WithExplicitStart(v bool) EncoderOption {
	return func(o *emitter.Options) { o.ExplicitStart = v }
}
func WithExplicitEnd(v bool) EncoderOption {
	return func(o *emitter.Options) { o.ExplicitEnd = v }
}
func WithLineBreak(lb token.LineBreak) EncoderOption {
	return func(o *emitter.Options) { o.LineBreak = lb }
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	var opt emitter.Options
	for _, o := range opts {
		o(&opt)
	}
	return &Encoder{em: emitter.New(w, opt)}
}

// Encode marshals v and writes it as the next document in the stream.
func (e *Encoder) Encode(v interface{}) error {
	if e.err != nil {
		return e.err
	}
	if !e.started {
		if err := e.em.Emit(&token.Event{Kind: token.StreamStartEvent, Encoding: token.UTF8Encoding}); err != nil {
			e.err = err
			return err
		}
		e.started = true
	}

	n, err := marshalNode(v)
	if err != nil {
		e.err = err
		return err
	}

	if err := e.em.Emit(&token.Event{Kind: token.DocumentStartEvent, Implicit: true}); err != nil {
		e.err = err
		return err
	}
	if err := emitNode(e.em, n, make(map[*Node]bool)); err != nil {
		e.err = err
		return err
	}
	if err := e.em.Emit(&token.Event{Kind: token.DocumentEndEvent, Implicit: true}); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Close flushes the stream-end event. Call it once after the final Encode.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	return e.em.Emit(&token.Event{Kind: token.StreamEndEvent})
}

// Load reads a single YAML document from r into v.
func Load(r io.Reader, v interface{}) error {
	return NewDecoder(r).Decode(v)
}

// LoadAll reads every document from r, invoking fn with each decoded value
// in turn until the stream is exhausted or fn returns an error.
func LoadAll(r io.Reader, newValue func() interface{}, fn func(interface{}) error) error {
	dec := NewDecoder(r)
	for {
		v := newValue()
		err := dec.Decode(v)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// Dump writes v to w as a single YAML document.
func Dump(w io.Writer, v interface{}, opts ...EncoderOption) error {
	enc := NewEncoder(w, opts...)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
