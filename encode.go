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

import (
	"encoding"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"go.yamlcore.dev/yaml/internal/emitter"
	"go.yamlcore.dev/yaml/internal/token"
)

// marshalNode converts v into a *Node tree. A *Node (or Node) passes
// through unchanged, so re-encoding a value produced by Decode round-trips
// its anchors, styles and tags; anything else goes through Marshaler,
// encoding.TextMarshaler, or the default reflection-based encoding.
func marshalNode(v interface{}) (*Node, error) {
	switch t := v.(type) {
	case *Node:
		return t, nil
	case Node:
		return &t, nil
	case Marshaler:
		out, err := t.MarshalYAML()
		if err != nil {
			return nil, err
		}
		return marshalNode(out)
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: ScalarNode, Tag: StrTag, Value: string(text), Style: 0}, nil
	}
	return encodeReflect(reflect.ValueOf(v))
}

func encodeReflect(v reflect.Value) (*Node, error) {
	if !v.IsValid() {
		return &Node{Kind: ScalarNode, Tag: NullTag, Value: "null"}, nil
	}

	if v.CanInterface() {
		if m, ok := v.Interface().(Marshaler); ok {
			out, err := m.MarshalYAML()
			if err != nil {
				return nil, err
			}
			return marshalNode(out)
		}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return &Node{Kind: ScalarNode, Tag: NullTag, Value: "null"}, nil
		}
		return encodeReflect(v.Elem())
	case reflect.String:
		return &Node{Kind: ScalarNode, Tag: StrTag, Value: v.String()}, nil
	case reflect.Bool:
		s := "false"
		if v.Bool() {
			s = "true"
		}
		return &Node{Kind: ScalarNode, Tag: BoolTag, Value: s}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Node{Kind: ScalarNode, Tag: IntTag, Value: strconv.FormatInt(v.Int(), 10)}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Node{Kind: ScalarNode, Tag: IntTag, Value: strconv.FormatUint(v.Uint(), 10)}, nil
	case reflect.Float32, reflect.Float64:
		return &Node{Kind: ScalarNode, Tag: FloatTag, Value: strconv.FormatFloat(v.Float(), 'g', -1, 64)}, nil
	case reflect.Slice, reflect.Array:
		return encodeSequence(v)
	case reflect.Map:
		return encodeMap(v)
	case reflect.Struct:
		return encodeStruct(v)
	default:
		return nil, fmt.Errorf("yaml: cannot marshal value of type %s", v.Type())
	}
}

func encodeSequence(v reflect.Value) (*Node, error) {
	n := &Node{Kind: SequenceNode, Tag: SeqTag}
	for i := 0; i < v.Len(); i++ {
		child, err := encodeReflect(v.Index(i))
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, child)
	}
	return n, nil
}

func encodeMap(v reflect.Value) (*Node, error) {
	n := &Node{Kind: MappingNode, Tag: MapTag}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface()) })
	for _, k := range keys {
		kn, err := encodeReflect(k)
		if err != nil {
			return nil, err
		}
		vn, err := encodeReflect(v.MapIndex(k))
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, kn, vn)
	}
	return n, nil
}

func encodeStruct(v reflect.Value) (*Node, error) {
	sinfo, err := getStructInfo(v.Type())
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: MappingNode, Tag: MapTag}
	for _, info := range sinfo.FieldsList {
		field := fieldByIndex(v, info)
		if info.OmitEmpty && isZero(field) {
			continue
		}
		vn, err := encodeReflect(field)
		if err != nil {
			return nil, err
		}
		if info.Flow {
			vn.Style |= FlowStyle
		}
		n.Content = append(n.Content, &Node{Kind: ScalarNode, Tag: StrTag, Value: info.Name}, vn)
	}
	if sinfo.InlineMap >= 0 {
		m := v.Field(sinfo.InlineMap)
		keys := m.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface()) })
		for _, k := range keys {
			vn, err := encodeReflect(m.MapIndex(k))
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &Node{Kind: ScalarNode, Tag: StrTag, Value: fmt.Sprint(k.Interface())}, vn)
		}
	}
	return n, nil
}

// emitNode walks n and emits the corresponding event sequence. seen tracks
// the pointers of anchored nodes already emitted in this document, so a node
// with a non-empty Anchor that is reached again is re-emitted as an alias.
// Nodes without an Anchor are not tracked: a shared unanchored subtree is
// written out again at each use, and an unanchored cycle is not detected.
func emitNode(em *emitter.Emitter, n *Node, seen map[*Node]bool) error {
	if n == nil || n.IsZero() {
		return em.Emit(&token.Event{Kind: token.ScalarEvent, Tag: []byte(NullTag), Implicit: true, Value: []byte("null")})
	}

	if n.Kind == AliasNode {
		anchor := n.Value
		if anchor == "" && n.Alias != nil {
			anchor = n.Alias.Anchor
		}
		return em.Emit(&token.Event{Kind: token.AliasEvent, Anchor: []byte(anchor)})
	}

	if n.Anchor != "" {
		if seen[n] {
			return em.Emit(&token.Event{Kind: token.AliasEvent, Anchor: []byte(n.Anchor)})
		}
		seen[n] = true
	}

	switch n.Kind {
	case DocumentNode:
		if len(n.Content) > 0 {
			return emitNode(em, n.Content[0], seen)
		}
		return nil
	case ScalarNode:
		return em.Emit(&token.Event{
			Kind:           token.ScalarEvent,
			Anchor:         []byte(n.Anchor),
			Tag:            []byte(n.Tag),
			Value:          []byte(n.Value),
			Implicit:       n.Style&TaggedStyle == 0,
			QuotedImplicit: n.Style&TaggedStyle == 0,
			ScalarStyle:    scalarStyleOf(n.Style),
		})
	case SequenceNode:
		style := token.BlockCollectionStyle
		if n.Style&FlowStyle != 0 {
			style = token.FlowCollectionStyle
		}
		if err := em.Emit(&token.Event{Kind: token.SequenceStartEvent, Anchor: []byte(n.Anchor), Tag: []byte(n.Tag), Implicit: n.Tag == SeqTag, CollectionStyle: style}); err != nil {
			return err
		}
		for _, c := range n.Content {
			if err := emitNode(em, c, seen); err != nil {
				return err
			}
		}
		return em.Emit(&token.Event{Kind: token.SequenceEndEvent})
	case MappingNode:
		style := token.BlockCollectionStyle
		if n.Style&FlowStyle != 0 {
			style = token.FlowCollectionStyle
		}
		if err := em.Emit(&token.Event{Kind: token.MappingStartEvent, Anchor: []byte(n.Anchor), Tag: []byte(n.Tag), Implicit: n.Tag == MapTag, CollectionStyle: style}); err != nil {
			return err
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := emitNode(em, n.Content[i], seen); err != nil {
				return err
			}
			if err := emitNode(em, n.Content[i+1], seen); err != nil {
				return err
			}
		}
		return em.Emit(&token.Event{Kind: token.MappingEndEvent})
	}
	return fmt.Errorf("yaml: cannot emit node of kind %d", n.Kind)
}

func scalarStyleOf(s Style) token.ScalarStyle {
	switch {
	case s&DoubleQuotedStyle != 0:
		return token.DoubleQuotedScalarStyle
	case s&SingleQuotedStyle != 0:
		return token.SingleQuotedScalarStyle
	case s&LiteralStyle != 0:
		return token.LiteralScalarStyle
	case s&FoldedStyle != 0:
		return token.FoldedScalarStyle
	default:
		return token.PlainScalarStyle
	}
}
