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
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// unmarshal is the Decoder's entry point: it walks n and assigns into v,
// collecting every field-level failure into a single *TypeError instead of
// aborting at the first one (SPEC_FULL.md's aggregated-error decision).
func (d *Decoder) unmarshal(n *Node, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("yaml: Unmarshal requires a non-nil pointer")
	}
	dec := &decoder{knownTag: d.knownTag}
	dec.value(n, rv.Elem())
	if len(dec.errs) > 0 {
		return &TypeError{Errors: dec.errs}
	}
	return nil
}

type decoder struct {
	knownTag map[string]func(*Node) (interface{}, error)
	errs     []string
}

func (d *decoder) fail(n *Node, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	d.errs = append(d.errs, fmt.Sprintf("%s: %s", n.Mark(), msg))
}

var (
	nodeType      = reflect.TypeOf(Node{})
	mapSliceType  = reflect.TypeOf(MapSlice{})
	byteSliceType = reflect.TypeOf([]byte(nil))
)

// value decodes n into out, dispatching on out's kind the way the teacher's
// decoder switches on a yaml_node_t's type.
func (d *decoder) value(n *Node, out reflect.Value) {
	if n == nil || n.IsZero() {
		return
	}

	if out.Type() == nodeType {
		out.Set(reflect.ValueOf(*n))
		return
	}

	if n.Kind == AliasNode {
		d.value(n.Alias, out)
		return
	}

	if fn, ok := d.knownTag[n.Tag]; ok {
		v, err := fn(n)
		if err != nil {
			d.fail(n, "%v", &ConstructorError{Tag: n.Tag, Err: err})
			return
		}
		d.set(out, reflect.ValueOf(v))
		return
	}

	if out.CanAddr() {
		if u, ok := out.Addr().Interface().(Unmarshaler); ok {
			if err := u.UnmarshalYAML(n); err != nil {
				d.fail(n, "%v", err)
			}
			return
		}
		if u, ok := out.Addr().Interface().(encoding.TextUnmarshaler); ok && n.Kind == ScalarNode {
			if err := u.UnmarshalText([]byte(n.Value)); err != nil {
				d.fail(n, "%v", err)
			}
			return
		}
	}

	for out.Kind() == reflect.Ptr {
		if out.IsNil() {
			out.Set(reflect.New(out.Type().Elem()))
		}
		out = out.Elem()
	}

	switch {
	case out.Kind() == reflect.Interface && out.NumMethod() == 0:
		if v := d.interfaceValue(n); v != nil {
			out.Set(reflect.ValueOf(v))
		} else {
			out.Set(reflect.Zero(out.Type()))
		}
		return
	}

	switch n.Tag {
	case OrderedMapTag, PairsTag:
		if n.Kind == SequenceNode {
			d.orderedPairs(n, out, n.Tag == OrderedMapTag)
			return
		}
	case SetTag:
		if n.Kind == MappingNode && out.Kind() == reflect.Map {
			d.constructSet(n, out)
			return
		}
	}

	switch n.Kind {
	case ScalarNode:
		d.scalar(n, out)
	case SequenceNode:
		d.sequence(n, out)
	case MappingNode:
		d.mapping(n, out)
	case DocumentNode:
		if len(n.Content) > 0 {
			d.value(n.Content[0], out)
		}
	default:
		d.fail(n, "cannot decode node of kind %d", n.Kind)
	}
}

// orderedPairs decodes a !!omap/!!pairs sequence of single-pair mappings
// into out. !!omap additionally rejects a repeated key with a
// ConstructorError; !!pairs allows duplicates.
func (d *decoder) orderedPairs(n *Node, out reflect.Value, unique bool) {
	if out.Type() != mapSliceType {
		d.sequence(n, out)
		return
	}
	ms := make(MapSlice, 0, len(n.Content))
	seen := make(map[string]bool, len(n.Content))
	for _, pair := range n.Content {
		if pair.Kind != MappingNode || len(pair.Content) != 2 {
			d.fail(pair, "invalid %s entry: expected a single-pair mapping", n.Tag)
			continue
		}
		var item MapItem
		d.value(pair.Content[0], reflect.ValueOf(&item.Key).Elem())
		d.value(pair.Content[1], reflect.ValueOf(&item.Value).Elem())
		if unique {
			key := fmt.Sprint(item.Key)
			if seen[key] {
				d.fail(pair, "%v", &ConstructorError{Tag: n.Tag, Err: fmt.Errorf("duplicate key %q", item.Key)})
				continue
			}
			seen[key] = true
		}
		ms = append(ms, item)
	}
	out.Set(reflect.ValueOf(ms))
}

// constructSet decodes a !!set mapping (keys with null values) into a Go
// map, rejecting a repeated key with a ConstructorError.
func (d *decoder) constructSet(n *Node, out reflect.Value) {
	if out.IsNil() {
		out.Set(reflect.MakeMap(out.Type()))
	}
	kt, vt := out.Type().Key(), out.Type().Elem()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		key := reflect.New(kt).Elem()
		d.value(keyNode, key)
		if valNode.Tag != NullTag {
			d.fail(valNode, "%v", &ConstructorError{Tag: n.Tag, Err: fmt.Errorf("set member must have a null value")})
			continue
		}
		if out.MapIndex(key).IsValid() {
			d.fail(keyNode, "%v", &ConstructorError{Tag: n.Tag, Err: fmt.Errorf("duplicate key %v", key.Interface())})
			continue
		}
		out.SetMapIndex(key, reflect.Zero(vt))
	}
}

func (d *decoder) set(out, v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Type().AssignableTo(out.Type()) {
		out.Set(v)
		return
	}
	if v.Type().ConvertibleTo(out.Type()) {
		out.Set(v.Convert(out.Type()))
	}
}

// interfaceValue builds a generic Go value (string/int64/float64/bool/nil/
// []interface{}/map[string]interface{}) for decoding into interface{}.
func (d *decoder) interfaceValue(n *Node) interface{} {
	switch n.Tag {
	case OrderedMapTag, PairsTag:
		if n.Kind == SequenceNode {
			ms := reflect.New(mapSliceType).Elem()
			d.orderedPairs(n, ms, n.Tag == OrderedMapTag)
			return ms.Interface()
		}
	case SetTag:
		if n.Kind == MappingNode {
			set := reflect.MakeMap(reflect.TypeOf(map[interface{}]struct{}{}))
			d.constructSet(n, set)
			return set.Interface()
		}
	}

	switch n.Kind {
	case AliasNode:
		return d.interfaceValue(n.Alias)
	case ScalarNode:
		v, _ := decodeScalar(n)
		return v
	case SequenceNode:
		out := make([]interface{}, len(n.Content))
		for i, c := range n.Content {
			out[i] = d.interfaceValue(c)
		}
		return out
	case MappingNode:
		out := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, _ := decodeScalar(n.Content[i])
			out[fmt.Sprint(k)] = d.interfaceValue(n.Content[i+1])
		}
		return out
	}
	return nil
}

// decodeScalar converts a scalar Node to its natural Go representation
// according to its resolved tag, per spec.md §4.3.
func decodeScalar(n *Node) (interface{}, error) {
	switch n.Tag {
	case NullTag:
		return nil, nil
	case BoolTag:
		return parseBool(n.Value), nil
	case IntTag:
		s := strings.ReplaceAll(n.Value, "_", "")
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(s, 0, 64); err == nil {
			return u, nil
		}
		return n.Value, nil
	case FloatTag:
		s := strings.ReplaceAll(n.Value, "_", "")
		switch s {
		case ".inf", "+.inf", ".Inf", ".INF":
			return math.Inf(1), nil
		case "-.inf":
			return math.Inf(-1), nil
		case ".nan", ".NaN", ".NAN":
			return math.NaN(), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
		return n.Value, nil
	case TimestampTag:
		if t, ok := parseTimestamp(n.Value); ok {
			return t, nil
		}
		return n.Value, nil
	case BinaryTag:
		if b, err := decodeBinary(n.Value); err == nil {
			return b, nil
		}
		return n.Value, nil
	default:
		return n.Value, nil
	}
}

// timestampLayouts covers a bare date, and date-times with optional
// fractional seconds, a "T", "t" or single-space separator, and either no
// zone or a "Z" or "±hh:mm" zone written directly after the time. Values the
// Resolver's timestamp rule also accepts but no layout parses (whitespace
// before the zone, an hour-only offset, several separating spaces) are
// returned as strings by interfaceValue.
var timestampLayouts = []string{
	"2006-1-2T15:4:5.999999999Z07:00",
	"2006-1-2t15:4:5.999999999Z07:00",
	"2006-1-2 15:4:5.999999999Z07:00",
	"2006-1-2T15:4:5.999999999",
	"2006-1-2 15:4:5.999999999",
	"2006-1-2",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// decodeBinary strips the line-wrapping whitespace a !!binary block scalar
// is conventionally folded with before base64-decoding its payload.
func decodeBinary(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(clean)
}

func parseBool(s string) bool {
	switch s {
	case "y", "Y", "yes", "Yes", "YES", "true", "True", "TRUE", "on", "On", "ON":
		return true
	}
	return false
}

func (d *decoder) scalar(n *Node, out reflect.Value) {
	switch out.Kind() {
	case reflect.String:
		out.SetString(n.Value)
	case reflect.Bool:
		out.SetBool(parseBool(n.Value))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s := strings.ReplaceAll(n.Value, "_", "")
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			d.fail(n, "cannot decode %q as %s", n.Value, out.Type())
			return
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		s := strings.ReplaceAll(n.Value, "_", "")
		u, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			d.fail(n, "cannot decode %q as %s", n.Value, out.Type())
			return
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		s := strings.ReplaceAll(n.Value, "_", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			d.fail(n, "cannot decode %q as %s", n.Value, out.Type())
			return
		}
		out.SetFloat(f)
	case reflect.Slice:
		if out.Type() == byteSliceType {
			b, err := decodeBinary(n.Value)
			if err != nil {
				d.fail(n, "cannot decode %q as !!binary: %v", n.Value, err)
				return
			}
			out.Set(reflect.ValueOf(b))
			return
		}
		d.fail(n, "cannot decode scalar into %s", out.Type())
	default:
		d.fail(n, "cannot decode scalar into %s", out.Type())
	}
}

func (d *decoder) sequence(n *Node, out reflect.Value) {
	switch out.Kind() {
	case reflect.Slice:
		sl := reflect.MakeSlice(out.Type(), len(n.Content), len(n.Content))
		for i, c := range n.Content {
			d.value(c, sl.Index(i))
		}
		out.Set(sl)
	case reflect.Array:
		for i, c := range n.Content {
			if i >= out.Len() {
				break
			}
			d.value(c, out.Index(i))
		}
	default:
		d.fail(n, "cannot decode sequence into %s", out.Type())
	}
}

func (d *decoder) mapping(n *Node, out reflect.Value) {
	switch out.Kind() {
	case reflect.Map:
		if out.IsNil() {
			out.Set(reflect.MakeMap(out.Type()))
		}
		kt, vt := out.Type().Key(), out.Type().Elem()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := reflect.New(kt).Elem()
			d.value(n.Content[i], key)
			val := reflect.New(vt).Elem()
			d.value(n.Content[i+1], val)
			out.SetMapIndex(key, val)
		}
	case reflect.Struct:
		d.structMapping(n, out)
	default:
		d.fail(n, "cannot decode mapping into %s", out.Type())
	}
}

func (d *decoder) structMapping(n *Node, out reflect.Value) {
	sinfo, err := getStructInfo(out.Type())
	if err != nil {
		d.fail(n, "%v", err)
		return
	}

	var inlineMap reflect.Value
	if sinfo.InlineMap >= 0 {
		inlineMap = out.Field(sinfo.InlineMap)
		if inlineMap.IsNil() {
			inlineMap.Set(reflect.MakeMap(inlineMap.Type()))
		}
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		name := key.Value
		if info, ok := sinfo.FieldsMap[name]; ok {
			field := fieldByIndex(out, info)
			d.value(value, field)
			continue
		}
		if inlineMap.IsValid() {
			mk := reflect.New(inlineMap.Type().Key()).Elem()
			mk.SetString(name)
			mv := reflect.New(inlineMap.Type().Elem()).Elem()
			d.value(value, mv)
			inlineMap.SetMapIndex(mk, mv)
		}
	}
}

func fieldByIndex(out reflect.Value, info *fieldInfo) reflect.Value {
	if len(info.Inline) == 0 {
		return out.Field(info.Num)
	}
	v := out
	for _, i := range info.Inline {
		v = v.Field(i)
		for v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
	}
	return v.Field(info.Num)
}
