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

package yaml_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml"
)

var errConstructorFailure = errors.New("bad tag value")

type person struct {
	Name    string   `yaml:"name"`
	Age     int      `yaml:"age,omitempty"`
	Tags    []string `yaml:"tags,flow"`
	Address *address `yaml:"address,omitempty"`
}

type address struct {
	City string `yaml:"city"`
}

func TestMarshalStruct(t *testing.T) {
	p := person{Name: "ada", Tags: []string{"math", "computing"}}
	out, err := yaml.Marshal(&p)
	require.NoError(t, err)
	require.Equal(t, "name: ada\ntags: [math, computing]\n", string(out))
}

func TestUnmarshalStruct(t *testing.T) {
	var p person
	err := yaml.Unmarshal([]byte("name: ada\nage: 36\naddress:\n  city: london\n"), &p)
	require.NoError(t, err)
	require.Equal(t, "ada", p.Name)
	require.Equal(t, 36, p.Age)
	require.NotNil(t, p.Address)
	require.Equal(t, "london", p.Address.City)
}

func TestUnmarshalScalarTypes(t *testing.T) {
	var m map[string]interface{}
	err := yaml.Unmarshal([]byte("a: 1\nb: true\nc: 3.5\nd: ~\ne: hello\n"), &m)
	require.NoError(t, err)
	require.Equal(t, int64(1), m["a"])
	require.Equal(t, true, m["b"])
	require.Equal(t, 3.5, m["c"])
	require.Nil(t, m["d"])
	require.Equal(t, "hello", m["e"])
}

func TestUnmarshalSequence(t *testing.T) {
	var got []int
	err := yaml.Unmarshal([]byte("- 1\n- 2\n- 3\n"), &got)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got)
}

func TestUnmarshalMergeKey(t *testing.T) {
	var m map[string]string
	src := "base: &b\n  x: \"1\"\n  y: \"2\"\nextended:\n  <<: *b\n  y: \"3\"\n"
	var doc map[string]map[string]string
	err := yaml.Unmarshal([]byte(src), &doc)
	require.NoError(t, err)
	m = doc["extended"]
	require.Equal(t, map[string]string{"x": "1", "y": "3"}, m)
}

func TestRoundTripThroughDecoderAndEncoder(t *testing.T) {
	src := "name: grace\ntags: [math, programming]\n"
	dec := yaml.NewDecoder(bytes.NewReader([]byte(src)))
	var n yaml.Node
	require.NoError(t, dec.Decode(&n))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	require.NoError(t, enc.Encode(&n))
	require.NoError(t, enc.Close())
	require.Equal(t, src, buf.String())
}

func TestDecoderRegisterConstructor(t *testing.T) {
	dec := yaml.NewDecoder(bytes.NewReader([]byte("v: !upper hello\n")))
	dec.RegisterConstructor("!upper", func(n *yaml.Node) (interface{}, error) {
		return "HELLO", nil
	})
	var m map[string]string
	require.NoError(t, dec.Decode(&m))
	require.Equal(t, "HELLO", m["v"])
}

type shoutMarshaler struct{ s string }

func (s shoutMarshaler) MarshalYAML() (interface{}, error) {
	return s.s + "!", nil
}

func TestMarshalerInterface(t *testing.T) {
	out, err := yaml.Marshal(shoutMarshaler{s: "hi"})
	require.NoError(t, err)
	require.Equal(t, "hi!\n", string(out))
}

func TestUnmarshalOrderedMap(t *testing.T) {
	var ms yaml.MapSlice
	err := yaml.Unmarshal([]byte("!!omap\n- b: 2\n- a: 1\n"), &ms)
	require.NoError(t, err)
	require.Equal(t, yaml.MapSlice{
		{Key: "b", Value: int64(2)},
		{Key: "a", Value: int64(1)},
	}, ms)
}

func TestUnmarshalOrderedMapRejectsDuplicateKey(t *testing.T) {
	var ms yaml.MapSlice
	err := yaml.Unmarshal([]byte("!!omap\n- a: 1\n- a: 2\n"), &ms)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate key")
}

func TestUnmarshalPairsAllowsDuplicateKey(t *testing.T) {
	var ms yaml.MapSlice
	err := yaml.Unmarshal([]byte("!!pairs\n- a: 1\n- a: 2\n"), &ms)
	require.NoError(t, err)
	require.Equal(t, yaml.MapSlice{
		{Key: "a", Value: int64(1)},
		{Key: "a", Value: int64(2)},
	}, ms)
}

func TestUnmarshalSet(t *testing.T) {
	var set map[string]struct{}
	err := yaml.Unmarshal([]byte("!!set\na: null\nb: null\n"), &set)
	require.NoError(t, err)
	require.Equal(t, map[string]struct{}{"a": {}, "b": {}}, set)
}

func TestUnmarshalSetRejectsDuplicateKey(t *testing.T) {
	var set map[string]struct{}
	err := yaml.Unmarshal([]byte("!!set\na: null\na: null\n"), &set)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate key")
}

func TestUnmarshalBinary(t *testing.T) {
	var b []byte
	err := yaml.Unmarshal([]byte("!!binary \"aGVsbG8=\"\n"), &b)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), b)
}

func TestUnmarshalTimestampIntoStructField(t *testing.T) {
	type event struct {
		When time.Time `yaml:"when"`
	}
	var e event
	err := yaml.Unmarshal([]byte("when: 2020-01-02T03:04:05Z\n"), &e)
	require.NoError(t, err)
	require.True(t, e.When.Equal(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestUnmarshalTimestampIntoInterface(t *testing.T) {
	var m map[string]interface{}
	err := yaml.Unmarshal([]byte("when: 2020-01-02\n"), &m)
	require.NoError(t, err)
	when, ok := m["when"].(time.Time)
	require.True(t, ok)
	require.True(t, when.Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestDecoderRegisterConstructorErrorIsWrapped(t *testing.T) {
	dec := yaml.NewDecoder(bytes.NewReader([]byte("v: !bad hello\n")))
	dec.RegisterConstructor("!bad", func(n *yaml.Node) (interface{}, error) {
		return nil, errConstructorFailure
	})
	var m map[string]string
	err := dec.Decode(&m)
	require.Error(t, err)
	require.Contains(t, err.Error(), "constructing")
	require.Contains(t, err.Error(), errConstructorFailure.Error())
}
