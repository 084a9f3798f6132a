package emitter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/internal/emitter"
	"go.yamlcore.dev/yaml/internal/token"
)

func emitDoc(t *testing.T, opt emitter.Options, events ...*token.Event) string {
	t.Helper()
	var buf bytes.Buffer
	e := emitter.New(&buf, opt)
	require.NoError(t, e.Emit(&token.Event{Kind: token.StreamStartEvent}))
	require.NoError(t, e.Emit(&token.Event{Kind: token.DocumentStartEvent, Implicit: true}))
	for _, ev := range events {
		require.NoError(t, e.Emit(ev))
	}
	require.NoError(t, e.Emit(&token.Event{Kind: token.DocumentEndEvent, Implicit: true}))
	require.NoError(t, e.Emit(&token.Event{Kind: token.StreamEndEvent}))
	return buf.String()
}

func TestEmitPlainScalar(t *testing.T) {
	got := emitDoc(t, emitter.Options{}, &token.Event{
		Kind: token.ScalarEvent, Tag: []byte(token.StrTag), Implicit: true, Value: []byte("hello"),
	})
	require.Equal(t, "hello\n", got)
}

func TestEmitBlockMapping(t *testing.T) {
	got := emitDoc(t, emitter.Options{},
		&token.Event{Kind: token.MappingStartEvent, Tag: []byte(token.MapTag), Implicit: true},
		&token.Event{Kind: token.ScalarEvent, Tag: []byte(token.StrTag), Implicit: true, Value: []byte("a")},
		&token.Event{Kind: token.ScalarEvent, Tag: []byte(token.StrTag), Implicit: true, Value: []byte("1")},
		&token.Event{Kind: token.MappingEndEvent},
	)
	require.Equal(t, "a: 1\n", got)
}

func TestEmitFlowSequence(t *testing.T) {
	got := emitDoc(t, emitter.Options{},
		&token.Event{Kind: token.SequenceStartEvent, Tag: []byte(token.SeqTag), Implicit: true, CollectionStyle: token.FlowCollectionStyle},
		&token.Event{Kind: token.ScalarEvent, Tag: []byte(token.StrTag), Implicit: true, Value: []byte("1")},
		&token.Event{Kind: token.ScalarEvent, Tag: []byte(token.StrTag), Implicit: true, Value: []byte("2")},
		&token.Event{Kind: token.SequenceEndEvent},
	)
	require.Equal(t, "[1, 2]\n", got)
}

func TestEmitDoubleQuotedEscapesSpecialScalar(t *testing.T) {
	got := emitDoc(t, emitter.Options{}, &token.Event{
		Kind: token.ScalarEvent, Tag: []byte(token.StrTag), Implicit: true,
		ScalarStyle: token.DoubleQuotedScalarStyle, Value: []byte("a\tb"),
	})
	require.Equal(t, "\"a\\tb\"\n", got)
}

func TestEmitAnchorAndAlias(t *testing.T) {
	got := emitDoc(t, emitter.Options{},
		&token.Event{Kind: token.SequenceStartEvent, Tag: []byte(token.SeqTag), Implicit: true, CollectionStyle: token.FlowCollectionStyle},
		&token.Event{Kind: token.ScalarEvent, Anchor: []byte("x"), Tag: []byte(token.StrTag), Implicit: true, Value: []byte("1")},
		&token.Event{Kind: token.AliasEvent, Anchor: []byte("x")},
		&token.Event{Kind: token.SequenceEndEvent},
	)
	require.Equal(t, "[&x 1, *x]\n", got)
}

func TestEmitInvalidAnchorErrors(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf, emitter.Options{})
	require.NoError(t, e.Emit(&token.Event{Kind: token.StreamStartEvent}))
	require.NoError(t, e.Emit(&token.Event{Kind: token.DocumentStartEvent, Implicit: true}))
	err := e.Emit(&token.Event{
		Kind: token.ScalarEvent, Anchor: []byte("has space"), Tag: []byte(token.StrTag), Implicit: true, Value: []byte("x"),
	})
	require.Error(t, err)
}
