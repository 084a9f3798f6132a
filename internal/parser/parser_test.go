package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/internal/parser"
	"go.yamlcore.dev/yaml/internal/scanner"
	"go.yamlcore.dev/yaml/internal/token"
)

func parseEvents(t *testing.T, src string) []*token.Event {
	t.Helper()
	sc := scanner.New(strings.NewReader(src))
	p := parser.New(sc)
	var events []*token.Event
	for {
		ev, err := p.Next()
		require.NoError(t, err)
		events = append(events, ev)
		if ev.Kind == token.StreamEndEvent || ev.Kind == token.NoEvent {
			return events
		}
	}
}

func kindsOf(events []*token.Event) []token.EventKind {
	kinds := make([]token.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func TestParseScalarDocument(t *testing.T) {
	events := parseEvents(t, "hello\n")
	kinds := kindsOf(events)
	require.Equal(t, []token.EventKind{
		token.StreamStartEvent,
		token.DocumentStartEvent,
		token.ScalarEvent,
		token.DocumentEndEvent,
		token.StreamEndEvent,
	}, kinds)
	require.Equal(t, "hello", string(events[2].Value))
}

func TestParseBlockMapping(t *testing.T) {
	events := parseEvents(t, "a: 1\nb: 2\n")
	kinds := kindsOf(events)
	require.Equal(t, []token.EventKind{
		token.StreamStartEvent,
		token.DocumentStartEvent,
		token.MappingStartEvent,
		token.ScalarEvent,
		token.ScalarEvent,
		token.ScalarEvent,
		token.ScalarEvent,
		token.MappingEndEvent,
		token.DocumentEndEvent,
		token.StreamEndEvent,
	}, kinds)
}

func TestParseFlowSequence(t *testing.T) {
	events := parseEvents(t, "[1, 2, 3]\n")
	kinds := kindsOf(events)
	require.Equal(t, token.SequenceStartEvent, kinds[2])
	require.Equal(t, token.SequenceEndEvent, kinds[len(kinds)-3])
}

func TestParseMultipleDocuments(t *testing.T) {
	events := parseEvents(t, "---\na: 1\n---\nb: 2\n...\n")
	var starts, ends int
	for _, k := range kindsOf(events) {
		if k == token.DocumentStartEvent {
			starts++
		}
		if k == token.DocumentEndEvent {
			ends++
		}
	}
	require.Equal(t, 2, starts)
	require.Equal(t, 2, ends)
}

func TestParseAnchorAndAliasEvents(t *testing.T) {
	events := parseEvents(t, "a: &x 1\nb: *x\n")
	var sawAnchor, sawAlias bool
	for _, ev := range events {
		if ev.Kind == token.ScalarEvent && len(ev.Anchor) > 0 {
			sawAnchor = true
		}
		if ev.Kind == token.AliasEvent {
			sawAlias = true
		}
	}
	require.True(t, sawAnchor)
	require.True(t, sawAlias)
}

func TestParseRejectsUnexpectedToken(t *testing.T) {
	_, err := func() (*token.Event, error) {
		sc := scanner.New(strings.NewReader("a: [1, 2\n"))
		p := parser.New(sc)
		for {
			ev, err := p.Next()
			if err != nil {
				return nil, err
			}
			if ev.Kind == token.StreamEndEvent || ev.Kind == token.NoEvent {
				return ev, nil
			}
		}
	}()
	require.Error(t, err)
}
