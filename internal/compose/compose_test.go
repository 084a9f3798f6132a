package compose_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/internal/compose"
	"go.yamlcore.dev/yaml/internal/parser"
	"go.yamlcore.dev/yaml/internal/resolver"
	"go.yamlcore.dev/yaml/internal/scanner"
)

func composeOne(t *testing.T, src string) *compose.Node {
	t.Helper()
	sc := scanner.New(strings.NewReader(src))
	p := parser.New(sc)
	c := compose.New(p, resolver.New())
	n, err := c.GetSingleNode()
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

func TestComposeScalarMapping(t *testing.T) {
	n := composeOne(t, "a: 1\nb: two\n")
	require.Equal(t, compose.MappingNode, n.Kind)
	require.Len(t, n.Content, 4)
	require.Equal(t, "a", n.Content[0].Value)
	require.Equal(t, "1", n.Content[1].Value)
	require.Equal(t, "b", n.Content[2].Value)
	require.Equal(t, "two", n.Content[3].Value)
}

func TestComposeSequence(t *testing.T) {
	n := composeOne(t, "- 1\n- 2\n- 3\n")
	require.Equal(t, compose.SequenceNode, n.Kind)
	require.Len(t, n.Content, 3)
}

func TestComposeAnchorAlias(t *testing.T) {
	n := composeOne(t, "a: &x 1\nb: *x\n")
	require.Equal(t, "x", n.Content[1].Anchor)
	require.Equal(t, compose.AliasNode, n.Content[3].Kind)
	require.Same(t, n.Content[1], n.Content[3].Alias)
}

func TestComposeDuplicateAnchorFails(t *testing.T) {
	sc := scanner.New(strings.NewReader("a: &x 1\nb: &x 2\n"))
	p := parser.New(sc)
	c := compose.New(p, resolver.New())
	_, err := c.GetSingleNode()
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate anchor")
}

func TestComposeUndefinedAliasFails(t *testing.T) {
	sc := scanner.New(strings.NewReader("a: *missing\n"))
	p := parser.New(sc)
	c := compose.New(p, resolver.New())
	_, err := c.GetSingleNode()
	require.Error(t, err)
	require.Contains(t, err.Error(), "undefined alias")
}

func TestComposeMergeKeyFirstWins(t *testing.T) {
	n := composeOne(t, "base: &b\n  x: 1\n  y: 2\nextended:\n  <<: *b\n  y: 3\n  z: 4\n")
	var extended *compose.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "extended" {
			extended = n.Content[i+1]
		}
	}
	require.NotNil(t, extended)
	got := map[string]string{}
	for i := 0; i+1 < len(extended.Content); i += 2 {
		got[extended.Content[i].Value] = extended.Content[i+1].Value
	}
	require.Equal(t, map[string]string{"x": "1", "y": "3", "z": "4"}, got)
}

func TestGetSingleNodeRejectsMultipleDocuments(t *testing.T) {
	sc := scanner.New(strings.NewReader("---\na: 1\n---\nb: 2\n"))
	p := parser.New(sc)
	c := compose.New(p, resolver.New())
	_, err := c.GetSingleNode()
	require.Error(t, err)
}
