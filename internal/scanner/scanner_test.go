package scanner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/internal/scanner"
	"go.yamlcore.dev/yaml/internal/token"
)

func scanKinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	sc := scanner.New(strings.NewReader(src))
	var kinds []token.Kind
	for {
		tok, err := sc.Get()
		require.NoError(t, err)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.StreamEnd {
			return kinds
		}
	}
}

func TestScanFlowMapping(t *testing.T) {
	kinds := scanKinds(t, "{a: 1, b: 2}\n")
	require.Equal(t, token.StreamStart, kinds[0])
	require.Contains(t, kinds, token.FlowMappingStart)
	require.Contains(t, kinds, token.FlowMappingEnd)
	require.Contains(t, kinds, token.FlowEntry)
	require.Equal(t, token.StreamEnd, kinds[len(kinds)-1])
}

func TestScanBlockSequence(t *testing.T) {
	kinds := scanKinds(t, "- 1\n- 2\n")
	require.Contains(t, kinds, token.BlockSequenceStart)
	require.Contains(t, kinds, token.BlockEntry)
	require.Contains(t, kinds, token.BlockEnd)
}

func TestScanAnchorAndAlias(t *testing.T) {
	kinds := scanKinds(t, "a: &x 1\nb: *x\n")
	require.Contains(t, kinds, token.Anchor)
	require.Contains(t, kinds, token.Alias)
}

func TestScanDirectiveAndDocumentMarkers(t *testing.T) {
	kinds := scanKinds(t, "%YAML 1.1\n---\na: 1\n...\n")
	require.Contains(t, kinds, token.Directive)
	require.Contains(t, kinds, token.DocumentStart)
	require.Contains(t, kinds, token.DocumentEnd)
}

func TestScanRejectsTabIndentationInLiteralScalar(t *testing.T) {
	sc := scanner.New(strings.NewReader("a: |\n\tfoo\n"))
	var lastErr error
	for {
		tok, err := sc.Get()
		if err != nil {
			lastErr = err
			break
		}
		if tok.Kind == token.StreamEnd {
			break
		}
	}
	require.Error(t, lastErr)
}
