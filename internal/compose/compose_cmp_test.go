package compose_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"go.yamlcore.dev/yaml/internal/compose"
)

func TestComposeTreeMatchesExpectedShape(t *testing.T) {
	got := composeOne(t, "name: ada\ntags:\n  - math\n  - computing\n")

	want := &compose.Node{
		Kind: compose.MappingNode,
		Content: []*compose.Node{
			{Kind: compose.ScalarNode, Value: "name"},
			{Kind: compose.ScalarNode, Value: "ada"},
			{Kind: compose.ScalarNode, Value: "tags"},
			{
				Kind: compose.SequenceNode,
				Content: []*compose.Node{
					{Kind: compose.ScalarNode, Value: "math"},
					{Kind: compose.ScalarNode, Value: "computing"},
				},
			},
		},
	}

	diff := cmp.Diff(want, got,
		cmpopts.IgnoreFields(compose.Node{}, "Style", "Tag", "Anchor", "Alias", "Line", "Column"))
	if diff != "" {
		t.Fatalf("composed tree mismatch (-want +got):\n%s", diff)
	}
}
