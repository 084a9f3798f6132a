package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/internal/resolver"
	"go.yamlcore.dev/yaml/internal/token"
)

func TestResolveCoreScalars(t *testing.T) {
	cases := []struct {
		value string
		tag   string
	}{
		{"true", token.BoolTag},
		{"Yes", token.BoolTag},
		{"off", token.BoolTag},
		{"123", token.IntTag},
		{"-42", token.IntTag},
		{"0x1A", token.IntTag},
		{"0b101", token.IntTag},
		{"1:30:00", token.IntTag},
		{"3.14", token.FloatTag},
		{".inf", token.FloatTag},
		{".NaN", token.FloatTag},
		{"~", token.NullTag},
		{"null", token.NullTag},
		{"", token.NullTag},
		{"2019-01-02", token.TimestampTag},
		{"<<", token.MergeTag},
		{"=", token.ValueTag},
		{"just a string", token.StrTag},
	}

	r := resolver.New()
	for _, c := range cases {
		got := r.Resolve(resolver.ScalarKind, "", []byte(c.value), true)
		require.Equalf(t, c.tag, got, "value %q", c.value)
	}
}

func TestResolveExplicitTagBypassesImplicit(t *testing.T) {
	r := resolver.New()
	got := r.Resolve(resolver.ScalarKind, token.StrTag, []byte("123"), false)
	require.Equal(t, token.StrTag, got)
}

func TestResolveCollectionDefaults(t *testing.T) {
	r := resolver.New()
	require.Equal(t, token.SeqTag, r.Resolve(resolver.SequenceKind, "", nil, true))
	require.Equal(t, token.MapTag, r.Resolve(resolver.MappingKind, "", nil, true))
}

func TestRegisterImplicitResolverExtendsTable(t *testing.T) {
	r := resolver.New()
	r.RegisterImplicitResolver("!dice", "123456", `[1-6]d[1-6]`)
	got := r.Resolve(resolver.ScalarKind, "", []byte("3d6"), true)
	require.Equal(t, "!dice", got)
}
