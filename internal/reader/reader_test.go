package reader_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"go.yamlcore.dev/yaml/internal/reader"
	"go.yamlcore.dev/yaml/internal/token"
)

func TestReaderDefaultsToUTF8(t *testing.T) {
	r := reader.New(bytes.NewReader([]byte("abc")))
	c, err := r.Peek(0)
	require.NoError(t, err)
	require.Equal(t, 'a', c)
	require.Equal(t, token.UTF8Encoding, r.Encoding())
}

func TestReaderSniffsUTF8BOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("xyz")...)
	r := reader.New(bytes.NewReader(src))
	c, err := r.Peek(0)
	require.NoError(t, err)
	require.Equal(t, 'x', c)
	require.Equal(t, token.UTF8Encoding, r.Encoding())
}

func TestReaderForwardAdvancesMark(t *testing.T) {
	r := reader.New(bytes.NewReader([]byte("ab\ncd")))
	require.NoError(t, r.Forward(3))
	mark := r.Mark()
	require.Equal(t, 1, mark.Line)
	require.Equal(t, 0, mark.Column)
}

func TestReaderSliceReturnsRawBytes(t *testing.T) {
	r := reader.New(bytes.NewReader([]byte("hello")))
	b, err := r.Slice(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(b))
}
