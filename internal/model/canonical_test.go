package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": int64(1),
		"alpha": int64(2),
		"mike":  int64(3),
	}
	out, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"mike":3,"zebra":1}`, string(out))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	out, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(out))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to precomposed U+00E9.
	decomposed := "café"
	precomposed := "café"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(precomposed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"x": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestMarshalCanonical_RejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": nil})
	require.Error(t, err)
}

func TestMarshalCanonical_NestedStructures(t *testing.T) {
	obj := map[string]any{
		"list": []any{"a", int64(1), true},
		"obj":  map[string]any{"b": "nested", "a": int64(0)},
	}
	out, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"list":["a",1,true],"obj":{"a":0,"b":"nested"}}`, string(out))
}

func TestMarshalCanonical_StringSlice(t *testing.T) {
	out, err := MarshalCanonical([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, `["x","y"]`, string(out))
}

func TestMarshalCanonical_LineSeparatorsUnescaped(t *testing.T) {
	out, err := MarshalCanonical("a b c")
	require.NoError(t, err)
	assert.Equal(t, "\"a b c\"", string(out))
}

func TestMarshalCanonical_LiteralBackslashU2028Preserved(t *testing.T) {
	// A literal backslash followed by the text "u2028" must stay
	// escaped: \\u2028, never the U+2028 character.
	out, err := MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(out))
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	obj := map[string]any{"b": int64(2), "a": int64(1), "c": []any{"x"}}
	first, err := MarshalCanonical(obj)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := MarshalCanonical(obj)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}
