package types

import (
	"testing"

	"github.com/duals-lang/dualc/lang/token"
	"github.com/stretchr/testify/require"
)

func TestFromName(t *testing.T) {
	cases := map[string]TypeDesc{
		"void":   Void,
		"int":    Int,
		"float":  Float,
		"bool":   Bool,
		"string": Str,
	}
	for name, want := range cases {
		got, err := FromName(name)
		require.NoError(t, err)
		require.True(t, got.Equal(want))
	}

	_, err := FromName("nope")
	require.Error(t, err)
}

func TestTypeDescEqual(t *testing.T) {
	require.True(t, Int.Equal(FromBaseType(INT)))
	require.False(t, Int.Equal(Float))

	f1 := Func(Int, Str, Bool)
	f2 := Func(Int, Str, Bool)
	f3 := Func(Int, Str)
	require.True(t, f1.Equal(f2))
	require.False(t, f1.Equal(f3))
	require.False(t, f1.Equal(Int))
}

func TestTypeDescIsFuncIsSimple(t *testing.T) {
	require.False(t, Int.IsFunc())
	require.True(t, Int.IsSimple())
	require.False(t, Void.IsSimple())

	fn := Func(Void, Int)
	require.True(t, fn.IsFunc())
	require.False(t, fn.IsSimple())
}

func TestTypeDescString(t *testing.T) {
	require.Equal(t, "int", Int.String())
	require.Equal(t, "void (int, string)", Func(Void, Int, Str).String())
}

func TestConvertibleTo(t *testing.T) {
	require.True(t, ConvertibleTo(INT, FLOAT))
	require.True(t, ConvertibleTo(INT, BOOL))
	require.True(t, ConvertibleTo(BOOL, INT))
	require.False(t, ConvertibleTo(FLOAT, INT))
	require.False(t, ConvertibleTo(STR, INT))
}

func TestBinOpCompatibility(t *testing.T) {
	add, ok := BinOpCompatibility(token.ADD)
	require.True(t, ok)
	res, ok := add.Lookup(STR, STR)
	require.True(t, ok)
	require.Equal(t, STR, res)

	_, ok = add.Lookup(BOOL, BOOL)
	require.False(t, ok)

	and, ok := BinOpCompatibility(token.LOGICAL_AND)
	require.True(t, ok)
	res, ok = and.Lookup(BOOL, BOOL)
	require.True(t, ok)
	require.Equal(t, BOOL, res)
}

func TestDefaultValue(t *testing.T) {
	require.Equal(t, int64(0), DefaultValue(INT))
	require.Equal(t, float64(0), DefaultValue(FLOAT))
	require.Equal(t, false, DefaultValue(BOOL))
	require.Equal(t, "", DefaultValue(STR))
	require.Nil(t, DefaultValue(VOID))
}
