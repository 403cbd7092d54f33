package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakePosLineCol(t *testing.T) {
	cases := []struct {
		line, col int
	}{
		{1, 1},
		{10, 1},
		{1, 10},
		{MaxLines, MaxCols},
		{42, 7},
	}
	for _, c := range cases {
		p := MakePos(c.line, c.col)
		gotLine, gotCol := p.LineCol()
		require.Equal(t, c.line, gotLine)
		require.Equal(t, c.col, gotCol)
	}
}

func TestPosUnknown(t *testing.T) {
	require.True(t, NoPos.Unknown())
	require.True(t, MakePos(0, 1).Unknown())
	require.True(t, MakePos(1, 0).Unknown())
	require.False(t, MakePos(1, 1).Unknown())
}

func TestPosPosition(t *testing.T) {
	p := MakePos(3, 5)
	pos := p.Position("foo.dl")
	require.Equal(t, "foo.dl", pos.Filename)
	require.Equal(t, 3, pos.Line)
	require.Equal(t, 5, pos.Column)
}
