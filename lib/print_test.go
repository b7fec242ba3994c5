package lib

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	n, err := Print(NewReader(NewStringLexer("a := (-4) - 3")), &out)
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Equal(t, `Ident("a")
Assign
LeftParen
Decimal("-4")
RightParen
Operator(Minus)
Decimal("3")
`, out.String())
}

func TestPrintStopsOnError(t *testing.T) {
	var out bytes.Buffer
	n, err := Print(NewReader(NewStringLexer("x : y")), &out)
	require.Equal(t, 1, n)

	var lexErr *LexError
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, 3, lexErr.Pos)
	require.Equal(t, MessageUnknownSymbol, lexErr.Message)
	require.Equal(t, "Ident(\"x\")\nError Unknown symbol at position 3\n", out.String())
}

func TestPrintEmpty(t *testing.T) {
	var out bytes.Buffer
	n, err := Print(NewReader(NewStringLexer("   ")), &out)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, out.String())
}
