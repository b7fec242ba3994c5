package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graeme-hill/calclex/lib"
)

func TestRunText(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), "3 - 4", true, "", &out)
	require.NoError(t, err)
	require.Equal(t, "Decimal(\"3\")\nOperator(Minus)\nDecimal(\"4\")\n", out.String())
}

func TestRunTextError(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), ":", true, "", &out)
	var lexErr *lib.LexError
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, "Error Unknown symbol at position 1\n", out.String())
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.calc")
	require.NoError(t, os.WriteFile(path, []byte("x := (-4)\n"), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), path, false, "", &out)
	require.NoError(t, err)
	require.Equal(t, "Ident(\"x\")\nAssign\nLeftParen\nDecimal(\"-4\")\nRightParen\n", out.String())
}

func TestRunMissingFile(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), filepath.Join(t.TempDir(), "nope"), false, "", &out)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	var out bytes.Buffer
	err := run(ctx, "a * 2", true, "bunt:"+dbPath, &out)
	require.NoError(t, err)
	require.Equal(t, "Ident(\"a\")\nOperator(Mult)\nDecimal(\"2\")\n", out.String())

	st, err := openStore(ctx, "bunt:"+dbPath)
	require.NoError(t, err)
	defer st.Close()
	ids, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	s, err := st.Load(ctx, ids[0])
	require.NoError(t, err)
	require.Equal(t, "a * 2", s.Source)
}

func TestOpenStoreBadSpec(t *testing.T) {
	_, err := openStore(context.Background(), "nothing")
	require.Error(t, err)
	_, err = openStore(context.Background(), "redis:localhost")
	require.Error(t, err)
}

func TestModeFlagsLastWins(t *testing.T) {
	cases := []struct {
		args     []string
		textMode bool
	}{
		{[]string{"x"}, false},
		{[]string{"-t", "x"}, true},
		{[]string{"-text", "x"}, true},
		{[]string{"-f", "x"}, false},
		{[]string{"-t", "-f", "x"}, false},
		{[]string{"-f", "-t", "x"}, true},
		{[]string{"-file", "-text", "x"}, true},
		{[]string{"-text", "-file", "x"}, false},
		{[]string{"-t", "-f=false", "x"}, true},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			fs := flag.NewFlagSet("calclex", flag.ContinueOnError)
			var textMode bool
			bindModeFlags(fs, &textMode)
			require.NoError(t, fs.Parse(c.args))
			require.Equal(t, c.textMode, textMode)
			require.Equal(t, []string{"x"}, fs.Args())
		})
	}
}
