package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/graeme-hill/calclex/lib"
	"github.com/graeme-hill/calclex/store"
)

func main() {
	level := zap.LevelFlag("log-level", zap.InfoLevel, "set log level")
	var textMode bool
	bindModeFlags(flag.CommandLine, &textMode)
	storeSpec := flag.String("store", "", "persist the session to bunt:<path> or postgres:<dsn>")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] INPUT\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(*level)
	dev, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(dev)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	err = run(context.Background(), flag.Arg(0), textMode, *storeSpec, os.Stdout)
	code := 0
	if err != nil {
		var lexErr *lib.LexError
		if !errors.As(err, &lexErr) {
			zap.S().Errorf("calclex: %s", err)
		}
		code = 1
	}
	zap.S().Sync()
	os.Exit(code)
}

// bindModeFlags registers -t/-text and -f/-file on fs. All four write
// textMode, so whichever comes last on the command line wins.
func bindModeFlags(fs *flag.FlagSet, textMode *bool) {
	setMode := func(text bool) func(string) error {
		return func(s string) error {
			on, err := strconv.ParseBool(s)
			if err != nil {
				return err
			}
			if on {
				*textMode = text
			}
			return nil
		}
	}
	fs.BoolFunc("t", "lex INPUT as text", setMode(true))
	fs.BoolFunc("text", "lex INPUT as text", setMode(true))
	fs.BoolFunc("f", "treat INPUT as a file path (default)", setMode(false))
	fs.BoolFunc("file", "treat INPUT as a file path (default)", setMode(false))
}

func run(ctx context.Context, input string, textMode bool, storeSpec string, out io.Writer) error {
	if storeSpec != "" {
		src := input
		if !textMode {
			data, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			src = string(data)
		}
		return lexAndStore(ctx, src, storeSpec, out)
	}

	if textMode {
		_, err := lib.Print(lib.NewReader(lib.NewStringLexer(input)), out)
		return err
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	zap.S().Debugf("lexing file %s", input)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	n, err := lib.Print(lib.Pipe(ctx, bufio.NewReader(f)), out)
	zap.S().Debugf("printed %d tokens", n)
	return err
}

func lexAndStore(ctx context.Context, src string, storeSpec string, out io.Writer) error {
	st, err := openStore(ctx, storeSpec)
	if err != nil {
		return err
	}
	defer st.Close()

	session, err := store.Collect(src)
	if err != nil {
		return err
	}
	if err = st.Save(ctx, session); err != nil {
		return err
	}
	zap.S().Infow("saved session", "id", session.ID, "tokens", len(session.Tokens))

	_, err = lib.Print(lib.NewReader(lib.NewStringLexer(src)), out)
	return err
}

func openStore(ctx context.Context, spec string) (store.Store, error) {
	kind, target, ok := strings.Cut(spec, ":")
	if !ok {
		return nil, fmt.Errorf("store %q: expected bunt:<path> or postgres:<dsn>", spec)
	}
	switch kind {
	case "bunt":
		return store.OpenBunt(target)
	case "postgres":
		return store.OpenPostgres(ctx, target)
	default:
		return nil, fmt.Errorf("store %q: unknown kind %q", spec, kind)
	}
}
