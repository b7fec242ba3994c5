package lib

import (
	"context"
	"errors"
	"io"
	"time"
)

const TokenBufSize = 100

var TokenReadTimeout = 1 * time.Second

// Pipe lexes src on its own goroutine and returns a reader over the tokens it
// produces. Production stops at end of input, after the first Error token, or
// when ctx is cancelled.
func Pipe(ctx context.Context, src io.RuneReader) TokenReader {
	buf := newTokenBuffer()
	go func() {
		l := NewLexer(src)
		for tok := range l.All() {
			if !buf.Write(ctx, tok) {
				buf.Done(ctx.Err())
				return
			}
			if tok.Type == TokenTypeError {
				break
			}
		}
		buf.Done(l.Err())
	}()
	return buf
}

type tokenBuffer struct {
	tokChan chan Token
	// err is written before tokChan is closed and read only after.
	err    error
	peeked *peekResult
}

func newTokenBuffer() *tokenBuffer {
	return &tokenBuffer{
		tokChan: make(chan Token, TokenBufSize),
		peeked:  nil,
	}
}

func (tb *tokenBuffer) Next() (tok Token, done bool, err error) {
	if tb.peeked != nil {
		res := tb.peeked
		tb.peeked = nil
		return res.tok, res.done, res.err
	}

	select {
	case tok, ok := <-tb.tokChan:
		if !ok {
			return Token{}, true, tb.err
		}
		return tok, false, nil
	case <-time.After(TokenReadTimeout):
		return Token{}, false, errors.New("timed out waiting for next token")
	}
}

func (tb *tokenBuffer) Peek() (Token, bool, error) {
	if tb.peeked != nil {
		return tb.peeked.tok, tb.peeked.done, tb.peeked.err
	}
	tok, done, err := tb.Next()
	tb.peeked = &peekResult{tok: tok, done: done, err: err}
	return tok, done, err
}

// Write blocks until the token is buffered or ctx is done. It reports whether
// the token was buffered.
func (tb *tokenBuffer) Write(ctx context.Context, tok Token) bool {
	select {
	case tb.tokChan <- tok:
		return true
	case <-ctx.Done():
		return false
	}
}

// Done marks the end of production. It must be called exactly once, after the
// last Write.
func (tb *tokenBuffer) Done(err error) {
	tb.err = err
	close(tb.tokChan)
}
