package lib

type TokenReader interface {
	Next() (tok Token, done bool, err error)
	Peek() (tok Token, done bool, err error)
}

type peekResult struct {
	tok  Token
	done bool
	err  error
}

// lexerReader reads straight from a Lexer on the caller's goroutine.
type lexerReader struct {
	lexer  *Lexer
	peeked *peekResult
}

func NewReader(l *Lexer) TokenReader {
	return &lexerReader{lexer: l}
}

func (r *lexerReader) Next() (Token, bool, error) {
	if r.peeked != nil {
		res := r.peeked
		r.peeked = nil
		return res.tok, res.done, res.err
	}
	tok, ok := r.lexer.Next()
	if !ok {
		return Token{}, true, r.lexer.Err()
	}
	return tok, false, nil
}

func (r *lexerReader) Peek() (Token, bool, error) {
	if r.peeked != nil {
		return r.peeked.tok, r.peeked.done, r.peeked.err
	}
	tok, done, err := r.Next()
	r.peeked = &peekResult{tok: tok, done: done, err: err}
	return tok, done, err
}
