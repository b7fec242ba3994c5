package lib

import (
	"errors"
	"io"
	"iter"
	"strings"
	"unicode"
)

// Lex drains a fresh lexer over src, passing every token to emit. It stops at
// end of input or right after emitting the first Error token, and returns
// only failures of the underlying reader.
func Lex(src io.RuneReader, emit func(Token)) error {
	l := NewLexer(src)
	for tok := range l.All() {
		emit(tok)
		if tok.Type == TokenTypeError {
			break
		}
	}
	return l.Err()
}

// Lexer produces tokens on demand from a character source. It is not safe for
// concurrent use.
type Lexer struct {
	src       io.RuneReader
	peeked    rune
	hasPeeked bool
	readErr   error

	// pos counts every character consumed so far, whitespace included.
	pos int
	// width counts the characters of the token being assembled.
	width            int
	operatorExpected bool
	buffer           []rune
}

func NewLexer(src io.RuneReader) *Lexer {
	return &Lexer{
		src:              src,
		pos:              0,
		width:            0,
		operatorExpected: false,
		buffer:           []rune{},
	}
}

func NewStringLexer(s string) *Lexer {
	return NewLexer(strings.NewReader(s))
}

// Pos returns the number of characters consumed so far.
func (l *Lexer) Pos() int {
	return l.pos
}

// Err returns the first non-EOF error returned by the underlying reader.
func (l *Lexer) Err() error {
	if errors.Is(l.readErr, io.EOF) {
		return nil
	}
	return l.readErr
}

// All returns the remaining tokens as a lazy sequence. Breaking out of the
// range leaves the lexer where it stopped.
func (l *Lexer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := l.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

func (l *Lexer) peek() (rune, bool) {
	if l.hasPeeked {
		return l.peeked, true
	}
	if l.readErr != nil {
		return 0, false
	}
	ch, _, err := l.src.ReadRune()
	if err != nil {
		l.readErr = err
		return 0, false
	}
	l.peeked = ch
	l.hasPeeked = true
	return ch, true
}

func (l *Lexer) advance() (rune, bool) {
	ch, ok := l.peek()
	l.hasPeeked = false
	return ch, ok
}

// accept consumes the next character into the buffer if it satisfies f.
func (l *Lexer) accept(f func(rune) bool) bool {
	ch, ok := l.peek()
	if !ok || !f(ch) {
		return false
	}
	l.advance()
	l.buffer = append(l.buffer, ch)
	l.width++
	return true
}

func (l *Lexer) acceptRun(f func(rune) bool) {
	for l.accept(f) {
	}
}

func (l *Lexer) skipWhitespace() (rune, bool) {
	for {
		ch, ok := l.peek()
		if !ok || !unicode.IsSpace(ch) {
			return ch, ok
		}
		l.advance()
		l.pos++
	}
}

// Next returns the next token, or false once the source is exhausted. Lexical
// errors come back as Error tokens; the lexer stays usable after one.
func (l *Lexer) Next() (Token, bool) {
	l.buffer = l.buffer[:0]

	ch, ok := l.skipWhitespace()
	if !ok {
		return Token{}, false
	}

	switch {
	case ch == '(':
		return l.single(Token{Type: TokenTypeLeftParen}, false), true
	case ch == ')':
		return l.single(Token{Type: TokenTypeRightParen}, true), true
	case ch == '+':
		return l.single(Token{Type: TokenTypeOperator, Op: OpPlus}, false), true
	case ch == '*':
		return l.single(Token{Type: TokenTypeOperator, Op: OpMult}, false), true
	case ch == '/':
		return l.single(Token{Type: TokenTypeOperator, Op: OpDiv}, false), true
	case ch == '-' && l.operatorExpected:
		return l.single(Token{Type: TokenTypeOperator, Op: OpMinus}, false), true
	case ch == '-' || isDigit(ch):
		return l.scanDecimal(), true
	case ch == ':':
		return l.scanAssign(), true
	case isAlphabetic(ch) || ch == '_':
		return l.scanIdent(), true
	default:
		// Consume the offending character so the next call makes progress.
		tok := Token{Type: TokenTypeError, Pos: l.pos, Message: MessageUnknownToken, Width: 1}
		l.advance()
		l.pos++
		return tok, true
	}
}

func (l *Lexer) single(tok Token, operatorExpected bool) Token {
	l.advance()
	l.pos++
	l.operatorExpected = operatorExpected
	tok.Width = 1
	return tok
}

func (l *Lexer) scanAssign() Token {
	l.advance()
	l.pos++
	if next, ok := l.peek(); ok && next == '=' {
		l.advance()
		l.pos++
		l.operatorExpected = false
		return Token{Type: TokenTypeAssign, Width: 2}
	}
	return Token{Type: TokenTypeError, Pos: l.pos, Message: MessageUnknownSymbol, Width: 1}
}

func (l *Lexer) scanDecimal() Token {
	l.accept(func(ch rune) bool { return ch == '-' })
	l.acceptRun(isDigit)
	if l.accept(func(ch rune) bool { return ch == '.' }) {
		l.acceptRun(isDigit)
	}
	tokType := TokenTypeDecimal
	if l.accept(isExponentMarker) {
		l.acceptRun(isDigit)
		tokType = TokenTypeExp
	}
	return l.finish(tokType)
}

func (l *Lexer) scanIdent() Token {
	l.acceptRun(func(ch rune) bool {
		return isAlphabetic(ch) || isDigit(ch) || ch == '_'
	})
	return l.finish(TokenTypeIdent)
}

// finish folds the in-flight width into pos and emits the buffered lexeme.
func (l *Lexer) finish(tokType TokenType) Token {
	tok := Token{Type: tokType, Value: string(l.buffer), Width: l.width}
	l.pos += l.width
	l.width = 0
	l.operatorExpected = true
	return tok
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isExponentMarker(ch rune) bool {
	return ch == 'e' || ch == 'E'
}

// isAlphabetic reports whether ch has the Unicode Alphabetic property, which
// is wider than category L: it also takes letter numbers such as U+216B and
// combining vowel signs such as U+093F.
func isAlphabetic(ch rune) bool {
	return unicode.IsLetter(ch) ||
		unicode.Is(unicode.Nl, ch) ||
		unicode.Is(unicode.Other_Alphabetic, ch)
}
