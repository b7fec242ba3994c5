// Package store persists tokenization sessions: a source text together with
// the tokens a lexer produced from it.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/graeme-hill/calclex/lib"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrDuplicate = errors.New("session already exists")
)

type Session struct {
	ID        uuid.UUID
	Source    string
	Tokens    []lib.Token
	CreatedAt time.Time
}

type Store interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context, id uuid.UUID) (Session, error)
	List(ctx context.Context) ([]uuid.UUID, error)
	Close() error
}

// Collect lexes src up to and including the first Error token and wraps the
// result in a new Session.
func Collect(src string) (Session, error) {
	tokens := []lib.Token{}
	err := lib.Lex(strings.NewReader(src), func(tok lib.Token) {
		tokens = append(tokens, tok)
	})
	if err != nil {
		return Session{}, err
	}
	return Session{
		ID:        uuid.New(),
		Source:    src,
		Tokens:    tokens,
		CreatedAt: time.Now().UTC(),
	}, nil
}
