package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/graeme-hill/calclex/lib"
)

const uniqueViolation = "23505"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		source TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS session_tokens (
		session_id UUID NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		idx INT NOT NULL,
		type INT NOT NULL,
		value TEXT NOT NULL,
		op INT NOT NULL,
		pos INT NOT NULL,
		message TEXT NOT NULL,
		width INT NOT NULL,
		PRIMARY KEY (session_id, idx)
	)`,
}

type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the lib/pq driver and creates the session tables
// if they are missing.
func OpenPostgres(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	err = requireSessionTables(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func requireSessionTables(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create session tables: %w", err)
		}
	}
	return nil
}

func (p *PostgresStore) Save(ctx context.Context, s Session) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, source, created_at) VALUES ($1, $2, $3)",
		s.ID, s.Source, s.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("session_tokens",
		"session_id", "idx", "type", "value", "op", "pos", "message", "width"))
	if err != nil {
		return err
	}
	for i, tok := range s.Tokens {
		_, err = stmt.ExecContext(ctx, s.ID, i, int(tok.Type), tok.Value, int(tok.Op), tok.Pos, tok.Message, tok.Width)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("copy token %d: %w", i, err)
		}
	}
	// An Exec with no arguments flushes the COPY.
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("copy tokens: %w", err)
	}
	if err = stmt.Close(); err != nil {
		return err
	}

	return tx.Commit()
}

func (p *PostgresStore) Load(ctx context.Context, id uuid.UUID) (Session, error) {
	s := Session{ID: id, Tokens: []lib.Token{}}
	err := p.db.QueryRowContext(ctx,
		"SELECT source, created_at FROM sessions WHERE id = $1", id).
		Scan(&s.Source, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT type, value, op, pos, message, width FROM session_tokens
		WHERE session_id = $1 ORDER BY idx`, id)
	if err != nil {
		return Session{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var tok lib.Token
		var tokType, op int
		err = rows.Scan(&tokType, &tok.Value, &op, &tok.Pos, &tok.Message, &tok.Width)
		if err != nil {
			return Session{}, err
		}
		tok.Type = lib.TokenType(tokType)
		tok.Op = lib.Op(op)
		s.Tokens = append(s.Tokens, tok)
	}
	if err = rows.Err(); err != nil {
		return Session{}, err
	}

	return s, nil
}

// List returns session IDs oldest first.
func (p *PostgresStore) List(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT id FROM sessions ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
