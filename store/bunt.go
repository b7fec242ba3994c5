package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

const sessionKeyPrefix = "session:"

// BuntStore keeps sessions in an embedded buntdb database, one JSON value per
// session under "session:<id>".
type BuntStore struct {
	db *buntdb.DB
}

// OpenBunt opens or creates the database file at path. ":memory:" keeps
// everything in memory.
func OpenBunt(path string) (*BuntStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open buntdb %s: %w", path, err)
	}
	return &BuntStore{db: db}, nil
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (b *BuntStore) Save(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}
	return b.db.Update(func(tx *buntdb.Tx) error {
		key := sessionKey(s.ID)
		_, err := tx.Get(key)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, buntdb.ErrNotFound) {
			return err
		}
		_, _, err = tx.Set(key, string(data), nil)
		return err
	})
}

func (b *BuntStore) Load(ctx context.Context, id uuid.UUID) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	var s Session
	err := b.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(sessionKey(id))
		if errors.Is(err, buntdb.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(val), &s)
	})
	if err != nil {
		return Session{}, err
	}
	return s, nil
}

// List returns the IDs of all stored sessions in key order.
func (b *BuntStore) List(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ids := []uuid.UUID{}
	err := b.db.View(func(tx *buntdb.Tx) error {
		var parseErr error
		err := tx.AscendKeys(sessionKeyPrefix+"*", func(key, _ string) bool {
			id, err := uuid.Parse(strings.TrimPrefix(key, sessionKeyPrefix))
			if err != nil {
				parseErr = fmt.Errorf("bad session key %q: %w", key, err)
				return false
			}
			ids = append(ids, id)
			return true
		})
		if err != nil {
			return err
		}
		return parseErr
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (b *BuntStore) Close() error {
	return b.db.Close()
}
