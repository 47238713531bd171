// Package store is the typed persistence adapter over the document store.
// Every exported operation is a single statement or one short transaction;
// callers never see gorm errors, only ErrNotFound, ErrDuplicate or a wrapped failure.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Store groups the per-record-kind adapters.
type Store struct {
	db *gorm.DB

	Users      *UserStore
	Products   *ProductStore
	Messages   *MessageStore
	Categories *CategoryStore
	Favorites  *FavoriteStore
	Carts      *CartStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      &UserStore{db: db},
		Products:   &ProductStore{db: db},
		Messages:   &MessageStore{db: db},
		Categories: &CategoryStore{db: db},
		Favorites:  &FavoriteStore{db: db},
		Carts:      &CartStore{db: db},
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn against a Store bound to a single database transaction.
// Nothing fn wrote survives when it returns an error.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}
