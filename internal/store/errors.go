package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("conflict")

	// ErrEmptyCart is returned by PlaceOrder when the user's cart has no items.
	ErrEmptyCart = errors.New("cart is empty")
)

// PostgreSQL SQLSTATE codes translated by classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidText         = "22P02"
)

// classify maps driver errors onto the package sentinels. The original error
// stays in the chain so callers can still inspect it.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w: %w", what, ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w: %w", what, ErrConflict, err)
		case pgForeignKeyViolation, pgInvalidText:
			return fmt.Errorf("%s: %w: %w", what, ErrNotFound, err)
		}
	}

	return fmt.Errorf("%s: %w", what, err)
}
