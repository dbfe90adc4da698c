package rdb

import (
	"errors"

	"github.com/gea-gov/gea/pkg/domain/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/m-mizutani/goerr/v2"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
)

func classify(err error) constraintKind {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique
		// ON DELETE RESTRICT reports its violations as trigger constraints
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_TRIGGER:
			return constraintForeignKey
		}
		return constraintNone
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return constraintUnique
		case "23503":
			return constraintForeignKey
		}
	}
	return constraintNone
}

// translate maps a constraint violation to the domain sentinel it represents.
// Foreign key violations mean a dangling reference on writes and a protected
// row on deletes, so the caller picks that sentinel. Other errors are returned as is.
func translate(err error, foreignKey error) error {
	switch classify(err) {
	case constraintUnique:
		return goerr.Wrap(model.ErrConflict, "unique constraint violated", goerr.V("cause", err.Error()))
	case constraintForeignKey:
		return goerr.Wrap(foreignKey, "foreign key constraint violated", goerr.V("cause", err.Error()))
	}
	return err
}
