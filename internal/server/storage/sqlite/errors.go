package sqlite

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintCheck
	constraintForeignKey
)

// classifyConstraint maps a driver error to the violated constraint kind
func classifyConstraint(err error) constraintKind {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return constraintNone
	}

	switch serr.Code() {
	case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return constraintUnique
	case sqlitelib.SQLITE_CONSTRAINT_CHECK:
		return constraintCheck
	case sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return constraintForeignKey
	}

	if serr.Code()&0xff != sqlitelib.SQLITE_CONSTRAINT {
		return constraintNone
	}

	// extended codes disabled, fall back to the message
	msg := serr.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return constraintUnique
	case strings.Contains(msg, "CHECK constraint failed"):
		return constraintCheck
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return constraintForeignKey
	}
	return constraintNone
}
