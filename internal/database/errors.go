package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = "23505"

// UniqueViolation reports whether err is a unique-constraint failure and, if so,
// which column tripped it ("slug", "name", "username").
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code != pqUniqueViolation {
			return "", false
		}
		// constraints are named <table>_<column>_key
		name := strings.TrimSuffix(pqErr.Constraint, "_key")
		if i := strings.LastIndex(name, "_"); i >= 0 {
			name = name[i+1:]
		}
		return name, true
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
			return "", false
		}
		// "UNIQUE constraint failed: posts.slug"
		msg := liteErr.Error()
		if i := strings.LastIndex(msg, "."); i >= 0 {
			return strings.TrimSpace(msg[i+1:]), true
		}
		return "", true
	}

	return "", false
}
