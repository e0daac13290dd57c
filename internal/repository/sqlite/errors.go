package sqlite

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	uniqueFailedPrefix = "UNIQUE constraint failed: "
	foreignKeyFailed   = "FOREIGN KEY constraint failed"
)

// uniqueViolation reports whether err is a UNIQUE/PRIMARY KEY violation and,
// if so, the offending column list as sqlite prints it (e.g. "users.email").
func uniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()

	var se *sqlite.Error
	if errors.As(err, &se) {
		if se.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
			return "", false
		}
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		default:
			if !strings.Contains(msg, uniqueFailedPrefix) {
				return "", false
			}
		}
	} else if !strings.Contains(msg, uniqueFailedPrefix) {
		return "", false
	}

	i := strings.Index(msg, uniqueFailedPrefix)
	if i < 0 {
		return "", true
	}
	cols := msg[i+len(uniqueFailedPrefix):]
	if j := strings.Index(cols, " ("); j >= 0 {
		cols = cols[:j]
	}
	return strings.TrimSpace(cols), true
}

// foreignKeyViolation reports whether err is a FOREIGN KEY violation. sqlite
// does not say which key failed.
func foreignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), foreignKeyFailed)
}
