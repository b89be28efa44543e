package storage

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrDuplicatePage is returned by InsertPage when a page with the same
// (site, path) already exists. Callers treat this as a benign race: the
// page was created by a concurrent task or an earlier run, and there is
// nothing left to do.
var ErrDuplicatePage = errors.New("page already exists for this site and path")

// IsContention reports whether err is a write-write contention signal
// from SQLite (SQLITE_BUSY or SQLITE_LOCKED). Such errors are transient:
// two crawl workers raced to update the same rows, and retrying after a
// short randomized backoff is the expected recovery.
//
// Design decision: We classify by message text rather than unwrapping
// driver-specific error types so that callers stay independent of the
// modernc.org/sqlite error surface.
func IsContention(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED")
}

// IsUnavailable reports whether err indicates the storage backend itself
// is unreachable (missing or corrupt database file, dead connection).
// Unlike contention this is not recoverable by retrying a single write:
// the whole site-run must abort and be marked failed.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to open database") ||
		strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "database is closed")
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
