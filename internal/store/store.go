package store // import "github.com/ihsan-khan/library-management-system/internal/store"

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ihsan-khan/library-management-system/internal/log"
	"github.com/ihsan-khan/library-management-system/internal/util"
)

var (
	// ErrConflict is returned when a write hits a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
	// ErrNotFound is returned by writes that target a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrNoCopiesAvailable is returned when every copy of a book is on loan.
	ErrNoCopiesAvailable = errors.New("no copies available")
	// ErrLoanReturned is returned when returning a loan twice.
	ErrLoanReturned = errors.New("loan already returned")
)

func init() {
	goqu.SetDefaultPrepared(true)
}

type Store struct {
	db     *sql.DB
	dbLock sync.Mutex // dbLock serializes write transactions
	goqu   *goqu.Database
}

func NewStore(db *sql.DB) *Store {
	gdb := goqu.New("sqlite3", db)
	gdb.Logger(sqlLogger{})
	return &Store{
		db:   db,
		goqu: gdb,
	}
}

func (s *Store) DBStats() sql.DBStats {
	return s.db.Stats()
}

func (s *Store) Ping() error {
	return s.db.Ping()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// sqlLogger sends the statements goqu runs to the debug log.
type sqlLogger struct{}

func (sqlLogger) Printf(format string, v ...any) {
	log.Debug("SQL query and args:", zap.String("statement", fmt.Sprintf(format, v...)))
}

// isUniqueViolation reports whether err was raised by a UNIQUE or PRIMARY KEY constraint.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// wrapWriteErr maps uniqueness violations to ErrConflict and wraps anything else.
func wrapWriteErr(err error, msg string) error {
	if isUniqueViolation(err) {
		return errors.Wrap(ErrConflict, msg)
	}
	return errors.Wrap(err, msg)
}

// casefoldContains matches rows where col contains needle, ignoring case.
// needle must already be lower case.
func casefoldContains(col string, needle string) goqu.Expression {
	return goqu.Func("INSTR", goqu.Func(util.CaseFoldFunctionName, goqu.I(col)), needle).Gt(0)
}
