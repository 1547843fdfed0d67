package data

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMockStatements prepares a *Statements against a sqlmock DB, expecting
// one Prepare per entry in statementText (order-independent, since map
// iteration order isn't stable).
func newMockStatements(t *testing.T) (*Statements, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for _, query := range statementText {
		mock.ExpectPrepare(regexp.QuoteMeta(query))
	}

	stmts, err := Prepare(context.Background(), db)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return stmts, mock, func() { db.Close() }
}
