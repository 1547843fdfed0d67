package data

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestEdgeModel_RegisterEdge_Success(t *testing.T) {
	stmts, mock, closeDB := newMockStatements(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(statementText[StmtRegisterEdge])).
		WithArgs("RED-0A1B2C3D", "1.2.3").
		WillReturnRows(sqlmock.NewRows([]string{"serial_number"}).AddRow("RED-0A1B2C3D"))

	m := EdgeModel{Stmts: stmts}
	if err := m.RegisterEdge(context.Background(), "RED-0A1B2C3D", "1.2.3"); err != nil {
		t.Fatalf("RegisterEdge: %v", err)
	}
}

func TestEdgeModel_RegisterEdge_Duplicate(t *testing.T) {
	stmts, mock, closeDB := newMockStatements(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(statementText[StmtRegisterEdge])).
		WithArgs("RED-0A1B2C3D", "1.2.3").
		WillReturnError(&pq.Error{Code: "23505"})

	m := EdgeModel{Stmts: stmts}
	err := m.RegisterEdge(context.Background(), "RED-0A1B2C3D", "1.2.3")
	if err != ErrEdgeAlreadyRegistered {
		t.Fatalf("expected ErrEdgeAlreadyRegistered, got %v", err)
	}
}
