package data

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestUserModel_RegisterUser_Success(t *testing.T) {
	stmts, mock, closeDB := newMockStatements(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(statementText[StmtRegisterUser])).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))

	m := UserModel{Stmts: stmts}
	id, err := m.RegisterUser(context.Background(), "a@b.co", "alice", "$argon2id$...")
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if id != "user-1" {
		t.Errorf("expected user-1, got %s", id)
	}
}

func TestUserModel_RegisterUser_DuplicateEmail(t *testing.T) {
	stmts, mock, closeDB := newMockStatements(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(statementText[StmtRegisterUser])).
		WillReturnError(&pq.Error{Code: "23505"})

	m := UserModel{Stmts: stmts}
	_, err := m.RegisterUser(context.Background(), "a@b.co", "alice", "hash")
	if err != ErrEmailAlreadyExists {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestUserModel_FindForSignin_NotFound(t *testing.T) {
	stmts, mock, closeDB := newMockStatements(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(statementText[StmtFindUserPwdHash])).
		WillReturnError(sql.ErrNoRows)

	m := UserModel{Stmts: stmts}
	_, err := m.FindForSignin(context.Background(), "nobody@b.co")
	if err != ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserModel_EmailExists(t *testing.T) {
	stmts, mock, closeDB := newMockStatements(t)
	defer closeDB()

	mock.ExpectQuery(regexp.QuoteMeta(statementText[StmtFindEmail])).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))

	m := UserModel{Stmts: stmts}
	exists, err := m.EmailExists(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Error("expected exists=true")
	}
}
