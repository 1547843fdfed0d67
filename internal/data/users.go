package data

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// User is the spec's User entity. UserID is opaque and server-assigned;
// PasswordHash is the opaque Argon2id-encoded string from internal/authsvc.
type User struct {
	ID           string
	Email        string
	UserName     string
	PasswordHash string
}

type UserModel struct {
	Stmts *Statements
}

// RegisterUser inserts a new user with a fresh server-assigned id. A
// duplicate email yields ErrEmailAlreadyExists.
func (m UserModel) RegisterUser(ctx context.Context, email, userName, passwordHash string) (string, error) {
	id := uuid.New().String()
	var out string
	err := m.Stmts.Stmt(StmtRegisterUser).QueryRowContext(ctx, id, email, userName, passwordHash).Scan(&out)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrEmailAlreadyExists
		}
		return "", err
	}
	return out, nil
}

// FindUserByID returns id/email/user_name for an existing user.
func (m UserModel) FindUserByID(ctx context.Context, userID string) (*User, error) {
	var u User
	err := m.Stmts.Stmt(StmtFindUserID).QueryRowContext(ctx, userID).Scan(&u.ID, &u.Email, &u.UserName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindUserNameByEmail looks up only the display name for an email.
func (m UserModel) FindUserNameByEmail(ctx context.Context, email string) (string, error) {
	var name string
	err := m.Stmts.Stmt(StmtFindUserNameEmail).QueryRowContext(ctx, email).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return name, nil
}

// FindUserNameByUserID looks up only the display name for a user id.
func (m UserModel) FindUserNameByUserID(ctx context.Context, userID string) (string, error) {
	var name string
	err := m.Stmts.Stmt(StmtFindUserNameUserID).QueryRowContext(ctx, userID).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return name, nil
}

// EmailExists reports whether email is already registered.
func (m UserModel) EmailExists(ctx context.Context, email string) (bool, error) {
	var id string
	err := m.Stmts.Stmt(StmtFindEmail).QueryRowContext(ctx, email).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FindForSignin returns the fields /user/signin needs in one round trip:
// id, user_name, and the opaque password hash to verify against.
func (m UserModel) FindForSignin(ctx context.Context, email string) (*User, error) {
	u := &User{Email: email}
	err := m.Stmts.Stmt(StmtFindUserPwdHash).QueryRowContext(ctx, email).Scan(&u.ID, &u.UserName, &u.PasswordHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
