package data

import (
	"context"
	"database/sql"
	"time"
)

// RefreshTTL is the sliding expiry window, duplicated here (rather than
// importing internal/tokens) to keep the repository layer free of a
// dependency on the token package; both sides agree on 30 days per
// spec.md §4.4.
const RefreshTTL = 30 * 24 * time.Hour

type RefreshTokenModel struct {
	Stmts *Statements
}

// Register persists a new refresh token record. tokenHash is the
// hex-encoded SHA-256 of the opaque token; only the hash is ever stored.
func (m RefreshTokenModel) Register(ctx context.Context, tokenHash, userID string) error {
	_, err := m.Stmts.Stmt(StmtRegRefreToken).ExecContext(ctx, tokenHash, userID, time.Now().UTC().Add(RefreshTTL))
	return err
}

// RefreshOrRevoke is the single atomic refresh-or-revoke operation from
// spec.md §4.4. On success it slides expires_at by 30 days and returns the
// bound user_id. If the token is missing, already revoked, or was expired
// (in which case it is revoked in the very same statement), it returns
// ErrRecordNotFound.
func (m RefreshTokenModel) RefreshOrRevoke(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := m.Stmts.Stmt(StmtChkRefreToken).QueryRowContext(ctx, tokenHash).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return userID, nil
}

// Revoke marks a refresh token revoked unconditionally. Idempotent: it
// succeeds even if the token never existed, matching /auth/out's contract.
func (m RefreshTokenModel) Revoke(ctx context.Context, tokenHash string) error {
	_, err := m.Stmts.Stmt(StmtRevokeRefreToken).ExecContext(ctx, tokenHash)
	return err
}
