package data

import (
	"context"
	"database/sql"
	"fmt"
)

// Stable prepared-statement names, authoritative per spec.md §6. The core
// never inlines SQL; every repository method below resolves one of these
// names through a *Statements handle.
const (
	StmtRegisterEdge       = "register_edge"
	StmtRegisterUser       = "register_user"
	StmtFindUserID         = "find_user_id"
	StmtFindUserNameEmail  = "find_user_name_email"
	StmtFindUserNameUserID = "find_user_name_userid"
	StmtFindEmail          = "find_email"
	StmtRegisterIOSDevice  = "register_ios_device"
	StmtFindIOSDeviceID    = "find_ios_device_id"
	StmtBindEdgeUser       = "bind_edge_user"
	StmtUnbindEdgeUser     = "unbind_edge_user"
	StmtFindUserPwdHash    = "find_user_pwdhash"
	StmtFindUserEdges      = "find_user_edges"
	StmtRegRefreToken      = "reg_refretoken"
	StmtChkRefreToken      = "chk_refretoken"
	StmtRevokeRefreToken   = "revoke_refretoken"
)

// statementText is package-private: the core addresses statements by
// name only (per spec.md §6, "the schema is private to the database
// owner"). Every other non-test file in this package goes through
// Statements.Stmt; the package's tests read it to build sqlmock expectations.
var statementText = map[string]string{
	StmtRegisterEdge: `
		INSERT INTO edge_devices (serial_number, version, registered_at)
		VALUES ($1, $2, NOW())
		RETURNING serial_number`,

	StmtRegisterUser: `
		INSERT INTO users (id, email, user_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,

	StmtFindUserID: `
		SELECT id, email, user_name FROM users WHERE id = $1`,

	StmtFindUserNameEmail: `
		SELECT user_name FROM users WHERE email = $1`,

	StmtFindUserNameUserID: `
		SELECT user_name FROM users WHERE id = $1`,

	StmtFindEmail: `
		SELECT id FROM users WHERE email = $1`,

	StmtRegisterIOSDevice: `
		INSERT INTO ios_devices (id, user_id, apns_token, device_name, last_seen_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET
			apns_token = EXCLUDED.apns_token,
			device_name = EXCLUDED.device_name,
			last_seen_at = NOW()
		RETURNING id`,

	StmtFindIOSDeviceID: `
		SELECT id, user_id, apns_token, device_name, last_seen_at FROM ios_devices WHERE id = $1`,

	StmtBindEdgeUser: `
		INSERT INTO edge_bindings (serial_number, user_id)
		VALUES ($1, $2)
		RETURNING serial_number`,

	StmtUnbindEdgeUser: `
		DELETE FROM edge_bindings WHERE serial_number = $1 AND user_id = $2`,

	StmtFindUserPwdHash: `
		SELECT id, user_name, password_hash FROM users WHERE email = $1`,

	StmtFindUserEdges: `
		SELECT serial_number FROM edge_bindings WHERE user_id = $1 ORDER BY serial_number`,

	StmtRegRefreToken: `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at, revoked)
		VALUES ($1, $2, $3, false)`,

	// The combined refresh-or-revoke statement: a refresh slides expires_at
	// by 30 days and returns user_id; a matching-but-expired unrevoked
	// record is revoked in the same statement instead. Exactly one of the
	// two CTEs can produce a row for a given token_hash, so the outer
	// SELECT surfaces "refreshed" only on success. Spec.md §9's Open
	// Question about atomicity is resolved by lib/pq: this is ordinary
	// database/sql QueryRowContext over a single statement, so Postgres
	// itself guarantees the CTEs execute against one MVCC snapshot.
	StmtChkRefreToken: `
		WITH refreshed AS (
			UPDATE refresh_tokens
			SET expires_at = NOW() + INTERVAL '30 days'
			WHERE token_hash = $1 AND revoked = false AND expires_at > NOW()
			RETURNING user_id
		), expired AS (
			UPDATE refresh_tokens
			SET revoked = true
			WHERE token_hash = $1 AND revoked = false AND expires_at <= NOW()
			RETURNING user_id
		)
		SELECT user_id FROM refreshed`,

	StmtRevokeRefreToken: `
		UPDATE refresh_tokens SET revoked = true WHERE token_hash = $1`,
}

// Statements holds every prepared statement, registered once at pool init
// (spec.md §9's redesign of "thread-local DB connections": an explicit
// pool owned by the service, statements keyed by stable name).
type Statements struct {
	stmts map[string]*sql.Stmt
}

func Prepare(ctx context.Context, db *sql.DB) (*Statements, error) {
	s := &Statements{stmts: make(map[string]*sql.Stmt, len(statementText))}
	for name, query := range statementText {
		stmt, err := db.PrepareContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("data: prepare %s: %w", name, err)
		}
		s.stmts[name] = stmt
	}
	return s, nil
}

// Stmt resolves a stable statement name to its prepared handle. It panics
// on an unknown name: every caller in this package uses one of the
// constants above, so a miss means a programming error, not bad input.
func (s *Statements) Stmt(name string) *sql.Stmt {
	stmt, ok := s.stmts[name]
	if !ok {
		panic("data: unknown prepared statement " + name)
	}
	return stmt
}

func (s *Statements) Close() error {
	var firstErr error
	for _, stmt := range s.stmts {
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
