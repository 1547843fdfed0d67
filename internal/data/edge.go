package data

import (
	"context"
	"time"
)

// EdgeDevice is the spec's EdgeDevice entity: unique by serial_number,
// created by onboarding, never destroyed by the core.
type EdgeDevice struct {
	SerialNumber string
	Version      string
	RegisteredAt time.Time
}

type EdgeModel struct {
	Stmts *Statements
}

// RegisterEdge inserts an EdgeDevice. A duplicate serial_number yields
// ErrEdgeAlreadyRegistered rather than a raw driver error.
func (m EdgeModel) RegisterEdge(ctx context.Context, serialNumber, version string) error {
	var out string
	err := m.Stmts.Stmt(StmtRegisterEdge).QueryRowContext(ctx, serialNumber, version).Scan(&out)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEdgeAlreadyRegistered
		}
		return err
	}
	return nil
}
