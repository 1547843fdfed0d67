package data

import "context"

// EdgeBinding is the spec's EdgeBinding entity: an unordered, unique pair
// (serial_number, user_id).
type EdgeBinding struct {
	SerialNumber string
	UserID       string
}

type BindingModel struct {
	Stmts *Statements
}

// Bind creates a binding. A duplicate pair yields ErrBindingAlreadyExists.
func (m BindingModel) Bind(ctx context.Context, serialNumber, userID string) error {
	var out string
	err := m.Stmts.Stmt(StmtBindEdgeUser).QueryRowContext(ctx, serialNumber, userID).Scan(&out)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrBindingAlreadyExists
		}
		return err
	}
	return nil
}

// Unbind destroys a binding. It is not an error if the binding did not
// exist; the caller can inspect RowsAffected via the returned bool if it
// needs to distinguish.
func (m BindingModel) Unbind(ctx context.Context, serialNumber, userID string) (bool, error) {
	res, err := m.Stmts.Stmt(StmtUnbindEdgeUser).ExecContext(ctx, serialNumber, userID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// FindUserEdges returns the serial numbers bound to userID, in the order
// the database yields them (ORDER BY serial_number, per statements.go).
func (m BindingModel) FindUserEdges(ctx context.Context, userID string) ([]string, error) {
	rows, err := m.Stmts.Stmt(StmtFindUserEdges).QueryContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var serials []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		serials = append(serials, s)
	}
	return serials, rows.Err()
}
