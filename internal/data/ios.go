package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// IOSDevice is the spec's IOSDevice entity, upserted keyed by
// ios_device_id.
type IOSDevice struct {
	ID         string
	UserID     string
	APNsToken  string
	DeviceName string
	LastSeenAt time.Time
}

type IOSDeviceModel struct {
	Stmts *Statements
}

// RegisterIOSDevice upserts an IOSDevice. If deviceID is empty, one is
// generated server-side per spec.md §3.
func (m IOSDeviceModel) RegisterIOSDevice(ctx context.Context, deviceID, userID, apnsToken, deviceName string) (string, error) {
	if deviceID == "" {
		deviceID = uuid.New().String()
	}
	var out string
	err := m.Stmts.Stmt(StmtRegisterIOSDevice).QueryRowContext(ctx, deviceID, userID, apnsToken, deviceName).Scan(&out)
	if err != nil {
		return "", err
	}
	return out, nil
}

func (m IOSDeviceModel) FindByID(ctx context.Context, deviceID string) (*IOSDevice, error) {
	var d IOSDevice
	err := m.Stmts.Stmt(StmtFindIOSDeviceID).QueryRowContext(ctx, deviceID).Scan(
		&d.ID, &d.UserID, &d.APNsToken, &d.DeviceName, &d.LastSeenAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrIOSDeviceNotFound
		}
		return nil, err
	}
	return &d, nil
}
