package ipcstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipc.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, Info{IP: "192.168.1.10", MAC: "AA:BB:CC:DD:EE:FF", Name: "cam1"}))

	var name string
	row := store.db.QueryRowContext(ctx, `SELECT name FROM ipc_info WHERE ip = ?`, "192.168.1.10")
	require.NoError(t, row.Scan(&name))
	assert.Equal(t, "cam1", name)

	require.NoError(t, store.Delete(ctx, "192.168.1.10"))
	row = store.db.QueryRowContext(ctx, `SELECT name FROM ipc_info WHERE ip = ?`, "192.168.1.10")
	assert.Error(t, row.Scan(&name))
}

func TestSetUpsertsOnConflict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipc.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, Info{IP: "10.0.0.5", MAC: "11:22:33:44:55:66", Name: "old"}))
	require.NoError(t, store.Set(ctx, Info{IP: "10.0.0.5", MAC: "11:22:33:44:55:66", Name: "new"}))

	var name string
	row := store.db.QueryRowContext(ctx, `SELECT name FROM ipc_info WHERE ip = ?`, "10.0.0.5")
	require.NoError(t, row.Scan(&name))
	assert.Equal(t, "new", name)
}

func TestDeleteMissingIsNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipc.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Delete(context.Background(), "10.0.0.99"))
}
