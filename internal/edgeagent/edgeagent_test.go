package edgeagent

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	edgev1 "github.com/red-safe/platform/gen/go/edge/v1"
	"github.com/red-safe/platform/internal/ipcstore"
)

type fakeNetworkClient struct {
	cfg *edgev1.NetworkConfig
	err error
}

func (f fakeNetworkClient) GetNetworkConfig(ctx context.Context, in *edgev1.GetNetworkConfigRequest, opts ...grpc.CallOption) (*edgev1.NetworkConfig, error) {
	return f.cfg, f.err
}

func (f fakeNetworkClient) UpdateNetworkConfig(ctx context.Context, in *edgev1.NetworkConfig, opts ...grpc.CallOption) (*edgev1.UpdateNetworkConfigResult, error) {
	return nil, nil
}

func TestParseCommand_CodeAsString(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"trace_id":"t1","code":"101"}`))
	require.NoError(t, err)
	assert.Equal(t, "t1", cmd.TraceID)
	assert.Equal(t, "101", cmd.Code)
}

func TestParseCommand_CodeAsNumber(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"trace_id":"t2","code":102}`))
	require.NoError(t, err)
	assert.Equal(t, "102", cmd.Code)
}

func TestParseCommand_Malformed(t *testing.T) {
	_, err := ParseCommand([]byte(`not json`))
	assert.Error(t, err)
}

func TestLookupHandler_KnownCodes(t *testing.T) {
	table := dispatchTable()
	assert.NotNil(t, lookupHandler(table, "100"))
	assert.NotNil(t, lookupHandler(table, "101"))
	assert.NotNil(t, lookupHandler(table, "102"))
}

func TestLookupHandler_FloatNormalized(t *testing.T) {
	table := dispatchTable()
	ctx := context.Background()
	a := &Agent{dispatch: table, watchdog: newWatchdog(fakeOnboarder{}, func() {})}
	_, status := lookupHandler(table, "100.0")(ctx, a, Command{Code: "100.0"})
	assert.Equal(t, statusOK, status)
}

func TestLookupHandler_Unsupported(t *testing.T) {
	table := dispatchTable()
	h := lookupHandler(table, "999")
	result, status := h(context.Background(), &Agent{}, Command{Code: "999"})
	assert.Equal(t, statusError, status)
	assert.Equal(t, map[string]any{"error_message": "unsupported command"}, result)
}

func TestHeartbeatAckHandler_ResetsWatchdog(t *testing.T) {
	a := &Agent{watchdog: newWatchdog(fakeOnboarder{}, func() {})}
	a.watchdog.reattempted = true
	result, status := HeartbeatAckHandler(context.Background(), a, Command{Code: "100"})
	assert.Equal(t, statusOK, status)
	assert.Equal(t, map[string]any{"message": "heartbeat_ack"}, result)
	assert.False(t, a.watchdog.reattempted)
}

type fakeOnboarder struct {
	onboard func(ctx context.Context) error
}

func (f fakeOnboarder) Onboard(ctx context.Context) error {
	if f.onboard != nil {
		return f.onboard(ctx)
	}
	return nil
}

func TestWatchdog_FirstExpiryReonboardsAndRearms(t *testing.T) {
	var onboarded int32
	var failed int32
	w := newWatchdog(fakeOnboarder{onboard: func(ctx context.Context) error {
		atomic.AddInt32(&onboarded, 1)
		return nil
	}}, func() { atomic.AddInt32(&failed, 1) })

	w.onExpire()

	assert.EqualValues(t, 1, atomic.LoadInt32(&onboarded))
	assert.EqualValues(t, 0, atomic.LoadInt32(&failed))
	assert.True(t, w.reattempted)
	w.stop()
}

func TestWatchdog_SecondConsecutiveExpiryTerminates(t *testing.T) {
	var onboarded int32
	var failed int32
	w := newWatchdog(fakeOnboarder{onboard: func(ctx context.Context) error {
		atomic.AddInt32(&onboarded, 1)
		return errors.New("still offline")
	}}, func() { atomic.AddInt32(&failed, 1) })

	w.onExpire()
	w.onExpire()

	assert.EqualValues(t, 1, atomic.LoadInt32(&onboarded), "second expiry should not re-onboard again")
	assert.EqualValues(t, 1, atomic.LoadInt32(&failed))
}

func TestWatchdog_ResetClearsReattemptedFlag(t *testing.T) {
	w := newWatchdog(fakeOnboarder{}, func() {})
	w.start()
	defer w.stop()
	w.reattempted = true
	w.reset()
	assert.False(t, w.reattempted)
}

func TestSetIPCInfoHandler_PersistsEntry(t *testing.T) {
	store, err := ipcstore.Open(filepath.Join(t.TempDir(), "ipc.db"))
	require.NoError(t, err)
	defer store.Close()

	a := &Agent{ipcStore: store}
	cmd, err := ParseCommand([]byte(`{"trace_id":"t1","code":"103","ip":"192.168.1.5","mac":"AA:BB:CC:DD:EE:FF","name":"cam"}`))
	require.NoError(t, err)

	result, status := SetIPCInfoHandler(context.Background(), a, cmd)
	assert.Equal(t, statusOK, status)
	assert.Equal(t, map[string]any{"ip": "192.168.1.5"}, result)
}

func TestSetIPCInfoHandler_MissingIPIsError(t *testing.T) {
	store, err := ipcstore.Open(filepath.Join(t.TempDir(), "ipc.db"))
	require.NoError(t, err)
	defer store.Close()

	a := &Agent{ipcStore: store}
	cmd, err := ParseCommand([]byte(`{"trace_id":"t1","code":"103"}`))
	require.NoError(t, err)

	_, status := SetIPCInfoHandler(context.Background(), a, cmd)
	assert.Equal(t, statusError, status)
}

func TestDelIPCInfoHandler_RemovesEntry(t *testing.T) {
	store, err := ipcstore.Open(filepath.Join(t.TempDir(), "ipc.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Set(context.Background(), ipcstore.Info{IP: "192.168.1.5", MAC: "AA", Name: "cam"}))

	a := &Agent{ipcStore: store}
	cmd, err := ParseCommand([]byte(`{"trace_id":"t1","code":"104","ip":"192.168.1.5"}`))
	require.NoError(t, err)

	result, status := DelIPCInfoHandler(context.Background(), a, cmd)
	assert.Equal(t, statusOK, status)
	assert.Equal(t, map[string]any{"ip": "192.168.1.5"}, result)
}

func TestDispatchTable_IncludesIPCInfoCodes(t *testing.T) {
	table := dispatchTable()
	assert.NotNil(t, table["103"])
	assert.NotNil(t, table["104"])
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearEdgeEnv(t)
	cfg := ConfigFromEnv()
	assert.Equal(t, defaultMQTTPort, cfg.MQTTPort)
	assert.Equal(t, defaultGRPCPort, cfg.GRPCPort)
	assert.Equal(t, time.Duration(defaultHeartbeatMS)*time.Millisecond, cfg.HeartbeatInterval)
	assert.Equal(t, time.Duration(defaultScanTimeoutMS)*time.Millisecond, cfg.ScanTimeout)
}

func TestConfigFromEnv_InvalidIntFallsBackToDefault(t *testing.T) {
	clearEdgeEnv(t)
	t.Setenv("RED_SAFE_HEARTBEAT_MS", "not-a-number")
	cfg := ConfigFromEnv()
	assert.Equal(t, time.Duration(defaultHeartbeatMS)*time.Millisecond, cfg.HeartbeatInterval)
}

func TestConfigFromEnv_ClampsBelowMinimum(t *testing.T) {
	clearEdgeEnv(t)
	t.Setenv("RED_SAFE_HEARTBEAT_MS", "10")
	cfg := ConfigFromEnv()
	assert.Equal(t, time.Duration(minHeartbeatMS)*time.Millisecond, cfg.HeartbeatInterval)
}

func TestConfigFromEnv_ValidValuesPassThrough(t *testing.T) {
	clearEdgeEnv(t)
	t.Setenv("RED_SAFE_EDGE_ID", "edge-42")
	t.Setenv("RED_SAFE_MQTT_PORT", "1883")
	cfg := ConfigFromEnv()
	assert.Equal(t, "edge-42", cfg.EdgeID)
	assert.Equal(t, 1883, cfg.MQTTPort)
}

func TestBuildHeartbeatPayload_Shape(t *testing.T) {
	a := &Agent{
		cfg: Config{
			EdgeID:           "edge-1",
			EdgeVersion:      "1.2.3",
			NetworkInterface: "eth0",
		},
		networkClient: fakeNetworkClient{cfg: &edgev1.NetworkConfig{IP: "192.168.1.7"}},
	}

	payload := a.buildHeartbeatPayload(context.Background())

	assert.Equal(t, "edge-1", payload.EdgeID)
	assert.Equal(t, "1.2.3", payload.Version)
	assert.Equal(t, "online", payload.Status)
	assert.EqualValues(t, 0, payload.Sequence)
	assert.Equal(t, "192.168.1.7", payload.IP)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}\+08:00$`, payload.HeartbeatAt)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"edge_id", "version", "heartbeat_at", "status", "sequence", "ip"} {
		_, ok := decoded[key]
		assert.True(t, ok, "missing key %q", key)
	}
}

func TestBuildHeartbeatPayload_SequenceIncrements(t *testing.T) {
	a := &Agent{
		cfg:           Config{EdgeID: "edge-1"},
		networkClient: fakeNetworkClient{cfg: &edgev1.NetworkConfig{IP: "10.0.0.1"}},
	}

	first := a.buildHeartbeatPayload(context.Background())
	second := a.buildHeartbeatPayload(context.Background())
	assert.EqualValues(t, 0, first.Sequence)
	assert.EqualValues(t, 1, second.Sequence)
}

func TestBestKnownIP_CachesWithinRefreshWindow(t *testing.T) {
	calls := 0
	client := &countingNetworkClient{cfg: &edgev1.NetworkConfig{IP: "10.0.0.5"}, calls: &calls}
	a := &Agent{cfg: Config{NetworkInterface: "eth0"}, networkClient: client}

	ip1 := a.bestKnownIP(context.Background())
	ip2 := a.bestKnownIP(context.Background())
	assert.Equal(t, "10.0.0.5", ip1)
	assert.Equal(t, "10.0.0.5", ip2)
	assert.Equal(t, 1, calls, "second call within the refresh window should be served from cache")
}

type countingNetworkClient struct {
	cfg   *edgev1.NetworkConfig
	calls *int
}

func (c *countingNetworkClient) GetNetworkConfig(ctx context.Context, in *edgev1.GetNetworkConfigRequest, opts ...grpc.CallOption) (*edgev1.NetworkConfig, error) {
	*c.calls++
	return c.cfg, nil
}

func (c *countingNetworkClient) UpdateNetworkConfig(ctx context.Context, in *edgev1.NetworkConfig, opts ...grpc.CallOption) (*edgev1.UpdateNetworkConfigResult, error) {
	return nil, nil
}

func clearEdgeEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"RED_SAFE_EDGE_ID", "RED_SAFE_EDGE_VERSION", "RED_SAFE_EDGE_IP",
		"RED_SAFE_NETWORK_INTERFACE", "RED_SAFE_IPTOOL_TARGET", "RED_SAFE_SERVER_URL",
		"RED_SAFE_MQTT_BROKER", "RED_SAFE_MQTT_PORT", "RED_SAFE_MQTT_USERNAME",
		"RED_SAFE_MQTT_PASSWORD", "RED_SAFE_GRPC_PORT", "RED_SAFE_HEARTBEAT_MS",
		"RED_SAFE_IPCSCAN_TIMEOUT_MS",
	} {
		val, present := os.LookupEnv(name)
		os.Unsetenv(name)
		if present {
			t.Cleanup(func(n, v string) func() {
				return func() { os.Setenv(n, v) }
			}(name, val))
		}
	}
}
