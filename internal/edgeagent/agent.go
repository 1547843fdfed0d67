package edgeagent

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	edgev1 "github.com/red-safe/platform/gen/go/edge/v1"
	"github.com/red-safe/platform/internal/discovery"
	"github.com/red-safe/platform/internal/ipcstore"
)

// maxConcurrentCommands bounds the worker pool blocking work (scan,
// gRPC round-trip) is offloaded to, per spec.md §9's "coroutine
// dispatcher" redesign: one event loop for I/O, a bounded pool for
// anything that blocks.
const maxConcurrentCommands = 4

// Agent is the C2 MQTT command plane: one autopaho connection, a
// heartbeat publisher, and the inbound command dispatcher. It owns no
// goroutines until Start is called.
type Agent struct {
	cfg           Config
	scanner       *discovery.Scanner
	networkClient edgev1.NetworkServiceClient
	ipcStore      *ipcstore.Store
	onboarder     Onboarder
	terminate     func()

	dispatch     map[string]Handler
	watchdog     *watchdog
	heartbeatSeq uint64
	workers      chan struct{}

	mu sync.Mutex
	cm *autopaho.ConnectionManager

	ipMu        sync.Mutex
	cachedIP    string
	ipFetchedAt time.Time
}

// NewAgent wires an Agent. terminate is invoked by the watchdog on a
// second consecutive silent period after its one re-onboard attempt;
// cmd/edge-agent wires it to process exit.
func NewAgent(cfg Config, scanner *discovery.Scanner, networkClient edgev1.NetworkServiceClient, ipcStore *ipcstore.Store, onboarder Onboarder, terminate func()) *Agent {
	a := &Agent{
		cfg:           cfg,
		scanner:       scanner,
		networkClient: networkClient,
		ipcStore:      ipcStore,
		onboarder:     onboarder,
		terminate:     terminate,
		dispatch:      dispatchTable(),
		workers:       make(chan struct{}, maxConcurrentCommands),
	}
	a.watchdog = newWatchdog(onboarder, a.onWatchdogFail)
	return a
}

func (a *Agent) onWatchdogFail() {
	log.Printf("edgeagent: terminating after a second silent watchdog period")
	if a.terminate != nil {
		a.terminate()
	}
}

func (a *Agent) cmdTopic() string    { return a.cfg.EdgeID + "/cmd" }
func (a *Agent) dataTopic() string   { return a.cfg.EdgeID + "/data" }
func (a *Agent) statusTopic() string { return a.cfg.EdgeID + "/status" }

// Start connects to the MQTT broker over MQTT-on-TLS (tls://, not
// WebSocket) and blocks until ctx is cancelled. Reconnection (session
// expiry -> resubscribe in OnConnectionUp; transport error -> reconnect)
// is left to autopaho's ConnectionManager with its default retry delay;
// no backoff policy is configured here, so reconnect delays do not follow
// a 1s-30s doubling schedule.
func (a *Agent) Start(ctx context.Context) error {
	brokerURL, err := url.Parse(fmt.Sprintf("tls://%s:%d", a.cfg.MQTTBroker, a.cfg.MQTTPort))
	if err != nil {
		return fmt.Errorf("edgeagent: parse broker url: %w", err)
	}

	pahoCfg := autopaho.ClientConfig{
		ServerUrls:       []*url.URL{brokerURL},
		KeepAlive:        30,
		ConnectUsername:  a.cfg.MQTTUsername,
		ConnectPassword:  []byte(a.cfg.MQTTPassword),
		TlsCfg:           &tls.Config{MinVersion: tls.VersionTLS12},
		OnConnectionUp: func(cm *autopaho.ConnectionManager, _ *paho.Connack) {
			log.Printf("edgeagent: connected to %s", a.cfg.MQTTBroker)
			subCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := cm.Subscribe(subCtx, &paho.Subscribe{
				Subscriptions: []paho.SubscribeOptions{{Topic: a.cmdTopic(), QoS: 1, RetainAsPublished: true}},
			}); err != nil {
				log.Printf("edgeagent: subscribe %s: %v", a.cmdTopic(), err)
				return
			}
			a.watchdog.start()
		},
		OnConnectError: func(err error) {
			log.Printf("edgeagent: connect error: %v", err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: "Client-" + a.cfg.EdgeID,
		},
	}

	cm, err := autopaho.NewConnection(ctx, pahoCfg)
	if err != nil {
		return fmt.Errorf("edgeagent: connect: %w", err)
	}
	cm.AddOnPublishReceived(a.onPublishReceived)
	a.mu.Lock()
	a.cm = cm
	a.mu.Unlock()

	connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := cm.AwaitConnection(connCtx); err != nil {
		log.Printf("edgeagent: initial connection timed out, continuing in background: %v", err)
	}

	a.heartbeatLoop(ctx)

	a.watchdog.stop()
	return cm.Disconnect(context.Background())
}

func (a *Agent) onPublishReceived(pr autopaho.PublishReceived) (bool, error) {
	if pr.Packet.Topic != a.cmdTopic() {
		return false, nil
	}
	payload := append([]byte(nil), pr.Packet.Payload...)

	select {
	case a.workers <- struct{}{}:
	default:
		// pool saturated; run inline rather than drop the command.
		a.handleCommandPayload(payload)
		return true, nil
	}
	go func() {
		defer func() { <-a.workers }()
		a.handleCommandPayload(payload)
	}()
	return true, nil
}

func (a *Agent) handleCommandPayload(payload []byte) {
	cmd, err := ParseCommand(payload)
	if err != nil {
		log.Printf("edgeagent: malformed command payload: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	handler := lookupHandler(a.dispatch, cmd.Code)
	result, status := handler(ctx, a, cmd)

	reply := Reply{TraceID: cmd.TraceID, Code: cmd.Code, Status: status, Result: result}
	data, err := json.Marshal(reply)
	if err != nil {
		log.Printf("edgeagent: marshal reply: %v", err)
		return
	}
	if err := a.publish(ctx, a.dataTopic(), data); err != nil {
		log.Printf("edgeagent: publish reply: %v", err)
	}
}

func (a *Agent) publish(ctx context.Context, topic string, payload []byte) error {
	a.mu.Lock()
	cm := a.cm
	a.mu.Unlock()
	if cm == nil {
		return fmt.Errorf("edgeagent: not connected")
	}
	_, err := cm.Publish(ctx, &paho.Publish{Topic: topic, Payload: payload, QoS: 1})
	return err
}

// heartbeatSequenceForTest exposes the current sequence counter to tests
// without requiring a live MQTT connection.
func (a *Agent) heartbeatSequenceForTest() uint64 {
	return atomic.LoadUint64(&a.heartbeatSeq)
}
