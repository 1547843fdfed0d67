// Package fleetmqtt is the fleet server's side of the C2 command plane: it
// doesn't issue commands itself (an operator action does, out of scope for
// this repo), but it listens to every edge's reply topic so
// internal/netsnapshot can serve §10's live network-config snapshot
// endpoint without a synchronous round-trip through MQTT on every request.
package fleetmqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
)

// dataTopicFilter subscribes to every edge's /data topic in one go; the
// edge_id is recovered from the topic's first segment on each message.
const dataTopicFilter = "+/data"

// reply mirrors internal/edgeagent.Reply's wire shape. It is redeclared
// here rather than imported so this package depends only on the wire
// contract, not on the edge agent's internal types.
type reply struct {
	TraceID string          `json:"trace_id"`
	Code    string          `json:"code"`
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result"`
}

// networkConfigCode is the command code whose replies this subscriber
// cares about; every other code's reply is ignored.
const networkConfigCode = "102"

// Snapshots is the write side internal/netsnapshot.Store provides.
type Snapshots interface {
	Put(ctx context.Context, serial string, result json.RawMessage) error
}

// Subscriber maintains one MQTT connection and feeds every edge's
// GetNetworkConfig reply into a Snapshots store.
type Subscriber struct {
	snapshots Snapshots
}

func NewSubscriber(snapshots Snapshots) *Subscriber {
	return &Subscriber{snapshots: snapshots}
}

// Start connects to the broker and blocks until ctx is cancelled,
// reconnecting exactly as internal/edgeagent.Agent does — autopaho owns
// the reconnection/backoff policy in both directions.
func (s *Subscriber) Start(ctx context.Context, brokerHost string, brokerPort int, username, password string) error {
	brokerURL, err := url.Parse(fmt.Sprintf("tls://%s:%d", brokerHost, brokerPort))
	if err != nil {
		return fmt.Errorf("fleetmqtt: parse broker url: %w", err)
	}

	cfg := autopaho.ClientConfig{
		ServerUrls:      []*url.URL{brokerURL},
		KeepAlive:       30,
		ConnectUsername: username,
		ConnectPassword: []byte(password),
		OnConnectionUp: func(cm *autopaho.ConnectionManager, _ *paho.Connack) {
			log.Printf("fleetmqtt: connected to %s", brokerHost)
			subCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := cm.Subscribe(subCtx, &paho.Subscribe{
				Subscriptions: []paho.SubscribeOptions{{Topic: dataTopicFilter, QoS: 1}},
			}); err != nil {
				log.Printf("fleetmqtt: subscribe %s: %v", dataTopicFilter, err)
			}
		},
		OnConnectError: func(err error) {
			log.Printf("fleetmqtt: connect error: %v", err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: "fleet-server",
		},
	}

	cm, err := autopaho.NewConnection(ctx, cfg)
	if err != nil {
		return fmt.Errorf("fleetmqtt: connect: %w", err)
	}
	cm.AddOnPublishReceived(s.onPublishReceived)

	<-ctx.Done()
	return cm.Disconnect(context.Background())
}

func (s *Subscriber) onPublishReceived(pr autopaho.PublishReceived) (bool, error) {
	edgeID, ok := edgeIDFromDataTopic(pr.Packet.Topic)
	if !ok {
		return false, nil
	}

	var r reply
	if err := json.Unmarshal(pr.Packet.Payload, &r); err != nil {
		return false, nil
	}
	if r.Code != networkConfigCode || r.Status != "ok" || len(r.Result) == 0 {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.snapshots.Put(ctx, edgeID, r.Result); err != nil {
		log.Printf("fleetmqtt: store snapshot for %s: %v", edgeID, err)
	}
	return true, nil
}

func edgeIDFromDataTopic(topic string) (string, bool) {
	edgeID, suffix, found := strings.Cut(topic, "/data")
	if !found || suffix != "" || edgeID == "" {
		return "", false
	}
	return edgeID, true
}
