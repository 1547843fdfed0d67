package edgeagent

import (
	"context"
	"log"
	"sync"
	"time"
)

const watchdogTimeout = 60 * time.Second

// Onboarder re-runs the HTTPS "edge online" handshake (C5's /edge/signup
// or equivalent) with the edge's current id and version. It is the
// watchdog's only recovery action.
type Onboarder interface {
	Onboard(ctx context.Context) error
}

// watchdog implements spec.md §4.2's command-silence watchdog: a single
// 60s timer re-armed on every heartbeat-ack (code 100). On the first
// expiry since the last ack it re-runs onboarding and re-arms; on a
// second consecutive expiry with still no ack, it terminates the process
// — matching spec.md §8 scenario 6 ("issues an /edge/signup POST exactly
// once and, if the broker also stays silent 60s after the subsequent
// ack, terminates").
type watchdog struct {
	mu         sync.Mutex
	timer      *time.Timer
	onboarder  Onboarder
	fail       func()
	reattempted bool
}

func newWatchdog(onboarder Onboarder, fail func()) *watchdog {
	return &watchdog{onboarder: onboarder, fail: fail}
}

// start arms the timer for the first time. Call once after the MQTT
// session is established.
func (w *watchdog) start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timer = time.AfterFunc(watchdogTimeout, w.onExpire)
}

// reset re-arms the timer on a received heartbeat-ack, clearing the
// re-onboard attempt flag: a successful ack means the silence streak is
// over.
func (w *watchdog) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reattempted = false
	if w.timer != nil {
		w.timer.Reset(watchdogTimeout)
	}
}

// stop cancels the timer; called on shutdown so it never fires after the
// agent has already torn down its connection.
func (w *watchdog) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *watchdog) onExpire() {
	w.mu.Lock()
	if w.reattempted {
		w.mu.Unlock()
		log.Printf("edgeagent: watchdog silent for a second 60s period after re-onboarding, terminating")
		w.fail()
		return
	}
	w.reattempted = true
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.onboarder.Onboard(ctx); err != nil {
		log.Printf("edgeagent: watchdog re-onboard failed: %v", err)
	} else {
		log.Printf("edgeagent: watchdog tripped, re-onboarded")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Reset(watchdogTimeout)
	}
}
