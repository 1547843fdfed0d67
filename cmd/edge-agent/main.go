// Command edge-agent is the process that runs on an IP-camera gateway: it
// exposes the local C3 gRPC façade, connects the C2 MQTT command plane to
// the fleet broker, and re-onboards itself against the fleet server when
// the watchdog trips.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	edgev1 "github.com/red-safe/platform/gen/go/edge/v1"
	"github.com/red-safe/platform/internal/discovery"
	"github.com/red-safe/platform/internal/edgeagent"
	"github.com/red-safe/platform/internal/edgegrpc"
	"github.com/red-safe/platform/internal/ipcstore"
)

func main() {
	cfg := edgeagent.ConfigFromEnv()
	if cfg.EdgeID == "" {
		log.Fatal("edge-agent: RED_SAFE_EDGE_ID is required")
	}

	scanner := discovery.NewScanner(nil)

	grpcServer := edgegrpc.NewServer(scanner)
	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	if err := grpcServer.Start(grpcAddr); err != nil {
		log.Fatalf("edge-agent: start local gRPC façade: %v", err)
	}
	log.Printf("edge-agent: local gRPC façade listening on %s", grpcAddr)

	// Dial the façade we just started, over loopback, to give the MQTT
	// dispatcher the same NetworkServiceClient a remote peer would use —
	// spec.md §4.3's façade has exactly one implementation either way.
	conn, err := grpc.NewClient(fmt.Sprintf("127.0.0.1:%d", cfg.GRPCPort), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("edge-agent: dial local gRPC façade: %v", err)
	}
	defer conn.Close()
	networkClient := edgev1.NewNetworkServiceClient(conn)

	ipcStorePath := os.Getenv("RED_SAFE_IPCSTORE_PATH")
	if ipcStorePath == "" {
		ipcStorePath = "red-safe-ipc.db"
	}
	ipcStore, err := ipcstore.Open(ipcStorePath)
	if err != nil {
		log.Fatalf("edge-agent: open ipc store: %v", err)
	}
	defer ipcStore.Close()

	onboarder := &httpOnboarder{serverURL: cfg.ServerURL, edgeID: cfg.EdgeID, version: cfg.EdgeVersion}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	agent := edgeagent.NewAgent(cfg, scanner, networkClient, ipcStore, onboarder, func() {
		log.Printf("edge-agent: watchdog requested termination")
		cancel()
	})

	if err := onboarder.Onboard(ctx); err != nil {
		log.Printf("edge-agent: initial onboarding failed, continuing: %v", err)
	}

	errc := make(chan error, 1)
	go func() { errc <- agent.Start(ctx) }()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigc:
		log.Printf("edge-agent: shutdown signal received")
		cancel()
		<-errc
	case err := <-errc:
		if err != nil {
			log.Printf("edge-agent: agent stopped: %v", err)
		}
	case <-ctx.Done():
		<-errc
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	grpcServer.Shutdown(shutdownCtx)
	if err := grpcServer.Wait(); err != nil {
		log.Printf("edge-agent: gRPC façade stopped with error: %v", err)
	}
}

// httpOnboarder implements edgeagent.Onboarder by re-posting to C5's
// /edge/signup, the same call the edge made at first boot. A second signup
// for an already-registered serial number still replies 409/301, which this
// treats as success: the edge is already known to the fleet.
type httpOnboarder struct {
	serverURL string
	edgeID    string
	version   string
}

func (o *httpOnboarder) Onboard(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"serial_number": o.edgeID,
		"version":       o.version,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.serverURL+"/edge/signup", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusConflict {
		return nil
	}
	return fmt.Errorf("edge-agent: signup returned %s", resp.Status)
}
