// Command server is the fleet server process: C4's token subsystem, C5's
// HTTP request pipeline, the login-lockout and network-snapshot
// supplemented features, and the server-side half of the C2 MQTT command
// plane all run in this one binary against one Postgres pool and one
// Redis client, the way the teacher runs its whole control plane as a
// single Windows-service-capable process.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/red-safe/platform/internal/data"
	"github.com/red-safe/platform/internal/fleetmqtt"
	"github.com/red-safe/platform/internal/httpapi"
	"github.com/red-safe/platform/internal/netsnapshot"
	"github.com/red-safe/platform/internal/platform/paths"
	"github.com/red-safe/platform/internal/platform/windows"

	rscrypto "github.com/red-safe/platform/internal/crypto"
	"github.com/red-safe/platform/internal/tokens"

	_ "github.com/lib/pq"
)

const (
	serviceName  = "RED-Safe-Fleet-Server"
	eventIDStart = 100
	eventIDStop  = 101
	eventIDError = 102
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	isService := windows.IsWindowsService()
	elog := windows.NewEventLogger(serviceName)
	defer elog.Close()

	if isService {
		elog.Info(eventIDStart, "Starting as Windows Service")
	}

	stopChan := make(chan struct{})
	if isService {
		go func() {
			if err := windows.RunAsService(serviceName, stopChan); err != nil {
				elog.Error(eventIDError, fmt.Sprintf("service run error: %v", err))
				os.Exit(1)
			}
		}()
	}

	if err := paths.EnsureDirs(); err != nil {
		elog.Error(eventIDError, fmt.Sprintf("platform init error: %v", err))
		log.Fatalf("platform init error: %v", err)
	}

	serverLogFile, err := openLogFile("server.log")
	if err != nil {
		log.Fatalf("open server.log: %v", err)
	}
	defer serverLogFile.Close()
	accessLogFile, err := openLogFile("access.log")
	if err != nil {
		log.Fatalf("open access.log: %v", err)
	}
	defer accessLogFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connStr := postgresConnString()
	db, err := data.Open(ctx, connStr)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer db.Close()

	stmts, err := data.Prepare(ctx, db)
	if err != nil {
		log.Fatalf("prepare statements: %v", err)
	}

	secretPath := os.Getenv("RED_SAFE_SECRET_PATH")
	if secretPath == "" {
		secretPath = filepath.Join(paths.ResolveDataRoot(), "secrets", "token-keys.txt")
	}
	secrets, err := rscrypto.NewSecretStore(secretPath)
	if err != nil {
		log.Fatalf("open secret store: %v", err)
	}
	tokenMgr := tokens.NewManager(secrets)

	redisAddr := os.Getenv("RED_SAFE_REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	lockout := httpapi.NewLockout(rdb)
	snapshots := netsnapshot.NewStore(rdb)

	deps := httpapi.Deps{
		Users:            data.UserModel{Stmts: stmts},
		Edges:            data.EdgeModel{Stmts: stmts},
		Bindings:         data.BindingModel{Stmts: stmts},
		IOSDevices:       data.IOSDeviceModel{Stmts: stmts},
		RefreshTokens:    data.RefreshTokenModel{Stmts: stmts},
		Access:           tokenMgr,
		Lockout:          lockout,
		NetworkSnapshots: snapshots,
	}

	srv := httpapi.NewServer(deps, serverLogFile, accessLogFile)

	// The server-side half of C2: subscribe to every edge's /data topic so
	// NetworkSnapshots.Put is fed without a synchronous MQTT round trip per
	// GET /edge/{serial}/network request.
	subscriber := fleetmqtt.NewSubscriber(snapshots)
	mqttErrc := make(chan error, 1)
	go func() {
		mqttErrc <- subscriber.Start(ctx, mqttBrokerHost(), mqttBrokerPort(), os.Getenv("RED_SAFE_MQTT_USERNAME"), os.Getenv("RED_SAFE_MQTT_PASSWORD"))
	}()

	port := os.Getenv("RED_SAFE_HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: srv,
	}

	go func() {
		log.Printf("server: listening on :%s", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			elog.Error(eventIDError, fmt.Sprintf("http server error: %v", err))
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	if isService {
		<-stopChan
		elog.Info(eventIDStop, "service stop requested")
	} else {
		select {
		case <-sigc:
			log.Println("server: shutdown signal received")
		case err := <-mqttErrc:
			if err != nil {
				log.Printf("server: fleet MQTT subscriber stopped: %v", err)
			}
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		elog.Error(eventIDError, fmt.Sprintf("graceful shutdown error: %v", err))
	}
	elog.Info(eventIDStop, "server stopped gracefully")
}

func openLogFile(name string) (*os.File, error) {
	path := filepath.Join(paths.ResolveDataRoot(), "logs", name)
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
}

func postgresConnString() string {
	host := os.Getenv("RED_SAFE_DB_HOST")
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("RED_SAFE_DB_USER")
	if user == "" {
		user = "postgres"
	}
	pass := os.Getenv("RED_SAFE_DB_PASSWORD")
	name := os.Getenv("RED_SAFE_DB_NAME")
	if name == "" {
		name = "red_safe"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:5432/%s?sslmode=disable", user, pass, host, name)
}

func mqttBrokerHost() string {
	host := os.Getenv("RED_SAFE_MQTT_BROKER")
	if host == "" {
		host = "localhost"
	}
	return host
}

func mqttBrokerPort() int {
	const defaultPort = 8883
	raw := os.Getenv("RED_SAFE_MQTT_PORT")
	if raw == "" {
		return defaultPort
	}
	var port int
	if _, err := fmt.Sscanf(raw, "%d", &port); err != nil || port <= 0 {
		return defaultPort
	}
	return port
}
