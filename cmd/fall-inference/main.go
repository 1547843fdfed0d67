package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/red-safe/platform/internal/fallinference"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}

	addr := os.Getenv("RED_SAFE_FALLINFERENCE_ADDR")
	if addr == "" {
		addr = ":20003"
	}

	srv := fallinference.NewServer()
	log.Printf("fall-inference: listening on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("fall-inference: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)

	if err := srv.Wait(); err != nil {
		log.Printf("fall-inference: server exited: %v", err)
	}
	log.Println("fall-inference: stopped")
}
