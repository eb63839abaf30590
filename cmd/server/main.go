package main

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harshad-dhokane/new-docx/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		log.Fatalf("config finalize failed: %v", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatalf("server init failed: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("server start failed: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("service stopped gracefully")
}
