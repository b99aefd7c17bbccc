package main

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/myblog-api/internal/config"
	"github.com/rs/zerolog"
)

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	port := freePort(t)
	cfg := config.ServerConfig{
		Port:            port,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, handler, cfg, zerolog.Nop()) }()

	url := "http://127.0.0.1:" + port + "/"
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("Server never accepted connections: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	if _, err := http.Get(url); err == nil {
		t.Error("Expected connection refused after shutdown")
	}
}

func TestServeReturnsListenError(t *testing.T) {
	cfg := config.ServerConfig{Port: "not-a-port", ShutdownTimeout: time.Second}

	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), http.NotFoundHandler(), cfg, zerolog.Nop()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Expected a listen error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return on listen failure")
	}
}
