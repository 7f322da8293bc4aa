// Command healthcheck probes a running accountpulse server and exits non-zero
// unless the health endpoint reports status "ok". It is meant for container
// HEALTHCHECK directives and has no dependencies beyond the standard library.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	defaultAddr  = "127.0.0.1:8080"
	probeTimeout = 2 * time.Second
	healthPath   = "/api/v1/health"
)

// healthBody mirrors the fields of the server's health response that the
// probe inspects.
type healthBody struct {
	Status string `json:"status"`
}

func main() {
	addr := normalizeAddr(os.Getenv("ACCOUNTPULSE_LISTEN_ADDR"))

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	client := &http.Client{Timeout: probeTimeout}
	if err := probe(ctx, client, "http://"+addr); err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		cancel()
		os.Exit(1)
	}
}

// probe calls the health endpoint under baseURL and returns an error unless
// it answers 200 with a JSON body whose status is "ok".
func probe(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", healthPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var body healthBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("server reported status %q", body.Status)
	}

	return nil
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. The server binds 0.0.0.0 inside a container while the
// probe runs in the same container, so loopback is reachable.
func normalizeAddr(raw string) string {
	if raw == "" {
		return defaultAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
