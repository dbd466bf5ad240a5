package utils

import (
	"net"
	"testing"
)

/**
 * TestCheckPortAvailable verifies port conflict detection
 * @description
 * - A port with an active listener is reported as unavailable
 * - The same port is reported available again after the listener closes
 */
func TestCheckPortAvailable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to open listener: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	if CheckPortAvailable("127.0.0.1", port) {
		t.Errorf("port %d has a listener but was reported available", port)
	}
	if !CheckPortConnectable("127.0.0.1", port) {
		t.Errorf("port %d has a listener but was reported unconnectable", port)
	}

	listener.Close()

	if !CheckPortAvailable("127.0.0.1", port) {
		t.Errorf("port %d is free but was reported unavailable", port)
	}
}
