package utils

import (
	"fmt"
	"net"
	"time"
)

// CheckPortAvailable reports whether nothing is listening on the port yet
func CheckPortAvailable(host string, port int) bool {
	return !CheckPortConnectable(host, port)
}

// CheckPortConnectable reports whether something accepts connections on the port
func CheckPortConnectable(host string, port int) bool {
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	timeout := time.Second
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)), timeout)
	if err != nil {
		return false
	}
	if conn != nil {
		conn.Close()
		return true
	}
	return false
}
