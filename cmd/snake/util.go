package main

import (
	"net"
	"time"
)

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// port extracts the port from a listen address, defaulting to 23234.
func port(addr string) string {
	if _, p, err := net.SplitHostPort(addr); err == nil && p != "" {
		return p
	}
	return "23234"
}
