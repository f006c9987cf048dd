// Package netutil provides network utilities for the cbws bridge.
//
// It classifies network errors by type rather than by message, so that the
// daemon can tell an operator whether the websocket port is taken or the
// broker refused the connection, and binds listeners for the bridge.
package netutil

import (
	"errors"
	"net"
	"syscall"
)

// IsAddressInUseError checks if an error indicates "address already in use"
// using error type checking rather than string matching.
func IsAddressInUseError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EADDRINUSE)
	}
	return false
}

// IsConnectionRefusedError checks if an error indicates "connection refused".
// Used when the broker or a running bridge cannot be reached.
func IsConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return false
}
