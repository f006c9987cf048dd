// Package validate provides network validation utilities for cbws, ensuring
// listening ports and broker addresses are well formed before the bridge tries
// to bind or dial them.
//
// Implements host, port range, and address format validation using the
// go-playground/validator library.
//
// VALIDATION FEATURES:
//   - Host: RFC 1123 hostnames or IPv4/IPv6 literals
//   - Port Range: Valid port numbers (1-65535)
//   - Format: "host:port" parsing with an optional default port
package validate

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
	// Using built-in validators: hostname_rfc1123, ip, min, max, oneof
}

// NetworkAddress represents a validated network address with host and port
// components. Hosts may be DNS names (broker addresses usually are) or IP literals.
type NetworkAddress struct {
	Host string `validate:"required,hostname_rfc1123|ip"`
	Port int    `validate:"required,min=1,max=65535"`
}

// String returns the network address in "host:port" format, bracketing IPv6 hosts.
func (na NetworkAddress) String() string {
	return net.JoinHostPort(na.Host, strconv.Itoa(na.Port))
}

// ParseAddress parses and validates a "host:port" address string. When the
// input carries no port and defaultPort is non-zero, defaultPort is used.
//
// Example: ParseAddress("broker.local", 5672) -> broker.local:5672
func ParseAddress(addr string, defaultPort int) (*NetworkAddress, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		if defaultPort == 0 || !isMissingPort(addr, err) {
			return nil, fmt.Errorf("invalid address format '%s': %w", addr, err)
		}
		host = strings.Trim(addr, "[]")
		portStr = strconv.Itoa(defaultPort)
	}

	port, err := ParsePort(portStr)
	if err != nil {
		return nil, err
	}

	netAddr := &NetworkAddress{
		Host: host,
		Port: port,
	}

	// Validate using struct tags
	if err := validate.Struct(netAddr); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return netAddr, nil
}

// ParsePort converts a textual port number and checks it is within 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port '%s': %w", s, err)
	}
	if err := ValidatePortRange(port); err != nil {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// isMissingPort reports whether SplitHostPort failed only because the address
// carries no port, including bare IPv6 literals.
func isMissingPort(addr string, err error) bool {
	var addrErr *net.AddrError
	if errors.As(err, &addrErr) && addrErr.Err == "missing port in address" {
		return true
	}
	return net.ParseIP(addr) != nil
}

// ValidateField validates individual values against specified validation rules
// without requiring struct definitions.
//
// Example: ValidateField("192.168.1.1", "required,ip")
func ValidateField(value interface{}, tag string) error {
	return validate.Var(value, tag)
}
