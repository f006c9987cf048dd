// Package utils provides common utility functions for cbws.
//
// This file implements ID generation for websocket sessions. IDs appear in
// logs and in the health endpoint, so they are short (12 hex characters,
// similar to Docker short IDs) but drawn from a random UUID.
package utils

import (
	"strings"

	"github.com/google/uuid"
)

// idLength is the number of hex characters kept from the UUID.
const idLength = 12

// GenerateID creates a unique 12-character hex identifier.
//
// Returns format: "a1b2c3d4e5f6"
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", "")[:idLength], nil
}
