// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateID creates a random hex ID of the specified byte length.
// Used for request and subscription IDs on the store wire protocol.
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewEntityID returns a client-assigned identifier for a stored record.
func NewEntityID() string {
	return uuid.New().String()
}

// NewUserID issues an anonymous user identifier. The service treats the
// (userID, userName) pair as opaque; there is no account behind it.
func NewUserID() string {
	return "anon-" + uuid.New().String()
}

// SessionCode draws 6 base-36 characters from a uniform random source,
// upper-cased. Codes are not checked for collision against existing
// sessions; they are only required to be unique among active sessions in
// practice, and the keyspace makes collisions unlikely.
func SessionCode() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate session code: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
