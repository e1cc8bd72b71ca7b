// Package id provides unique ID generation utilities.
//
// Usage:
//
//	rid := id.NewULID() // e.g., "01ARZ3NDEKTSV4RRFFQ69G5FAV"
//	hid := id.NewHex()  // e.g., "4bf92f3577b34da6a3ce929d0e0e4736"
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Type represents the type of ID generator.
type Type string

const (
	// TypeULID is a lexicographically sortable ULID.
	TypeULID Type = "ulid"
	// TypeHex is 16 random bytes, hex encoded.
	TypeHex Type = "hex"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)

	fallbackCounter uint64
)

// NewULID generates a new ULID string. IDs from one process are strictly
// increasing even within the same millisecond.
func NewULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return fallback()
	}
	return id.String()
}

// NewHex generates 16 random bytes encoded as 32 hex characters.
func NewHex() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fallback()
	}
	return hex.EncodeToString(b)
}

// New generates a new ID using the specified generator type.
func New(t Type) string {
	if t == TypeHex {
		return NewHex()
	}
	return NewULID()
}

// ParseULID reports whether s is a valid ULID.
func ParseULID(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ULID %q: %w", s, err)
	}
	return ulid.Time(id.Time()), nil
}

func fallback() string {
	return fmt.Sprintf("%x-%x", time.Now().UnixNano(), atomic.AddUint64(&fallbackCounter, 1))
}
