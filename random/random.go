// Package random exposes the operating system's cryptographic entropy
// source. All output comes from crypto/rand; there is no seeding and no
// insecure fallback. Failures surface as IO errors rather than panics so
// callers on exotic targets can degrade deliberately.
package random

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"

	"github.com/docketworks/platform/errors"
)

// Bytes fills p with cryptographically secure random bytes. A zero-length
// buffer is a no-op.
func Bytes(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := rand.Read(p); err != nil {
		return errors.IO("random.bytes", err)
	}
	return nil
}

// U32 returns a uniformly random 32-bit value.
func U32() (uint32, error) {
	var buf [4]byte
	if err := Bytes(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// U64 returns a uniformly random 64-bit value.
func U64() (uint64, error) {
	var buf [8]byte
	if err := Bytes(buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Hex returns n random bytes rendered as a lowercase hex string of length
// 2n. Handy for request identifiers and temp-file suffixes.
func Hex(n int) (string, error) {
	if n <= 0 {
		return "", errors.Invalid("random.hex", "byte count must be positive")
	}
	buf := make([]byte, n)
	if err := Bytes(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
