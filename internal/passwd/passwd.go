// Package passwd hashes and verifies user passwords using argon2id.
//
// Hashes are stored in the PHC string format, so the parameters travel
// with the hash and can be raised later without breaking old records.
package passwd

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// OWASP recommended argon2id parameters
	hashTime    = 1
	hashMemory  = 64 * 1024
	hashThreads = 4
	saltLen     = 16
	keyLen      = 32
)

var (
	ErrInvalidHash = errors.New("passwd: value is not a valid argon2id hash")
)

// Hash derives an argon2id hash from plaintext using a fresh random salt.
//
// The output looks like $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("passwd: unable to generate salt, cause %w", err)
	}
	key := argon2.IDKey([]byte(plaintext), salt, hashTime, hashMemory, hashThreads, keyLen)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		hashMemory, hashTime, hashThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key))
	return encoded, nil
}

// Verify reports whether plaintext matches the encoded hash.
//
// A mismatch is (false, nil), an undecodable hash is an error.
func Verify(plaintext, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrInvalidHash
	}
	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrInvalidHash
	}
	if threads == 0 || threads > 255 {
		return false, ErrInvalidHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrInvalidHash
	}
	got := argon2.IDKey([]byte(plaintext), salt, time, memory, uint8(threads), uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
