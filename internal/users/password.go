package users

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var errMalformedHash = errors.New("malformed password hash")

// maxMemoryKB caps the memory cost accepted from a stored hash (1 GiB).
const maxMemoryKB = 1 << 20

// HashParams tunes argon2id.
type HashParams struct {
	Time     uint32
	MemoryKB uint32
	Threads  uint8
	SaltLen  int
	KeyLen   uint32
}

// DefaultHashParams matches the argon2id settings used for key derivation elsewhere.
var DefaultHashParams = HashParams{
	Time:     2,
	MemoryKB: 64 * 1024,
	Threads:  1,
	SaltLen:  16,
	KeyLen:   32,
}

// Hasher produces and verifies PHC-formatted argon2id hashes.
type Hasher struct {
	params HashParams
}

// NewHasher returns a hasher with p.
func NewHasher(p HashParams) *Hasher {
	return &Hasher{params: p}
}

// Hash derives a salted hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemoryKB, h.params.Threads, h.params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.MemoryKB, h.params.Time, h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify reports whether password matches encoded. The parameters stored in
// the hash win over the hasher's own.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errMalformedHash
	}

	var p HashParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKB, &p.Time, &p.Threads); err != nil {
		return false, errMalformedHash
	}
	// argon2 panics on zero rounds or threads
	if p.Time < 1 || p.Threads < 1 || p.MemoryKB == 0 || p.MemoryKB > maxMemoryKB {
		return false, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, errMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, errMalformedHash
	}
	if len(salt) == 0 || len(want) == 0 {
		return false, errMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKB, p.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
