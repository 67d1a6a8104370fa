package users

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastParams keeps argon2 cheap in tests.
var fastParams = HashParams{Time: 1, MemoryKB: 1024, Threads: 1, SaltLen: 8, KeyLen: 16}

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(fastParams)

	encoded, err := h.Hash("Secret1!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"), encoded)

	ok, err := h.Verify("Secret1!", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("secret1!", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasher_SaltsDiffer(t *testing.T) {
	h := NewHasher(fastParams)
	a, err := h.Hash("Secret1!")
	require.NoError(t, err)
	b, err := h.Hash("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHasher_VerifyUsesEncodedParams(t *testing.T) {
	encoded, err := NewHasher(fastParams).Hash("Secret1!")
	require.NoError(t, err)

	other := NewHasher(HashParams{Time: 3, MemoryKB: 2048, Threads: 2, SaltLen: 16, KeyLen: 32})
	ok, err := other.Verify("Secret1!", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasher_MalformedHash(t *testing.T) {
	h := NewHasher(fastParams)
	cases := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=1$m=1024,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$bogus$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$!!!",
		"$argon2id$v=19$m=1024,t=0,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
	}
	for _, encoded := range cases {
		assert.NotPanics(t, func() {
			_, err := h.Verify("x", encoded)
			assert.ErrorIs(t, err, errMalformedHash, encoded)
		}, encoded)
	}
}

func TestHasher_CorruptedCostParams(t *testing.T) {
	h := NewHasher(fastParams)
	encoded, err := h.Hash("Secret1!")
	require.NoError(t, err)

	for _, corrupt := range []string{
		strings.Replace(encoded, ",t=1,", ",t=0,", 1),
		strings.Replace(encoded, ",p=1$", ",p=0$", 1),
	} {
		assert.NotPanics(t, func() {
			ok, err := h.Verify("Secret1!", corrupt)
			assert.ErrorIs(t, err, errMalformedHash)
			assert.False(t, ok)
		}, corrupt)
	}
}
