package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptHashAndVerify(t *testing.T) {
	t.Parallel()

	h := Bcrypt{}

	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$2"), "expected bcrypt digest, got %q", digest)

	require.NoError(t, h.Verify("secret1", digest))
	require.ErrorIs(t, h.Verify("wrong", digest), ErrMismatch)
}

func TestBcryptHashesAreSalted(t *testing.T) {
	t.Parallel()

	h := Bcrypt{Cost: bcryptMinCostForTest}

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.NoError(t, h.Verify("same-password", a))
	require.NoError(t, h.Verify("same-password", b))
}

func TestBcryptVerifyGarbageDigest(t *testing.T) {
	t.Parallel()

	h := Bcrypt{}
	require.ErrorIs(t, h.Verify("anything", "not-a-digest"), ErrMismatch)
}

// bcryptMinCostForTest keeps the salting test fast.
const bcryptMinCostForTest = 4
