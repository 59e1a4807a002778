package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRefSequences(t *testing.T) {
	s := newTestSetup(t)

	for i := 1; i <= 3; i++ {
		ref, err := GenerateRef(s.DB, "bill", "250428", "MKB-", 4)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("MKB-250428-%04d", i), ref)
	}

	// A different counter name starts from 1 again.
	ref, err := GenerateRef(s.DB, "payment", "250428", "PMT-", 4)
	require.NoError(t, err)
	assert.Equal(t, "PMT-250428-0001", ref)

	// Same type on a new period is its own counter too.
	ref, err = GenerateRef(s.DB, "bill", "250429", "MKB-", 4)
	require.NoError(t, err)
	assert.Equal(t, "MKB-250429-0001", ref)
}

func TestGenerateRefPadding(t *testing.T) {
	s := newTestSetup(t)

	ref, err := GenerateRef(s.DB, "ticket", "250428", "TKT-", 6)
	require.NoError(t, err)
	assert.Equal(t, "TKT-250428-000001", ref)

	// Non-positive pad falls back to 4 digits.
	ref, err = GenerateRef(s.DB, "other", "250428", "X-", 0)
	require.NoError(t, err)
	assert.Equal(t, "X-250428-0001", ref)
}
