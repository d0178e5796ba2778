package fs_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParseHex(t *testing.T, s string) uint64 {
	t.Helper()
	v, err := strconv.ParseUint(s, 16, 64)
	require.NoError(t, err)
	return v
}

func strPtr(s string) *string { return &s }
