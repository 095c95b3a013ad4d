package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKey(t *testing.T) {
	key, err := SourceKey("ipc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "sources/ipc.pdf", key)

	key, err = SourceKey("acts/consumer-protection-2019.pdf")
	require.NoError(t, err)
	assert.Equal(t, "sources/acts/consumer-protection-2019.pdf", key)

	for _, bad := range []string{"", "  ", "../secrets", "/etc/passwd"} {
		_, err := SourceKey(bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrInvalidName))
}
