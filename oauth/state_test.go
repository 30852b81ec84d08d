package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	s1, err := NewState()
	require.NoError(err)
	s2, err := NewState()
	require.NoError(err)
	assert.NotEmpty(s1)
	assert.NotEqual(s1, s2)
}

func TestNewDeviceID(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	id, err := NewDeviceID()
	require.NoError(err)
	assert.Len(id, 32)
	assert.NoError(ValidateDeviceID(id))
}
