package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	require := require.New(t)

	require.Nil(SetFilter(""))
	require.Nil(SetFilter("genesis.*coins"))
	require.NotNil(SetFilter("(unclosed"))
}

func TestLimiter(t *testing.T) {
	require := require.New(t)

	SetLimiter(2)
	defer SetLimiter(0)

	require.True(limiterAvailable("group applied"))
	require.True(limiterAvailable("group applied"))
	require.False(limiterAvailable("group applied"))
	require.True(limiterAvailable("another line"))
}
