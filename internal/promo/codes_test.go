package promo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	require.Equal(t, int64(10), Percent("SAVE10"))
	require.Equal(t, int64(20), Percent("SAVE20"))
	require.Equal(t, int64(10), Percent("save10"))
	require.Equal(t, int64(20), Percent("  Save20  "))
	require.Equal(t, int64(0), Percent("SAVE50"))
	require.Equal(t, int64(0), Percent(""))
}

func TestKnown(t *testing.T) {
	require.True(t, Known("SAVE10"))
	require.True(t, Known("save20"))
	require.False(t, Known("WELCOME"))
	require.False(t, Known(""))
}
