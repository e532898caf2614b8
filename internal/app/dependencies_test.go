package app

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestHashSecretRoundTrip(t *testing.T) {
	hash, err := HashSecret("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	ok, err := VerifySecret("correct horse battery staple", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifySecret("wrong", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewLimiterStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewLimiterStore(client)
	require.NoError(t, err)
	require.NotNil(t, store)
}
