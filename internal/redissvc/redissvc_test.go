package redissvc

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalidate(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	svc, err := Connect(ctx, addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.Rdb().Set(ctx, "all_products", "[]", 0).Err())
	require.NoError(t, svc.Invalidate(ctx, "all_products"))

	n, err := svc.Rdb().Exists(ctx, "all_products").Result()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestInvalidateUnreachable(t *testing.T) {
	svc, err := Connect(context.Background(), "127.0.0.1:1")
	require.Error(t, err)
	require.Nil(t, svc)
}
