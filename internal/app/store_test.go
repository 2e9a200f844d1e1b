package app

import (
	"context"
	"evacuation-planner-service/internal/config"
	"evacuation-planner-service/internal/domain"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreMemory(t *testing.T) {
	s, err := OpenStore(context.Background(), &config.Config{Store: config.StoreMemory})
	require.NoError(t, err)
	require.Nil(t, s.Ping)
	require.NoError(t, s.Close())
}

func TestOpenStoreRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	s, err := OpenStore(ctx, &config.Config{Store: config.StoreRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.PutZone(ctx, &domain.Zone{ZoneID: "Z1", Population: 3, Urgency: 1}))
	require.True(t, mr.Exists("zones"))
}

func TestOpenStoreUnknown(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{Store: "sqlite"})
	require.Error(t, err)
}
