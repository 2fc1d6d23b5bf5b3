package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/services"
)

func TestDegradedClient(t *testing.T) {
	client := NewClient("not a redis url", zap.NewNop())

	assert.False(t, client.Available())

	ctx := context.Background()

	// Reads and writes degrade silently
	val, ok := client.Get(ctx, "jobs:anything")
	assert.False(t, ok)
	assert.Empty(t, val)
	client.Set(ctx, "jobs:anything", "value", time.Hour)

	// Enumeration and health checks surface the outage
	_, err := client.ScanKeys(ctx, "jobs:*")
	assert.ErrorIs(t, err, services.ErrCacheUnavailable)
	assert.ErrorIs(t, client.Ping(ctx), services.ErrCacheUnavailable)

	assert.NoError(t, client.Close())
}
