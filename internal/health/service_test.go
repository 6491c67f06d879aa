package health

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping() error { return f.err }

func TestCollectHealth_NilDependencies(t *testing.T) {
	result := CollectHealth(context.Background(), nil, nil)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "disconnected", result.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", result.Dependencies["redis"].Status)
	assert.NotEmpty(t, result.Runtime.GoVersion)
}

func TestCollectHealth_WithMiniredis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	result := CollectHealth(context.Background(), rdb, fakePinger{})
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, "connected", result.Dependencies["redis"].Status)
	assert.Equal(t, "connected", result.Dependencies["database"].Status)
}

func TestCollectHealth_RedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	result := CollectHealth(context.Background(), rdb, nil)
	assert.Equal(t, "degraded", result.Status)
	assert.Equal(t, "error", result.Dependencies["redis"].Status)
}

func TestCollectHealth_DatabaseError(t *testing.T) {
	result := CollectHealth(context.Background(), nil, fakePinger{err: errors.New("connection refused")})
	assert.Equal(t, "degraded", result.Status)
	assert.Equal(t, "error", result.Dependencies["database"].Status)
}
