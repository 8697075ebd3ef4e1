package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisConfig_Addr(t *testing.T) {
	cfg := DefaultRedisConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())

	cfg.Host = "::1"
	assert.Equal(t, "[::1]:6379", cfg.Addr())
}

func TestNewRedisClient_Pings(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := DefaultRedisConfig()
	cfg.Host = mr.Host()
	cfg.Port = port

	client, err := NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	assert.True(t, mr.Exists("k"))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	host := mr.Host()
	mr.Close()

	cfg := RedisConfig{Host: host, Port: port, DialTimeout: 200 * time.Millisecond}
	_, err := NewRedisClient(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}
