package db

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisTarget(t *testing.T, rawURL string) *Target {
	t.Helper()
	target, err := Parse(rawURL)
	require.NoError(t, err)
	return target
}

func TestPingRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	target := redisTarget(t, fmt.Sprintf("redis://%s/3", mr.Addr()))

	payload, err := PingRedis(context.Background(), target)
	require.NoError(t, err)

	m, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "PONG", m["ping"])
	assert.Equal(t, 3, m["db"])
}

func TestPingRedis_Auth(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	t.Run("correct password", func(t *testing.T) {
		target := redisTarget(t, fmt.Sprintf("redis://:secret@%s", mr.Addr()))
		_, err := PingRedis(context.Background(), target)
		require.NoError(t, err)
	})

	t.Run("missing password", func(t *testing.T) {
		target := redisTarget(t, fmt.Sprintf("redis://%s", mr.Addr()))
		_, err := PingRedis(context.Background(), target)
		require.Error(t, err)
		assert.Contains(t, strings.ToLower(err.Error()), "noauth")
	})

	t.Run("wrong password", func(t *testing.T) {
		target := redisTarget(t, fmt.Sprintf("redis://:nope@%s", mr.Addr()))
		_, err := PingRedis(context.Background(), target)
		require.Error(t, err)
		assert.Contains(t, strings.ToLower(err.Error()), "wrongpass")
	})
}

func TestPingRedis_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	target := redisTarget(t, fmt.Sprintf("redis://%s", addr))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := PingRedis(ctx, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}
