//go:build integration
// +build integration

package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"staysync/internal/config"
	"staysync/internal/domain"
	redisrepo "staysync/internal/repository/redis"
)

func TestSessionRepository_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := config.NewRedisClient(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	repo := redisrepo.NewSessionRepository(client)

	session := &domain.Session{
		Token:     "tok-1",
		CSRFToken: "csrf-1",
		Flash:     domain.Flash{domain.FlashSuccess: {"Listing Updated"}},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, session))
	assert.NotEmpty(t, session.ID)

	got, err := repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, session.Flash, got.Flash)

	got.UserID = "user-1"
	require.NoError(t, repo.Update(ctx, got))

	ttl, err := client.TTL(ctx, "staysync:session:tok-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Minute)

	got, err = repo.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	err = repo.Update(ctx, &domain.Session{Token: "missing", ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, repo.Delete(ctx, "tok-1"))
	_, err = repo.GetByToken(ctx, "tok-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
