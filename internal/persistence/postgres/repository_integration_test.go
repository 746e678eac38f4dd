//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/agenda/internal/domain"
)

func TestRepositoryRoundTripsCollection(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("agenda"),
		postgrescontainer.WithUsername("agenda"),
		postgrescontainer.WithPassword("agenda"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewRepository(pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	empty, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	svc := domain.NewService(repo)
	first, err := svc.SaveNew(ctx, domain.Activity{Title: "Study", Date: domain.NewDate(2024, time.May, 1), Category: "School"})
	require.NoError(t, err)
	_, err = svc.SaveNew(ctx, domain.Activity{Title: "Run", Description: "5k", Date: domain.NewDate(2024, time.May, 2)})
	require.NoError(t, err)

	found, err := svc.MarkCompleted(ctx, *first)
	require.NoError(t, err)
	require.True(t, found)

	all, err := svc.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Study", all[0].Title)
	require.Equal(t, domain.NewDate(2024, time.May, 1), all[0].Date)
	require.True(t, all[0].Completed)
	require.NotNil(t, all[0].CompletedAt)
	require.Equal(t, "Run", all[1].Title)
	require.Nil(t, all[1].CompletedAt)

	found, err = svc.Delete(ctx, all[0])
	require.NoError(t, err)
	require.True(t, found)

	remaining, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "Run", remaining[0].Title)
}
