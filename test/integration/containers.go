package integration

import (
	"context"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Env is a throwaway postgres instance for repository tests.
type Env struct {
	PG  *postgres.PostgresContainer
	DSN string
}

func Setup(ctx context.Context) (*Env, error) {
	pgC, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("shopdesk"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, err
	}
	return &Env{PG: pgC, DSN: dsn}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	_ = e.PG.Terminate(ctx)
}
