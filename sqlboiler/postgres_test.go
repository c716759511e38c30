package sqlboiler_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	paging "github.com/nrfta/records-paging"
	"github.com/nrfta/records-paging/query"
	"github.com/nrfta/records-paging/resource"
	"github.com/nrfta/records-paging/sqlboiler"
)

// postgresEnv enables the PostgreSQL specs, which need Docker.
const postgresEnv = "RECORDS_PAGING_PG"

type pgContainer struct {
	container *postgres.PostgresContainer
	db        *sql.DB
}

func startPostgres(ctx context.Context) (*pgContainer, error) {
	c, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("records"),
		postgres.WithUsername("records"),
		postgres.WithPassword("records"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("connection string: %w", err)
	}

	pg, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := pg.PingContext(ctx); err != nil {
		_ = pg.Close()
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &pgContainer{container: c, db: pg}, nil
}

func (c *pgContainer) terminate(ctx context.Context) error {
	if c.db != nil {
		_ = c.db.Close()
	}
	return c.container.Terminate(ctx)
}

var _ = Describe("Paginator on PostgreSQL", Ordered, func() {
	var (
		pg   *pgContainer
		rows []resource.Reagent
	)

	BeforeAll(func() {
		if os.Getenv(postgresEnv) != "1" {
			Skip("set " + postgresEnv + "=1 to run PostgreSQL specs")
		}

		var err error
		pg, err = startPostgres(ctx)
		Expect(err).ToNot(HaveOccurred())
		DeferCleanup(func() {
			Expect(pg.terminate(context.Background())).To(Succeed())
		})

		Expect(createReagents(ctx, pg.db, postgresSchema)).To(Succeed())
		rows, err = seedReagents(ctx, pg.db, query.Dollar, 41)
		Expect(err).ToNot(HaveOccurred())
	})

	sharedPaginatorSpecs(
		func() *paging.Paginator[resource.Reagent] {
			return paging.New[resource.Reagent](resource.Reagents,
				sqlboiler.NewFetcher[resource.Reagent](pg.db, sqlboiler.WithPlaceholder(query.Dollar)),
				paging.WithDialect(query.Postgres))
		},
		func() []resource.Reagent { return rows },
	)
})
