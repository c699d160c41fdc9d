package repository_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/nikolayk812/cartcalc/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type snapshotRepositorySuite struct {
	suite.Suite

	repo      port.SnapshotStorage
	pool      *pgxpool.Pool
	container *postgres.PostgresContainer
}

func TestSnapshotRepositorySuite(t *testing.T) {
	suite.Run(t, new(snapshotRepositorySuite))
}

func (suite *snapshotRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo, err = repository.NewSnapshots(suite.pool)
	suite.Require().NoError(err)
}

func (suite *snapshotRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
	suite.NoError(testcontainers.TerminateContainer(suite.container))
}

func (suite *snapshotRepositorySuite) TestSaveLoadDelete() {
	t := suite.T()
	ctx := t.Context()
	key := gofakeit.UUID() + ":cartItems"

	_, err := suite.repo.Load(ctx, key)
	require.ErrorIs(t, err, port.ErrNotFound)

	require.NoError(t, suite.repo.Save(ctx, key, []byte(`[{"productId":"a"}]`)))
	require.NoError(t, suite.repo.Save(ctx, key, []byte(`[]`)))

	payload, err := suite.repo.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), payload)

	require.NoError(t, suite.repo.Delete(ctx, key))

	_, err = suite.repo.Load(ctx, key)
	require.ErrorIs(t, err, port.ErrNotFound)
}

func (suite *snapshotRepositorySuite) TestEmptyKey() {
	t := suite.T()
	ctx := t.Context()

	_, err := suite.repo.Load(ctx, "")
	require.EqualError(t, err, "key is empty")

	require.EqualError(t, suite.repo.Save(ctx, "", nil), "key is empty")
	require.EqualError(t, suite.repo.Delete(ctx, ""), "key is empty")
}
