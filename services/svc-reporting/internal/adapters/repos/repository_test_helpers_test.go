package repos_test

import (
	"bytes"
	"testing"

	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/repos"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var readOnlyTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

func newEmailsRepository(pool repos.PoolOps, log logger.Logger) *repos.EmailsRepository {
	return repos.NewEmailsRepository(pool, repos.NewPgxScanner(), log)
}

func newEmployeesRepository(pool repos.PoolOps, log logger.Logger) *repos.EmployeesRepository {
	return repos.NewEmployeesRepository(pool, repos.NewPgxScanner(), log)
}

func runRepoTest[R any](
	t *testing.T,
	newRepo func(repos.PoolOps, logger.Logger) R,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, R),
) {
	t.Helper()

	runRepoTestWithLogger(t, newRepo, setupMock, func(t *testing.T, repo R, _ *bytes.Buffer) {
		testFn(t, repo)
	})
}

func runRepoTestWithLogger[R any](
	t *testing.T,
	newRepo func(repos.PoolOps, logger.Logger) R,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, R, *bytes.Buffer),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)

	logBuffer := &bytes.Buffer{}
	log := logger.NewBufferedTestLogger(logBuffer)
	testFn(t, newRepo(mock, log), logBuffer)

	require.NoError(t, mock.ExpectationsWereMet())
}
