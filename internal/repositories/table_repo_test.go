package repositories

import (
	"context"
	"testing"

	"dineflow/internal/models"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TableRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    TableRepository
	context context.Context
}

func (suite *TableRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTableRepo(mock)
	suite.context = context.Background()
}

func (suite *TableRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestTableRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TableRepoTestSuite))
}

func (suite *TableRepoTestSuite) TestList() {
	rows := pgxmock.NewRows([]string{"table_id", "status"}).
		AddRow(1, models.TableAvailable).
		AddRow(2, models.TableOccupied)

	suite.mock.ExpectQuery(`SELECT table_id, status\s+FROM tables\s+ORDER BY table_id`).
		WillReturnRows(rows)

	tables, err := suite.repo.List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tables, 2)
	assert.Equal(suite.T(), 1, tables[0].TableID)
	assert.Equal(suite.T(), models.TableOccupied, tables[1].Status)
}

func (suite *TableRepoTestSuite) TestGetByID() {
	rows := pgxmock.NewRows([]string{"table_id", "status"}).
		AddRow(3, models.TableReserved)

	suite.mock.ExpectQuery(`SELECT table_id, status\s+FROM tables\s+WHERE table_id = \$1`).
		WithArgs(3).
		WillReturnRows(rows)

	table, err := suite.repo.GetByID(suite.context, 3)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, table.TableID)
	assert.Equal(suite.T(), models.TableReserved, table.Status)
}

func (suite *TableRepoTestSuite) TestGetByID_NoRows() {
	suite.mock.ExpectQuery(`SELECT table_id, status\s+FROM tables\s+WHERE table_id = \$1`).
		WithArgs(99).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, 99)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *TableRepoTestSuite) TestSetStatus_Found() {
	suite.mock.ExpectExec(`UPDATE tables SET status = \$1 WHERE table_id = \$2`).
		WithArgs(models.TableOccupied, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	found, err := suite.repo.SetStatus(suite.context, 1, models.TableOccupied)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), found)
}

func (suite *TableRepoTestSuite) TestSetStatus_Missing() {
	suite.mock.ExpectExec(`UPDATE tables SET status = \$1 WHERE table_id = \$2`).
		WithArgs(models.TableOccupied, 42).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	found, err := suite.repo.SetStatus(suite.context, 42, models.TableOccupied)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), found)
}

func (suite *TableRepoTestSuite) TestCreateRange() {
	for i := 1; i <= 3; i++ {
		suite.mock.ExpectExec(`INSERT INTO tables \(table_id, status\) VALUES \(\$1, \$2\)`).
			WithArgs(i, models.TableAvailable).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	tables, err := suite.repo.CreateRange(suite.context, 3)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), tables, 3)
	assert.Equal(suite.T(), 1, tables[0].TableID)
	assert.Equal(suite.T(), 3, tables[2].TableID)
	for _, table := range tables {
		assert.Equal(suite.T(), models.TableAvailable, table.Status)
	}
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
