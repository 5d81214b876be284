package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countSeatsQ = `SELECT COUNT\(\*\) FROM seats WHERE showtime_id = \?`

func TestEnsureGridTx_MaterializesMissingGrid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(countSeatsQ).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seats (showtime_id, row_label, seat_number) VALUES")).
		WillReturnResult(sqlmock.NewResult(1, 60))

	tx, err := db.Begin()
	require.NoError(t, err)

	n, err := NewSeatRepo(db).EnsureGridTx(context.Background(), tx, 1, DefaultGridRows, DefaultSeatsPerRow)
	require.NoError(t, err)
	assert.Equal(t, 60, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureGridTx_ExistingGridIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(countSeatsQ).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))

	tx, err := db.Begin()
	require.NoError(t, err)

	n, err := NewSeatRepo(db).EnsureGridTx(context.Background(), tx, 1, DefaultGridRows, DefaultSeatsPerRow)
	require.NoError(t, err)
	assert.Equal(t, 60, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two transactions can both observe an empty grid and both insert; the loser
// hits the unique position key. That duplicate means the winner materialized
// the identical grid, so the loser must treat it as success instead of
// failing the surrounding request.
func TestEnsureGridTx_LostMaterializationRaceIsNoOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(countSeatsQ).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seats (showtime_id, row_label, seat_number) VALUES")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-A-1' for key 'uq_seats_position'"})
	mock.ExpectQuery(countSeatsQ + ` FOR UPDATE`).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(60))

	tx, err := db.Begin()
	require.NoError(t, err)

	n, err := NewSeatRepo(db).EnsureGridTx(context.Background(), tx, 1, DefaultGridRows, DefaultSeatsPerRow)
	require.NoError(t, err, "a lost materialization race must not fail the caller")
	assert.Equal(t, 60, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureGridTx_PropagatesOtherInsertErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(countSeatsQ).WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO seats (showtime_id, row_label, seat_number) VALUES")).
		WillReturnError(&mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"})

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = NewSeatRepo(db).EnsureGridTx(context.Background(), tx, 1, DefaultGridRows, DefaultSeatsPerRow)
	require.Error(t, err)
	var me *mysql.MySQLError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, uint16(1205), me.Number)
	assert.NoError(t, mock.ExpectationsWereMet())
}
