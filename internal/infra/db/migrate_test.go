package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS processed_items`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_processed_items_expire_at`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_processed_items_source_kind`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`chk_processed_source_kind`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, MigrateUp(conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_ConstraintFailureIgnored(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS processed_items`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_processed_items_expire_at`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`idx_processed_items_source_kind`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// Restricted roles cannot always add constraints; migration proceeds.
	mock.ExpectExec(`chk_processed_source_kind`).
		WillReturnError(errors.New("permission denied"))

	assert.NoError(t, MigrateUp(conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateUp_TableCreationFails(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS processed_items`).
		WillReturnError(errors.New("out of disk"))

	assert.Error(t, MigrateUp(conn))
}

func TestMigrateDown(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	mock.ExpectExec(`DROP INDEX IF EXISTS idx_processed_items_expire_at`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP INDEX IF EXISTS idx_processed_items_source_kind`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS processed_items`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, MigrateDown(conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}
