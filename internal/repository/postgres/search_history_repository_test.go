package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"github.com/departures-microservice/internal/repository/postgres"
)

func newHistoryRepo(t *testing.T) (repository.SearchHistoryRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	sqlxDB := sqlx.NewDb(mockDB, "pgx")
	db := postgres.NewDBForTest(sqlxDB, zap.NewNop())

	return postgres.NewSearchHistoryRepository(db, zap.NewNop()), mock
}

// TestRecord tests inserting a search record with its products array
func TestRecord(t *testing.T) {
	repo, mock := newHistoryRepo(t)

	createdAt := time.Date(2025, 9, 10, 14, 0, 0, 0, time.UTC)
	record := domain.SearchRecord{
		ID:        "a6f1c7be-0000-0000-0000-000000000001",
		Station:   "Wien Hbf",
		StopID:    "1290401",
		Products:  []string{"regional", "suburban"},
		CreatedAt: createdAt,
	}

	mock.ExpectExec("INSERT INTO search_history").
		WithArgs(record.ID, record.Station, record.StopID, pq.StringArray(record.Products), createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Record(context.Background(), record)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRecord_InsertError tests that insert failures are wrapped and returned
func TestRecord_InsertError(t *testing.T) {
	repo, mock := newHistoryRepo(t)

	mock.ExpectExec("INSERT INTO search_history").
		WillReturnError(errors.New("connection reset"))

	err := repo.Record(context.Background(), domain.SearchRecord{
		ID:        "a6f1c7be-0000-0000-0000-000000000002",
		Station:   "Wien Hbf",
		CreatedAt: time.Now(),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert search record")
}

// TestRecent tests reading recent records newest first
func TestRecent(t *testing.T) {
	repo, mock := newHistoryRepo(t)

	newer := time.Date(2025, 9, 10, 15, 0, 0, 0, time.UTC)
	older := time.Date(2025, 9, 10, 14, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "station", "stop_id", "products", "created_at"}).
		AddRow("id-2", "Salzburg Hbf", "8100002", pq.StringArray{"nationalExpress"}, newer).
		AddRow("id-1", "Wien Hbf", "1290401", pq.StringArray{"regional", "suburban"}, older)

	mock.ExpectQuery("SELECT id, station, stop_id, products, created_at").
		WithArgs(5).
		WillReturnRows(rows)

	records, err := repo.Recent(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Salzburg Hbf", records[0].Station)
	assert.Equal(t, []string{"nationalExpress"}, records[0].Products)
	assert.Equal(t, "Wien Hbf", records[1].Station)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRecent_DefaultLimit tests that a non-positive limit falls back to 10
func TestRecent_DefaultLimit(t *testing.T) {
	repo, mock := newHistoryRepo(t)

	mock.ExpectQuery("SELECT id, station, stop_id, products, created_at").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "station", "stop_id", "products", "created_at"}))

	records, err := repo.Recent(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLastStation tests reading the most recent station
func TestLastStation(t *testing.T) {
	repo, mock := newHistoryRepo(t)

	mock.ExpectQuery("SELECT station").
		WillReturnRows(sqlmock.NewRows([]string{"station"}).AddRow("Wien Hbf"))

	station, err := repo.LastStation(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Wien Hbf", station)
}

// TestLastStation_EmptyHistory tests that an empty table yields "" without error
func TestLastStation_EmptyHistory(t *testing.T) {
	repo, mock := newHistoryRepo(t)

	mock.ExpectQuery("SELECT station").
		WillReturnError(sql.ErrNoRows)

	station, err := repo.LastStation(context.Background())

	require.NoError(t, err)
	assert.Empty(t, station)
}
