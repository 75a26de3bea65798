package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
)

type searchHistoryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewSearchHistoryRepository создает новый экземпляр search history repository
func NewSearchHistoryRepository(db *DB, logger *zap.Logger) repository.SearchHistoryRepository {
	return &searchHistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Record добавляет запись об успешном поиске
func (r *searchHistoryRepository) Record(ctx context.Context, record domain.SearchRecord) error {
	query := `
		INSERT INTO search_history (id, station, stop_id, products, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Station,
		record.StopID,
		pq.StringArray(record.Products),
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to record search", zap.String("station", record.Station), zap.Error(err))
		return fmt.Errorf("insert search record: %w", err)
	}

	return nil
}

// Recent возвращает последние записи, новые первыми
func (r *searchHistoryRepository) Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, station, stop_id, products, created_at
		FROM search_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query search history: %w", err)
	}
	defer rows.Close()

	records := make([]domain.SearchRecord, 0, limit)
	for rows.Next() {
		var record domain.SearchRecord
		var products pq.StringArray
		if err := rows.Scan(&record.ID, &record.Station, &record.StopID, &products, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}
		record.Products = []string(products)
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search history rows error: %w", err)
	}

	return records, nil
}

// LastStation возвращает станцию самой свежей записи ("" если история пуста)
func (r *searchHistoryRepository) LastStation(ctx context.Context) (string, error) {
	query := `
		SELECT station
		FROM search_history
		ORDER BY created_at DESC
		LIMIT 1
	`

	var station string
	err := r.db.QueryRowContext(ctx, query).Scan(&station)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query last station: %w", err)
	}

	return station, nil
}
