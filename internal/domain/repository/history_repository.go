package repository

import (
	"context"

	"github.com/departures-microservice/internal/domain"
)

// SearchHistoryRepository - персистентная история поисков. Все вызовы
// best-effort: usecase логирует сбой и продолжает работу.
type SearchHistoryRepository interface {
	// Record добавляет запись об успешном поиске
	Record(ctx context.Context, record domain.SearchRecord) error

	// Recent возвращает последние записи, новые первыми
	Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error)

	// LastStation возвращает станцию самой свежей записи ("" если пусто)
	LastStation(ctx context.Context) (string, error)
}
