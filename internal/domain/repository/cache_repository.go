package repository

import (
	"context"
	"time"

	"github.com/departures-microservice/internal/domain"
)

// CacheRepository определяет методы для работы с кешем.
type CacheRepository interface {
	// Get получает значение из кеша по ключу (nil, nil при промахе)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetStation получает закешированный результат поиска станции
	GetStation(ctx context.Context, query string) (*domain.RawStop, error)

	// SetStation сохраняет результат поиска станции
	SetStation(ctx context.Context, query string, stop *domain.RawStop, ttl time.Duration) error

	// GetLastStation получает последнюю искомую станцию
	GetLastStation(ctx context.Context) (string, error)

	// SetLastStation сохраняет последнюю искомую станцию (без TTL)
	SetLastStation(ctx context.Context, station string) error
}
