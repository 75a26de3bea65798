package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// lastStationKey - фиксированный ключ последней искомой станции.
// Серверный аналог клиентского localStorage: значение живёт без TTL.
const lastStationKey = "station:last"

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to check cache existence", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("cache exists error: %w", err)
	}

	return val > 0, nil
}

// stationKey нормализует поисковый запрос в ключ кеша: регистр и пробелы
// не порождают разных записей для одной станции.
func stationKey(query string) string {
	return "station:query:" + strings.ToLower(strings.TrimSpace(query))
}

// GetStation получает закешированный результат поиска станции
func (r *cacheRepository) GetStation(ctx context.Context, query string) (*domain.RawStop, error) {
	data, err := r.Get(ctx, stationKey(query))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var stop domain.RawStop
	if err := json.Unmarshal(data, &stop); err != nil {
		r.logger.Error("Failed to unmarshal station from cache", zap.Error(err))
		return nil, fmt.Errorf("unmarshal station: %w", err)
	}

	return &stop, nil
}

// SetStation сохраняет результат поиска станции
func (r *cacheRepository) SetStation(ctx context.Context, query string, stop *domain.RawStop, ttl time.Duration) error {
	data, err := json.Marshal(stop)
	if err != nil {
		r.logger.Error("Failed to marshal station", zap.Error(err))
		return fmt.Errorf("marshal station: %w", err)
	}

	return r.Set(ctx, stationKey(query), data, ttl)
}

// GetLastStation получает последнюю искомую станцию ("" если её нет)
func (r *cacheRepository) GetLastStation(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, lastStationKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		r.logger.Error("Failed to get last station", zap.Error(err))
		return "", fmt.Errorf("cache get error: %w", err)
	}

	return val, nil
}

// SetLastStation сохраняет последнюю искомую станцию без TTL
func (r *cacheRepository) SetLastStation(ctx context.Context, station string) error {
	err := r.client.Set(ctx, lastStationKey, station, 0).Err()
	if err != nil {
		r.logger.Error("Failed to set last station", zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}
