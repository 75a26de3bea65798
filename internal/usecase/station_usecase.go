package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"github.com/departures-microservice/internal/usecase/dto"
)

// minQueryLength - минимальная длина запроса автодополнения; более
// короткие запросы дают пустой список без обращения к upstream.
const minQueryLength = 2

// StationUseCase - use case поиска станций для автодополнения.
type StationUseCase struct {
	transitRepo repository.TransitRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	cacheTTL    time.Duration
}

// NewStationUseCase - создание нового StationUseCase
func NewStationUseCase(
	transitRepo repository.TransitRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *StationUseCase {
	return &StationUseCase{
		transitRepo: transitRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		cacheTTL:    cacheTTL,
	}
}

// Search ищет станции по текстовому запросу. Короткий запрос - пустой
// список, не ошибка.
func (uc *StationUseCase) Search(ctx context.Context, req dto.StationSearchRequest) (*dto.StationSearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if len([]rune(query)) < minQueryLength {
		return &dto.StationSearchResponse{Stations: []domain.Station{}}, nil
	}

	limit := req.Limit
	if limit == 0 {
		limit = 5
	}

	stops, err := uc.transitRepo.Locations(ctx, query, repository.LocationsOptions{
		Results: limit,
		Stops:   true,
	})
	if err != nil {
		uc.logger.Error("Failed to search stations",
			zap.String("query", query),
			zap.Error(err))
		return nil, err
	}

	stations := make([]domain.Station, 0, len(stops))
	for i := range stops {
		if station := normalizeStation(&stops[i]); station != nil {
			stations = append(stations, *station)
		}
	}

	return &dto.StationSearchResponse{Stations: stations}, nil
}

// LastStation возвращает последнюю искомую станцию из кеша ("" если её
// нет или кеш недоступен - значение best-effort).
func (uc *StationUseCase) LastStation(ctx context.Context) string {
	station, err := uc.cacheRepo.GetLastStation(ctx)
	if err != nil {
		uc.logger.Warn("Failed to read last station", zap.Error(err))
		return ""
	}
	return station
}
