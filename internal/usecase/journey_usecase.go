package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"github.com/departures-microservice/internal/pkg/filter"
	"github.com/departures-microservice/internal/usecase/dto"
)

// JourneyUseCase - use case поиска поездок точка-точка с курсорной
// пагинацией по непрозрачным токенам upstream.
type JourneyUseCase struct {
	transitRepo repository.TransitRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	stationTTL  time.Duration
}

// NewJourneyUseCase - создание нового JourneyUseCase
func NewJourneyUseCase(
	transitRepo repository.TransitRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	stationTTL time.Duration,
) *JourneyUseCase {
	return &JourneyUseCase{
		transitRepo: transitRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		stationTTL:  stationTTL,
	}
}

// SearchJourneys выполняет поиск поездок. Станции отправления и назначения
// резолвятся параллельно; сбой любой из них прерывает поиск целиком -
// с частичными данными станций поиск не продолжается.
func (uc *JourneyUseCase) SearchJourneys(ctx context.Context, req dto.JourneyRequest) *domain.JourneySearchResult {
	if req.When.IsZero() {
		req.When = time.Now()
	}

	query := uc.buildQueryEcho(req)

	var (
		wg       sync.WaitGroup
		fromStop *domain.RawStop
		toStop   *domain.RawStop
		fromErr  error
		toErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fromStop, fromErr = uc.resolveStation(ctx, req.From)
	}()
	go func() {
		defer wg.Done()
		toStop, toErr = uc.resolveStation(ctx, req.To)
	}()
	wg.Wait()

	if fromErr != nil || toErr != nil {
		uc.logger.Error("Failed to resolve journey endpoints",
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.NamedError("from_error", fromErr),
			zap.NamedError("to_error", toErr))
		return uc.emptyResult(query, req, domain.ErrMsgJourneysFailure)
	}
	if fromStop == nil || toStop == nil {
		return uc.emptyResult(query, req, domain.ErrMsgStationNotFound)
	}

	opts := repository.JourneysOptions{
		When:      req.When,
		IsArrival: req.IsArrival,
		Results:   5,
		Products:  uc.journeyProducts(req.Products),
	}

	// Маршрутизация пары context+direction на корректный upstream-параметр:
	// next листает через laterThan, prev - через earlierThan. Токены не
	// взаимозаменяемы.
	switch {
	case req.Context != "" && req.Direction == "next":
		opts.LaterThan = req.Context
	case req.Context != "" && req.Direction == "prev":
		opts.EarlierThan = req.Context
	}

	rawResp, err := uc.transitRepo.Journeys(ctx, strValue(fromStop.ID), strValue(toStop.ID), opts)
	if err != nil {
		uc.logger.Error("Failed to fetch journeys",
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.Error(err))
		return uc.emptyResult(query, req, domain.ErrMsgJourneysFailure)
	}

	// Нормализация и фильтрация: OR по участкам для продуктов, порог по
	// числу пересадок.
	journeys := normalizeJourneys(rawResp.Journeys)
	totalCount := len(journeys)

	productFilters := filter.NewSet(req.Products)
	filtered := filter.Journeys(journeys, productFilters)
	filtered = filter.JourneysByTransfers(filtered, req.MaxTransfers)

	pagination := paginateJourneys(rawResp, req.Context, len(filtered), req.BaseURL, req.Query)

	return &domain.JourneySearchResult{
		Journeys:   filtered,
		Pagination: pagination,
		Metadata: domain.Metadata{
			Timestamp:         time.Now(),
			TotalCount:        totalCount,
			FilteredCount:     len(filtered),
			AppliedFilters:    productFilters.Values(),
			AvailableProducts: []string{},
			Format:            journeyFormat(req.Format),
		},
		Query: query,
	}
}

// journeyFormat переводит формат запроса (full/minimal) в вариант
// метаданных поиска поездок (journey-full/journey-minimal).
func journeyFormat(format string) string {
	if format == domain.FormatMinimal || format == domain.FormatJourneyMinimal {
		return domain.FormatJourneyMinimal
	}
	return domain.FormatJourneyFull
}

// resolveStation - поиск станции с кешированием (см. DepartureUseCase).
func (uc *JourneyUseCase) resolveStation(ctx context.Context, query string) (*domain.RawStop, error) {
	if cached, err := uc.cacheRepo.GetStation(ctx, query); err == nil && cached != nil {
		return cached, nil
	}

	stops, err := uc.transitRepo.Locations(ctx, query, repository.LocationsOptions{
		Results: 1,
		Stops:   true,
	})
	if err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return nil, nil
	}

	stop := stops[0]
	if err := uc.cacheRepo.SetStation(ctx, query, &stop, uc.stationTTL); err != nil {
		uc.logger.Warn("Failed to cache station", zap.String("query", query), zap.Error(err))
	}

	return &stop, nil
}

// journeyProducts строит upstream-переключатели из списка продуктов
// запроса; пустой список оставляет набор по умолчанию.
func (uc *JourneyUseCase) journeyProducts(products []string) map[string]bool {
	active := filter.NewSet(products)
	if len(active) == 0 {
		return defaultBoardProducts
	}

	toggles := make(map[string]bool, len(defaultBoardProducts))
	for product := range defaultBoardProducts {
		toggles[product] = active.Has(product)
	}
	return toggles
}

func (uc *JourneyUseCase) buildQueryEcho(req dto.JourneyRequest) domain.JourneyQuery {
	return domain.JourneyQuery{
		From:         req.From,
		To:           req.To,
		When:         req.When,
		IsArrival:    req.IsArrival,
		Products:     filter.NewSet(req.Products).Values(),
		MaxTransfers: req.MaxTransfers,
		Direction:    req.Direction,
		Context:      req.Context,
	}
}

func (uc *JourneyUseCase) emptyResult(query domain.JourneyQuery, req dto.JourneyRequest, errMsg string) *domain.JourneySearchResult {
	return &domain.JourneySearchResult{
		Journeys:   []domain.JourneyOption{},
		Pagination: domain.JourneyPagination{CurrentContext: req.Context},
		Metadata: domain.Metadata{
			Timestamp:         time.Now(),
			AppliedFilters:    filter.NewSet(req.Products).Values(),
			AvailableProducts: []string{},
			Format:            journeyFormat(req.Format),
		},
		Query: query,
		Error: errMsg,
	}
}
