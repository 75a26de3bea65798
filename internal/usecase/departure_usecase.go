package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"github.com/departures-microservice/internal/pkg/filter"
	"github.com/departures-microservice/internal/usecase/dto"
)

// DepartureUseCase - use case табло отправлений: поиск станции,
// нормализация, фильтрация, пагинация. Ошибки upstream не покидают этот
// слой исключениями - они переводятся в поле error конверта, коллекции
// остаются пустыми, пагинация заполняется значениями по умолчанию.
type DepartureUseCase struct {
	transitRepo repository.TransitRepository
	cacheRepo   repository.CacheRepository
	historyRepo repository.SearchHistoryRepository
	logger      *zap.Logger
	stationTTL  time.Duration
	boardTTL    time.Duration
}

// defaultBoardProducts - продукты по умолчанию для табло: только поезда и
// региональный транспорт, без автобусов/трамваев/паромов.
var defaultBoardProducts = map[string]bool{
	"nationalExpress": true,
	"national":        true,
	"interregional":   true,
	"regional":        true,
	"suburban":        true,
	"bus":             false,
	"ferry":           false,
	"subway":          false,
	"tram":            false,
	"onCall":          false,
}

// NewDepartureUseCase - создание нового DepartureUseCase. boardTTL равный
// нулю отключает кеширование страниц табло.
func NewDepartureUseCase(
	transitRepo repository.TransitRepository,
	cacheRepo repository.CacheRepository,
	historyRepo repository.SearchHistoryRepository,
	logger *zap.Logger,
	stationTTL time.Duration,
	boardTTL time.Duration,
) *DepartureUseCase {
	return &DepartureUseCase{
		transitRepo: transitRepo,
		cacheRepo:   cacheRepo,
		historyRepo: historyRepo,
		logger:      logger,
		stationTTL:  stationTTL,
		boardTTL:    boardTTL,
	}
}

// GetDepartures возвращает страницу табло отправлений. Конверт всегда
// полностью сформирован; вызывающему достаточно проверить поле Error.
func (uc *DepartureUseCase) GetDepartures(ctx context.Context, req dto.DepartureRequest) *domain.DepartureBoard {
	// Установка значений по умолчанию
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = DefaultPageSize
	}
	if req.Duration == 0 {
		req.Duration = DefaultDuration
	}

	// Страницы "живого" табло (без явного when) кешируются целиком на
	// короткий срок; запросы с явным временем идут мимо кеша.
	cacheKey := ""
	if uc.boardTTL > 0 && req.When.IsZero() {
		cacheKey = boardCacheKey(req)
		if board := uc.cachedBoard(ctx, cacheKey); board != nil {
			return board
		}
	}

	if req.When.IsZero() {
		req.When = time.Now()
	}

	windowStart := departureWindowStart(req.When, req.Page, req.PageSize)

	// 1) Поиск станции
	stop, err := uc.resolveStation(ctx, req.Station)
	if err != nil {
		uc.logger.Error("Failed to resolve station",
			zap.String("station", req.Station),
			zap.Error(err))
		return uc.emptyBoard(req, windowStart, domain.ErrMsgUpstreamFailure)
	}
	if stop == nil {
		return uc.emptyBoard(req, windowStart, domain.ErrMsgStationNotFound)
	}

	location := normalizeStation(stop)

	// 2) Отправления с двукратным запасом окна и количества: запас
	// компенсирует потери на фильтрации и даёт сигнал "есть ещё".
	rawResp, err := uc.transitRepo.Departures(ctx, location.ID, repository.DeparturesOptions{
		When:     windowStart,
		Duration: req.Duration * windowOverfetch,
		Results:  req.PageSize * windowOverfetch,
		Products: uc.boardProducts(req.Filter),
		Remarks:  false,
	})
	if err != nil {
		uc.logger.Error("Failed to fetch departures",
			zap.String("station_id", location.ID),
			zap.Error(err))
		board := uc.emptyBoard(req, windowStart, domain.ErrMsgUpstreamFailure)
		board.StopID = location.ID
		board.Location = location
		return board
	}

	// 3) Нормализация и фильтрация
	departures := normalizeDepartures(rawResp.Departures)
	totalCount := len(departures)

	productFilters := filter.NewSet(req.Filter)
	filtered := filter.Departures(departures, productFilters)

	// 4) Пагинация
	pageItems, pagination := paginateDepartures(
		filtered,
		req.Page, req.PageSize, req.Duration,
		windowStart,
		req.BaseURL, req.Query,
	)

	// 5) История поиска - best-effort, сбои не влияют на результат
	uc.recordSearch(ctx, req.Station, location)

	format := req.Format
	if format == "" {
		format = domain.FormatFull
	}

	board := &domain.DepartureBoard{
		Station:    req.Station,
		StopID:     location.ID,
		Location:   location,
		Departures: pageItems,
		Pagination: pagination,
		Metadata: domain.Metadata{
			Timestamp:         time.Now(),
			TotalCount:        totalCount,
			FilteredCount:     len(filtered),
			AppliedFilters:    productFilters.Values(),
			AvailableProducts: location.AvailableProducts(),
			Format:            format,
		},
	}

	if cacheKey != "" {
		uc.storeBoard(ctx, cacheKey, board)
	}

	return board
}

// boardCacheKey адресует страницу живого табло: станция, страница, окно и
// фильтры. Формат входит в ключ, так как попадает в метаданные.
func boardCacheKey(req dto.DepartureRequest) string {
	format := req.Format
	if format == "" {
		format = domain.FormatFull
	}
	return fmt.Sprintf("board:%s:%d:%d:%d:%s:%s",
		strings.ToLower(strings.TrimSpace(req.Station)),
		req.Page, req.PageSize, req.Duration,
		strings.Join(filter.NewSet(req.Filter).Values(), ","),
		format,
	)
}

// cachedBoard читает страницу табло из кеша; любой сбой чтения или
// декодирования трактуется как промах.
func (uc *DepartureUseCase) cachedBoard(ctx context.Context, key string) *domain.DepartureBoard {
	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil || data == nil {
		return nil
	}

	var board domain.DepartureBoard
	if err := json.Unmarshal(data, &board); err != nil {
		uc.logger.Warn("Failed to decode cached board", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &board
}

// storeBoard пишет успешную страницу табло в кеш, best-effort.
func (uc *DepartureUseCase) storeBoard(ctx context.Context, key string, board *domain.DepartureBoard) {
	data, err := json.Marshal(board)
	if err != nil {
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, uc.boardTTL); err != nil {
		uc.logger.Warn("Failed to cache board", zap.String("key", key), zap.Error(err))
	}
}

// resolveStation ищет станцию по запросу, сперва в кеше, затем в upstream.
// (nil, nil) означает "не найдена"; ошибка - сбой провайдера.
func (uc *DepartureUseCase) resolveStation(ctx context.Context, query string) (*domain.RawStop, error) {
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

// boardProducts строит upstream-переключатели продуктов. Активные фильтры
// сужают запрос на стороне провайдера, уменьшая трафик; без фильтров
// действует набор по умолчанию.
func (uc *DepartureUseCase) boardProducts(filters []string) map[string]bool {
	active := filter.NewSet(filters)
	if len(active) == 0 {
		return defaultBoardProducts
	}

	products := make(map[string]bool, len(defaultBoardProducts))
	for product := range defaultBoardProducts {
		products[product] = active.Has(product)
	}
	return products
}

// recordSearch пишет запись истории и последнюю станцию. Оба действия
// best-effort: сбой логируется и глотается.
func (uc *DepartureUseCase) recordSearch(ctx context.Context, station string, location *domain.Station) {
	if err := uc.cacheRepo.SetLastStation(ctx, station); err != nil {
		uc.logger.Warn("Failed to store last station", zap.Error(err))
	}

	if uc.historyRepo == nil {
		return
	}
	record := domain.SearchRecord{
		ID:        uuid.NewString(),
		Station:   station,
		StopID:    location.ID,
		Products:  location.AvailableProducts(),
		CreatedAt: time.Now(),
	}
	if err := uc.historyRepo.Record(ctx, record); err != nil {
		uc.logger.Warn("Failed to record search history", zap.Error(err))
	}
}

// emptyBoard - конверт с ошибкой: пустые коллекции, заполненные значения
// пагинации, чтобы рендеру не требовались null-проверки формы конверта.
func (uc *DepartureUseCase) emptyBoard(req dto.DepartureRequest, windowStart time.Time, errMsg string) *domain.DepartureBoard {
	format := req.Format
	if format == "" {
		format = domain.FormatFull
	}
	return &domain.DepartureBoard{
		Station:    req.Station,
		Departures: []domain.Departure{},
		Pagination: domain.DeparturePagination{
			CurrentWhen:  windowStart.Format(time.RFC3339),
			Duration:     req.Duration,
			CurrentPage:  req.Page,
			PageSize:     req.PageSize,
			HasPrevPage:  req.Page > 1,
			TotalResults: 0,
		},
		Metadata: domain.Metadata{
			Timestamp:         time.Now(),
			AppliedFilters:    filter.NewSet(req.Filter).Values(),
			AvailableProducts: []string{},
			Format:            format,
		},
		Error: errMsg,
	}
}
