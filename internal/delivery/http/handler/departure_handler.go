package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/pkg/errors"
	"github.com/departures-microservice/internal/pkg/utils"
	"github.com/departures-microservice/internal/pkg/validator"
	"github.com/departures-microservice/internal/usecase"
	"github.com/departures-microservice/internal/usecase/dto"
)

// DepartureHandler - обработчик запросов табло отправлений
type DepartureHandler struct {
	departureUC *usecase.DepartureUseCase
	logger      *zap.Logger
}

// NewDepartureHandler - создание нового DepartureHandler
func NewDepartureHandler(departureUC *usecase.DepartureUseCase, logger *zap.Logger) *DepartureHandler {
	return &DepartureHandler{
		departureUC: departureUC,
		logger:      logger,
	}
}

// departureExamples - примеры корректных запросов, возвращаются вместе с 400.
func departureExamples() fiber.Map {
	return fiber.Map{
		"basic":     "/api/departures?station=Wien Hauptbahnhof",
		"filtered":  "/api/departures?station=Wien Hauptbahnhof&filter=regional,suburban",
		"paginated": "/api/departures?station=Wien Hauptbahnhof&page=2&pageSize=20",
		"minimal":   "/api/departures?station=Wien Hauptbahnhof&format=minimal",
	}
}

// GetDepartures godoc
// @Summary Табло отправлений станции
// @Description Возвращает страницу отправлений для станции с фильтрацией по продуктам и постраничной навигацией через сдвиг временного окна
// @Tags Departures
// @Accept json
// @Produce json
// @Param station query string true "Название станции (например, 'Wien Hauptbahnhof')"
// @Param when query string false "Начало окна, ISO8601 (по умолчанию сейчас)"
// @Param duration query int false "Ширина окна в минутах (1-720)" default(60)
// @Param page query int false "Номер страницы" default(1)
// @Param pageSize query int false "Размер страницы (1-100)" default(10)
// @Param filter query string false "Продукты через запятую (например, 'regional,suburban')"
// @Param format query string false "Формат ответа" Enums(full, minimal) default(full)
// @Success 200 {object} utils.SuccessResponse{data=dto.DepartureData}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/departures [get]
func (h *DepartureHandler) GetDepartures(c *fiber.Ctx) error {
	station := strings.TrimSpace(c.Query("station"))
	if station == "" {
		return utils.SendErrorWithExamples(c, errors.ErrStationRequired, departureExamples())
	}

	// Явно переданные page/pageSize разбираются вручную: QueryInt молча
	// подменяет "0" и мусор значением по умолчанию, а здесь это ошибка.
	page, ok := positiveQueryInt(c, "page", 1)
	if !ok {
		return utils.SendErrorWithExamples(c, errors.ErrInvalidPagination, departureExamples())
	}
	pageSize, ok := positiveQueryInt(c, "pageSize", usecase.DefaultPageSize)
	if !ok || pageSize > 100 {
		return utils.SendErrorWithExamples(c, errors.ErrInvalidPagination, departureExamples())
	}

	req := dto.DepartureRequest{
		Station:  station,
		Duration: c.QueryInt("duration", 0),
		Page:     page,
		PageSize: pageSize,
		Filter:   splitList(c.Query("filter")),
		Format:   c.Query("format", domain.FormatFull),
		BaseURL:  c.BaseURL() + c.Path(),
		Query:    queryValues(c),
	}

	if when := c.Query("when"); when != "" {
		parsed, err := time.Parse(time.RFC3339, when)
		if err != nil {
			return utils.SendErrorWithExamples(c, errors.ErrInvalidWhen, departureExamples())
		}
		req.When = parsed
	}

	if req.Format != domain.FormatFull && req.Format != domain.FormatMinimal {
		return utils.SendErrorWithExamples(c, errors.ErrInvalidFormat, departureExamples())
	}

	// Валидация до любого обращения к upstream
	if err := validator.Validate(&req); err != nil {
		return utils.SendErrorWithExamples(c, errors.ErrInvalidPagination, departureExamples())
	}

	board := h.departureUC.GetDepartures(c.Context(), req)

	if board.Error != "" {
		appErr := errors.ErrUpstreamUnavailable
		if board.Error == domain.ErrMsgStationNotFound {
			appErr = errors.ErrStationNotFound
		}
		return c.Status(appErr.StatusCode).JSON(utils.ErrorResponse{
			Success: false,
			Error:   board.Error,
			Data:    boardData(board),
			Details: appErr,
		})
	}

	if req.Format == domain.FormatMinimal {
		return c.JSON(minimalBoard(board))
	}

	return utils.SendSuccess(c, boardData(board))
}

func boardData(board *domain.DepartureBoard) dto.DepartureData {
	return dto.DepartureData{
		Station:    board.Station,
		Location:   board.Location,
		Departures: board.Departures,
		Pagination: board.Pagination,
		Metadata:   board.Metadata,
	}
}

// minimalBoard сплющивает табло в облегчённый формат без обёртки
// success/error; задержка переводится из секунд в минуты.
func minimalBoard(board *domain.DepartureBoard) dto.MinimalDeparturesResponse {
	rows := make([]dto.MinimalDeparture, 0, len(board.Departures))
	for _, dep := range board.Departures {
		rows = append(rows, dto.MinimalDeparture{
			Line:      dep.Line.Name,
			Direction: dep.Direction,
			Time:      dep.When.Format(time.RFC3339),
			Delay:     dep.Delay / 60,
			Platform:  dep.Platform,
			Product:   dep.Line.Product,
		})
	}

	return dto.MinimalDeparturesResponse{
		Station:    board.Station,
		Departures: rows,
		Count:      len(rows),
		Timestamp:  board.Metadata.Timestamp.Format(time.RFC3339),
	}
}

// positiveQueryInt возвращает значение query-параметра как положительное
// целое. Пустой параметр даёт значение по умолчанию; нечисловое значение
// или число меньше единицы - ok=false.
func positiveQueryInt(c *fiber.Ctx, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}

// splitList разбирает значение вида "a,b,c" в список без пустых элементов.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// queryValues копирует query-параметры запроса для построения ссылок
// навигации.
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}
