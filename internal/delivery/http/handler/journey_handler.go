package handler

import (
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

// JourneyHandler - обработчик поиска поездок точка-точка
type JourneyHandler struct {
	journeyUC *usecase.JourneyUseCase
	logger    *zap.Logger
}

// NewJourneyHandler - создание нового JourneyHandler
func NewJourneyHandler(journeyUC *usecase.JourneyUseCase, logger *zap.Logger) *JourneyHandler {
	return &JourneyHandler{
		journeyUC: journeyUC,
		logger:    logger,
	}
}

func journeyExamples() fiber.Map {
	return fiber.Map{
		"basic":    "/api/journeys?from=Wien Hbf&to=Salzburg Hbf",
		"arrival":  "/api/journeys?from=Wien Hbf&to=Salzburg Hbf&when=2025-09-10T14:00:00Z&isArrival=true",
		"filtered": "/api/journeys?from=Wien Hbf&to=Salzburg Hbf&products=nationalExpress&maxTransfers=0",
		"paging":   "/api/journeys?from=Wien Hbf&to=Salzburg Hbf&direction=next&context=<token>",
	}
}

// SearchJourneys godoc
// @Summary Поиск поездок между станциями
// @Description Ищет варианты поездок точка-точка с курсорной пагинацией по токенам провайдера (direction=next|prev + context)
// @Tags Journeys
// @Accept json
// @Produce json
// @Param from query string true "Станция отправления"
// @Param to query string true "Станция назначения"
// @Param when query string false "Время, ISO8601 (по умолчанию сейчас)"
// @Param isArrival query bool false "Трактовать when как время прибытия" default(false)
// @Param products query string false "Продукты через запятую"
// @Param maxTransfers query int false "Максимум пересадок (>=0)"
// @Param direction query string false "Направление листания" Enums(next, prev)
// @Param context query string false "Токен пагинации из предыдущего ответа"
// @Param format query string false "Формат ответа" Enums(full, minimal) default(full)
// @Success 200 {object} domain.JourneySearchResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/journeys [get]
func (h *JourneyHandler) SearchJourneys(c *fiber.Ctx) error {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		return utils.SendErrorWithExamples(c, errors.ErrMissingJourneyEndpoints, journeyExamples())
	}

	req := dto.JourneyRequest{
		From:      from,
		To:        to,
		IsArrival: c.QueryBool("isArrival", false),
		Products:  splitList(c.Query("products")),
		Direction: c.Query("direction"),
		Context:   c.Query("context"),
		Format:    c.Query("format", domain.FormatFull),
		BaseURL:   c.BaseURL() + c.Path(),
		Query:     queryValues(c),
	}

	if when := c.Query("when"); when != "" {
		parsed, err := time.Parse(time.RFC3339, when)
		if err != nil {
			return utils.SendErrorWithExamples(c, errors.ErrInvalidWhen, journeyExamples())
		}
		req.When = parsed
	}

	if raw := c.Query("maxTransfers"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			return utils.SendErrorWithExamples(c, errors.ErrInvalidRequest, journeyExamples())
		}
		req.MaxTransfers = &value
	}

	if req.Format != domain.FormatFull && req.Format != domain.FormatMinimal {
		return utils.SendErrorWithExamples(c, errors.ErrInvalidFormat, journeyExamples())
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendErrorWithExamples(c, errors.ErrInvalidRequest, journeyExamples())
	}

	result := h.journeyUC.SearchJourneys(c.Context(), req)

	switch result.Error {
	case "":
	case domain.ErrMsgStationNotFound:
		c.Status(errors.ErrStationNotFound.StatusCode)
	default:
		c.Status(errors.ErrUpstreamUnavailable.StatusCode)
	}

	if result.Error == "" && req.Format == domain.FormatMinimal {
		return c.JSON(minimalJourneys(result))
	}

	return c.JSON(result)
}

// minimalJourneys сплющивает результат поиска в облегчённый формат.
func minimalJourneys(result *domain.JourneySearchResult) dto.MinimalJourneysResponse {
	rows := make([]dto.MinimalJourney, 0, len(result.Journeys))
	for _, journey := range result.Journeys {
		row := dto.MinimalJourney{
			Departure: journey.Departure.Format(time.RFC3339),
			Duration:  journey.DurationMinutes,
			Transfers: journey.Transfers,
			Products:  journey.Products,
			Legs:      len(journey.Legs),
		}
		if journey.Arrival != nil {
			row.Arrival = journey.Arrival.Format(time.RFC3339)
		}
		rows = append(rows, row)
	}

	return dto.MinimalJourneysResponse{
		From:      result.Query.From,
		To:        result.Query.To,
		Journeys:  rows,
		Count:     len(rows),
		Timestamp: result.Metadata.Timestamp.Format(time.RFC3339),
	}
}
