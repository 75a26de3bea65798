package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/usecase"
	"github.com/departures-microservice/internal/usecase/dto"
)

// StationHandler - обработчик автодополнения станций
type StationHandler struct {
	stationUC *usecase.StationUseCase
	logger    *zap.Logger
}

// NewStationHandler - создание нового StationHandler
func NewStationHandler(stationUC *usecase.StationUseCase, logger *zap.Logger) *StationHandler {
	return &StationHandler{
		stationUC: stationUC,
		logger:    logger,
	}
}

// Search godoc
// @Summary Поиск станций для автодополнения
// @Description Ищет станции по текстовому запросу. Запрос короче 2 символов даёт пустой список (200), сбой upstream - 500 с пустым списком
// @Tags Stations
// @Accept json
// @Produce json
// @Param q query string true "Поисковый запрос (минимум 2 символа)"
// @Param limit query int false "Максимум результатов (1-20)" default(5)
// @Success 200 {object} dto.StationSearchResponse
// @Failure 500 {object} dto.StationSearchResponse
// @Router /api/stations/search [get]
func (h *StationHandler) Search(c *fiber.Ctx) error {
	req := dto.StationSearchRequest{
		Query: c.Query("q"),
		Limit: c.QueryInt("limit", 5),
	}

	resp, err := h.stationUC.Search(c.Context(), req)
	if err != nil {
		// Сбой upstream: пустой список с пояснением, чтобы клиентское
		// автодополнение могло просто очистить подсказки.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.StationSearchResponse{
			Stations: []domain.Station{},
			Error:    "Fehler bei der Stationssuche",
		})
	}

	return c.JSON(resp)
}
