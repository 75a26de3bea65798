// Package hafas - клиент upstream HAFAS REST провайдера (ÖBB-профиль).
// Отдаёт сырые слабо типизированные записи; вся нормализация происходит
// выше, в usecase-слое.
package hafas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/departures-microservice/internal/config"
	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *zap.Logger
}

// NewClient создает новый клиент для HAFAS REST API
func NewClient(cfg *config.HAFASConfig, logger *zap.Logger) repository.TransitRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// Locations ищет станции по текстовому запросу. Регистр запроса не
// трогаем: upstream-поиск чувствителен к написанию.
func (c *client) Locations(ctx context.Context, query string, opts repository.LocationsOptions) ([]domain.RawStop, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Set("query", query)
	if opts.Results > 0 {
		params.Set("results", strconv.Itoa(opts.Results))
	}
	params.Set("stops", strconv.FormatBool(opts.Stops))
	params.Set("addresses", strconv.FormatBool(opts.Addresses))
	params.Set("poi", strconv.FormatBool(opts.POI))

	var stops []domain.RawStop
	if err := c.getJSON(ctx, "/locations", params, &stops); err != nil {
		return nil, err
	}

	c.logger.Debug("HAFAS locations call successful",
		zap.String("query", query),
		zap.Int("results", len(stops)))

	return stops, nil
}

// Departures возвращает отправления станции во временном окне.
func (c *client) Departures(ctx context.Context, stationID string, opts repository.DeparturesOptions) (*domain.RawDeparturesResponse, error) {
	if stationID == "" {
		return nil, fmt.Errorf("stationID cannot be empty")
	}

	params := url.Values{}
	if !opts.When.IsZero() {
		params.Set("when", opts.When.Format(time.RFC3339))
	}
	if opts.Duration > 0 {
		params.Set("duration", strconv.Itoa(opts.Duration))
	}
	if opts.Results > 0 {
		params.Set("results", strconv.Itoa(opts.Results))
	}
	params.Set("remarks", strconv.FormatBool(opts.Remarks))
	for product, enabled := range opts.Products {
		params.Set(product, strconv.FormatBool(enabled))
	}

	var resp domain.RawDeparturesResponse
	if err := c.getJSON(ctx, "/stops/"+url.PathEscape(stationID)+"/departures", params, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("HAFAS departures call successful",
		zap.String("station_id", stationID),
		zap.Int("departures", len(resp.Departures)))

	return &resp, nil
}

// Journeys ищет поездки между станциями. Курсорные токены направлений не
// взаимозаменяемы: laterThan листает вперёд, earlierThan - назад.
func (c *client) Journeys(ctx context.Context, fromID, toID string, opts repository.JourneysOptions) (*domain.RawJourneysResponse, error) {
	if fromID == "" || toID == "" {
		return nil, fmt.Errorf("fromID and toID cannot be empty")
	}

	params := url.Values{}
	params.Set("from", fromID)
	params.Set("to", toID)
	if !opts.When.IsZero() {
		if opts.IsArrival {
			params.Set("arrival", opts.When.Format(time.RFC3339))
		} else {
			params.Set("departure", opts.When.Format(time.RFC3339))
		}
	}
	if opts.Results > 0 {
		params.Set("results", strconv.Itoa(opts.Results))
	}
	for product, enabled := range opts.Products {
		params.Set(product, strconv.FormatBool(enabled))
	}
	if opts.LaterThan != "" {
		params.Set("laterThan", opts.LaterThan)
	}
	if opts.EarlierThan != "" {
		params.Set("earlierThan", opts.EarlierThan)
	}

	var resp domain.RawJourneysResponse
	if err := c.getJSON(ctx, "/journeys", params, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("HAFAS journeys call successful",
		zap.String("from", fromID),
		zap.String("to", toID),
		zap.Int("journeys", len(resp.Journeys)))

	return &resp, nil
}

// getJSON выполняет GET-запрос и декодирует JSON-ответ.
func (c *client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	requestURL := c.baseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	c.logger.Debug("Calling HAFAS API", zap.String("url", requestURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("HAFAS API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("hafas API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
