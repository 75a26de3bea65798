package repository

import (
	"context"
	"time"

	"github.com/departures-microservice/internal/domain"
)

// LocationsOptions - опции нечёткого поиска станций.
type LocationsOptions struct {
	Results int
	// Stops/Addresses/POI повторяют переключатели upstream: нам нужны
	// только остановки.
	Stops     bool
	Addresses bool
	POI       bool
}

// DeparturesOptions - опции запроса отправлений. Upstream адресуется
// только тройкой (when, duration, results).
type DeparturesOptions struct {
	When     time.Time
	Duration int // minutes
	Results  int
	Products map[string]bool
	Remarks  bool
}

// JourneysOptions - опции поиска поездок. LaterThan/EarlierThan -
// непрозрачные курсорные токены; заполняется максимум один из них.
type JourneysOptions struct {
	When        time.Time
	IsArrival   bool
	Results     int
	Products    map[string]bool
	LaterThan   string
	EarlierThan string
}

// TransitRepository - адаптер upstream-провайдера транзитных данных.
// Возвращает сырые записи; нормализация - забота usecase-слоя.
type TransitRepository interface {
	// Locations ищет станции по текстовому запросу.
	Locations(ctx context.Context, query string, opts LocationsOptions) ([]domain.RawStop, error)

	// Departures возвращает отправления станции во временном окне.
	Departures(ctx context.Context, stationID string, opts DeparturesOptions) (*domain.RawDeparturesResponse, error)

	// Journeys ищет поездки между двумя станциями.
	Journeys(ctx context.Context, fromID, toID string, opts JourneysOptions) (*domain.RawJourneysResponse, error)
}
