package dto

import (
	"github.com/departures-microservice/internal/domain"
)

// DepartureData - поле data полного ответа табло отправлений.
type DepartureData struct {
	Station    string                     `json:"station"`
	Location   *domain.Station            `json:"location"`
	Departures []domain.Departure         `json:"departures"`
	Pagination domain.DeparturePagination `json:"pagination"`
	Metadata   domain.Metadata            `json:"metadata"`
}

// MinimalDeparture - строка облегчённого формата: плоский конверт без
// обёртки success/error.
type MinimalDeparture struct {
	Line      string `json:"line"`
	Direction string `json:"direction,omitempty"`
	Time      string `json:"time"`
	Delay     int    `json:"delay"` // minutes
	Platform  string `json:"platform,omitempty"`
	Product   string `json:"product,omitempty"`
}

// MinimalDeparturesResponse - облегчённый ответ табло.
type MinimalDeparturesResponse struct {
	Station    string             `json:"station"`
	Departures []MinimalDeparture `json:"departures"`
	Count      int                `json:"count"`
	Timestamp  string             `json:"timestamp"`
}

// MinimalJourney - строка облегчённого формата поиска поездок.
type MinimalJourney struct {
	Departure string   `json:"departure"`
	Arrival   string   `json:"arrival,omitempty"`
	Duration  int      `json:"duration"` // minutes
	Transfers int      `json:"transfers"`
	Products  []string `json:"products"`
	Legs      int      `json:"legs"`
}

// MinimalJourneysResponse - облегчённый ответ поиска поездок.
type MinimalJourneysResponse struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	Journeys  []MinimalJourney `json:"journeys"`
	Count     int              `json:"count"`
	Timestamp string           `json:"timestamp"`
}

// StationSearchResponse - ответ автодополнения станций.
type StationSearchResponse struct {
	Stations []domain.Station `json:"stations"`
	Error    string           `json:"error,omitempty"`
}
