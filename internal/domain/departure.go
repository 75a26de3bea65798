package domain

import "time"

// Line - идентификация линии/поезда у отправления или участка маршрута.
type Line struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	TrainNumber string `json:"trainNumber,omitempty"`
	Product     string `json:"product,omitempty"`
}

// Departure - одно отправление со станции.
// TripID уникален внутри набора результатов: берётся из upstream trip id,
// при его отсутствии собирается из id линии и планового времени.
type Departure struct {
	TripID    string    `json:"tripId"`
	When      time.Time `json:"when"`
	Delay     int       `json:"delay"` // seconds
	Platform  string    `json:"platform,omitempty"`
	Direction string    `json:"direction,omitempty"`
	Line      Line      `json:"line"`
	Remarks   []string  `json:"remarks"`
}

// DepartureBoard - конверт результата поиска отправлений.
// При любой ошибке конверт остаётся полностью сформированным:
// пустые коллекции и заполненные значения пагинации по умолчанию.
type DepartureBoard struct {
	Station    string              `json:"station"`
	StopID     string              `json:"stopId,omitempty"`
	Location   *Station            `json:"location,omitempty"`
	Departures []Departure         `json:"departures"`
	Pagination DeparturePagination `json:"pagination"`
	Metadata   Metadata            `json:"metadata"`
	Error      string              `json:"error,omitempty"`
}

// Локализованные сообщения об ошибках upstream-слоя. HTTP-слой различает
// "станция не найдена" (404) и временный сбой провайдера (500) по ним.
const (
	ErrMsgStationNotFound = "Keine Haltestelle gefunden"
	ErrMsgUpstreamFailure = "Fehler beim Laden der Abfahrten"
	ErrMsgJourneysFailure = "Fehler beim Laden der Verbindungen"
)
