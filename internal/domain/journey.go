package domain

import "time"

// StopPoint - остановка внутри участка маршрута. Upstream заполняет поля
// нерегулярно, поэтому всё опционально.
type StopPoint struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Arrival   *time.Time `json:"arrival,omitempty"`
	Departure *time.Time `json:"departure,omitempty"`
	Platform  string     `json:"platform,omitempty"`
}

// JourneyLeg - один непрерывный сегмент поездки между двумя остановками.
type JourneyLeg struct {
	Line              Line        `json:"line"`
	Departure         *time.Time  `json:"departure,omitempty"`
	DeparturePlatform string      `json:"departurePlatform,omitempty"`
	Arrival           *time.Time  `json:"arrival,omitempty"`
	ArrivalPlatform   string      `json:"arrivalPlatform,omitempty"`
	Origin            StopPoint   `json:"origin"`
	Destination       StopPoint   `json:"destination"`
	Stopovers         []StopPoint `json:"stopovers,omitempty"`
}

// JourneyOption - один вариант поездки точка-точка.
// ID - upstream journey id либо синтетический fallback
// (отправление+прибытие+индекс), уникальный внутри страницы результатов.
type JourneyOption struct {
	ID              string       `json:"id"`
	Departure       time.Time    `json:"departure"`
	Arrival         *time.Time   `json:"arrival,omitempty"`
	DurationMinutes int          `json:"durationMinutes"`
	Transfers       int          `json:"transfers"`
	Products        []string     `json:"products"`
	Legs            []JourneyLeg `json:"legs"`
	Remarks         []string     `json:"remarks,omitempty"`
}

// JourneyQuery - эхо параметров поиска, возвращается вместе с результатом,
// чтобы клиентское состояние формы можно было восстановить из ответа.
type JourneyQuery struct {
	From         string    `json:"from"`
	To           string    `json:"to"`
	When         time.Time `json:"when"`
	IsArrival    bool      `json:"isArrival"`
	Products     []string  `json:"products"`
	MaxTransfers *int      `json:"maxTransfers,omitempty"`
	Direction    string    `json:"direction,omitempty"`
	Context      string    `json:"context,omitempty"`
}

// JourneySearchResult - конверт результата поиска поездок.
type JourneySearchResult struct {
	Journeys   []JourneyOption   `json:"journeys"`
	Pagination JourneyPagination `json:"pagination"`
	Metadata   Metadata          `json:"metadata"`
	Query      JourneyQuery      `json:"query"`
	Error      string            `json:"error,omitempty"`
}
