package domain

// Сырые записи upstream-провайдера (HAFAS-style REST). Провайдер отдаёт
// слабо типизированные данные: любое поле может отсутствовать, поэтому всё
// указатели. Валидация и коэрция происходят на границе нормализации,
// непроверенные опциональные поля дальше неё не проходят.

// RawLine - линия в сыром виде. Name может содержать номер поезда в
// скобках ("REX 7 (Zug-Nr. 29592)").
type RawLine struct {
	ID      *string `json:"id"`
	Name    *string `json:"name"`
	Product *string `json:"product"`
}

// RawRemark - примечание; записи без текста отбрасываются при нормализации.
type RawRemark struct {
	Type *string `json:"type"`
	Text *string `json:"text"`
}

// RawStop - станция/остановка в сыром виде. Временные поля заполняются
// только внутри участков маршрута и то нерегулярно.
type RawStop struct {
	ID        *string         `json:"id"`
	Name      *string         `json:"name"`
	Products  map[string]bool `json:"products"`
	Arrival   *string         `json:"arrival"`
	Departure *string         `json:"departure"`
	Platform  *string         `json:"platform"`
}

// RawDeparture - отправление в сыром виде.
type RawDeparture struct {
	TripID      *string     `json:"tripId"`
	When        *string     `json:"when"`
	PlannedWhen *string     `json:"plannedWhen"`
	Delay       *int        `json:"delay"` // seconds
	Platform    *string     `json:"platform"`
	Direction   *string     `json:"direction"`
	Line        *RawLine    `json:"line"`
	Remarks     []RawRemark `json:"remarks"`
}

// RawDeparturesResponse - ответ upstream на запрос отправлений.
type RawDeparturesResponse struct {
	Departures []RawDeparture `json:"departures"`
}

// RawStopover - промежуточная остановка участка.
type RawStopover struct {
	Stop              *RawStop `json:"stop"`
	Arrival           *string  `json:"arrival"`
	Departure         *string  `json:"departure"`
	ArrivalPlatform   *string  `json:"arrivalPlatform"`
	DeparturePlatform *string  `json:"departurePlatform"`
}

// RawLeg - участок поездки в сыром виде. Платформа и время отправления
// могут лежать как на самом участке, так и в origin/destination - upstream
// заполняет то одно, то другое.
type RawLeg struct {
	TripID            *string       `json:"tripId"`
	Line              *RawLine      `json:"line"`
	Origin            *RawStop      `json:"origin"`
	Destination       *RawStop      `json:"destination"`
	Departure         *string       `json:"departure"`
	Arrival           *string       `json:"arrival"`
	DeparturePlatform *string       `json:"departurePlatform"`
	ArrivalPlatform   *string       `json:"arrivalPlatform"`
	Stopovers         []RawStopover `json:"stopovers"`
}

// RawJourney - поездка в сыром виде. Duration - ISO-8601 строка
// ("PT1H30M") либо отсутствует.
type RawJourney struct {
	ID       *string     `json:"id"`
	Duration *string     `json:"duration"`
	Legs     []RawLeg    `json:"legs"`
	Remarks  []RawRemark `json:"remarks"`
}

// RawJourneysResponse - ответ upstream на поиск поездок с курсорными
// токенами для обоих направлений.
type RawJourneysResponse struct {
	Journeys   []RawJourney `json:"journeys"`
	EarlierRef *string      `json:"earlierRef"`
	LaterRef   *string      `json:"laterRef"`
}
