package usecase

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	iso8601 "github.com/senseyeio/duration"

	"github.com/departures-microservice/internal/domain"
)

// Нормализация сырых upstream-записей в стабильную внутреннюю форму.
// Контракт: для любой записи, сколь угодно неполной, нормализатор отдаёт
// корректную сущность без обращений к отсутствующим полям.

// trainNumberRe выделяет номер поезда из имени линии вида
// "REX 7 (Zug-Nr. 29592)".
var trainNumberRe = regexp.MustCompile(`\s*\(Zug-Nr\.\s*(\d+)\)`)

// splitLineName возвращает чистое имя линии и номер поезда, если
// аннотация присутствует; иначе имя без изменений и пустой номер.
func splitLineName(fullName string) (string, string) {
	match := trainNumberRe.FindStringSubmatch(fullName)
	if match == nil {
		return strings.TrimSpace(fullName), ""
	}
	name := strings.TrimSpace(trainNumberRe.ReplaceAllString(fullName, ""))
	return name, match[1]
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intValue(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

// parseTimestamp разбирает upstream-временную метку; nil и мусор дают nil.
func parseTimestamp(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}

// normalizeLine собирает Line из сырой записи с выделением номера поезда.
func normalizeLine(raw *domain.RawLine) domain.Line {
	if raw == nil {
		return domain.Line{}
	}
	name, trainNumber := splitLineName(strValue(raw.Name))
	return domain.Line{
		ID:          strValue(raw.ID),
		Name:        name,
		TrainNumber: trainNumber,
		Product:     strValue(raw.Product),
	}
}

// flattenRemarks сводит структурированные примечания к списку строк,
// отбрасывая записи без текста.
func flattenRemarks(raws []domain.RawRemark) []string {
	remarks := make([]string, 0, len(raws))
	for _, r := range raws {
		if text := strValue(r.Text); text != "" {
			remarks = append(remarks, text)
		}
	}
	return remarks
}

// normalizeDepartures преобразует сырые отправления. Каждому результату
// гарантируется непустой уникальный TripID: сперва upstream trip id, при
// отсутствии - композит из id линии и планового времени, коллизии
// разрешаются индексным суффиксом.
func normalizeDepartures(raws []domain.RawDeparture) []domain.Departure {
	departures := make([]domain.Departure, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))

	for i, raw := range raws {
		line := normalizeLine(raw.Line)

		when := parseTimestamp(raw.When)
		if when == nil {
			when = parseTimestamp(raw.PlannedWhen)
		}
		var whenValue time.Time
		if when != nil {
			whenValue = *when
		}

		tripID := strValue(raw.TripID)
		if tripID == "" {
			tripID = fmt.Sprintf("%s@%s", line.ID, whenValue.Format(time.RFC3339))
		}
		if _, dup := seen[tripID]; dup {
			tripID = fmt.Sprintf("%s#%d", tripID, i)
		}
		seen[tripID] = struct{}{}

		departures = append(departures, domain.Departure{
			TripID:    tripID,
			When:      whenValue,
			Delay:     intValue(raw.Delay),
			Platform:  strValue(raw.Platform),
			Direction: strValue(raw.Direction),
			Line:      line,
			Remarks:   flattenRemarks(raw.Remarks),
		})
	}

	return departures
}

// resolveStopPoint собирает остановку участка из сырой записи.
func resolveStopPoint(raw *domain.RawStop) domain.StopPoint {
	if raw == nil {
		return domain.StopPoint{}
	}
	return domain.StopPoint{
		ID:        strValue(raw.ID),
		Name:      strValue(raw.Name),
		Arrival:   parseTimestamp(raw.Arrival),
		Departure: parseTimestamp(raw.Departure),
		Platform:  strValue(raw.Platform),
	}
}

// normalizeLeg преобразует участок поездки. Время и платформа отправления
// берутся с участка, при отсутствии - с origin/destination: upstream
// заполняет то одно поле, то другое.
func normalizeLeg(raw domain.RawLeg) domain.JourneyLeg {
	origin := resolveStopPoint(raw.Origin)
	destination := resolveStopPoint(raw.Destination)

	departure := parseTimestamp(raw.Departure)
	if departure == nil {
		departure = origin.Departure
	}
	departurePlatform := strValue(raw.DeparturePlatform)
	if departurePlatform == "" {
		departurePlatform = origin.Platform
	}

	arrival := parseTimestamp(raw.Arrival)
	if arrival == nil {
		arrival = destination.Arrival
	}
	arrivalPlatform := strValue(raw.ArrivalPlatform)
	if arrivalPlatform == "" {
		arrivalPlatform = destination.Platform
	}

	stopovers := make([]domain.StopPoint, 0, len(raw.Stopovers))
	for _, so := range raw.Stopovers {
		stop := resolveStopPoint(so.Stop)
		if arr := parseTimestamp(so.Arrival); arr != nil {
			stop.Arrival = arr
		}
		if dep := parseTimestamp(so.Departure); dep != nil {
			stop.Departure = dep
		}
		if platform := strValue(so.DeparturePlatform); platform != "" {
			stop.Platform = platform
		} else if platform := strValue(so.ArrivalPlatform); platform != "" {
			stop.Platform = platform
		}
		stopovers = append(stopovers, stop)
	}

	return domain.JourneyLeg{
		Line:              normalizeLine(raw.Line),
		Departure:         departure,
		DeparturePlatform: departurePlatform,
		Arrival:           arrival,
		ArrivalPlatform:   arrivalPlatform,
		Origin:            origin,
		Destination:       destination,
		Stopovers:         stopovers,
	}
}

// journeyDurationMinutes вычисляет длительность поездки: сперва ISO-8601
// строка upstream, затем разница прибытие-отправление с округлением до
// минуты, иначе 0. Результат всегда >= 0.
func journeyDurationMinutes(raw *string, departure time.Time, arrival *time.Time) int {
	if raw != nil && *raw != "" {
		if d, err := iso8601.ParseISO8601(*raw); err == nil {
			minutes := d.D*24*60 + d.TH*60 + d.TM
			if d.TS >= 30 {
				minutes++
			}
			if minutes >= 0 {
				return minutes
			}
			return 0
		}
	}

	if arrival != nil && !departure.IsZero() {
		minutes := int(math.Round(arrival.Sub(departure).Minutes()))
		if minutes > 0 {
			return minutes
		}
	}

	return 0
}

// journeyProducts собирает множество продуктов поездки: объединение
// продуктов всех участков в нижнем регистре, без дубликатов.
func journeyProducts(legs []domain.JourneyLeg) []string {
	set := make(map[string]struct{}, len(legs))
	for _, leg := range legs {
		if product := strings.ToLower(leg.Line.Product); product != "" {
			set[product] = struct{}{}
		}
	}
	products := make([]string, 0, len(set))
	for product := range set {
		products = append(products, product)
	}
	sort.Strings(products)
	return products
}

// normalizeJourneys преобразует сырые поездки. ID - upstream journey id
// либо синтетический fallback (отправление+прибытие+индекс).
func normalizeJourneys(raws []domain.RawJourney) []domain.JourneyOption {
	journeys := make([]domain.JourneyOption, 0, len(raws))

	for i, raw := range raws {
		legs := make([]domain.JourneyLeg, 0, len(raw.Legs))
		for _, rawLeg := range raw.Legs {
			legs = append(legs, normalizeLeg(rawLeg))
		}

		var departure time.Time
		var arrival *time.Time
		if len(legs) > 0 {
			if first := legs[0].Departure; first != nil {
				departure = *first
			}
			arrival = legs[len(legs)-1].Arrival
		}

		id := strValue(raw.ID)
		if id == "" {
			arrivalPart := ""
			if arrival != nil {
				arrivalPart = arrival.Format(time.RFC3339)
			}
			id = fmt.Sprintf("%s|%s|%d", departure.Format(time.RFC3339), arrivalPart, i)
		}

		transfers := len(legs) - 1
		if transfers < 0 {
			transfers = 0
		}

		journeys = append(journeys, domain.JourneyOption{
			ID:              id,
			Departure:       departure,
			Arrival:         arrival,
			DurationMinutes: journeyDurationMinutes(raw.Duration, departure, arrival),
			Transfers:       transfers,
			Products:        journeyProducts(legs),
			Legs:            legs,
			Remarks:         flattenRemarks(raw.Remarks),
		})
	}

	return journeys
}

// normalizeStation преобразует сырую остановку в Station.
func normalizeStation(raw *domain.RawStop) *domain.Station {
	if raw == nil {
		return nil
	}
	products := raw.Products
	if products == nil {
		products = map[string]bool{}
	}
	return &domain.Station{
		ID:       strValue(raw.ID),
		Name:     strValue(raw.Name),
		Products: products,
	}
}
