// Package filter содержит предикаты фильтрации отправлений и поездок.
// Все сравнения кодов продуктов регистронезависимы: множества фильтров
// нормализуются в нижний регистр и при построении, и при проверке.
// Пустое множество фильтров означает "без фильтрации", а не "отфильтровать
// всё" - ненастроенный UI показывает все данные.
package filter

import (
	"strings"

	"github.com/departures-microservice/internal/domain"
)

// Set - множество активных значений фильтра в нижнем регистре.
type Set map[string]struct{}

// NewSet строит множество фильтров из списка значений, нормализуя регистр
// и отбрасывая пустые строки.
func NewSet(values []string) Set {
	set := make(Set, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// Values возвращает элементы множества как слайс.
func (s Set) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	return values
}

// Has проверяет членство с нормализацией регистра.
func (s Set) Has(value string) bool {
	_, ok := s[strings.ToLower(value)]
	return ok
}

// Toggle возвращает новое множество с переключённым значением:
// присутствует - удалить, отсутствует - добавить. Двойное переключение
// одного значения возвращает множество к исходному состоянию.
func Toggle(set Set, value string) Set {
	next := make(Set, len(set)+1)
	for v := range set {
		next[v] = struct{}{}
	}
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return next
	}
	if _, ok := next[normalized]; ok {
		delete(next, normalized)
	} else {
		next[normalized] = struct{}{}
	}
	return next
}

// Clear возвращает пустое множество ("показывать всё").
func Clear() Set {
	return make(Set)
}

// HasActive сообщает, активен ли хоть один фильтр.
func HasActive(set Set) bool {
	return len(set) > 0
}

// Departures оставляет отправления, чей продукт входит в множество.
func Departures(departures []domain.Departure, products Set) []domain.Departure {
	if len(products) == 0 {
		return departures
	}

	filtered := make([]domain.Departure, 0, len(departures))
	for _, dep := range departures {
		if dep.Line.Product == "" {
			continue
		}
		if products.Has(dep.Line.Product) {
			filtered = append(filtered, dep)
		}
	}
	return filtered
}

// DeparturesByPlatform оставляет отправления с платформой из множества.
// Композиция с фильтром продуктов конъюнктивна: вызывающий применяет оба
// предиката последовательно.
func DeparturesByPlatform(departures []domain.Departure, platforms Set) []domain.Departure {
	if len(platforms) == 0 {
		return departures
	}

	filtered := make([]domain.Departure, 0, len(departures))
	for _, dep := range departures {
		if dep.Platform == "" {
			continue
		}
		if platforms.Has(dep.Platform) {
			filtered = append(filtered, dep)
		}
	}
	return filtered
}

// Journeys оставляет поездки, у которых хотя бы один участок имеет продукт
// из множества (OR по участкам: поездка мультисегментна, точное совпадение
// одного продукта здесь неуместно).
func Journeys(journeys []domain.JourneyOption, products Set) []domain.JourneyOption {
	if len(products) == 0 {
		return journeys
	}

	filtered := make([]domain.JourneyOption, 0, len(journeys))
	for _, journey := range journeys {
		for _, product := range journey.Products {
			if products.Has(product) {
				filtered = append(filtered, journey)
				break
			}
		}
	}
	return filtered
}

// JourneysByTransfers оставляет поездки с transfers <= max.
// nil означает отсутствие ограничения.
func JourneysByTransfers(journeys []domain.JourneyOption, max *int) []domain.JourneyOption {
	if max == nil || *max < 0 {
		return journeys
	}

	filtered := make([]domain.JourneyOption, 0, len(journeys))
	for _, journey := range journeys {
		if journey.Transfers <= *max {
			filtered = append(filtered, journey)
		}
	}
	return filtered
}
