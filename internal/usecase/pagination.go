package usecase

import (
	"net/url"
	"strconv"
	"time"

	"github.com/departures-microservice/internal/domain"
)

// Пагинация табло отправлений поверх не адресуемого по смещению фида.
// Upstream отвечает только на тройку (when, duration, results), поэтому
// страница N симулируется сдвигом начала окна вперёд и локальной нарезкой
// после фильтрации. Окно и количество запрашиваются с двукратным запасом:
// это компенсирует потери на фильтрации и даёт надёжный сигнал "есть ещё".

const (
	// DefaultPageSize - размер страницы по умолчанию. Верхнюю границу
	// (100) навязывает вызывающая сторона, не этот слой.
	DefaultPageSize = 10

	// DefaultDuration - окно запроса по умолчанию, минуты.
	DefaultDuration = 60

	// windowOverfetch - множитель запаса окна и количества результатов.
	windowOverfetch = 2
)

// departureWindowStart возвращает начало окна для страницы page:
// сдвиг на (page-1) * pageSize * 2 минут от исходного when.
func departureWindowStart(when time.Time, page, pageSize int) time.Time {
	if page <= 1 {
		return when
	}
	shift := time.Duration((page-1)*pageSize*windowOverfetch) * time.Minute
	return when.Add(shift)
}

// paginateDepartures нарезает отфильтрованный список до pageSize и строит
// конверт пагинации. hasNextPage истинен, когда отфильтрованных результатов
// строго больше pageSize. Пустая страница валидна: запрос за пределами
// доступных данных молча возвращает пустой набор, синтетической проверки
// границ слой не делает (это осознанное упрощение).
func paginateDepartures(
	filtered []domain.Departure,
	page, pageSize, duration int,
	windowStart time.Time,
	baseURL string,
	query url.Values,
) ([]domain.Departure, domain.DeparturePagination) {
	total := len(filtered)

	pageItems := filtered
	if len(pageItems) > pageSize {
		pageItems = pageItems[:pageSize]
	}

	pagination := domain.DeparturePagination{
		HasMore:      total > pageSize,
		CurrentWhen:  windowStart.Format(time.RFC3339),
		Duration:     duration,
		TotalResults: total,
		CurrentPage:  page,
		PageSize:     pageSize,
		HasNextPage:  total > pageSize,
		HasPrevPage:  page > 1,
	}

	// Ссылки навигации строятся только при заданном базовом URL: копия
	// текущих параметров запроса с перезаписанным page.
	if baseURL != "" {
		if pagination.HasNextPage {
			pagination.NextPageURL = buildPageURL(baseURL, query, page+1)
		}
		if pagination.HasPrevPage {
			pagination.PrevPageURL = buildPageURL(baseURL, query, page-1)
		}
	}

	return pageItems, pagination
}

// buildPageURL копирует параметры запроса и перезаписывает page.
func buildPageURL(baseURL string, query url.Values, page int) string {
	params := url.Values{}
	for key, values := range query {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("page", strconv.Itoa(page))
	return baseURL + "?" + params.Encode()
}

// paginateJourneys строит курсорный конверт из непрозрачных ссылок
// upstream. Отсутствие токена в направлении означает отсутствие дальнейших
// страниц. Токен, переигранный с чужим направлением, передаётся upstream
// как есть - политика восстановления не изобретается.
func paginateJourneys(
	raw *domain.RawJourneysResponse,
	currentContext string,
	total int,
	baseURL string,
	query url.Values,
) domain.JourneyPagination {
	pagination := domain.JourneyPagination{
		CurrentContext: currentContext,
		TotalResults:   total,
	}

	if raw == nil {
		return pagination
	}

	if raw.LaterRef != nil && *raw.LaterRef != "" {
		pagination.NextToken = *raw.LaterRef
		pagination.HasNextPage = true
	}
	if raw.EarlierRef != nil && *raw.EarlierRef != "" {
		pagination.PrevToken = *raw.EarlierRef
		pagination.HasPrevPage = true
	}

	if baseURL != "" {
		if pagination.HasNextPage {
			pagination.NextURL = buildCursorURL(baseURL, query, "next", pagination.NextToken)
		}
		if pagination.HasPrevPage {
			pagination.PrevURL = buildCursorURL(baseURL, query, "prev", pagination.PrevToken)
		}
	}

	return pagination
}

// buildCursorURL копирует параметры запроса и перезаписывает пару
// direction/context.
func buildCursorURL(baseURL string, query url.Values, direction, token string) string {
	params := url.Values{}
	for key, values := range query {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("direction", direction)
	params.Set("context", token)
	return baseURL + "?" + params.Encode()
}
