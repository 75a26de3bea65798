package domain

import "time"

// DeparturePagination - offset/time-window вариант пагинации.
// Upstream-фид не адресуется по смещению, поэтому страницы симулируются
// сдвигом окна запроса (см. usecase).
type DeparturePagination struct {
	HasMore      bool   `json:"hasMore"`
	CurrentWhen  string `json:"currentWhen"`
	Duration     int    `json:"duration"` // minutes
	TotalResults int    `json:"totalResults"`
	CurrentPage  int    `json:"currentPage"`
	PageSize     int    `json:"pageSize"`
	HasNextPage  bool   `json:"hasNextPage"`
	HasPrevPage  bool   `json:"hasPrevPage"`
	NextPageURL  string `json:"nextPageUrl,omitempty"`
	PrevPageURL  string `json:"prevPageUrl,omitempty"`
}

// JourneyPagination - курсорный вариант пагинации. Токены - непрозрачные
// ссылки upstream-провайдера (laterRef/earlierRef); отсутствие токена в
// направлении означает отсутствие дальнейших страниц.
type JourneyPagination struct {
	HasNextPage    bool   `json:"hasNextPage"`
	HasPrevPage    bool   `json:"hasPrevPage"`
	NextToken      string `json:"nextToken,omitempty"`
	PrevToken      string `json:"prevToken,omitempty"`
	CurrentContext string `json:"currentContext,omitempty"`
	NextURL        string `json:"nextUrl,omitempty"`
	PrevURL        string `json:"prevUrl,omitempty"`
	TotalResults   int    `json:"totalResults"`
}

// Форматы ответа.
const (
	FormatFull           = "full"
	FormatMinimal        = "minimal"
	FormatJourneyFull    = "journey-full"
	FormatJourneyMinimal = "journey-minimal"
)

// Metadata - сопроводительные данные результата.
type Metadata struct {
	Timestamp         time.Time `json:"timestamp"`
	TotalCount        int       `json:"totalCount"`
	FilteredCount     int       `json:"filteredCount"`
	AppliedFilters    []string  `json:"appliedFilters"`
	AvailableProducts []string  `json:"availableProducts"`
	Format            string    `json:"format"`
}
