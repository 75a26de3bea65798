package store

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/departures-microservice/internal/usecase"
	"github.com/departures-microservice/internal/usecase/dto"
)

// suggestionMinLength - минимальная длина запроса автодополнения; короче -
// отмена отложенного запроса и очистка подсказок.
const suggestionMinLength = 2

// suggestionDebounce - пауза тишины перед обращением к upstream.
const suggestionDebounce = 300 * time.Millisecond

// SuggestionSearcher связывает ввод пользователя с поиском станций:
// debounce по вводу, монотонные номера запросов, отбрасывание устаревших
// ответов через Store.
type SuggestionSearcher struct {
	store     *Store
	stationUC *usecase.StationUseCase
	debouncer *Debouncer
	logger    *zap.Logger
}

// NewSuggestionSearcher - создание нового SuggestionSearcher
func NewSuggestionSearcher(store *Store, stationUC *usecase.StationUseCase, logger *zap.Logger) *SuggestionSearcher {
	return &SuggestionSearcher{
		store:     store,
		stationUC: stationUC,
		debouncer: NewDebouncer(suggestionDebounce),
		logger:    logger,
	}
}

// OnInput обрабатывает очередное значение поля ввода. Короткий запрос
// немедленно отменяет отложенный поиск и инвалидирует запросы в полёте;
// достаточный - планирует поиск после паузы во вводе.
func (s *SuggestionSearcher) OnInput(ctx context.Context, text string) {
	query := strings.TrimSpace(text)
	if len([]rune(query)) < suggestionMinLength {
		s.debouncer.Cancel()
		s.store.CancelSuggestions()
		return
	}

	s.debouncer.Trigger(func() {
		seq := s.store.BeginSuggestionRequest()
		resp, err := s.stationUC.Search(ctx, dto.StationSearchRequest{Query: query})
		if err != nil {
			s.logger.Warn("Suggestion search failed",
				zap.String("query", query),
				zap.Error(err))
			s.store.ApplySuggestions(seq, nil)
			return
		}
		s.store.ApplySuggestions(seq, resp.Stations)
	})
}
