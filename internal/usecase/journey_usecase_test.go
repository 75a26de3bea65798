package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"github.com/departures-microservice/internal/usecase"
	"github.com/departures-microservice/internal/usecase/dto"
)

func salzburgHbf() *domain.RawStop {
	return &domain.RawStop{
		ID:   strPtr("8100002"),
		Name: strPtr("Salzburg Hbf"),
	}
}

func rawJourney(id string, legs ...domain.RawLeg) domain.RawJourney {
	return domain.RawJourney{ID: strPtr(id), Legs: legs}
}

func rawLeg(product, departure, arrival string) domain.RawLeg {
	return domain.RawLeg{
		Line:      &domain.RawLine{Name: strPtr(product), Product: strPtr(product)},
		Departure: strPtr(departure),
		Arrival:   strPtr(arrival),
	}
}

// TestSearchJourneys_Success tests the happy path with concurrent endpoint
// resolution and envelope construction
func TestSearchJourneys_Success(t *testing.T) {
	transitRepo := &MockTransitRepository{}
	cacheRepo := &MockCacheRepository{}

	cacheRepo.On("GetStation", mock.Anything, "Wien Hbf").Return(wienHbfPtr(), nil)
	cacheRepo.On("GetStation", mock.Anything, "Salzburg Hbf").Return(salzburgHbf(), nil)

	later := "later-token"
	transitRepo.On("Journeys", mock.Anything, "1290401", "8100002", mock.Anything).
		Return(&domain.RawJourneysResponse{
			Journeys: []domain.RawJourney{
				rawJourney("j1", rawLeg("nationalExpress", "2025-09-10T14:00:00Z", "2025-09-10T16:22:00Z")),
			},
			LaterRef: &later,
		}, nil)

	uc := usecase.NewJourneyUseCase(transitRepo, cacheRepo, zap.NewNop(), time.Hour)
	result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
		From: "Wien Hbf",
		To:   "Salzburg Hbf",
	})

	assert.Empty(t, result.Error)
	require.Len(t, result.Journeys, 1)
	assert.Equal(t, "j1", result.Journeys[0].ID)
	assert.True(t, result.Pagination.HasNextPage)
	assert.Equal(t, "later-token", result.Pagination.NextToken)
	assert.Equal(t, "Wien Hbf", result.Query.From)
	transitRepo.AssertExpectations(t)
}

// TestSearchJourneys_DirectionTokenRouting tests that next routes the
// context token to laterThan and prev to earlierThan
func TestSearchJourneys_DirectionTokenRouting(t *testing.T) {
	tests := []struct {
		direction   string
		laterThan   string
		earlierThan string
	}{
		{direction: "next", laterThan: "tok"},
		{direction: "prev", earlierThan: "tok"},
	}

	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			transitRepo := &MockTransitRepository{}
			cacheRepo := &MockCacheRepository{}

			cacheRepo.On("GetStation", mock.Anything, "Wien Hbf").Return(wienHbfPtr(), nil)
			cacheRepo.On("GetStation", mock.Anything, "Salzburg Hbf").Return(salzburgHbf(), nil)

			transitRepo.On("Journeys", mock.Anything, "1290401", "8100002", mock.MatchedBy(func(opts repository.JourneysOptions) bool {
				return opts.LaterThan == tt.laterThan && opts.EarlierThan == tt.earlierThan
			})).Return(&domain.RawJourneysResponse{}, nil)

			uc := usecase.NewJourneyUseCase(transitRepo, cacheRepo, zap.NewNop(), time.Hour)
			result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
				From:      "Wien Hbf",
				To:        "Salzburg Hbf",
				Direction: tt.direction,
				Context:   "tok",
			})

			assert.Empty(t, result.Error)
			assert.Equal(t, "tok", result.Pagination.CurrentContext)
			transitRepo.AssertExpectations(t)
		})
	}
}

// TestSearchJourneys_EndpointResolutionFailureAborts tests that a failed
// endpoint lookup aborts the whole search instead of proceeding partially
func TestSearchJourneys_EndpointResolutionFailureAborts(t *testing.T) {
	transitRepo := &MockTransitRepository{}
	cacheRepo := &MockCacheRepository{}

	cacheRepo.On("GetStation", mock.Anything, mock.Anything).Return(nil, nil)
	transitRepo.On("Locations", mock.Anything, "Wien Hbf", mock.Anything).
		Return([]domain.RawStop{wienHbf()}, nil)
	transitRepo.On("Locations", mock.Anything, "Salzburg Hbf", mock.Anything).
		Return(nil, errors.New("timeout"))
	cacheRepo.On("SetStation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewJourneyUseCase(transitRepo, cacheRepo, zap.NewNop(), time.Hour)
	result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
		From: "Wien Hbf",
		To:   "Salzburg Hbf",
	})

	assert.Equal(t, domain.ErrMsgJourneysFailure, result.Error)
	assert.Empty(t, result.Journeys)
	transitRepo.AssertNotCalled(t, "Journeys", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestSearchJourneys_UnknownEndpointIsNotFound tests that an unresolvable
// station yields the not-found message rather than the generic failure
func TestSearchJourneys_UnknownEndpointIsNotFound(t *testing.T) {
	transitRepo := &MockTransitRepository{}
	cacheRepo := &MockCacheRepository{}

	cacheRepo.On("GetStation", mock.Anything, mock.Anything).Return(nil, nil)
	transitRepo.On("Locations", mock.Anything, "Wien Hbf", mock.Anything).
		Return([]domain.RawStop{wienHbf()}, nil)
	transitRepo.On("Locations", mock.Anything, "Nonsenseville", mock.Anything).
		Return([]domain.RawStop{}, nil)
	cacheRepo.On("SetStation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewJourneyUseCase(transitRepo, cacheRepo, zap.NewNop(), time.Hour)
	result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
		From: "Wien Hbf",
		To:   "Nonsenseville",
	})

	assert.Equal(t, domain.ErrMsgStationNotFound, result.Error)
	assert.Empty(t, result.Journeys)
}

// TestSearchJourneys_FiltersApplied tests product OR-filtering and the
// transfer threshold on top of normalized journeys
func TestSearchJourneys_FiltersApplied(t *testing.T) {
	transitRepo := &MockTransitRepository{}
	cacheRepo := &MockCacheRepository{}

	cacheRepo.On("GetStation", mock.Anything, "Wien Hbf").Return(wienHbfPtr(), nil)
	cacheRepo.On("GetStation", mock.Anything, "Salzburg Hbf").Return(salzburgHbf(), nil)

	transitRepo.On("Journeys", mock.Anything, "1290401", "8100002", mock.Anything).
		Return(&domain.RawJourneysResponse{
			Journeys: []domain.RawJourney{
				rawJourney("direct", rawLeg("nationalExpress", "2025-09-10T14:00:00Z", "2025-09-10T16:22:00Z")),
				rawJourney("change",
					rawLeg("regional", "2025-09-10T14:10:00Z", "2025-09-10T15:00:00Z"),
					rawLeg("suburban", "2025-09-10T15:10:00Z", "2025-09-10T16:40:00Z")),
			},
		}, nil)

	uc := usecase.NewJourneyUseCase(transitRepo, cacheRepo, zap.NewNop(), time.Hour)

	t.Run("product OR across legs", func(t *testing.T) {
		result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
			From:     "Wien Hbf",
			To:       "Salzburg Hbf",
			Products: []string{"suburban"},
		})

		require.Len(t, result.Journeys, 1)
		assert.Equal(t, "change", result.Journeys[0].ID)
		assert.Equal(t, 2, result.Metadata.TotalCount)
		assert.Equal(t, 1, result.Metadata.FilteredCount)
	})

	t.Run("max transfers threshold", func(t *testing.T) {
		result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
			From:         "Wien Hbf",
			To:           "Salzburg Hbf",
			MaxTransfers: intPtr(0),
		})

		require.Len(t, result.Journeys, 1)
		assert.Equal(t, "direct", result.Journeys[0].ID)
	})
}

// TestSearchJourneys_MetadataFormatVariant tests that journey metadata
// carries the journey-specific format variant for every request value
func TestSearchJourneys_MetadataFormatVariant(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected string
	}{
		{name: "default", format: "", expected: domain.FormatJourneyFull},
		{name: "full", format: domain.FormatFull, expected: domain.FormatJourneyFull},
		{name: "minimal", format: domain.FormatMinimal, expected: domain.FormatJourneyMinimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transitRepo := &MockTransitRepository{}
			cacheRepo := &MockCacheRepository{}

			cacheRepo.On("GetStation", mock.Anything, "Wien Hbf").Return(wienHbfPtr(), nil)
			cacheRepo.On("GetStation", mock.Anything, "Salzburg Hbf").Return(salzburgHbf(), nil)
			transitRepo.On("Journeys", mock.Anything, "1290401", "8100002", mock.Anything).
				Return(&domain.RawJourneysResponse{}, nil)

			uc := usecase.NewJourneyUseCase(transitRepo, cacheRepo, zap.NewNop(), time.Hour)
			result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
				From:   "Wien Hbf",
				To:     "Salzburg Hbf",
				Format: tt.format,
			})

			assert.Empty(t, result.Error)
			assert.Equal(t, tt.expected, result.Metadata.Format)
		})
	}
}

// TestSearchJourneys_MetadataFormatVariantOnError tests that error envelopes
// keep the journey format variant as well
func TestSearchJourneys_MetadataFormatVariantOnError(t *testing.T) {
	transitRepo := &MockTransitRepository{}
	cacheRepo := &MockCacheRepository{}

	cacheRepo.On("GetStation", mock.Anything, mock.Anything).Return(nil, nil)
	transitRepo.On("Locations", mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.RawStop{}, nil)

	uc := usecase.NewJourneyUseCase(transitRepo, cacheRepo, zap.NewNop(), time.Hour)
	result := uc.SearchJourneys(context.Background(), dto.JourneyRequest{
		From:   "Wien Hbf",
		To:     "Nonsenseville",
		Format: domain.FormatMinimal,
	})

	assert.Equal(t, domain.ErrMsgStationNotFound, result.Error)
	assert.Equal(t, domain.FormatJourneyMinimal, result.Metadata.Format)
}
