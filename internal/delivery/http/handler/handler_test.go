package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/departures-microservice/internal/delivery/http/handler"
	"github.com/departures-microservice/internal/domain"
	"github.com/departures-microservice/internal/domain/repository"
	"github.com/departures-microservice/internal/usecase"
)

// MockTransitRepository - мок upstream-провайдера
type MockTransitRepository struct {
	mock.Mock
}

func (m *MockTransitRepository) Locations(ctx context.Context, query string, opts repository.LocationsOptions) ([]domain.RawStop, error) {
	args := m.Called(ctx, query, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawStop), args.Error(1)
}

func (m *MockTransitRepository) Departures(ctx context.Context, stationID string, opts repository.DeparturesOptions) (*domain.RawDeparturesResponse, error) {
	args := m.Called(ctx, stationID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawDeparturesResponse), args.Error(1)
}

func (m *MockTransitRepository) Journeys(ctx context.Context, fromID, toID string, opts repository.JourneysOptions) (*domain.RawJourneysResponse, error) {
	args := m.Called(ctx, fromID, toID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawJourneysResponse), args.Error(1)
}

// MockCacheRepository - мок кеша
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetStation(ctx context.Context, query string) (*domain.RawStop, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawStop), args.Error(1)
}

func (m *MockCacheRepository) SetStation(ctx context.Context, query string, stop *domain.RawStop, ttl time.Duration) error {
	args := m.Called(ctx, query, stop, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetLastStation(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) SetLastStation(ctx context.Context, station string) error {
	args := m.Called(ctx, station)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func wienHbf() domain.RawStop {
	return domain.RawStop{
		ID:       strPtr("1290401"),
		Name:     strPtr("Wien Hbf"),
		Products: map[string]bool{"nationalExpress": true, "regional": true},
	}
}

type testEnv struct {
	app     *fiber.App
	transit *MockTransitRepository
	cache   *MockCacheRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	transitRepo := &MockTransitRepository{}
	cacheRepo := &MockCacheRepository{}
	logger := zap.NewNop()

	departureUC := usecase.NewDepartureUseCase(transitRepo, cacheRepo, nil, logger, time.Hour, 0)
	journeyUC := usecase.NewJourneyUseCase(transitRepo, cacheRepo, logger, time.Hour)
	stationUC := usecase.NewStationUseCase(transitRepo, cacheRepo, logger, time.Hour)

	app := fiber.New()
	app.Get("/api/departures", handler.NewDepartureHandler(departureUC, logger).GetDepartures)
	app.Get("/api/journeys", handler.NewJourneyHandler(journeyUC, logger).SearchJourneys)
	app.Get("/api/stations/search", handler.NewStationHandler(stationUC, logger).Search)

	return &testEnv{app: app, transit: transitRepo, cache: cacheRepo}
}

func (env *testEnv) get(t *testing.T, path string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// TestGetDepartures_MissingStation tests the 400 response with usage examples
func TestGetDepartures_MissingStation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/departures")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
	assert.Contains(t, body["examples"], "basic")
}

// TestGetDepartures_InvalidWhen tests rejection of a malformed timestamp
func TestGetDepartures_InvalidWhen(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/departures?station=Wien+Hbf&when=yesterday")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

// TestGetDepartures_UnknownStation tests the 404 mapping with the full envelope
func TestGetDepartures_UnknownStation(t *testing.T) {
	env := newTestEnv(t)

	env.cache.On("GetStation", mock.Anything, "Nonsenseville").Return(nil, nil)
	env.transit.On("Locations", mock.Anything, "Nonsenseville", mock.Anything).
		Return([]domain.RawStop{}, nil)

	status, body := env.get(t, "/api/departures?station=Nonsenseville")

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, domain.ErrMsgStationNotFound, body["error"])
	require.Contains(t, body, "data")
	env.transit.AssertNotCalled(t, "Departures", mock.Anything, mock.Anything, mock.Anything)
}

// TestGetDepartures_Success tests the happy path envelope
func TestGetDepartures_Success(t *testing.T) {
	env := newTestEnv(t)

	env.cache.On("GetStation", mock.Anything, "Wien Hbf").Return(nil, nil)
	env.transit.On("Locations", mock.Anything, "Wien Hbf", mock.Anything).
		Return([]domain.RawStop{wienHbf()}, nil)
	env.cache.On("SetStation", mock.Anything, "Wien Hbf", mock.Anything, mock.Anything).Return(nil)
	env.cache.On("SetLastStation", mock.Anything, "Wien Hbf").Return(nil)

	env.transit.On("Departures", mock.Anything, "1290401", mock.Anything).
		Return(&domain.RawDeparturesResponse{
			Departures: []domain.RawDeparture{
				{
					TripID:    strPtr("trip-1"),
					When:      strPtr(time.Now().Add(10 * time.Minute).Format(time.RFC3339)),
					Direction: strPtr("Salzburg Hbf"),
					Line:      &domain.RawLine{Name: strPtr("RJX 160"), Product: strPtr("nationalExpress")},
				},
			},
		}, nil)

	status, body := env.get(t, "/api/departures?station=Wien+Hbf")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	require.Contains(t, body, "data")
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Wien Hbf", data["station"])
	assert.Len(t, data["departures"], 1)
}

// TestSearchJourneys_MissingEndpoints tests the 400 response for from/to
func TestSearchJourneys_MissingEndpoints(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/journeys?from=Wien+Hbf")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["examples"], "basic")
}

// TestSearchJourneys_NegativeMaxTransfers tests parameter validation
func TestSearchJourneys_NegativeMaxTransfers(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/journeys?from=Wien+Hbf&to=Salzburg+Hbf&maxTransfers=-1")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

// TestSearchStations_Success tests the autocomplete contract
func TestSearchStations_Success(t *testing.T) {
	env := newTestEnv(t)

	env.transit.On("Locations", mock.Anything, "Wien", mock.Anything).
		Return([]domain.RawStop{wienHbf()}, nil)

	status, body := env.get(t, "/api/stations/search?q=Wien")

	assert.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "stations")
	assert.Len(t, body["stations"], 1)
}

// TestSearchStations_ShortQuery tests that short queries yield 200 and an
// empty list instead of an error
func TestSearchStations_ShortQuery(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/stations/search?q=W")

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["stations"])
	env.transit.AssertNotCalled(t, "Locations", mock.Anything, mock.Anything, mock.Anything)
}

// TestSearchStations_UpstreamFailure tests the 500 with an empty list so the
// client can clear its suggestions
func TestSearchStations_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)

	env.transit.On("Locations", mock.Anything, "Wien", mock.Anything).
		Return(nil, assert.AnError)

	status, body := env.get(t, "/api/stations/search?q=Wien")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Empty(t, body["stations"])
	assert.NotEmpty(t, body["error"])
}

// TestGetDepartures_ExplicitZeroPage tests that page=0 is rejected instead of
// being coerced to the default
func TestGetDepartures_ExplicitZeroPage(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/departures?station=Wien+Hbf&page=0")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	env.transit.AssertNotCalled(t, "Locations", mock.Anything, mock.Anything, mock.Anything)
}

// TestGetDepartures_ExplicitZeroPageSize tests that pageSize=0 is rejected
func TestGetDepartures_ExplicitZeroPageSize(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/departures?station=Wien+Hbf&pageSize=0")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

// TestGetDepartures_PageSizeOverLimit tests the upper bound of pageSize
func TestGetDepartures_PageSizeOverLimit(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/api/departures?station=Wien+Hbf&pageSize=101")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

// TestGetDepartures_UpstreamFailureDetails tests that the 500 envelope carries
// the machine-readable error code
func TestGetDepartures_UpstreamFailureDetails(t *testing.T) {
	env := newTestEnv(t)

	env.cache.On("GetStation", mock.Anything, "Wien Hbf").Return(nil, nil)
	env.transit.On("Locations", mock.Anything, "Wien Hbf", mock.Anything).
		Return(nil, assert.AnError)

	status, body := env.get(t, "/api/departures?station=Wien+Hbf")

	assert.Equal(t, http.StatusInternalServerError, status)
	require.Contains(t, body, "details")
	details := body["details"].(map[string]interface{})
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", details["code"])
}

// TestSearchJourneys_MetadataFormat tests that journey metadata reports the
// journey-full format variant
func TestSearchJourneys_MetadataFormat(t *testing.T) {
	env := newTestEnv(t)

	wien := wienHbf()
	salzburg := domain.RawStop{
		ID:       strPtr("8100002"),
		Name:     strPtr("Salzburg Hbf"),
		Products: map[string]bool{"nationalExpress": true},
	}
	env.cache.On("GetStation", mock.Anything, "Wien Hbf").Return(&wien, nil)
	env.cache.On("GetStation", mock.Anything, "Salzburg Hbf").Return(&salzburg, nil)
	env.transit.On("Journeys", mock.Anything, "1290401", "8100002", mock.Anything).
		Return(&domain.RawJourneysResponse{}, nil)

	status, body := env.get(t, "/api/journeys?from=Wien+Hbf&to=Salzburg+Hbf")

	assert.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "metadata")
	metadata := body["metadata"].(map[string]interface{})
	assert.Equal(t, domain.FormatJourneyFull, metadata["format"])
}
