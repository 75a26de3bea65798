package errors

import "net/http"

var (
	ErrStationRequired = New(
		"STATION_REQUIRED",
		"Station parameter is required",
		http.StatusBadRequest,
	)

	ErrStationNotFound = New(
		"STATION_NOT_FOUND",
		"Station not found or no departures available",
		http.StatusNotFound,
	)

	ErrInvalidPagination = New(
		"INVALID_PAGINATION",
		"Invalid pagination parameters: page must be >= 1, pageSize between 1 and 100",
		http.StatusBadRequest,
	)

	ErrInvalidFormat = New(
		"INVALID_FORMAT",
		"Invalid format value: must be 'full' or 'minimal'",
		http.StatusBadRequest,
	)

	ErrInvalidWhen = New(
		"INVALID_WHEN",
		"Invalid 'when' value: must be an ISO8601 timestamp",
		http.StatusBadRequest,
	)

	ErrMissingJourneyEndpoints = New(
		"MISSING_JOURNEY_ENDPOINTS",
		"Missing required parameters `from` and `to`",
		http.StatusBadRequest,
	)

	ErrUpstreamUnavailable = New(
		"UPSTREAM_UNAVAILABLE",
		"Transit data provider is unavailable",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
