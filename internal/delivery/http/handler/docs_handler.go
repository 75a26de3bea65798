package handler

import (
	"github.com/gofiber/fiber/v2"
)

// DocsHandler - самодокументация API: машиночитаемое описание эндпоинтов,
// глоссарий типов транспорта и таблица кодов ошибок.
type DocsHandler struct{}

// NewDocsHandler - создание нового DocsHandler
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// GetDocs godoc
// @Summary Описание API
// @Description Возвращает машиночитаемое описание всех эндпоинтов, типов транспорта и кодов ошибок
// @Tags Docs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api [get]
func (h *DocsHandler) GetDocs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"title":       "Austrian Train Departures API",
		"description": "RESTful API for Austrian train departure and journey data using ÖBB HAFAS",
		"version":     "1.0.0",
		"baseUrl":     "/api",
		"endpoints": fiber.Map{
			"/api/departures": fiber.Map{
				"method":      "GET",
				"description": "Get train departures for a station",
				"parameters": fiber.Map{
					"station":  "string, required - station name (e.g. 'Wien Hauptbahnhof')",
					"when":     "string, optional - ISO8601 window start, defaults to now",
					"duration": "int, optional - window width in minutes (1-720), default 60",
					"page":     "int, optional - page number (>=1), default 1",
					"pageSize": "int, optional - page size (1-100), default 10",
					"filter":   "string, optional - comma-separated product types",
					"format":   "string, optional - 'full' or 'minimal'",
				},
				"examples": []string{
					"/api/departures?station=Wien Hauptbahnhof",
					"/api/departures?station=Salzburg Hbf&filter=regional,suburban",
					"/api/departures?station=Innsbruck Hbf&format=minimal",
				},
			},
			"/api/journeys": fiber.Map{
				"method":      "GET",
				"description": "Search point-to-point journeys between two stations",
				"parameters": fiber.Map{
					"from":         "string, required - origin station name",
					"to":           "string, required - destination station name",
					"when":         "string, optional - ISO8601 timestamp, defaults to now",
					"isArrival":    "bool, optional - treat 'when' as arrival time",
					"products":     "string, optional - comma-separated product types",
					"maxTransfers": "int, optional - maximum number of transfers (>=0)",
					"direction":    "string, optional - 'next' or 'prev' with context token",
					"context":      "string, optional - pagination token from a previous response",
					"format":       "string, optional - 'full' or 'minimal'",
				},
				"examples": []string{
					"/api/journeys?from=Wien Hbf&to=Salzburg Hbf",
					"/api/journeys?from=Wien Hbf&to=Salzburg Hbf&products=nationalExpress",
				},
			},
			"/api/stations/search": fiber.Map{
				"method":      "GET",
				"description": "Station name autocomplete",
				"parameters": fiber.Map{
					"q":     "string, required - search query (min 2 characters)",
					"limit": "int, optional - max results (1-20), default 5",
				},
				"examples": []string{
					"/api/stations/search?q=Wien",
				},
			},
		},
		"transportTypes": fiber.Map{
			"nationalExpress": "ICE/RJ (High-speed trains)",
			"national":        "IC/EC (Intercity trains)",
			"interregional":   "IR (Interregional trains)",
			"regional":        "REX/R (Regional trains)",
			"suburban":        "S-Bahn (Suburban trains)",
			"bus":             "Bus services",
			"ferry":           "Ferry services",
			"subway":          "U-Bahn (Underground)",
			"tram":            "Tram services",
			"onCall":          "On-call services",
		},
		"errorCodes": fiber.Map{
			"400": "Bad Request - Missing or invalid request parameters",
			"404": "Not Found - Station not found or no departures available",
			"500": "Internal Server Error - Upstream provider failure or server error",
		},
		"notes": []string{
			"All times are in local Austrian time",
			"Delays are provided in seconds in the full format and in minutes in the minimal format",
			"Station names should be in German (e.g. 'Wien Hauptbahnhof' not 'Vienna Central')",
			"Product filtering is case-insensitive",
			"API responses include CORS headers for browser usage",
		},
	})
}
