// Package docs Departures Microservice API.
//
// Микросервис табло отправлений австрийских железных дорог поверх ÖBB
// HAFAS. Предоставляет API для табло отправлений станций, поиска поездок
// точка-точка и автодополнения названий станций.
//
// Основные возможности:
// - Табло отправлений с фильтрацией по продуктам и постраничной навигацией
// - Поиск поездок с курсорной пагинацией по токенам провайдера
// - Автодополнение станций с кешированием
// - Самодокументируемый эндпоинт /api
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
