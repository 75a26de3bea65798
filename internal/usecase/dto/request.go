package dto

import (
	"net/url"
	"time"
)

// DepartureRequest - запрос табло отправлений. Валидация происходит до
// любого обращения к upstream.
type DepartureRequest struct {
	Station  string    `json:"station" validate:"required,min=1"`
	When     time.Time `json:"when"`
	Duration int       `json:"duration" validate:"omitempty,min=1,max=720"` // minutes
	Page     int       `json:"page" validate:"omitempty,min=1"`
	PageSize int       `json:"pageSize" validate:"omitempty,min=1,max=100"`
	Filter   []string  `json:"filter"`
	Format   string    `json:"format" validate:"omitempty,oneof=full minimal"`
	// BaseURL и Query задаются вызывающей стороной для ссылок навигации;
	// ссылки строятся только при непустом BaseURL.
	BaseURL string     `json:"-"`
	Query   url.Values `json:"-"`
}

// JourneyRequest - запрос поиска поездок.
type JourneyRequest struct {
	From         string     `json:"from" validate:"required,min=1"`
	To           string     `json:"to" validate:"required,min=1"`
	When         time.Time  `json:"when"`
	IsArrival    bool       `json:"isArrival"`
	Products     []string   `json:"products"`
	MaxTransfers *int       `json:"maxTransfers" validate:"omitempty,min=0"`
	Direction    string     `json:"direction" validate:"omitempty,oneof=next prev"`
	Context      string     `json:"context"`
	Format       string     `json:"format" validate:"omitempty,oneof=full minimal"`
	BaseURL      string     `json:"-"`
	Query        url.Values `json:"-"`
}

// StationSearchRequest - запрос автодополнения станций.
type StationSearchRequest struct {
	Query string `json:"q" validate:"required,min=2"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=20"`
}
