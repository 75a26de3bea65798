package domain

import "time"

// SearchRecord - запись истории поисков. Серверный аналог "последней
// искомой станции" клиента: пишется best-effort при каждом успешном
// поиске, сбои записи не влияют на основной поток.
type SearchRecord struct {
	ID        string    `db:"id" json:"id"`
	Station   string    `db:"station" json:"station"`
	StopID    string    `db:"stop_id" json:"stopId,omitempty"`
	Products  []string  `db:"products" json:"products,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
