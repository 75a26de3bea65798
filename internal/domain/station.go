package domain

import "sort"

// Station - транзитная остановка, найденная по нечёткому текстовому запросу.
// Products перечисляет виды транспорта, обслуживающие станцию.
type Station struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Products map[string]bool `json:"products"`
}

// AvailableProducts возвращает отсортированный список продуктов,
// доступных на станции (только включённые).
func (s *Station) AvailableProducts() []string {
	if s == nil || len(s.Products) == 0 {
		return []string{}
	}
	products := make([]string, 0, len(s.Products))
	for product, enabled := range s.Products {
		if enabled {
			products = append(products, product)
		}
	}
	sort.Strings(products)
	return products
}
