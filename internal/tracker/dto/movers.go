package dto

import (
	"golang-stock-movers/internal/entity"
)

// MoverSet is the ranked output of one trading day: top winners ordered by
// percent change descending, top losers ordered ascending (worst first).
type MoverSet struct {
	Winners []entity.Stock `json:"winners"`
	Losers  []entity.Stock `json:"losers"`
}

// Movers flattens the set in winners-then-losers order, the order articles
// are generated in.
func (m MoverSet) Movers() []Mover {
	out := make([]Mover, 0, len(m.Winners)+len(m.Losers))
	for _, s := range m.Winners {
		out = append(out, Mover{Stock: s, MovementType: entity.MovementTypeWinner})
	}
	for _, s := range m.Losers {
		out = append(out, Mover{Stock: s, MovementType: entity.MovementTypeLoser})
	}
	return out
}

// Mover pairs a stock record with the side of the ranking it landed on.
type Mover struct {
	Stock        entity.Stock
	MovementType entity.MovementType
}

// DailyMoversResponse is the read-API view of a trading day.
type DailyMoversResponse struct {
	Date    string         `json:"date"`
	Winners []entity.Stock `json:"winners"`
	Losers  []entity.Stock `json:"losers"`
}
