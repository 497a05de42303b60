package entity

import (
	"time"
)

// StockNews is one stored news item for a symbol on a trading date. Rows are
// append-only; HashIdentifier (md5 of symbol + normalized headline + source)
// makes re-runs conflict-ignore instead of duplicating.
type StockNews struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	StockSymbol    string     `gorm:"not null;index" json:"stock_symbol"`
	Date           time.Time  `gorm:"type:date;not null" json:"date"`
	Headline       string     `gorm:"not null" json:"headline"`
	URL            string     `json:"url"`
	Source         string     `json:"source"`
	Summary        string     `json:"summary"`
	HashIdentifier string     `gorm:"unique;not null" json:"hash_identifier"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the StockNews model.
func (StockNews) TableName() string {
	return "stock_news"
}
