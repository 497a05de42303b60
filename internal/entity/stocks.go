package entity

import (
	"time"
)

// Stock is one symbol's end-of-day snapshot for a trading date. A row is
// written per mover per day; re-runs for the same day update in place.
type Stock struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Symbol         string    `gorm:"not null;uniqueIndex:idx_stocks_symbol_date" json:"symbol"`
	Name           string    `json:"name"`
	Date           time.Time `gorm:"type:date;not null;uniqueIndex:idx_stocks_symbol_date" json:"date"`
	Price          float64   `gorm:"not null" json:"price"`
	PriceChange    float64   `json:"price_change"`
	PriceChangePct float64   `json:"price_change_pct"`
	Volume         int64     `json:"volume"`
	WSBMentions    int       `json:"wsb_mentions"`
	WSBSentiment   string    `json:"wsb_sentiment"`
	IsWSBTrending  bool      `json:"is_wsb_trending"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Stock model.
func (Stock) TableName() string {
	return "stocks"
}
