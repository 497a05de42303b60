package entity

import (
	"time"
)

// MovementType classifies which side of the daily ranking an article covers.
type MovementType string

const (
	MovementTypeWinner MovementType = "winner"
	MovementTypeLoser  MovementType = "loser"
)

// Article is the explanatory piece for one mover on one trading date.
// (stock_symbol, date, movement_type) is the idempotency key: a re-run
// refreshes title, content and slug instead of inserting a duplicate.
type Article struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	StockSymbol  string       `gorm:"not null;uniqueIndex:idx_articles_symbol_date_movement" json:"stock_symbol"`
	Date         time.Time    `gorm:"type:date;not null;uniqueIndex:idx_articles_symbol_date_movement" json:"date"`
	MovementType MovementType `gorm:"not null;uniqueIndex:idx_articles_symbol_date_movement" json:"movement_type"`
	Title        string       `gorm:"not null" json:"title"`
	Content      string       `gorm:"not null" json:"content"`
	Slug         string       `gorm:"unique;not null" json:"slug"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Article model.
func (Article) TableName() string {
	return "articles"
}
