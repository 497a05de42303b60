package dto

import (
	"time"

	"golang-stock-movers/internal/entity"
)

// ArticleOrigin tells which variant of the generator produced an article.
type ArticleOrigin string

const (
	OriginGenerated ArticleOrigin = "generated"
	OriginTemplated ArticleOrigin = "templated"
)

// ArticleDraft is the raw headline/body pair coming out of an AI provider
// before it is shaped into an entity.
type ArticleDraft struct {
	Headline string
	Content  string
}

// ArticleResult is the generator's two-variant output: the same article
// shape whether the AI produced it or the deterministic template did.
type ArticleResult struct {
	Article entity.Article
	Origin  ArticleOrigin
}

// ArticlePrompt carries everything the AI providers need to write one piece.
type ArticlePrompt struct {
	Symbol         string
	CompanyName    string
	Price          float64
	PriceChangePct float64
	MovementType   entity.MovementType
	Date           time.Time
	News           []entity.StockNews
	TopStoryText   string
	WSBMentions    int
	WSBSentiment   string
	IsWSBTrending  bool
}

// ArticleWithStockResponse enriches an article with its stock record for the
// daily read endpoints.
type ArticleWithStockResponse struct {
	entity.Article
	Stock *entity.Stock `json:"stock,omitempty"`
}
