package dto

import (
	"time"
)

// ProviderNewsItem is a provider-agnostic news hit before it is keyed and
// stored as entity.StockNews.
type ProviderNewsItem struct {
	Headline    string
	URL         string
	Source      string
	Summary     string
	PublishedAt *time.Time
}

// NewsWindow bounds a provider query in time.
type NewsWindow struct {
	From time.Time
	To   time.Time
}

// NewsAPIResponse is the /v2/everything envelope.
type NewsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
}

// NewsAPIArticle is one article row from NewsAPI.
type NewsAPIArticle struct {
	Source      NewsAPISource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt time.Time     `json:"publishedAt"`
}

// NewsAPISource identifies the publisher.
type NewsAPISource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
