package dto

// TrendingStock is one row of the tradestie wallstreetbets API.
type TrendingStock struct {
	Ticker         string  `json:"ticker"`
	NoOfComments   int     `json:"no_of_comments"`
	Sentiment      string  `json:"sentiment"`
	SentimentScore float64 `json:"sentiment_score"`
}
