package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang-stock-movers/pkg/logger"

	"github.com/PuerkitoBio/goquery"
)

const wikipediaSP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

type wikipediaRepository struct {
	log        *logger.Logger
	httpClient *http.Client
	pageURL    string
}

// NewWikipediaRepository creates a ConstituentsRepository that scrapes the
// S&P 500 member table from Wikipedia. It backs up the market-data provider
// when the constituents endpoint is down or the plan does not include it.
func NewWikipediaRepository(log *logger.Logger) ConstituentsRepository {
	return &wikipediaRepository{
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		pageURL: wikipediaSP500URL,
	}
}

func (r *wikipediaRepository) GetConstituents(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents page: %w", err)
	}

	var symbols []string
	doc.Find("table#constituents tbody tr td:first-child").Each(func(_ int, s *goquery.Selection) {
		symbol := strings.TrimSpace(s.Text())
		if symbol == "" {
			return
		}
		// Class-share tickers are dotted on Wikipedia (BRK.B) but dashed
		// everywhere else in this pipeline.
		symbols = append(symbols, strings.ReplaceAll(symbol, ".", "-"))
	})

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no constituents found in page table")
	}

	r.log.DebugContext(ctx, "Scraped constituents from Wikipedia", logger.IntField("count", len(symbols)))
	return symbols, nil
}
