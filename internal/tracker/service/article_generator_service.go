package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"golang-stock-movers/internal/entity"
	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/internal/tracker/repository"
	"golang-stock-movers/pkg/logger"
	"golang-stock-movers/pkg/utils"
)

// promptMaxNews is the number of headlines embedded in an AI prompt or a
// template article's news context.
const promptMaxNews = 5

var slugCharset = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// ArticleGeneratorService turns one mover into exactly one article. The AI
// path and the deterministic template produce the same Article shape; the
// result's Origin records which one ran.
type ArticleGeneratorService interface {
	// Generate never fails: any AI error selects the template variant.
	Generate(ctx context.Context, mover dto.Mover, news []entity.StockNews, topStoryText string) dto.ArticleResult
}

// NewArticleGeneratorService creates a generator. A nil aiRepo (no provider
// credential configured) puts the generator in template-only mode.
func NewArticleGeneratorService(cfg *config.Config, log *logger.Logger, aiRepo repository.AIRepository) ArticleGeneratorService {
	return &articleGeneratorService{
		cfg:    cfg,
		log:    log,
		aiRepo: aiRepo,
	}
}

type articleGeneratorService struct {
	cfg    *config.Config
	log    *logger.Logger
	aiRepo repository.AIRepository
}

func (s *articleGeneratorService) Generate(ctx context.Context, mover dto.Mover, news []entity.StockNews, topStoryText string) dto.ArticleResult {
	stock := mover.Stock

	draft, origin := s.draftArticle(ctx, mover, news, topStoryText)

	return dto.ArticleResult{
		Origin: origin,
		Article: entity.Article{
			StockSymbol:  stock.Symbol,
			Date:         stock.Date,
			MovementType: mover.MovementType,
			Title:        draft.Headline,
			Content:      draft.Content,
			Slug:         BuildArticleSlug(stock.Symbol, stock.PriceChangePct, stock.Date),
		},
	}
}

// draftArticle is the single decision point between the two variants.
func (s *articleGeneratorService) draftArticle(ctx context.Context, mover dto.Mover, news []entity.StockNews, topStoryText string) (*dto.ArticleDraft, dto.ArticleOrigin) {
	stock := mover.Stock

	if s.aiRepo == nil {
		s.log.DebugContext(ctx, "No AI provider configured, using template article",
			logger.StringField("symbol", stock.Symbol))
		return templateArticle(mover, news), dto.OriginTemplated
	}

	promptNews := news
	if len(promptNews) > promptMaxNews {
		promptNews = promptNews[:promptMaxNews]
	}

	draft, err := s.aiRepo.GenerateArticle(ctx, &dto.ArticlePrompt{
		Symbol:         stock.Symbol,
		CompanyName:    stock.Name,
		Price:          stock.Price,
		PriceChangePct: stock.PriceChangePct,
		MovementType:   mover.MovementType,
		Date:           stock.Date,
		News:           promptNews,
		TopStoryText:   topStoryText,
		WSBMentions:    stock.WSBMentions,
		WSBSentiment:   stock.WSBSentiment,
		IsWSBTrending:  stock.IsWSBTrending,
	})
	if err != nil {
		s.log.WarnContext(ctx, "AI generation failed, falling back to template article",
			logger.StringField("provider", s.aiRepo.Name()),
			logger.StringField("symbol", stock.Symbol),
			logger.ErrorField(err))
		return templateArticle(mover, news), dto.OriginTemplated
	}

	s.log.InfoContext(ctx, "Generated article",
		logger.StringField("provider", s.aiRepo.Name()),
		logger.StringField("symbol", stock.Symbol),
		logger.StringField("headline", draft.Headline))
	return draft, dto.OriginGenerated
}

// templateArticle deterministically renders an article from the record
// fields so the pipeline never produces a mover without one.
func templateArticle(mover dto.Mover, news []entity.StockNews) *dto.ArticleDraft {
	stock := mover.Stock
	pct := stock.PriceChangePct
	absPct := math.Abs(pct)
	direction := directionWord(pct)

	gaining := "gaining"
	interest := "strong buying interest"
	outlook := "Investors appear to be responding positively to recent developments"
	standing := "top performers"
	if pct <= 0 {
		gaining = "losing"
		interest = "heavy selling pressure"
		outlook = "Market concerns have weighed on the stock's performance"
	}
	if mover.MovementType == entity.MovementTypeLoser {
		standing = "biggest decliners"
	}

	title := fmt.Sprintf("%s (%s) %s %.2f%% in Today's Trading", stock.Name, stock.Symbol, direction, absPct)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) experienced significant movement in today's trading session, with shares %s %.2f%% to close at $%.2f.\n\n",
		stock.Name, stock.Symbol, gaining, absPct, stock.Price)
	fmt.Fprintf(&b, "The stock saw notable trading volume of %d shares, indicating %s from investors.\n\n", stock.Volume, interest)
	fmt.Fprintf(&b, "Recent News Context:\n%s\n\n", newsContextLines(news))
	fmt.Fprintf(&b, "This price movement places %s among the %s in the S&P 500 index for the day. %s.\n\n",
		stock.Symbol, standing, outlook)
	fmt.Fprintf(&b, "Traders and investors should monitor upcoming earnings reports, industry trends, and broader market conditions that may continue to influence %s's stock performance in the coming sessions.",
		stock.Name)

	return &dto.ArticleDraft{
		Headline: title,
		Content:  b.String(),
	}
}

// directionWord maps a percent change to the verb the template uses.
func directionWord(pct float64) string {
	switch {
	case pct > 5:
		return "soars"
	case pct > 0:
		return "rises"
	case pct < -5:
		return "plunges"
	default:
		return "falls"
	}
}

// newsContextLines renders stored headlines the way both the template body
// and human readers expect them: numbered, with source attribution.
func newsContextLines(news []entity.StockNews) string {
	if len(news) == 0 {
		return "No recent news available."
	}
	var lines []string
	for i, n := range news {
		if i == promptMaxNews {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s)", i+1, n.Headline, n.Source))
		if n.Summary != "" {
			lines = append(lines, "   "+utils.TruncateString(n.Summary, 150))
		}
	}
	return strings.Join(lines, "\n")
}

// BuildArticleSlug renders the SEO identifier for one mover's article, e.g.
// WhyDidGMEGoUp15PercentToday-Jan82026. Only [a-zA-Z0-9-] survives.
func BuildArticleSlug(symbol string, priceChangePct float64, date time.Time) string {
	direction := "GoUp"
	if priceChangePct <= 0 {
		direction = "GoDown"
	}
	slug := fmt.Sprintf("WhyDid%s%s%dPercentToday-%s",
		strings.ToUpper(symbol), direction, int(math.Abs(priceChangePct)), date.Format("Jan22006"))
	return slugCharset.ReplaceAllString(slug, "")
}
