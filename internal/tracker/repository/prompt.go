package repository

import (
	"fmt"
	"strings"

	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/utils"
)

// ArticleSystemPrompt frames the model as a markets journalist for every
// provider.
const ArticleSystemPrompt = "You are a financial journalist writing daily market-mover explainers. " +
	"You write professional yet accessible prose in the style of a Bloomberg or MarketWatch piece, " +
	"cite the supplied news naturally, and never invent facts that are not in the provided context."

// BuildArticlePrompt renders the user prompt for one mover.
func BuildArticlePrompt(p *dto.ArticlePrompt) string {
	direction := "up"
	if p.PriceChangePct < 0 {
		direction = "down"
	}
	absChange := p.PriceChangePct
	if absChange < 0 {
		absChange = -absChange
	}

	var newsBuilder strings.Builder
	if len(p.News) == 0 {
		newsBuilder.WriteString("No recent news could be retrieved for this stock. " +
			"Focus on the price action itself and general market context.\n")
	}
	for i, n := range p.News {
		publishedAtStr := "N/A"
		if n.PublishedAt != nil {
			publishedAtStr = n.PublishedAt.Format("2006-01-02 15:04")
		}
		newsBuilder.WriteString(fmt.Sprintf(
			"%d. Headline: %q\n   Source: %s\n   Published At: %s\n   Summary: %s\n\n",
			i+1, n.Headline, n.Source, publishedAtStr, n.Summary,
		))
	}

	var socialBuilder strings.Builder
	if p.IsWSBTrending {
		socialBuilder.WriteString(fmt.Sprintf(
			"\nSOCIAL BUZZ:\nThe ticker is trending on r/wallstreetbets today with %d comments and %s sentiment.\n",
			p.WSBMentions, p.WSBSentiment,
		))
	}

	var topStoryBuilder strings.Builder
	if p.TopStoryText != "" {
		topStoryBuilder.WriteString(fmt.Sprintf(
			"\nTOP STORY FULL TEXT (excerpt):\n%s\n",
			utils.TruncateString(p.TopStoryText, 2000),
		))
	}

	promptTemplate := `Write a comprehensive, engaging article (400-500 words) explaining why %s (%s) stock moved %s by %.2f%% today.

CURRENT STOCK DATA:
- Symbol: %s
- Company: %s
- Price Change: %+.2f%%
- Current Price: $%.2f
- Trading Date: %s
- Movement Side: %s

RECENT NEWS:
%s%s%s
YOUR TASK:
1. Explain WHY the stock moved today, citing the specific news above where possible
2. Name the KEY FACTORS driving the movement
3. Give CONTEXT that helps a reader understand the bigger picture
4. Mention notable technical or fundamental developments if the news supports them

Format your response exactly as:
HEADLINE: [compelling, clickable headline]

ARTICLE:
[your article]`

	return fmt.Sprintf(promptTemplate,
		p.CompanyName, p.Symbol, direction, absChange,
		p.Symbol, p.CompanyName, p.PriceChangePct, p.Price,
		p.Date.Format("2006-01-02"), string(p.MovementType),
		newsBuilder.String(), socialBuilder.String(), topStoryBuilder.String(),
	)
}

// ParseArticleResponse splits a model response on the ARTICLE: marker,
// falling back to first-line-as-headline when the model ignored the format.
func ParseArticleResponse(raw string) (*dto.ArticleDraft, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty model response")
	}

	if idx := strings.Index(text, "ARTICLE:"); idx >= 0 {
		headline := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text[:idx]), "HEADLINE:"))
		content := strings.TrimSpace(text[idx+len("ARTICLE:"):])
		if headline != "" && content != "" {
			return &dto.ArticleDraft{Headline: headline, Content: content}, nil
		}
	}

	parts := strings.SplitN(text, "\n", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("model response missing article body")
	}
	return &dto.ArticleDraft{
		Headline: strings.TrimSpace(strings.TrimPrefix(parts[0], "HEADLINE:")),
		Content:  strings.TrimSpace(parts[1]),
	}, nil
}
