package repository

import (
	"context"
	"fmt"
	"time"

	"golang-stock-movers/internal/tracker/config"
	"golang-stock-movers/internal/tracker/dto"
	"golang-stock-movers/pkg/logger"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"
)

type anthropicAIRepository struct {
	client         *anthropic.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewAnthropicAIRepository creates the default article generator, backed by
// the Anthropic Messages API.
func NewAnthropicAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	if cfg.AI.Anthropic.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is not configured")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.AI.Anthropic.APIKey))
	secondsPerRequest := time.Minute / time.Duration(cfg.AI.Anthropic.MaxRequestPerMinute)

	return &anthropicAIRepository{
		client:         &client,
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}, nil
}

func (r *anthropicAIRepository) Name() string {
	return "anthropic"
}

// GenerateArticle asks Claude for a HEADLINE/ARTICLE pair for one mover.
func (r *anthropicAIRepository) GenerateArticle(ctx context.Context, prompt *dto.ArticlePrompt) (*dto.ArticleDraft, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	userPrompt := BuildArticlePrompt(prompt)

	resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(r.cfg.AI.Anthropic.Model),
		MaxTokens: int64(r.cfg.AI.Anthropic.MaxTokens),
		System: []anthropic.TextBlockParam{
			{Text: ArticleSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no content in anthropic response")
	}

	r.logger.DebugContext(ctx, "Anthropic usage",
		logger.StringField("symbol", prompt.Symbol),
		logger.IntField("input_tokens", int(resp.Usage.InputTokens)),
		logger.IntField("output_tokens", int(resp.Usage.OutputTokens)),
	)

	return ParseArticleResponse(resp.Content[0].Text)
}
