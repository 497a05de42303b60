package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-stock-movers/internal/tracker/dto"
)

// FormatRunSummaryMessage formats a finished pipeline run into a Markdown
// message for Telegram.
func FormatRunSummaryMessage(s *dto.RunSummary) string {
	var b strings.Builder

	var statusIcon string
	switch s.Status {
	case "completed":
		statusIcon = "✅"
	case "failed":
		statusIcon = "🚨"
	default:
		statusIcon = "⏳"
	}

	b.WriteString("📊 *Daily Movers Pipeline* 📊\n\n")
	b.WriteString(fmt.Sprintf("%s *Status:* %s\n", statusIcon, s.Status))
	b.WriteString(fmt.Sprintf("📅 *Date:* %s\n", s.Date))
	b.WriteString(fmt.Sprintf("🚀 *Trigger:* %s\n", s.TriggerSource))
	b.WriteString(fmt.Sprintf("📈 *Stocks saved:* %d\n", s.StocksSaved))
	b.WriteString(fmt.Sprintf("📰 *News saved:* %d\n", s.NewsSaved))
	b.WriteString(fmt.Sprintf("✍️ *Articles:* %d (%d AI, %d template)\n",
		s.ArticlesCreated, s.ArticlesGenerated, s.ArticlesTemplated))
	b.WriteString(fmt.Sprintf("⏱ *Duration:* %.1fs\n", s.DurationSeconds))

	if len(s.Errors) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ *Skipped symbols (%d):*\n", len(s.Errors)))
		for i, e := range s.Errors {
			if i == 5 {
				b.WriteString(fmt.Sprintf("_...and %d more_\n", len(s.Errors)-5))
				break
			}
			b.WriteString(fmt.Sprintf("• %s\n", e))
		}
	}

	return b.String()
}

// FormatRunFailureMessage formats a fatal pipeline failure alert.
func FormatRunFailureMessage(date time.Time, err error) string {
	var b strings.Builder
	b.WriteString("🚨 *Daily Movers Pipeline FAILED* 🚨\n\n")
	b.WriteString(fmt.Sprintf("📅 *Date:* %s\n", date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("❌ *Error:* %s\n", err.Error()))
	return b.String()
}
