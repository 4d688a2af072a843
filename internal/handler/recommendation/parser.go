package recommendation

import (
	"strings"

	"booknest/internal/model"
)

// parseReply extracts the five fixed fields from the model's free-text
// reply. Lines matching no prefix are ignored; the parser never errors on
// malformed output, and the fallbacks guarantee a non-empty title.
func parseReply(text string) model.ParsedRecommendation {

	parsed := model.ParsedRecommendation{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, titlePrefix):
			parsed.BookTitle = strings.TrimSpace(strings.TrimPrefix(line, titlePrefix))
		case strings.HasPrefix(line, authorPrefix):
			parsed.Author = strings.TrimSpace(strings.TrimPrefix(line, authorPrefix))
		case strings.HasPrefix(line, genrePrefix):
			parsed.Genre = strings.TrimSpace(strings.TrimPrefix(line, genrePrefix))
		case strings.HasPrefix(line, summaryPrefix):
			parsed.Summary = strings.TrimSpace(strings.TrimPrefix(line, summaryPrefix))
		case strings.HasPrefix(line, whyPrefix):
			parsed.WhyThisBook = strings.TrimSpace(strings.TrimPrefix(line, whyPrefix))
		}
	}

	if parsed.BookTitle != "" {
		return parsed
	}

	if len([]rune(text)) > shortReplyThreshold {
		parsed.BookTitle = fallbackTitleLong
		parsed.Summary = truncate(text, fallbackSummaryLength) + "..."
		parsed.WhyThisBook = fallbackWhyLong
		return parsed
	}

	parsed.BookTitle = fallbackTitleShort
	parsed.Summary = text
	parsed.WhyThisBook = fallbackWhyShort
	return parsed
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
