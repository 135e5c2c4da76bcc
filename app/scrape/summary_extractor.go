package scrape

import (
	"fmt"
	"strings"

	"codeberg.org/readeck/go-readability"
)

const maxSummaryLength = 500

// SummaryExtractor derives a short plain-text summary from an article page
// for items whose source listing carries none.
type SummaryExtractor struct{}

func NewSummaryExtractor() *SummaryExtractor {
	return &SummaryExtractor{}
}

func (e *SummaryExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxSummaryLength {
		text = text[:maxSummaryLength]
		if idx := strings.LastIndex(text, " "); idx > 0 {
			text = text[:idx]
		}
		text += "…"
	}

	return text, nil
}
