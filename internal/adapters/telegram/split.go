// Package telegram holds Bot API text limits.
package telegram

import "strings"

const (
	// MessageLimit is the longest text message, in runes.
	MessageLimit = 4096
	// CaptionLimit is the longest photo caption, in runes.
	CaptionLimit = 1024
)

// SplitMessage breaks text into chunks of at most MessageLimit runes,
// preferring newline boundaries so paragraphs stay whole.
func SplitMessage(text string) []string {
	return SplitText(text, MessageLimit)
}

// SplitText is SplitMessage with an explicit limit.
func SplitText(text string, limit int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if limit <= 0 {
		limit = MessageLimit
	}

	runes := []rune(trimmed)
	if len(runes) <= limit {
		return []string{trimmed}
	}

	var parts []string
	for start := 0; start < len(runes); {
		end := start + limit
		if end >= len(runes) {
			if chunk := strings.Trim(string(runes[start:]), "\n"); chunk != "" {
				parts = append(parts, chunk)
			}
			break
		}

		split := lastBreak(runes, start, end)
		if chunk := strings.Trim(string(runes[start:split]), "\n"); chunk != "" {
			parts = append(parts, chunk)
		}

		start = split
		for start < len(runes) && runes[start] == '\n' {
			start++
		}
	}
	return parts
}

// lastBreak finds the split point in runes[start:end]: after the last newline,
// else after the last space, else at end.
func lastBreak(runes []rune, start, end int) int {
	space := -1
	for i := end; i > start; i-- {
		switch runes[i-1] {
		case '\n':
			return i
		case ' ':
			if space == -1 {
				space = i
			}
		}
	}
	if space != -1 {
		return space
	}
	return end
}

// TruncateCaption clips text to CaptionLimit runes, ending with an ellipsis when clipped.
func TruncateCaption(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= CaptionLimit {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:CaptionLimit-1])) + "…"
}
