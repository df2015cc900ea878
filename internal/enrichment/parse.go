package enrichment

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"NewsEnricher/internal/domain"
)

// ParseTags reads a JSON array of strings out of generated text. Code fences
// and surrounding prose are tolerated; anything else yields the default tags.
func ParseTags(raw string) []string {
	text := stripFences(raw)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return defaultTags()
	}

	var parsed []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		return defaultTags()
	}

	tags := make([]string, 0, len(parsed))
	for _, tag := range parsed {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return defaultTags()
	}
	return tags
}

var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseRelevance reads the leading decimal of generated text and clamps it
// to [0,1]. Non-numeric output yields the default score.
func ParseRelevance(raw string) float64 {
	match := leadingNumber.FindString(strings.TrimSpace(stripFences(raw)))
	if match == "" {
		return domain.DefaultRelevance
	}
	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return domain.DefaultRelevance
	}
	return clamp(score)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func defaultTags() []string {
	return append([]string(nil), domain.DefaultTags...)
}
