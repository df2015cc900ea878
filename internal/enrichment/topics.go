package enrichment

import (
	"regexp"
	"strings"
)

var knownTopics = []string{
	"renewable energy",
	"solar power",
	"wind energy",
	"south africa",
	"africa",
	"energy",
	"power",
	"electricity",
	"sustainability",
	"climate change",
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "this": {}, "that": {},
}

// MainTopic picks the encyclopedia lookup subject: a known subject keyword,
// else the first content word of the title, else "news".
func MainTopic(title, body string) string {
	text := strings.ToLower(title + " " + body)
	for _, topic := range knownTopics {
		if strings.Contains(text, topic) {
			return topic
		}
	}

	for _, word := range strings.Split(title, " ") {
		if isContentWord(word) {
			return word
		}
	}
	return "news"
}

// SearchTerms builds the media search query from title words and tags.
func SearchTerms(title string, tags []string) string {
	seen := map[string]struct{}{}
	var words []string
	add := func(w string) {
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	for _, word := range strings.Split(strings.ToLower(title), " ") {
		if isContentWord(word) {
			add(word)
		}
	}
	for _, tag := range tags {
		add(strings.ToLower(strings.Replace(tag, "#", "", 1)))
	}

	query := strings.TrimSpace(strings.Join(words, " "))
	if query == "" {
		return title
	}
	return query
}

func isContentWord(word string) bool {
	if len(word) <= 3 {
		return false
	}
	_, stop := stopWords[strings.ToLower(word)]
	return !stop
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:in|at|from|to)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:province|state|country|region)\b`),
	regexp.MustCompile(`(Cape Town|Johannesburg|Pretoria|Durban|South Africa|Africa)`),
}

// Locations extracts geocoding candidates from text in discovery order.
func Locations(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, pattern := range locationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := m[0]
			if len(m) > 1 && m[1] != "" {
				candidate = m[1]
			}
			candidate = strings.TrimSpace(candidate)
			if len(candidate) <= 2 {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			seen[candidate] = struct{}{}
			out = append(out, candidate)
		}
	}
	return out
}
