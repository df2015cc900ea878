package enrichment

import "fmt"

func excerpt(body string, limit int) string {
	runes := []rune(body)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes)
}

func summaryPrompt(title, body string) string {
	return fmt.Sprintf(`Generate a concise 1-2 sentence factual summary of this news article. Focus on the key facts and main point:

Title: %s
Content: %s...

Summary:`, title, excerpt(body, 500))
}

func tagsPrompt(title, body string) string {
	return fmt.Sprintf(`Generate 3-5 relevant hashtags for this news article. Focus on topics, locations, and themes. Return as JSON array:

Title: %s
Content: %s...

Tags:`, title, excerpt(body, 500))
}

func relevancePrompt(title, body string) string {
	return fmt.Sprintf(`Rate the relevance of this news article to African audiences on a scale of 0.0 to 1.0. Consider:
- African countries mentioned
- Impact on African economies/societies
- Local relevance and context
- Regional significance

Title: %s
Content: %s...

Relevance Score (0.0-1.0):`, title, excerpt(body, 500))
}

func justificationPrompt(title, body, mediaType string) string {
	return fmt.Sprintf(`Explain why this %s is relevant to this news article. Be specific about visual or contextual connections:

Title: %s
Content: %s...

Justification:`, mediaType, title, excerpt(body, 300))
}

func snippetPrompt(topic string) string {
	return fmt.Sprintf(`Provide a 1-2 sentence factual explanation about %q suitable for a Wikipedia-style snippet. Focus on key facts and definitions:

Wikipedia Snippet:`, topic)
}
