// Package offline synthesizes plausible enrichment values from the article
// text alone. Nothing here touches the network and every function is
// deterministic for a given input.
package offline

import (
	"strings"
	"unicode/utf16"
)

// Theme is the coarse subject bucket the canned content is keyed on.
type Theme int

const (
	ThemeGeneral Theme = iota
	ThemeTrade
	ThemeEnergy
	ThemeAfrica
)

// Classify buckets free text into a Theme.
func Classify(text string) Theme {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "china") && strings.Contains(t, "trade"):
		return ThemeTrade
	case containsAny(t, "renewable", "solar", "energy"):
		return ThemeEnergy
	case strings.Contains(t, "africa"):
		return ThemeAfrica
	default:
		return ThemeGeneral
	}
}

// Hash is a stable 31-multiplier string hash over UTF-16 code units,
// folded to a non-negative value.
func Hash(s string) uint32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return uint32(v)
}

// Pick selects an option by the hash of key.
func Pick(options []string, key string) string {
	if len(options) == 0 {
		return ""
	}
	return options[Hash(key)%uint32(len(options))]
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func searchText(title string, tags []string) string {
	return strings.ToLower(title + " " + strings.Join(tags, " "))
}

func rotationKey(title string, tags []string) string {
	return title + strings.Join(tags, "")
}
