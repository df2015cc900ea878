package fallback

import "strings"

var placeholders = map[string]struct{}{
	"changeme":  {},
	"none":      {},
	"xxx":       {},
	"api_key":   {},
	"<api_key>": {},
}

// Usable reports whether a credential is present and is not a placeholder
// sentinel such as "your_google_api_key".
func Usable(credential string) bool {
	v := strings.ToLower(strings.TrimSpace(credential))
	if v == "" {
		return false
	}
	if strings.HasPrefix(v, "your_") || strings.HasPrefix(v, "your-") {
		return false
	}
	_, placeholder := placeholders[v]
	return !placeholder
}
