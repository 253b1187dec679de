package domain

import "strings"

// themeKeywords maps each theme to its keyword list. Declaration order is the
// order themes appear in tag results; a theme is tagged at most once no matter
// how many of its keywords hit.
var themeKeywords = []struct {
	theme    string
	keywords []string
}{
	{"service", []string{"service", "staff", "waiter", "waitress", "server", "rude", "attitude", "host"}},
	{"speed", []string{"slow", "delay", "waited", "waiting", "long wait"}},
	{"food", []string{"food", "meal", "dish", "cold", "bland", "salty", "undercooked", "overcooked", "portion"}},
	{"cleanliness", []string{"dirty", "cleanliness", "sticky", "smell", "gross"}},
	{"price", []string{"price", "expensive", "overpriced", "cheap"}},
	{"ambiance", []string{"loud", "noise", "music", "crowded", "atmosphere"}},
}

// TagThemes returns the topical themes matched in the given review text.
// Matching is a case-insensitive substring test against a fixed keyword table;
// no tokenization or stemming. Empty text returns an empty slice.
func TagThemes(text string) []string {
	themes := []string{}
	if text == "" {
		return themes
	}

	lower := strings.ToLower(text)
	for _, tk := range themeKeywords {
		for _, kw := range tk.keywords {
			if strings.Contains(lower, kw) {
				themes = append(themes, tk.theme)
				break
			}
		}
	}
	return themes
}
