package badge

import (
	"errors"
	"sort"
	"strings"
)

var ErrUnknownTheme = errors.New("unknown theme")

type Theme struct {
	Name       string
	Background string
	Border     string
	Title      string
	Text       string
	Accent     string
	Muted      string
}

var themes = map[string]Theme{
	"default": {
		Name:       "default",
		Background: "#fffefe",
		Border:     "#e4e2e2",
		Title:      "#2f80ed",
		Text:       "#434d58",
		Accent:     "#fb8c00",
		Muted:      "#9e9e9e",
	},
	"dark": {
		Name:       "dark",
		Background: "#151515",
		Border:     "#333333",
		Title:      "#ffffff",
		Text:       "#9f9f9f",
		Accent:     "#79ff97",
		Muted:      "#6e6e6e",
	},
	"radical": {
		Name:       "radical",
		Background: "#141321",
		Border:     "#2a2940",
		Title:      "#fe428e",
		Text:       "#a9fef7",
		Accent:     "#f8d847",
		Muted:      "#6f6d8f",
	},
	"tokyonight": {
		Name:       "tokyonight",
		Background: "#1a1b27",
		Border:     "#2b2d42",
		Title:      "#70a5fd",
		Text:       "#38bdae",
		Accent:     "#bf91f3",
		Muted:      "#565f89",
	},
	"gruvbox": {
		Name:       "gruvbox",
		Background: "#282828",
		Border:     "#3c3836",
		Title:      "#fabd2f",
		Text:       "#8ec07c",
		Accent:     "#fe8019",
		Muted:      "#928374",
	},
	"merko": {
		Name:       "merko",
		Background: "#0a0f0b",
		Border:     "#1d2b1f",
		Title:      "#abd200",
		Text:       "#68b587",
		Accent:     "#b7d364",
		Muted:      "#4a6b52",
	},
}

// LookupTheme resolves a theme by case-insensitive name. An empty name is
// the default theme.
func LookupTheme(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "default"
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, ErrUnknownTheme
	}
	return t, nil
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
