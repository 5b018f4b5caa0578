// Package badge renders stats snapshots as SVG badges. A Theme picks the
// palette and a Layout picks the fields, so every badge variant shares one
// template.
package badge

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"streakBadgeAPI/internal/stats"
)

const ContentType = "image/svg+xml; charset=utf-8"

const (
	width       = 495
	headerH     = 55
	rowH        = 25
	footerH     = 20
	valueX      = 220
	maxTitleLen = 60
)

type Options struct {
	Theme      Theme
	Layout     Layout
	HideBorder bool
	Title      string
}

// DefaultOptions is the default theme with the streak layout.
func DefaultOptions() Options {
	t, _ := LookupTheme("")
	l, _ := LookupLayout("")
	return Options{Theme: t, Layout: l}
}

// ParseOptions reads theme, layout, hide_border and title from a query string.
func ParseOptions(q url.Values) (Options, error) {
	theme, err := LookupTheme(q.Get("theme"))
	if err != nil {
		return Options{}, fmt.Errorf("%w: %q", err, q.Get("theme"))
	}
	layout, err := LookupLayout(q.Get("layout"))
	if err != nil {
		return Options{}, fmt.Errorf("%w: %q", err, q.Get("layout"))
	}
	hide, _ := strconv.ParseBool(q.Get("hide_border"))

	return Options{
		Theme:      theme,
		Layout:     layout,
		HideBorder: hide,
		Title:      strings.TrimSpace(q.Get("title")),
	}, nil
}

type row struct {
	Label string
	Value string
	Y     int
	Delay int
}

type view struct {
	Width      int
	Height     int
	ValueX     int
	Title      string
	Theme      Theme
	ShowBorder bool
	Rows       []row
}

var badgeTemplate = template.Must(template.New("badge").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" fill="none" role="img" aria-labelledby="badge-title">
  <title id="badge-title">{{.Title}}</title>
  <style>
    .header { font: 600 18px 'Segoe UI', Ubuntu, Sans-Serif; fill: {{.Theme.Title}}; }
    .label { font: 400 14px 'Segoe UI', Ubuntu, Sans-Serif; fill: {{.Theme.Text}}; }
    .value { font: 700 14px 'Segoe UI', Ubuntu, Sans-Serif; fill: {{.Theme.Accent}}; }
    .stagger { opacity: 0; animation: fadein 0.3s ease-in-out forwards; }
    @keyframes fadein { from { opacity: 0; } to { opacity: 1; } }
  </style>
  <rect x="0.5" y="0.5" rx="4.5" width="{{.Width}}" height="{{.Height}}" fill="{{.Theme.Background}}"{{if .ShowBorder}} stroke="{{.Theme.Border}}"{{end}}/>
  <text x="25" y="35" class="header">{{.Title}}</text>
{{- range .Rows}}
  <g class="stagger" style="animation-delay: {{.Delay}}ms" transform="translate(25, {{.Y}})">
    <text class="label">{{.Label}}:</text>
    <text x="{{$.ValueX}}" class="value">{{.Value}}</text>
  </g>
{{- end}}
</svg>
`))

var errorTemplate = template.Must(template.New("error").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" fill="none" role="img" aria-labelledby="badge-title">
  <title id="badge-title">{{.Title}}</title>
  <style>
    .header { font: 600 18px 'Segoe UI', Ubuntu, Sans-Serif; fill: {{.Theme.Title}}; }
    .message { font: 400 14px 'Segoe UI', Ubuntu, Sans-Serif; fill: {{.Theme.Muted}}; }
  </style>
  <rect x="0.5" y="0.5" rx="4.5" width="{{.Width}}" height="{{.Height}}" fill="{{.Theme.Background}}" stroke="{{.Theme.Border}}"/>
  <text x="25" y="35" class="header">{{.Title}}</text>
{{- range .Rows}}
  <text x="25" y="{{.Y}}" class="message">{{.Value}}</text>
{{- end}}
</svg>
`))

// Render draws the badge for username. All interpolated text is escaped.
func Render(username string, snap *stats.Snapshot, opts Options) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("badge: nil snapshot")
	}
	if len(opts.Layout.Fields) == 0 {
		opts.Layout, _ = LookupLayout("")
	}
	if opts.Theme.Name == "" {
		opts.Theme, _ = LookupTheme("")
	}

	v := view{
		Width:      width,
		ValueX:     valueX,
		Title:      escape(truncate(title(username, opts), maxTitleLen)),
		Theme:      opts.Theme,
		ShowBorder: !opts.HideBorder,
	}
	for i, f := range opts.Layout.Fields {
		v.Rows = append(v.Rows, row{
			Label: escape(f.Label),
			Value: escape(f.Value(snap)),
			Y:     headerH + 10 + i*rowH,
			Delay: 150 * (i + 1),
		})
	}
	v.Height = headerH + len(v.Rows)*rowH + footerH

	var buf bytes.Buffer
	if err := badgeTemplate.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("failed to render badge: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderError draws an image-shaped error so embedding pages still show
// something readable instead of a broken image.
func RenderError(message string, theme Theme) []byte {
	if theme.Name == "" {
		theme, _ = LookupTheme("")
	}
	v := view{
		Width: width,
		Title: "Something went wrong",
		Theme: theme,
		Rows:  []row{{Value: escape(truncate(message, 70)), Y: headerH + 10}},
	}
	v.Height = headerH + rowH + footerH

	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, v); err != nil {
		// the template is static; this only fails on a broken writer
		return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="495" height="100"><text x="25" y="50">error</text></svg>`)
	}
	return buf.Bytes()
}

func title(username string, opts Options) string {
	if opts.Title != "" {
		return opts.Title
	}
	if opts.Layout.Name == "stats" {
		return username + "'s Contribution Stats"
	}
	return username + "'s Contribution Streak"
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

// escape drops invalid UTF-8 and characters XML 1.0 forbids, then escapes
// markup.
func escape(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t', r == '\n', r == '\r':
			return r
		case unicode.IsControl(r), r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
	return html.EscapeString(s)
}
