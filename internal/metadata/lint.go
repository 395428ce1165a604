package metadata

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// Warning is a non-fatal problem in otherwise valid front matter.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	return w.Field + ": " + w.Message
}

const maxDescriptionLen = 160

var twitterCards = map[string]bool{
	"summary":             true,
	"summary_large_image": true,
	"app":                 true,
	"player":              true,
}

// Lint checks validated PageData for values that render poorly or are
// rejected by crawlers.
func Lint(d PageData) []Warning {
	var out []Warning
	warn := func(field, format string, args ...any) {
		out = append(out, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if n := utf8.RuneCountInString(d.Description); n > maxDescriptionLen {
		warn("description", "%d characters; search engines truncate after %d", n, maxDescriptionLen)
	}
	if og := d.OpenGraph; og != nil {
		if _, err := language.Parse(og.Locale); err != nil {
			warn("openGraph.locale", "%q is not a valid locale: %v", og.Locale, err)
		}
		for i, img := range og.Images {
			if img.Width < 0 || img.Height < 0 {
				warn(fmt.Sprintf("openGraph.images.%d", i), "negative dimensions %dx%d", img.Width, img.Height)
			}
		}
	}
	if tw := d.Twitter; tw != nil && !twitterCards[tw.Card] {
		warn("twitter.card", "unknown card type %q", tw.Card)
	}
	if ic := d.Icons; ic != nil {
		for _, f := range [...]struct{ field, path string }{
			{"icons.icon", ic.Icon},
			{"icons.apple", ic.Apple},
		} {
			if !strings.HasPrefix(f.path, "/") && !strings.Contains(f.path, "://") {
				warn(f.field, "%q is relative; use a rooted path or absolute URL", f.path)
			}
		}
	}
	return out
}
