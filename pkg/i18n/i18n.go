package i18n

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLang is used when nothing better matches.
const DefaultLang = "en_US"

// Catalog holds the translations of the signup pages and resolves request
// languages to one of the supported locale codes ("fr_FR" style).
type Catalog struct {
	builder     *catalog.Builder
	matcher     language.Matcher
	codes       []string
	defaultLang string
}

// New builds a catalog for the supported locales. defaultLang must be one of
// them; anything else falls back to DefaultLang.
func New(defaultLang string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	codes := []string{DefaultLang}
	for code, entries := range translations {
		tag := tagFor(code)
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
		codes = append(codes, code)
	}
	// en_US stays first so the matcher falls back to it.
	sort.Strings(codes[1:])

	tags := make([]language.Tag, len(codes))
	for i, code := range codes {
		tags[i] = tagFor(code)
	}

	c := &Catalog{
		builder: b,
		matcher: language.NewMatcher(tags),
		codes:   codes,
	}
	if c.Supported(defaultLang) {
		c.defaultLang = defaultLang
	} else {
		c.defaultLang = DefaultLang
	}
	return c
}

// Default returns the configured fallback locale.
func (c *Catalog) Default() string { return c.defaultLang }

// Langs lists the supported locale codes, DefaultLang first.
func (c *Catalog) Langs() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Supported reports whether code is one of the catalog locales.
func (c *Catalog) Supported(code string) bool {
	for _, known := range c.codes {
		if known == code {
			return true
		}
	}
	return false
}

// Match resolves an Accept-Language header to a supported locale code,
// returning the default when nothing matches.
func (c *Catalog) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.defaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.defaultLang
	}
	_, idx, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.defaultLang
	}
	return c.codes[idx]
}

// Printer returns a printer for code; unsupported codes use the default locale.
func (c *Catalog) Printer(code string) *message.Printer {
	if !c.Supported(code) {
		code = c.defaultLang
	}
	return message.NewPrinter(tagFor(code), message.Catalog(c.builder))
}

// T translates key into code.
func (c *Catalog) T(code, key string) string {
	return c.Printer(code).Sprintf(key)
}

func tagFor(code string) language.Tag {
	return language.Make(strings.ReplaceAll(code, "_", "-"))
}
