package model

import (
	"sort"
	"strings"
)

// Locale is a supported UI language code.
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleTR Locale = "tr"
)

// SupportedLocales lists locales in label-matching order.
var SupportedLocales = []Locale{LocaleEN, LocaleTR}

// ParseLocale normalizes a locale code. An empty string parses as ok=false
// so callers can apply their own default.
func ParseLocale(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	for _, sl := range SupportedLocales {
		if l == sl {
			return l, true
		}
	}
	return "", false
}

// LocalizedText maps a locale to display text.
type LocalizedText map[Locale]string

// Get returns the text for l, falling back to English and then to any
// supported locale that has text.
func (t LocalizedText) Get(l Locale) string {
	if s, ok := t[l]; ok && s != "" {
		return s
	}
	if s, ok := t[LocaleEN]; ok && s != "" {
		return s
	}
	for _, sl := range SupportedLocales {
		if s := t[sl]; s != "" {
			return s
		}
	}
	return ""
}

// Has reports whether text exists for exactly l (no fallback).
func (t LocalizedText) Has(l Locale) bool {
	s, ok := t[l]
	return ok && s != ""
}

// Values returns all non-empty texts, supported locales first in
// SupportedLocales order, then any other locale keys in sorted order.
func (t LocalizedText) Values() []string {
	out := make([]string, 0, len(t))
	seen := make(map[Locale]bool, len(t))
	for _, l := range SupportedLocales {
		seen[l] = true
		if s := t[l]; s != "" {
			out = append(out, s)
		}
	}
	var extra []string
	for l, s := range t {
		if !seen[l] && s != "" {
			extra = append(extra, string(l)+"\x00"+s)
		}
	}
	sort.Strings(extra)
	for _, e := range extra {
		out = append(out, e[strings.IndexByte(e, 0)+1:])
	}
	return out
}
