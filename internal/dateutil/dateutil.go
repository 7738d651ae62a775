// Package dateutil turns user-friendly date formats (YYYY, MMMM, DD...) into
// localized date strings.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrUnsupportedLocale = errors.New("unsupported locale")
)

// MaxDateFormatLength limits format strings.
const MaxDateFormatLength = 50

// DefaultDateFormat applies to a bare "auto".
const DefaultDateFormat = "YYYY-MM-DD"

// FileStampFormat is the date suffix of generated report files.
const FileStampFormat = "YYYYMMDD"

// DefaultLocale is the language of the bundled reports.
const DefaultLocale = "es"

// Longest tokens first.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets are named shortcuts usable as "auto:NAME".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"es-long":  "DD [de] MMMM [de] YYYY",
	"stamp":    FileStampFormat,
}

// ParseDateFormat converts a token format into a Go layout.
// Text inside brackets is copied literally; other characters pass through.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var out strings.Builder
	out.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(format[i:], tok.token) {
				out.WriteString(tok.goFmt)
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(format[i])
			i++
		}
	}

	return out.String(), nil
}

// supported pairs each matchable language tag with its monday locale.
// Order matters: the matcher falls back to the first entry.
var supported = []struct {
	tag    language.Tag
	locale monday.Locale
}{
	{language.Spanish, monday.LocaleEsES},
	{language.AmericanEnglish, monday.LocaleEnUS},
	{language.BritishEnglish, monday.LocaleEnGB},
	{language.French, monday.LocaleFrFR},
	{language.German, monday.LocaleDeDE},
	{language.Italian, monday.LocaleItIT},
	{language.EuropeanPortuguese, monday.LocalePtPT},
	{language.BrazilianPortuguese, monday.LocalePtBR},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = s.tag
	}
	return language.NewMatcher(tags)
}()

// ResolveLocale maps a BCP 47 tag ("es", "es-MX", "en_US") to a monday locale.
// An empty tag resolves to DefaultLocale.
func ResolveLocale(tag string) (monday.Locale, error) {
	if tag == "" {
		tag = DefaultLocale
	}
	parsed, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, tag)
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLocale, tag)
	}
	return supported[idx].locale, nil
}

// Format renders t with a token format, translating month names to locale.
func Format(t time.Time, format string, locale monday.Locale) (string, error) {
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return monday.Format(t, layout, locale), nil
}

// ResolveDate expands "auto" and "auto:FORMAT" (or "auto:PRESET") into a
// date string for t. Any other value is returned unchanged.
func ResolveDate(value string, t time.Time, locale monday.Locale) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	if lower == "auto" {
		return Format(t, DefaultDateFormat, locale)
	}

	if !strings.HasPrefix(lower, "auto:") {
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	// Keep the original case: tokens are uppercase.
	format := value[len("auto:"):]
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	return Format(t, format, locale)
}

// Stamp returns the YYYYMMDD suffix used in report file names.
func Stamp(t time.Time) string {
	layout, _ := ParseDateFormat(FileStampFormat)
	return t.Format(layout)
}
