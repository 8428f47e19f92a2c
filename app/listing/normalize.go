package listing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	supTagPattern   = regexp.MustCompile(`(?is)<sup[^>]*>.*?</sup>`)
	nonPricePattern = regexp.MustCompile(`[^0-9.,\s]`)
	priceToken      = regexp.MustCompile(`\d+(?:\.\d+)?`)

	datePattern    = regexp.MustCompile(`(\d{1,2})/((?:20|19)\d{2})`)
	yearPattern    = regexp.MustCompile(`\b(?:20|19)\d{2}\b`)
	mileagePattern = regexp.MustCompile(`(?i)(\d+[.,]?\d*)km`)

	powerFullPattern    = regexp.MustCompile(`(?i)(\d+)\s*kW\s*\(\s*(\d+)\s*[CP][HV]\s*\)`)
	powerCompactPattern = regexp.MustCompile(`(?i)(\d+)kW\s*\(\s*(\d+)CV\s*\)`)
	powerKWPattern      = regexp.MustCompile(`(?i)(\d+)\s*kW`)
	powerCVPattern      = regexp.MustCompile(`(?i)(\d+)\s*[CP][HV]`)
	powerCombined       = regexp.MustCompile(`(?i)(\d+)\s*kW\s*[(\s]*(\d+)\s*[CP][HVK]`)

	adIDPattern = regexp.MustCompile(`[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}`)

	brTagPattern   = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlTagPattern = regexp.MustCompile(`</?[^>]+(?:>|$)`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// parsePrice converts noisy price text ("12 345,00 €", superscript cents
// already stripped by the caller) into whole currency units. The decimal
// comma is normalized to a dot and the parsed value is rounded half away
// from zero. Returns 0 when nothing parses; callers treat 0 as "unknown".
func parsePrice(text string) int {
	cleaned := supTagPattern.ReplaceAllString(text, "")
	cleaned = nonPricePattern.ReplaceAllString(cleaned, "")
	cleaned = spacePattern.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	token := priceToken.FindString(cleaned)
	if token == "" {
		return 0
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}

	return int(math.Round(value))
}

// parseMileage reads a kilometer count out of a key-fact text. Whitespace is
// removed first so grouped digits ("39 317 km") form one token, then the
// remaining separators are stripped.
func parseMileage(text string) int {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "km") && !strings.Contains(lower, "kilom") {
		return 0
	}

	compact := spacePattern.ReplaceAllString(text, "")
	match := mileagePattern.FindStringSubmatch(compact)
	if match == nil {
		return 0
	}

	digits := strings.NewReplacer(".", "", ",", "").Replace(match[1])
	mileage, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}

	return mileage
}

// matchDate finds a MM/YYYY registration date. Returns the raw token plus
// the year from its trailing group.
func matchDate(text string) (string, int) {
	match := datePattern.FindStringSubmatch(text)
	if match == nil {
		return "", 0
	}

	year, err := strconv.Atoi(match[2])
	if err != nil {
		return "", 0
	}

	return match[0], year
}

// matchYear finds a bare four-digit year (19xx/20xx).
func matchYear(text string) int {
	token := yearPattern.FindString(text)
	if token == "" {
		return 0
	}

	year, err := strconv.Atoi(token)
	if err != nil {
		return 0
	}

	return year
}

// normalizePower canonicalizes power text to "<n>kW (<m>CV)", "<n>kW" or
// "<m>CV". The horsepower unit letters CH, CV, PH and PV all display as CV.
func normalizePower(text string) string {
	if match := powerFullPattern.FindStringSubmatch(text); match != nil {
		return match[1] + "kW (" + match[2] + "CV)"
	}
	if match := powerCompactPattern.FindStringSubmatch(text); match != nil {
		return match[1] + "kW (" + match[2] + "CV)"
	}
	if match := powerKWPattern.FindStringSubmatch(text); match != nil {
		return match[1] + "kW"
	}
	if match := powerCVPattern.FindStringSubmatch(text); match != nil {
		return match[1] + "CV"
	}
	return ""
}

// powerFromDescription handles free-text forms like "103KW 140PK" or
// "103 kW (140 CV)" where the parenthesis is optional. The Dutch PK unit
// shows up in imported listings and also maps to CV.
func powerFromDescription(text string) string {
	match := powerCombined.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return match[1] + "kW (" + match[2] + "CV)"
}

// htmlToText converts markup to plain text: <br> variants become newlines,
// every other tag is dropped.
func htmlToText(html string) string {
	text := brTagPattern.ReplaceAllString(html, "\n")
	text = htmlTagPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// splitTitle derives make and model from a listing title: the first token is
// the make, the rest of the title (make prefix removed) is the model.
func splitTitle(title string) (string, string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ""
	}

	make := strings.Fields(title)[0]
	model := strings.TrimSpace(strings.Replace(title, make, "", 1))

	return make, model
}

// splitName derives first/last name from a display name. Single-token names
// go entirely into the last name.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents strips diacritics so "électrique" and "electrique" compare
// equal in the description fallback scans.
func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return folded
}
