package listing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extractor turns a rendered listing page into a typed vehicle+seller
// record. Every field extractor walks its selector strategy list in priority
// order and degrades to an empty value when nothing matches; a missing field
// is a normal outcome, never an error.
type Extractor struct {
	sel *Selectors
}

func NewExtractor(sel *Selectors) *Extractor {
	return &Extractor{sel: sel}
}

// Run executes all field extractors against the snapshot and assembles the
// result. Extractors are independent and only read from the DOM, so their
// order does not matter.
func (e *Extractor) Run(page *Page) *Extraction {
	title := e.extractTitle(page.Doc)
	make, model := splitTitle(title)
	year, mileage, dateStr := e.extractBasicInfo(page)
	sellerName, phone, address := e.extractSellerInfo(page.Doc)
	firstName, lastName := splitName(sellerName)

	vehicle := Vehicle{
		Make:         make,
		Model:        model,
		Year:         year,
		Mileage:      mileage,
		Price:        e.extractPrice(page),
		Fuel:         e.extractFuel(page.Doc),
		Transmission: e.extractTransmission(page.Doc),
		Power:        e.extractPower(page.Doc),
		Description:  e.extractDescription(page.Doc),
		ImageURL:     e.extractMainImage(page.Doc),
		AdID:         extractAdID(page.URL),
		Source:       Source,
		SourceURL:    page.URL,
		DateStr:      dateStr,
	}

	seller := Seller{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Address:   address,
	}

	return &Extraction{
		Vehicle:   vehicle,
		Seller:    seller,
		PageTitle: page.Title,
	}
}

func (e *Extractor) extractTitle(doc *goquery.Document) string {
	return textFromSelectors(doc, e.sel.Title)
}

// extractPrice reads the first selector that yields a parsable amount.
// Superscript cents markup is removed from a detached copy before reading
// the text. Falls back to the page title when it carries a € sign.
func (e *Extractor) extractPrice(page *Page) int {
	for _, selector := range e.sel.Price {
		el := page.Doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}

		clone := el.Clone()
		clone.Find("sup").Remove()

		if price := parsePrice(clone.Text()); price > 0 {
			return price
		}
	}

	if strings.Contains(page.Title, "€") {
		if price := parsePrice(page.Title); price > 0 {
			return price
		}
	}

	return 0
}

// extractBasicInfo scans the key-fact containers for registration date, year
// and mileage. The page title is tried first for the year; a MM/YYYY match
// in a key fact supplies both dateStr and year and wins over the title.
// Scanning stops once both year and mileage are known.
func (e *Extractor) extractBasicInfo(page *Page) (int, int, string) {
	year := matchYear(page.Title)
	mileage := 0
	dateStr := ""

	for _, selector := range e.sel.KeyFacts {
		elements := page.Doc.Find(selector)
		if elements.Length() == 0 {
			continue
		}

		elements.EachWithBreak(func(_ int, el *goquery.Selection) bool {
			text := strings.TrimSpace(el.Text())

			if dateStr == "" {
				if date, dateYear := matchDate(text); date != "" {
					dateStr = date
					year = dateYear
				}
			}

			if year == 0 && dateStr == "" {
				if y := matchYear(text); y > 0 {
					year = y
				}
			}

			if mileage == 0 {
				if m := parseMileage(text); m > 0 {
					mileage = m
				}
			}

			return year == 0 || mileage == 0
		})

		if year > 0 && mileage > 0 {
			break
		}
	}

	return year, mileage, dateStr
}

// extractFuel scans the vocabulary selector groups for a known fuel term and
// returns it in canonical casing. A second, accent-folded pass over the
// description block catches spellings like "electrique".
func (e *Extractor) extractFuel(doc *goquery.Document) string {
	if fuel := scanVocabulary(doc, e.sel.VocabularyScan, matchFuel); fuel != "" {
		return fuel
	}

	return scanDescription(doc, e.sel.Description, matchFuelFolded)
}

func matchFuel(text string) string {
	lower := strings.ToLower(text)
	for _, fuel := range FuelTypes {
		if strings.Contains(lower, strings.ToLower(fuel)) {
			return fuel
		}
	}
	return ""
}

// matchFuelFolded compares with accents stripped, so the description
// fallback also catches spellings like "electrique".
func matchFuelFolded(text string) string {
	lower := foldAccents(strings.ToLower(text))
	for _, fuel := range FuelTypes {
		if strings.Contains(lower, foldAccents(strings.ToLower(fuel))) {
			return fuel
		}
	}
	return ""
}

// extractTransmission uses the same two-pass strategy as extractFuel.
// "Semi-automatique" is tested before "Automatique" so the longer term wins,
// and the Dutch "automaat" counts as automatic.
func (e *Extractor) extractTransmission(doc *goquery.Document) string {
	if tr := scanVocabulary(doc, e.sel.VocabularyScan, matchTransmission); tr != "" {
		return tr
	}

	return scanDescription(doc, e.sel.Description, func(text string) string {
		return matchTransmission(foldAccents(text))
	})
}

func matchTransmission(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "semi-automatique"):
		return "Semi-automatique"
	case strings.Contains(lower, "automatique"), strings.Contains(lower, "automaat"):
		return "Automatique"
	case strings.Contains(lower, "manuelle"), strings.Contains(lower, "manuel"):
		return "Manuelle"
	}
	return ""
}

// extractPower tries the four canonical power formats against each selector
// group, then falls back to a combined kW/CV pattern in the description.
func (e *Extractor) extractPower(doc *goquery.Document) string {
	for _, selector := range e.sel.Power {
		elements := doc.Find(selector)
		if elements.Length() == 0 {
			continue
		}

		power := ""
		elements.EachWithBreak(func(_ int, el *goquery.Selection) bool {
			power = normalizePower(strings.TrimSpace(el.Text()))
			return power == ""
		})

		if power != "" {
			return power
		}
	}

	return scanDescription(doc, e.sel.Description, powerFromDescription)
}

// extractDescription returns the first description block as plain text with
// line breaks preserved. Without one, up to ten equipment list entries are
// summarized instead.
func (e *Extractor) extractDescription(doc *goquery.Document) string {
	for _, selector := range e.sel.Description {
		el := doc.Find(selector).First()
		if el.Length() == 0 || strings.TrimSpace(el.Text()) == "" {
			continue
		}

		html, err := el.Html()
		if err != nil {
			continue
		}

		return htmlToText(html)
	}

	var equipment []string
	doc.Find(e.sel.Equipment).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if text := strings.TrimSpace(el.Text()); text != "" {
			equipment = append(equipment, text)
		}
		return len(equipment) < 10
	})

	if len(equipment) == 0 {
		return ""
	}

	return "Équipement: " + strings.Join(equipment, ", ")
}

func (e *Extractor) extractSellerInfo(doc *goquery.Document) (string, string, string) {
	name := textFromSelectors(doc, e.sel.SellerName)
	phone := textFromSelectors(doc, e.sel.SellerPhone)
	address := textFromSelectors(doc, e.sel.SellerAddress)
	return name, phone, address
}

// extractMainImage prefers the social-preview meta tag, then walks the
// gallery selectors reading src, data-src and finally the highest-resolution
// srcset candidate. Attribute values shorter than ten characters are
// placeholders and are skipped.
func (e *Extractor) extractMainImage(doc *goquery.Document) string {
	if content, ok := doc.Find(e.sel.MetaImage).First().Attr("content"); ok && content != "" {
		return content
	}

	for _, selector := range e.sel.Gallery {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}

		if url := imageURLFrom(el); url != "" {
			return url
		}
	}

	return ""
}

func imageURLFrom(el *goquery.Selection) string {
	if src, ok := el.Attr("src"); ok && len(src) > 10 {
		return src
	}

	if dataSrc, ok := el.Attr("data-src"); ok && len(dataSrc) > 10 {
		return dataSrc
	}

	if srcset, ok := el.Attr("srcset"); ok && len(srcset) > 10 {
		candidates := strings.Split(srcset, ",")
		last := strings.TrimSpace(candidates[len(candidates)-1])
		if url := strings.Fields(last); len(url) > 0 {
			return url[0]
		}
	}

	return ""
}

// extractAdID pulls a UUID-shaped token out of the listing URL.
func extractAdID(url string) string {
	return adIDPattern.FindString(url)
}

// textFromSelectors returns the trimmed text of the first selector with a
// non-empty match.
func textFromSelectors(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}

		if text := strings.TrimSpace(el.Text()); text != "" {
			return text
		}
	}
	return ""
}

// scanVocabulary walks the selector groups in priority order and returns the
// first non-empty match produced by the matcher, element by element.
func scanVocabulary(doc *goquery.Document, groups []string, match func(string) string) string {
	for _, selector := range groups {
		elements := doc.Find(selector)
		if elements.Length() == 0 {
			continue
		}

		found := ""
		elements.EachWithBreak(func(_ int, el *goquery.Selection) bool {
			found = match(el.Text())
			return found == ""
		})

		if found != "" {
			return found
		}
	}
	return ""
}

// scanDescription applies the matcher to the first description block only.
func scanDescription(doc *goquery.Document, selectors []string, match func(string) string) string {
	for _, selector := range selectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}

		if found := match(strings.TrimSpace(el.Text())); found != "" {
			return found
		}
	}
	return ""
}
