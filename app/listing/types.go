package listing

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const Source = "autoscout24"

// Fuel vocabulary, in canonical casing and match priority order.
var FuelTypes = []string{"Essence", "Diesel", "Hybride", "Électrique", "GPL"}

// Vehicle is the typed record assembled from a rendered listing page.
// A zero value in any field means "not found"; extraction never fails on
// missing fields.
type Vehicle struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Mileage      int    `json:"mileage"`
	Price        int    `json:"price"`
	Fuel         string `json:"fuel"`
	Transmission string `json:"transmission"`
	Power        string `json:"power"`
	Description  string `json:"description"`
	ImageURL     string `json:"imageUrl"`
	AdID         string `json:"adId"`
	Source       string `json:"source"`
	SourceURL    string `json:"sourceUrl"`
	DateStr      string `json:"dateStr"`
}

type Seller struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// Extraction is the composed result handed back to the caller. The caller
// decides whether to persist it or reject it as a duplicate.
type Extraction struct {
	Vehicle   Vehicle `json:"vehicle"`
	Seller    Seller  `json:"seller"`
	PageTitle string  `json:"pageTitle"`
}

// Page is a rendered DOM snapshot. Extractors only read from it, never
// trigger further navigation.
type Page struct {
	Doc   *goquery.Document
	URL   string
	Title string
}

// NewPage parses rendered HTML into a queryable snapshot. The page title is
// read from the <title> element.
func NewPage(html, url string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered HTML: %w", err)
	}

	return &Page{
		Doc:   doc,
		URL:   url,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}, nil
}
