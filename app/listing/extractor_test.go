package listing

import (
	"fmt"
	"strings"
	"testing"
)

func mustPage(t *testing.T, html, url string) *Page {
	t.Helper()
	page, err := NewPage(html, url)
	if err != nil {
		t.Fatalf("Failed to build page: %v", err)
	}
	return page
}

func newTestExtractor() *Extractor {
	return NewExtractor(DefaultSelectors())
}

func TestExtractor_FullListing(t *testing.T) {
	html := `
	<html>
	<head><title>Volkswagen Golf 2.0 TDI</title></head>
	<body>
		<h1 data-testid="title">Volkswagen Golf 2.0 TDI</h1>
		<div data-testid="price-label"><span data-testid="price-label__value">18 500 €</span></div>
		<ul data-testid="key-facts-list">
			<li data-testid="key-fact-0">03/2019</li>
			<li data-testid="key-fact-1">45 230 km</li>
		</ul>
	</body>
	</html>`

	url := "https://www.autoscout24.fr/offres/volkswagen-golf-c7f1c0f7-9c7b-4f5e-9d5f-f2e9a0e9c7f1"
	result := newTestExtractor().Run(mustPage(t, html, url))

	vehicle := result.Vehicle
	if vehicle.Make != "Volkswagen" {
		t.Errorf("Expected make 'Volkswagen', got '%s'", vehicle.Make)
	}
	if vehicle.Model != "Golf 2.0 TDI" {
		t.Errorf("Expected model 'Golf 2.0 TDI', got '%s'", vehicle.Model)
	}
	if vehicle.Price != 18500 {
		t.Errorf("Expected price 18500, got %d", vehicle.Price)
	}
	if vehicle.DateStr != "03/2019" {
		t.Errorf("Expected dateStr '03/2019', got '%s'", vehicle.DateStr)
	}
	if vehicle.Year != 2019 {
		t.Errorf("Expected year 2019, got %d", vehicle.Year)
	}
	if vehicle.Mileage != 45230 {
		t.Errorf("Expected mileage 45230, got %d", vehicle.Mileage)
	}
	if vehicle.AdID != "c7f1c0f7-9c7b-4f5e-9d5f-f2e9a0e9c7f1" {
		t.Errorf("Expected ad ID from URL, got '%s'", vehicle.AdID)
	}
	if vehicle.Source != "autoscout24" {
		t.Errorf("Expected source 'autoscout24', got '%s'", vehicle.Source)
	}
	if vehicle.SourceURL != url {
		t.Errorf("Expected source URL '%s', got '%s'", url, vehicle.SourceURL)
	}
	if result.PageTitle != "Volkswagen Golf 2.0 TDI" {
		t.Errorf("Expected page title, got '%s'", result.PageTitle)
	}
}

func TestExtractor_EmptyPage(t *testing.T) {
	result := newTestExtractor().Run(mustPage(t, "<html><head></head><body></body></html>", "https://example.test/nothing"))

	vehicle := result.Vehicle
	if vehicle.Make != "" || vehicle.Model != "" {
		t.Errorf("Expected empty make/model, got '%s'/'%s'", vehicle.Make, vehicle.Model)
	}
	if vehicle.Year != 0 || vehicle.Mileage != 0 || vehicle.Price != 0 {
		t.Errorf("Expected zero numeric fields, got year=%d mileage=%d price=%d", vehicle.Year, vehicle.Mileage, vehicle.Price)
	}
	if vehicle.Fuel != "" || vehicle.Transmission != "" || vehicle.Power != "" {
		t.Errorf("Expected empty enums, got fuel='%s' transmission='%s' power='%s'", vehicle.Fuel, vehicle.Transmission, vehicle.Power)
	}
	if vehicle.AdID != "" {
		t.Errorf("Expected empty ad ID, got '%s'", vehicle.AdID)
	}
}

func TestExtractor_PriceSuperscriptCents(t *testing.T) {
	html := `<html><head><title>Audi A3</title></head><body>
		<h2 class="RegularPrice">24 990<sup>,00</sup> €</h2>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Price != 24990 {
		t.Errorf("Expected price 24990, got %d", result.Vehicle.Price)
	}
}

func TestExtractor_PriceFallsBackToPageTitle(t *testing.T) {
	html := `<html><head><title>Renault Clio - 9 450 € - occasion</title></head><body>
		<h1>Renault Clio</h1>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Price != 9450 {
		t.Errorf("Expected price 9450 from page title, got %d", result.Vehicle.Price)
	}
}

func TestExtractor_TitleSelectorPriority(t *testing.T) {
	html := `<html><body>
		<h1>Annonce occasion</h1>
		<span data-testid="title">BMW 320d Touring</span>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Make != "BMW" {
		t.Errorf("Expected make 'BMW', got '%s'", result.Vehicle.Make)
	}
	if result.Vehicle.Model != "320d Touring" {
		t.Errorf("Expected model '320d Touring', got '%s'", result.Vehicle.Model)
	}
}

func TestExtractor_YearFromPageTitleWinsOverBareYear(t *testing.T) {
	html := `<html><head><title>Peugeot 208 2017 occasion</title></head><body>
		<ul data-testid="key-facts-list"><li data-testid="key-fact-0">mise en circulation 2018</li></ul>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Year != 2017 {
		t.Errorf("Expected year 2017 from page title, got %d", result.Vehicle.Year)
	}
}

func TestExtractor_DateOverridesTitleYear(t *testing.T) {
	html := `<html><head><title>Peugeot 208 2017 occasion</title></head><body>
		<ul data-testid="key-facts-list"><li data-testid="key-fact-0">12/2018</li></ul>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.DateStr != "12/2018" {
		t.Errorf("Expected dateStr '12/2018', got '%s'", result.Vehicle.DateStr)
	}
	if result.Vehicle.Year != 2018 {
		t.Errorf("Expected year 2018 from registration date, got %d", result.Vehicle.Year)
	}
}

func TestExtractor_FuelFromDetails(t *testing.T) {
	html := `<html><body>
		<span data-testid="vehicle-details-item">Diesel</span>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Fuel != "Diesel" {
		t.Errorf("Expected fuel 'Diesel', got '%s'", result.Vehicle.Fuel)
	}
}

func TestExtractor_FuelAccentVariantInDescription(t *testing.T) {
	html := `<html><body>
		<div class="SellerNotesSection_content__te2EB">Vehicule electrique, batterie neuve.</div>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Fuel != "Électrique" {
		t.Errorf("Expected fuel 'Électrique', got '%s'", result.Vehicle.Fuel)
	}
}

func TestExtractor_TransmissionSynonymAutomaat(t *testing.T) {
	html := `<html><body>
		<span data-testid="vehicle-details-item">Automaat</span>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Transmission != "Automatique" {
		t.Errorf("Expected transmission 'Automatique', got '%s'", result.Vehicle.Transmission)
	}
}

func TestExtractor_TransmissionSemiAutomatic(t *testing.T) {
	html := `<html><body>
		<span data-testid="vehicle-details-item">Semi-automatique</span>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Transmission != "Semi-automatique" {
		t.Errorf("Expected transmission 'Semi-automatique', got '%s'", result.Vehicle.Transmission)
	}
}

func TestExtractor_PowerFormats(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"135 kW (184 CH)", "135kW (184CV)"},
		{"135kW (184CV)", "135kW (184CV)"},
		{"85 kW", "85kW"},
		{"90 CV", "90CV"},
	}

	for _, tt := range tests {
		html := fmt.Sprintf(`<html><body><span data-testid="vehicle-details-item">%s</span></body></html>`, tt.text)
		result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
		if result.Vehicle.Power != tt.expected {
			t.Errorf("Expected power %q for %q, got %q", tt.expected, tt.text, result.Vehicle.Power)
		}
	}
}

func TestExtractor_PowerFromDescriptionFallback(t *testing.T) {
	html := `<html><body>
		<div data-testid="description">Moteur 103KW 140PK, entretien complet.</div>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.Power != "103kW (140CV)" {
		t.Errorf("Expected power '103kW (140CV)', got '%s'", result.Vehicle.Power)
	}
}

func TestExtractor_DescriptionLineBreaks(t *testing.T) {
	html := `<html><body>
		<div class="SellerNotesSection_content__te2EB">Premiere main.<br/>Carnet complet.<br>Non fumeur <strong>garanti</strong>.</div>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	expected := "Premiere main.\nCarnet complet.\nNon fumeur garanti."
	if result.Vehicle.Description != expected {
		t.Errorf("Expected description %q, got %q", expected, result.Vehicle.Description)
	}
}

func TestExtractor_DescriptionEquipmentFallback(t *testing.T) {
	var items strings.Builder
	for i := 1; i <= 12; i++ {
		fmt.Fprintf(&items, "<li>Option %d</li>", i)
	}
	html := fmt.Sprintf(`<html><body><ul data-testid="equipment-list">%s</ul></body></html>`, items.String())

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))

	description := result.Vehicle.Description
	if !strings.HasPrefix(description, "Équipement: ") {
		t.Errorf("Expected equipment prefix, got %q", description)
	}
	if !strings.Contains(description, "Option 10") {
		t.Errorf("Expected tenth equipment entry, got %q", description)
	}
	if strings.Contains(description, "Option 11") {
		t.Errorf("Expected equipment list capped at 10 entries, got %q", description)
	}
}

func TestExtractor_SellerInfo(t *testing.T) {
	html := `<html><body>
		<div data-testid="seller-name">Jean Paul Dupont</div>
		<a href="tel:+33612345678">+33 6 12 34 56 78</a>
		<div data-testid="seller-address">12 rue des Lilas, Lyon</div>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))

	seller := result.Seller
	if seller.FirstName != "Jean" {
		t.Errorf("Expected first name 'Jean', got '%s'", seller.FirstName)
	}
	if seller.LastName != "Paul Dupont" {
		t.Errorf("Expected last name 'Paul Dupont', got '%s'", seller.LastName)
	}
	if seller.Phone != "+33 6 12 34 56 78" {
		t.Errorf("Expected phone from tel link, got '%s'", seller.Phone)
	}
	if seller.Address != "12 rue des Lilas, Lyon" {
		t.Errorf("Expected address, got '%s'", seller.Address)
	}
}

func TestExtractor_SingleTokenSellerName(t *testing.T) {
	html := `<html><body><div data-testid="seller-name">Dupont</div></body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Seller.FirstName != "" {
		t.Errorf("Expected empty first name, got '%s'", result.Seller.FirstName)
	}
	if result.Seller.LastName != "Dupont" {
		t.Errorf("Expected last name 'Dupont', got '%s'", result.Seller.LastName)
	}
}

func TestExtractor_ImagePrefersMetaTag(t *testing.T) {
	html := `<html><head>
		<meta property="og:image" content="https://img.example.test/preview-large.jpg">
	</head><body>
		<div data-testid="gallery"><img src="https://img.example.test/gallery-1.jpg"></div>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.ImageURL != "https://img.example.test/preview-large.jpg" {
		t.Errorf("Expected meta image URL, got '%s'", result.Vehicle.ImageURL)
	}
}

func TestExtractor_ImageSrcsetHighestResolution(t *testing.T) {
	html := `<html><body>
		<div data-testid="gallery">
			<img src="data:x" srcset="https://img.example.test/w320.jpg 320w, https://img.example.test/w640.jpg 640w, https://img.example.test/w1280.jpg 1280w">
		</div>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.ImageURL != "https://img.example.test/w1280.jpg" {
		t.Errorf("Expected highest-resolution srcset candidate, got '%s'", result.Vehicle.ImageURL)
	}
}

func TestExtractor_ImagePlaceholderSkipped(t *testing.T) {
	html := `<html><body>
		<div data-testid="gallery"><img src="blank.gif"></div>
	</body></html>`

	result := newTestExtractor().Run(mustPage(t, html, "https://example.test"))
	if result.Vehicle.ImageURL != "" {
		t.Errorf("Expected placeholder src to be skipped, got '%s'", result.Vehicle.ImageURL)
	}
}
