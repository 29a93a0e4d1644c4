package domain

import "strings"

// Category is the canonical product category used across the pipeline.
// Raw listing categories arrive as free-form strings in mixed languages;
// ParseCategory maps them onto this closed set so that policy tables
// (sensitivity, fallback allow-list, cost multipliers) have a single key.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryPhones      Category = "phones"
	CategoryComputers   Category = "computers"
	CategoryHome        Category = "home"
	CategoryGarden      Category = "garden"
	CategoryToys        Category = "toys"
	CategoryFashion     Category = "fashion"
	CategoryBeauty      Category = "beauty"
	CategorySports      Category = "sports"
	CategoryAutomotive  Category = "automotive"
	CategoryPets        Category = "pets"
	CategoryOther       Category = "other"
)

// categoryAliases maps normalized substrings (Portuguese and English) to the
// canonical category. Longer, more specific aliases are matched first via the
// ordered list below so "informatica" wins over "eletronicos" when both occur.
var categoryAliases = []struct {
	substr string
	cat    Category
}{
	{"celular", CategoryPhones},
	{"smartphone", CategoryPhones},
	{"phone", CategoryPhones},
	{"telefone", CategoryPhones},
	{"informatica", CategoryComputers},
	{"computador", CategoryComputers},
	{"computer", CategoryComputers},
	{"notebook", CategoryComputers},
	{"laptop", CategoryComputers},
	{"eletronico", CategoryElectronics},
	{"electronic", CategoryElectronics},
	{"eletro", CategoryElectronics},
	{"jardim", CategoryGarden},
	{"garden", CategoryGarden},
	{"casa", CategoryHome},
	{"home", CategoryHome},
	{"decoracao", CategoryHome},
	{"cozinha", CategoryHome},
	{"brinquedo", CategoryToys},
	{"toy", CategoryToys},
	{"moda", CategoryFashion},
	{"roupa", CategoryFashion},
	{"fashion", CategoryFashion},
	{"clothing", CategoryFashion},
	{"beleza", CategoryBeauty},
	{"beauty", CategoryBeauty},
	{"cosmetic", CategoryBeauty},
	{"esporte", CategorySports},
	{"sport", CategorySports},
	{"fitness", CategorySports},
	{"automotivo", CategoryAutomotive},
	{"automotive", CategoryAutomotive},
	{"carro", CategoryAutomotive},
	{"pet", CategoryPets},
	{"animal", CategoryPets},
}

// asciiFold maps the accented characters that show up in marketplace
// category names to their ASCII equivalents.
var asciiFold = strings.NewReplacer(
	"á", "a", "â", "a", "ã", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

// ParseCategory normalizes a raw category string to a canonical Category.
// Unknown strings map to CategoryOther, which carries default multipliers,
// is not sensitive, and is excluded from the textual-fallback allow-list.
func ParseCategory(raw string) Category {
	normalized := asciiFold.Replace(strings.ToLower(strings.TrimSpace(raw)))
	if normalized == "" {
		return CategoryOther
	}

	for _, alias := range categoryAliases {
		if strings.Contains(normalized, alias.substr) {
			return alias.cat
		}
	}
	return CategoryOther
}

// Sensitive reports whether the category is high-risk for resale
// (counterfeit-prone, warranty-sensitive). Sensitive categories are barred
// from textual-fallback matching and add risk points.
func (c Category) Sensitive() bool {
	switch c {
	case CategoryElectronics, CategoryPhones, CategoryComputers:
		return true
	}
	return false
}

// AllowsTextualFallback reports whether keyword-only matching is acceptable
// for the category. This is a hard policy gate: categories outside this list
// never match via the textual strategy regardless of keyword score.
func (c Category) AllowsTextualFallback() bool {
	switch c {
	case CategoryHome, CategoryGarden, CategoryToys, CategoryPets:
		return true
	}
	return false
}

// TaxMultiplier returns the category adjustment applied to the import tax
// rate. Electronics-type goods attract extra taxation.
func (c Category) TaxMultiplier() float64 {
	switch c {
	case CategoryElectronics, CategoryPhones, CategoryComputers:
		return 1.2
	}
	return 1.0
}

// ShippingMultiplier returns the category adjustment applied to the base
// shipping cost. Bulky-goods categories ship heavier parcels on average.
func (c Category) ShippingMultiplier() float64 {
	switch c {
	case CategoryHome, CategoryGarden, CategoryAutomotive:
		return 1.3
	}
	return 1.0
}
