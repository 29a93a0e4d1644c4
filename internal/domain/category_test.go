package domain

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"Celulares e Smartphones", CategoryPhones},
		{"Informática", CategoryComputers},
		{"Eletrônicos, Áudio e Vídeo", CategoryElectronics},
		{"Casa e Jardim", CategoryGarden}, // garden wins over home
		{"Casa, Móveis e Decoração", CategoryHome},
		{"Brinquedos e Jogos", CategoryToys},
		{"Calçados, Roupas e Bolsas", CategoryFashion},
		{"Beleza e Cuidado Pessoal", CategoryBeauty},
		{"Esportes e Fitness", CategorySports},
		{"Acessórios para Veículos e Carros", CategoryAutomotive},
		{"Pet Shop", CategoryPets},
		{"Garden Tools", CategoryGarden},
		{"  Home & Kitchen  ", CategoryHome},
		{"Alguma Coisa Desconhecida", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseCategory(tt.raw); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCategoryPolicies(t *testing.T) {
	t.Run("sensitive set", func(t *testing.T) {
		for _, c := range []Category{CategoryElectronics, CategoryPhones, CategoryComputers} {
			if !c.Sensitive() {
				t.Errorf("%q should be sensitive", c)
			}
		}
		for _, c := range []Category{CategoryGarden, CategoryToys, CategoryOther} {
			if c.Sensitive() {
				t.Errorf("%q should not be sensitive", c)
			}
		}
	})

	t.Run("textual fallback allow-list", func(t *testing.T) {
		for _, c := range []Category{CategoryHome, CategoryGarden, CategoryToys, CategoryPets} {
			if !c.AllowsTextualFallback() {
				t.Errorf("%q should allow textual fallback", c)
			}
		}
		// Sensitive categories and the unknown default are always barred.
		for _, c := range []Category{CategoryPhones, CategoryElectronics, CategoryComputers, CategoryOther} {
			if c.AllowsTextualFallback() {
				t.Errorf("%q must not allow textual fallback", c)
			}
		}
	})

	t.Run("sensitive implies no textual fallback", func(t *testing.T) {
		all := []Category{
			CategoryElectronics, CategoryPhones, CategoryComputers, CategoryHome,
			CategoryGarden, CategoryToys, CategoryFashion, CategoryBeauty,
			CategorySports, CategoryAutomotive, CategoryPets, CategoryOther,
		}
		for _, c := range all {
			if c.Sensitive() && c.AllowsTextualFallback() {
				t.Errorf("%q is both sensitive and fallback-eligible", c)
			}
		}
	})

	t.Run("cost multipliers", func(t *testing.T) {
		if got := CategoryPhones.TaxMultiplier(); got != 1.2 {
			t.Errorf("phones tax multiplier = %v, want 1.2", got)
		}
		if got := CategoryToys.TaxMultiplier(); got != 1.0 {
			t.Errorf("toys tax multiplier = %v, want 1.0", got)
		}
		if got := CategoryGarden.ShippingMultiplier(); got != 1.3 {
			t.Errorf("garden shipping multiplier = %v, want 1.3", got)
		}
		if got := CategoryBeauty.ShippingMultiplier(); got != 1.0 {
			t.Errorf("beauty shipping multiplier = %v, want 1.0", got)
		}
	})
}
