package domain

// Candidate represents a product listing sourced from the primary
// marketplace by the external collector. Immutable once created.
type Candidate struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	TranslatedTitle string   `json:"translatedTitle,omitempty"`
	RawCategory     string   `json:"rawCategory,omitempty"`
	Category        Category `json:"category"`
	Price           float64  `json:"price"`    // source marketplace currency
	Currency        string   `json:"currency"` // e.g. "USD"
	SellerName      string   `json:"sellerName,omitempty"`
	SellerRating    float64  `json:"sellerRating,omitempty"`
	Sales           int      `json:"sales"`
	Reviews         int      `json:"reviews"`
	Rating          float64  `json:"rating"` // 0-5
	Orders          int      `json:"orders"`
	ImageURLs       []string `json:"imageUrls,omitempty"`
	URL             string   `json:"url,omitempty"`
}

// Validate checks the structural minimum needed to evaluate a candidate.
func (c *Candidate) Validate() error {
	if c == nil || c.ID == "" || c.Title == "" {
		return ErrInvalidCandidate
	}
	if c.Price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// DisplayTitle returns the translated title when available, falling back to
// the original. Matching against the secondary marketplace uses this form.
func (c *Candidate) DisplayTitle() string {
	if c.TranslatedTitle != "" {
		return c.TranslatedTitle
	}
	return c.Title
}

// MatchCandidate is a secondary-marketplace listing considered as a match.
// Per-strategy scores are filled in as each matching strategy runs.
type MatchCandidate struct {
	Title          string   `json:"title"`
	Price          float64  `json:"price"` // local currency (BRL)
	ImageURLs      []string `json:"imageUrls,omitempty"`
	URL            string   `json:"url,omitempty"`
	ImageScore     float64  `json:"imageScore"`
	SemanticScore  float64  `json:"semanticScore"`
	TextualScore   float64  `json:"textualScore"`
	PriceDeviation float64  `json:"priceDeviation"` // matched / converted source price
}

// BestScore returns the highest per-strategy score recorded so far.
func (m *MatchCandidate) BestScore() float64 {
	best := m.ImageScore
	if m.SemanticScore > best {
		best = m.SemanticScore
	}
	if m.TextualScore > best {
		best = m.TextualScore
	}
	return best
}

// Matching strategy identifiers recorded on MatchResult.
const (
	StrategyImage    = "image"
	StrategySemantic = "semantic"
	StrategyTextual  = "textual"
	StrategyNone     = "none"
)

// MatchResult is the outcome of the cascading marketplace match.
type MatchResult struct {
	Matched          bool             `json:"matched"`
	Best             *MatchCandidate  `json:"best,omitempty"`
	Top              []MatchCandidate `json:"top,omitempty"` // ranked, at most 3
	Strategy         string           `json:"strategy"`
	VisualRisk       bool             `json:"visualRisk"`       // false only when the image strategy won
	ImageFetchFailed bool             `json:"imageFetchFailed"` // source or candidate image could not be fetched/hashed
}

// PriceStats summarizes the price distribution over the top match
// candidates of a search.
type PriceStats struct {
	Min     float64 `json:"min"`
	P25     float64 `json:"p25"`
	Median  float64 `json:"median"`
	P75     float64 `json:"p75"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}
