// Package domain defines the core business types for flipradar.
package domain

// Game identifies a supported trading card game category.
type Game string

// Game constants.
const (
	GamePokemon Game = "pokemon"
	GameMTG     Game = "mtg"
)

// Valid reports whether the game is a recognized category.
func (g Game) Valid() bool {
	return g == GamePokemon || g == GameMTG
}

// Listing represents one externally observed marketplace offer.
// Listings are immutable once fetched and live only for the duration
// of a single pipeline invocation.
type Listing struct {
	Title    string `json:"title"`
	ItemURL  string `json:"item_url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	// Pricing, in the marketplace's reporting currency.
	Price        float64  `json:"price"`
	Currency     string   `json:"currency,omitempty"`
	ShippingCost *float64 `json:"shipping_cost,omitempty"`

	// Opaque metadata, passed through unmodified.
	Condition string `json:"condition,omitempty"`
	Seller    string `json:"seller,omitempty"`
}

// TotalCost returns the acquisition cost including shipping, using
// defaultShipping when the listing carries no explicit shipping cost.
func (l *Listing) TotalCost(defaultShipping float64) float64 {
	if l.ShippingCost != nil {
		return l.Price + *l.ShippingCost
	}
	return l.Price + defaultShipping
}

// CardReference is a structured identity for a card, supplied by a
// catalog lookup or synthesized minimally from a free-text query.
type CardReference struct {
	Game      Game   `json:"game,omitempty"`
	ProductID int    `json:"product_id,omitempty"`
	Name      string `json:"name"`
	SetName   string `json:"set_name,omitempty"`
	Number    string `json:"number,omitempty"` // may contain "/", e.g. "4/102"
	Rarity    string `json:"rarity,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Signal is one piece of evidence recorded while matching a listing.
type Signal struct {
	Name  string `json:"signal"`
	Value string `json:"value"`
	OK    bool   `json:"ok"`
}

// MatchResult is an explainable confidence score in [0,1] plus the
// ordered evidence that produced it.
type MatchResult struct {
	Confidence float64  `json:"confidence"`
	Signals    []Signal `json:"signals"`
}

// PriceStatistics summarizes a set of positive sale prices. All fields
// other than Count are nil when the filtered input set is empty.
type PriceStatistics struct {
	Count  int      `json:"count"`
	Median *float64 `json:"median,omitempty"`
	P25    *float64 `json:"p25,omitempty"`
	P75    *float64 `json:"p75,omitempty"`
	IQR    *float64 `json:"iqr,omitempty"`
	StdDev *float64 `json:"stdev,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// EconomicsResult models a single buy-here-sell-there transaction.
// ROI is nil whenever the cost basis is not positive.
type EconomicsResult struct {
	BuyPrice    float64  `json:"buy_price"`
	BuyShipping float64  `json:"buy_shipping"`
	CostBasis   float64  `json:"cost_basis"`
	GrossSale   float64  `json:"gross_sale"`
	Fee         float64  `json:"fee"`
	RiskBuffer  float64  `json:"risk_buffer"`
	NetSale     float64  `json:"net_sale"`
	Profit      float64  `json:"profit"`
	ROI         *float64 `json:"roi,omitempty"`
}

// Opportunity is a listing that survived all pipeline filters, carrying
// its match evidence, economics, and the composite score attached by
// the ranker. Never mutated after ranking.
type Opportunity struct {
	Listing   Listing         `json:"listing"`
	Match     MatchResult     `json:"match"`
	Economics EconomicsResult `json:"economics"`

	// Discount is the fraction by which the listing's total cost
	// undercuts the estimated median sale price (text-search mode only).
	Discount float64 `json:"discount,omitempty"`

	Score float64 `json:"score"`
}
