package ebay

// ItemSummary represents a single item from the eBay Browse API
// search response.
type ItemSummary struct {
	ItemID          string           `json:"itemId"`
	Title           string           `json:"title"`
	Price           ItemPrice        `json:"price"`
	ItemWebURL      string           `json:"itemWebUrl"`
	Image           *ItemImage       `json:"image,omitempty"`
	Seller          *ItemSeller      `json:"seller,omitempty"`
	Condition       string           `json:"condition"`
	ShippingOptions []ShippingOption `json:"shippingOptions,omitempty"`
}

// ItemPrice holds eBay price information.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemImage holds eBay image information.
type ItemImage struct {
	ImageURL string `json:"imageUrl"`
}

// ItemSeller holds eBay seller information.
type ItemSeller struct {
	Username string `json:"username"`
}

// ShippingOption holds eBay shipping information.
type ShippingOption struct {
	ShippingCost *ItemPrice `json:"shippingCost,omitempty"`
}
