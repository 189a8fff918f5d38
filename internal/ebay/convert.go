package ebay

import (
	"strconv"

	domain "github.com/flipradar-io/flipradar/pkg/types"
)

// ToListings converts eBay item summaries into domain listings. Items
// without a parseable positive price are skipped silently: a fault
// confined to one candidate record never aborts the batch.
func ToListings(items []ItemSummary) []domain.Listing {
	listings := make([]domain.Listing, 0, len(items))
	for i := range items {
		if l, ok := toListing(&items[i]); ok {
			listings = append(listings, l)
		}
	}
	return listings
}

func toListing(item *ItemSummary) (domain.Listing, bool) {
	price, err := strconv.ParseFloat(item.Price.Value, 64)
	if err != nil || price <= 0 {
		return domain.Listing{}, false
	}

	l := domain.Listing{
		Title:     item.Title,
		ItemURL:   item.ItemWebURL,
		Price:     price,
		Currency:  item.Price.Currency,
		Condition: item.Condition,
	}

	if item.Image != nil {
		l.ImageURL = item.Image.ImageURL
	}
	if item.Seller != nil {
		l.Seller = item.Seller.Username
	}

	if len(item.ShippingOptions) > 0 {
		if sc := item.ShippingOptions[0].ShippingCost; sc != nil {
			if cost, err := strconv.ParseFloat(sc.Value, 64); err == nil {
				l.ShippingCost = &cost
			}
		}
	}

	return l, true
}
