package ebay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToListings(t *testing.T) {
	t.Parallel()

	items := []ItemSummary{
		{
			ItemID:     "1",
			Title:      "Charizard Holo 4/102",
			Price:      ItemPrice{Value: "55.00", Currency: "USD"},
			ItemWebURL: "https://ebay.com/1",
			Condition:  "Used",
			Seller:     &ItemSeller{Username: "cardshop"},
			Image:      &ItemImage{ImageURL: "https://img/1.jpg"},
			ShippingOptions: []ShippingOption{
				{ShippingCost: &ItemPrice{Value: "3.99", Currency: "USD"}},
			},
		},
		{ItemID: "2", Title: "no price"},
		{ItemID: "3", Title: "bad price", Price: ItemPrice{Value: "n/a"}},
		{ItemID: "4", Title: "free?", Price: ItemPrice{Value: "0"}},
	}

	listings := ToListings(items)

	require.Len(t, listings, 1, "malformed-price items are skipped silently")

	l := listings[0]
	assert.Equal(t, "Charizard Holo 4/102", l.Title)
	assert.Equal(t, 55.00, l.Price)
	assert.Equal(t, "USD", l.Currency)
	assert.Equal(t, "cardshop", l.Seller)
	assert.Equal(t, "Used", l.Condition)
	assert.Equal(t, "https://img/1.jpg", l.ImageURL)
	require.NotNil(t, l.ShippingCost)
	assert.Equal(t, 3.99, *l.ShippingCost)
}

func TestToListings_UnparseableShippingIsDropped(t *testing.T) {
	t.Parallel()

	items := []ItemSummary{{
		ItemID: "1",
		Title:  "ok",
		Price:  ItemPrice{Value: "10.00"},
		ShippingOptions: []ShippingOption{
			{ShippingCost: &ItemPrice{Value: "free"}},
		},
	}}

	listings := ToListings(items)
	require.Len(t, listings, 1)
	assert.Nil(t, listings[0].ShippingCost, "non-numeric shipping reads as absent")
}
