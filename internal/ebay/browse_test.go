package ebay

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{ token string }

func (s staticTokens) Token(context.Context) (string, error) { return s.token, nil }

func TestBrowseClient_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "EBAY_US", r.Header.Get("X-EBAY-C-MARKETPLACE-ID"))

		q := r.URL.Query()
		assert.Equal(t, "charizard 4/102 pokemon card", q.Get("q"))
		assert.Equal(t, "30", q.Get("limit"))
		assert.Equal(t, "deliveryCountry:US", q.Get("filter"))

		fmt.Fprint(w, `{
			"itemSummaries": [
				{"itemId":"v1|1|0","title":"Charizard 4/102","price":{"value":"55.00","currency":"USD"},"itemWebUrl":"https://ebay.com/1"},
				{"itemId":"v1|2|0","title":"Charizard Holo","price":{"value":"80.00","currency":"USD"},"itemWebUrl":"https://ebay.com/2"}
			],
			"total": 2
		}`)
	}))
	defer srv.Close()

	c := NewBrowseClient(staticTokens{"tok"}, WithBrowseURL(srv.URL))

	resp, err := c.Search(context.Background(), SearchRequest{
		Query: "charizard 4/102 pokemon card",
		Limit: 30,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Total)
	assert.False(t, resp.HasMore)
}

func TestBrowseClient_SoldFilter(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "deliveryCountry:US,soldItems:true", r.URL.Query().Get("filter"))
		fmt.Fprint(w, `{"itemSummaries":[],"total":0}`)
	}))
	defer srv.Close()

	c := NewBrowseClient(staticTokens{"tok"}, WithBrowseURL(srv.URL))

	_, err := c.Search(context.Background(), SearchRequest{Query: "x", Sold: true})
	require.NoError(t, err)
}

func TestBrowseClient_TruncatesToLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{
			"itemSummaries": [
				{"itemId":"1","title":"a","price":{"value":"1","currency":"USD"}},
				{"itemId":"2","title":"b","price":{"value":"2","currency":"USD"}},
				{"itemId":"3","title":"c","price":{"value":"3","currency":"USD"}}
			],
			"total": 3
		}`)
	}))
	defer srv.Close()

	c := NewBrowseClient(staticTokens{"tok"}, WithBrowseURL(srv.URL))

	resp, err := c.Search(context.Background(), SearchRequest{Query: "x", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

func TestBrowseClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"errors":[{"message":"boom"}]}`)
	}))
	defer srv.Close()

	c := NewBrowseClient(staticTokens{"tok"}, WithBrowseURL(srv.URL))

	_, err := c.Search(context.Background(), SearchRequest{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestBrowseClient_DailyLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"itemSummaries":[],"total":0}`)
	}))
	defer srv.Close()

	rl := NewRateLimiter(100, 100, 1)
	c := NewBrowseClient(staticTokens{"tok"},
		WithBrowseURL(srv.URL),
		WithRateLimiter(rl),
	)

	_, err := c.Search(context.Background(), SearchRequest{Query: "x"})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), SearchRequest{Query: "x"})
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}
