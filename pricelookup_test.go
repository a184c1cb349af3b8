package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractPrice(t *testing.T) {
	cases := []struct {
		name string
		page string
		want float64
		ok   bool
	}{
		{"itemprop meta", `<meta itemprop="price" content="349.95">`, 349.95, true},
		{"og meta", `<meta property="og:price:amount" content="1,299.00">`, 1299, true},
		{"json blob", `{"sku":"1","price":"88.50"}`, 88.5, true},
		{"dollar amount", `<span>Only $45.00 today</span>`, 45, true},
		{"no price", `<p>Out of stock</p>`, 0, false},
		{"zero price ignored", `<meta itemprop="price" content="0">`, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := extractPrice(tc.page)
			if ok != tc.ok || got != tc.want {
				t.Errorf("extractPrice = (%v, %v), want (%v, %v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestPriceLookupHandler(t *testing.T) {
	r := setupRouter(t)
	admin := asAdmin(t)

	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/priced" {
			w.Write([]byte(`<html><meta itemprop="price" content="350.00"></html>`))
			return
		}
		w.Write([]byte(`<html>nothing to see</html>`))
	}))
	defer vendor.Close()

	w := doRequest(t, r, http.MethodPost, "/api/admin/price-lookup",
		PriceLookupRequest{URL: vendor.URL + "/priced"}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200 (%s)", w.Code, w.Body.String())
	}
	resp := decodeJSON[map[string]any](t, w)
	if price, _ := resp["price"].(float64); price != 350 {
		t.Errorf("price = %v, want 350", resp["price"])
	}

	w = doRequest(t, r, http.MethodPost, "/api/admin/price-lookup",
		PriceLookupRequest{URL: vendor.URL + "/bare"}, admin)
	if w.Code != http.StatusNotFound {
		t.Errorf("page without price: got %d, want 404", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/api/admin/price-lookup",
		PriceLookupRequest{URL: "not a url"}, admin)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid url: got %d, want 400", w.Code)
	}
}
