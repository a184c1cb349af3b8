package main

import (
	"net/http"
	"testing"
)

func TestClaimLifecycle(t *testing.T) {
	r := setupRouter(t)
	seedItem(t, RegistryItem{ID: "x", Name: "Dutch Oven", Link: "https://example.com/pot", Price: 350, QuantityNeeded: 1})

	w := doRequest(t, r, http.MethodPost, "/api/registry/claim/x", nil, reqOpts{})
	if w.Code != http.StatusOK {
		t.Fatalf("first claim: got %d, want 200 (%s)", w.Code, w.Body.String())
	}
	item := decodeJSON[RegistryItem](t, w)
	if item.QuantityClaimed != 1 {
		t.Errorf("quantityClaimed = %d, want 1", item.QuantityClaimed)
	}
	if !item.EffectivelyFulfilled() {
		t.Error("item should be effectively fulfilled after last claim")
	}

	w = doRequest(t, r, http.MethodPost, "/api/registry/claim/x", nil, reqOpts{})
	if w.Code != http.StatusConflict {
		t.Fatalf("second claim: got %d, want 409", w.Code)
	}
	if got := fetchItem(t, "x").QuantityClaimed; got != 1 {
		t.Errorf("quantityClaimed after conflict = %d, want 1", got)
	}
}

func TestNoOverClaim(t *testing.T) {
	r := setupRouter(t)
	seedItem(t, RegistryItem{ID: "sheets", Name: "Linen Sheets", Link: "https://example.com/sheets", Price: 120, QuantityNeeded: 3})

	accepted, conflicts := 0, 0
	for i := 0; i < 5; i++ {
		w := doRequest(t, r, http.MethodPost, "/api/registry/claim/sheets", nil, reqOpts{})
		switch w.Code {
		case http.StatusOK:
			accepted++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("claim %d: unexpected status %d", i, w.Code)
		}
	}

	if accepted != 3 || conflicts != 2 {
		t.Errorf("accepted=%d conflicts=%d, want 3 and 2", accepted, conflicts)
	}
	if got := fetchItem(t, "sheets").QuantityClaimed; got != 3 {
		t.Errorf("quantityClaimed = %d, want 3", got)
	}
}

func TestClaimUnknownItem(t *testing.T) {
	r := setupRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/registry/claim/nope", nil, reqOpts{})
	if w.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", w.Code)
	}
}

func TestFundItemsClaimExempt(t *testing.T) {
	r := setupRouter(t)

	for _, id := range []string{FundHoneymoonID, FundHomeID} {
		w := doRequest(t, r, http.MethodPost, "/api/registry/claim/"+id, nil, reqOpts{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("claim %s: got %d, want 400", id, w.Code)
		}
	}

	// Nothing must have been written through the claim path.
	var count int64
	DB.Model(&RegistryItem{}).Count(&count)
	if count != 0 {
		t.Errorf("registry table rows = %d, want 0", count)
	}
}

func TestStatusUpdateIdempotent(t *testing.T) {
	r := setupRouter(t)
	item := seedItem(t, RegistryItem{ID: "vase", Name: "Vase", Link: "https://example.com/vase", Price: 60, QuantityNeeded: 4})

	for i := 0; i < 2; i++ {
		w := doRequest(t, r, http.MethodPut, "/api/admin/registry/"+item.ID+"/status",
			UpdateStatusRequest{Status: StatusFulfilled}, asAdmin(t))
		if w.Code != http.StatusOK {
			t.Fatalf("status update %d: got %d, want 200 (%s)", i, w.Code, w.Body.String())
		}
	}
	if got := fetchItem(t, item.ID).Status; got != StatusFulfilled {
		t.Errorf("status = %q, want FULFILLED", got)
	}

	// An admin override blocks claims even with capacity left.
	w := doRequest(t, r, http.MethodPost, "/api/registry/claim/"+item.ID, nil, reqOpts{})
	if w.Code != http.StatusConflict {
		t.Errorf("claim on forced-fulfilled item: got %d, want 409", w.Code)
	}

	// Relisting reopens claims.
	w = doRequest(t, r, http.MethodPut, "/api/admin/registry/"+item.ID+"/status",
		UpdateStatusRequest{Status: StatusAvailable}, asAdmin(t))
	if w.Code != http.StatusOK {
		t.Fatalf("relist: got %d, want 200", w.Code)
	}
	w = doRequest(t, r, http.MethodPost, "/api/registry/claim/"+item.ID, nil, reqOpts{})
	if w.Code != http.StatusOK {
		t.Errorf("claim after relist: got %d, want 200", w.Code)
	}
}

func TestAddItemValidation(t *testing.T) {
	r := setupRouter(t)
	admin := asAdmin(t)

	cases := []struct {
		name string
		body AddItemRequest
	}{
		{"missing name", AddItemRequest{Link: "https://example.com", Price: 10, QuantityNeeded: 1}},
		{"missing link", AddItemRequest{Name: "Pan", Price: 10, QuantityNeeded: 1}},
		{"zero price", AddItemRequest{Name: "Pan", Link: "https://example.com", Price: 0, QuantityNeeded: 1}},
		{"negative price", AddItemRequest{Name: "Pan", Link: "https://example.com", Price: -5, QuantityNeeded: 1}},
		{"zero quantity", AddItemRequest{Name: "Pan", Link: "https://example.com", Price: 10, QuantityNeeded: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/api/admin/registry", tc.body, admin)
			if w.Code != http.StatusBadRequest {
				t.Errorf("got %d, want 400", w.Code)
			}
		})
	}

	w := doRequest(t, r, http.MethodPost, "/api/admin/registry",
		AddItemRequest{Name: "Pan", Link: "https://example.com/pan", Price: 45.5, QuantityNeeded: 2}, admin)
	if w.Code != http.StatusCreated {
		t.Fatalf("valid add: got %d, want 201 (%s)", w.Code, w.Body.String())
	}
	item := decodeJSON[RegistryItem](t, w)
	if item.ID == "" || item.QuantityClaimed != 0 || item.Status != StatusAvailable {
		t.Errorf("new item not initialized correctly: %+v", item)
	}
}

func TestListRegistryInjectsFundsFirst(t *testing.T) {
	r := setupRouter(t)
	seedItem(t, RegistryItem{ID: "pan", Name: "Pan", Link: "https://example.com/pan", Price: 45, QuantityNeeded: 1})

	w := doRequest(t, r, http.MethodGet, "/api/registry", nil, reqOpts{})
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	items := decodeJSON[[]RegistryItem](t, w)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].ID != FundHoneymoonID || items[1].ID != FundHomeID {
		t.Errorf("funds not injected first: %s, %s", items[0].ID, items[1].ID)
	}
	if !items[0].IsFund || !items[1].IsFund {
		t.Error("fund items not flagged as funds")
	}
}

func TestDeleteItem(t *testing.T) {
	r := setupRouter(t)
	item := seedItem(t, RegistryItem{ID: "mixer", Name: "Mixer", Link: "https://example.com/mixer", Price: 250, QuantityNeeded: 1})
	admin := asAdmin(t)

	w := doRequest(t, r, http.MethodDelete, "/api/admin/registry/"+item.ID, nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: got %d, want 200", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/api/registry/claim/"+item.ID, nil, reqOpts{})
	if w.Code != http.StatusNotFound {
		t.Errorf("claim deleted item: got %d, want 404", w.Code)
	}

	w = doRequest(t, r, http.MethodDelete, "/api/admin/registry/"+FundHoneymoonID, nil, admin)
	if w.Code != http.StatusBadRequest {
		t.Errorf("delete fund: got %d, want 400", w.Code)
	}
}
