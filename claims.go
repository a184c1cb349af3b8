package main

import (
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IntentTracker remembers which items each visitor has clicked "purchase"
// on but not yet confirmed or dismissed. It is a set per visitor, so a
// second purchase click never discards tracking of the first -- each intent
// is resolved independently.
//
// Intents are deliberately process-local: they stand in for the browser
// storage slot of the original flow and share its lifetime guarantees
// (none).
type IntentTracker struct {
	mu      sync.RWMutex
	pending map[string]map[string]struct{}
}

func NewIntentTracker() *IntentTracker {
	return &IntentTracker{pending: make(map[string]map[string]struct{})}
}

func (t *IntentTracker) Record(visitor, itemID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.pending[visitor]
	if !ok {
		set = make(map[string]struct{})
		t.pending[visitor] = set
	}
	set[itemID] = struct{}{}
}

// List returns the visitor's pending item ids in stable order.
func (t *IntentTracker) List(visitor string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.pending[visitor]))
	for id := range t.pending[visitor] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear removes one pending intent and reports whether it existed.
func (t *IntentTracker) Clear(visitor, itemID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.pending[visitor]
	if !ok {
		return false
	}
	if _, ok := set[itemID]; !ok {
		return false
	}
	delete(set, itemID)
	if len(set) == 0 {
		delete(t.pending, visitor)
	}
	return true
}

func (t *IntentTracker) Has(visitor, itemID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.pending[visitor][itemID]
	return ok
}

var claimIntents = NewIntentTracker()

const visitorCookie = "visitor_id"

// visitorID identifies the browser session behind a registry interaction,
// minting a cookie on first contact.
func visitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(visitorCookie, id, 60*60*24*30, "/", "", false, true)
	return id
}

// -----------------------------
// Intent handlers
// -----------------------------

// RecordClaimIntent marks an item as "visitor left to buy this". Items that
// can no longer be claimed are rejected up front so the confirmation prompt
// never offers a dead claim.
func RecordClaimIntent(c *gin.Context) {
	id := c.Param("id")

	if IsFundID(id) {
		jsonError(c, http.StatusBadRequest, "fund contributions need no purchase confirmation")
		return
	}

	var item RegistryItem
	if err := DB.First(&item, "id = ?", id).Error; err != nil {
		jsonError(c, http.StatusNotFound, "registry item not found")
		return
	}
	if item.EffectivelyFulfilled() {
		jsonError(c, http.StatusConflict, "this item has already been fully claimed")
		return
	}

	claimIntents.Record(visitorID(c), id)
	c.JSON(http.StatusCreated, gin.H{"item_id": id, "pending": true})
}

type pendingIntent struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
}

// ListClaimIntents returns the visitor's unresolved intents together with
// item names for the confirmation prompt. Intents whose item has been
// deleted in the meantime are dropped silently.
func ListClaimIntents(c *gin.Context) {
	visitor := visitorID(c)
	ids := claimIntents.List(visitor)
	if len(ids) == 0 {
		c.JSON(http.StatusOK, []pendingIntent{})
		return
	}

	var items []RegistryItem
	if err := DB.Where("id IN ?", ids).Find(&items).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	byID := make(map[string]RegistryItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	out := make([]pendingIntent, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			claimIntents.Clear(visitor, id)
			continue
		}
		out = append(out, pendingIntent{ItemID: it.ID, Name: it.Name})
	}

	c.JSON(http.StatusOK, out)
}

// DismissClaimIntent is the "no, I didn't buy it" branch: the intent goes
// away and the ledger is untouched.
func DismissClaimIntent(c *gin.Context) {
	cleared := claimIntents.Clear(visitorID(c), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}
