package main

import (
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var lookupClient = &http.Client{Timeout: 10 * time.Second}

// Price patterns tried in order of reliability: structured metadata first,
// then a bare currency amount anywhere in the page.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)itemprop="price"[^>]*content="([0-9][0-9,]*(?:\.[0-9]{1,2})?)"`),
	regexp.MustCompile(`(?i)property="(?:og|product):price:amount"[^>]*content="([0-9][0-9,]*(?:\.[0-9]{1,2})?)"`),
	regexp.MustCompile(`(?i)"price"\s*:\s*"?([0-9][0-9,]*(?:\.[0-9]{1,2})?)"?`),
	regexp.MustCompile(`\$\s?([0-9][0-9,]*(?:\.[0-9]{2}))`),
}

type PriceLookupRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// PriceLookup fetches a product page and best-effort extracts a price to
// pre-fill the add-item form. Failure is never fatal: the admin just types
// the price in.
func PriceLookup(c *gin.Context) {
	var body PriceLookupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "a valid url is required")
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, body.URL, nil)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "a valid url is required")
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; wedding-registry/1.0)")

	resp, err := lookupClient.Do(req)
	if err != nil {
		logger.WithError(err).Warn("price lookup fetch failed")
		c.JSON(http.StatusNotFound, gin.H{"msg": "Could not reach that page. Please enter the price manually."})
		return
	}
	defer resp.Body.Close()

	// 1 MiB is plenty for the head of any product page.
	page, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Could not read that page. Please enter the price manually."})
		return
	}

	if price, ok := extractPrice(string(page)); ok {
		c.JSON(http.StatusOK, gin.H{"price": price, "msg": "Price found."})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"msg": "Could not find a price on that page. Please enter the price manually."})
}

func extractPrice(page string) (float64, bool) {
	for _, re := range pricePatterns {
		m := re.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			continue
		}
		return price, true
	}
	return 0, false
}
