package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine) {

	// Public Routes
	r.POST("/api/admin/login", Login)

	// REGISTRY (public)
	r.GET("/api/registry", ListRegistry)
	r.POST("/api/registry/intent/:id", RecordClaimIntent)
	r.GET("/api/registry/intents", ListClaimIntents)
	r.DELETE("/api/registry/intent/:id", DismissClaimIntent)
	r.POST("/api/registry/claim/:id", ClaimItem)

	// GUESTS (public RSVP flow)
	r.GET("/api/search-guest", SearchGuests)
	r.GET("/api/party-members", GetPartyMembers)
	r.PUT("/api/public-rsvp/:id", PublicRSVP)

	// Ops
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(AuthMiddleware())
	{
		// GUESTS
		authorized.GET("/guests", ListGuests)
		authorized.POST("/guests", AddGuest)
		authorized.DELETE("/guests/mass-delete", MassDeleteGuests)
		authorized.PUT("/guests/:id", UpdateGuest)
		authorized.DELETE("/guests/:id", DeleteGuest)
		authorized.PUT("/party/update-id", RenameParty)
		authorized.GET("/export-guests", ExportGuests)
		authorized.POST("/import-guests", ImportGuests)

		// REGISTRY
		authorized.POST("/admin/registry", AddRegistryItem)
		authorized.PUT("/admin/registry/:id/status", UpdateItemStatus)
		authorized.DELETE("/admin/registry/:id", DeleteRegistryItem)
		authorized.POST("/admin/price-lookup", PriceLookup)
	}
}
