package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errItemNotFound     = errors.New("registry item not found")
	errItemFullyClaimed = errors.New("item is already fully claimed")
)

// -----------------------------
// Public registry
// -----------------------------

// ListRegistry returns the full ledger with the two fund pseudo-items
// injected first, so every consumer sees the same ordering.
func ListRegistry(c *gin.Context) {
	items := fundItems()

	var persisted []RegistryItem
	if err := DB.Order("created_at asc").Find(&persisted).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, append(items, persisted...))
}

// claimItem is the one place quantity_claimed moves. The increment is a
// single conditional UPDATE so two confirmations racing for the last unit
// cannot both win: the guard re-checks the count inside the statement and
// the loser sees zero rows affected.
func claimItem(id string) error {
	var item RegistryItem
	if err := DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errItemNotFound
		}
		return err
	}

	res := DB.Model(&RegistryItem{}).
		Where("id = ? AND status = ? AND quantity_claimed < quantity_needed", id, StatusAvailable).
		UpdateColumn("quantity_claimed", gorm.Expr("quantity_claimed + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errItemFullyClaimed
	}
	return nil
}

// ClaimItem confirms a purchase. Whatever the outcome, any pending intent
// this visitor held for the item is cleared -- mirroring the client rule
// that the confirmation prompt never re-fires for a resolved claim.
func ClaimItem(c *gin.Context) {
	id := c.Param("id")

	if IsFundID(id) {
		claimResultsTotal.WithLabelValues("rejected_fund").Inc()
		jsonError(c, http.StatusBadRequest, "fund contributions are not tracked as claims")
		return
	}

	// Resolve the visitor before writing anything so a fresh cookie can
	// still be set on the response.
	visitor := visitorID(c)
	defer claimIntents.Clear(visitor, id)

	if err := claimItem(id); err != nil {
		switch {
		case errors.Is(err, errItemNotFound):
			claimResultsTotal.WithLabelValues("not_found").Inc()
			jsonError(c, http.StatusNotFound, "registry item not found")
		case errors.Is(err, errItemFullyClaimed):
			claimResultsTotal.WithLabelValues("conflict").Inc()
			jsonError(c, http.StatusConflict, "this item has already been fully claimed")
		default:
			claimResultsTotal.WithLabelValues("error").Inc()
			jsonError(c, http.StatusInternalServerError, "claim failed: "+err.Error())
		}
		return
	}

	claimResultsTotal.WithLabelValues("accepted").Inc()

	var item RegistryItem
	if err := DB.First(&item, "id = ?", id).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, item)
}

// -----------------------------
// Admin registry management
// -----------------------------

type AddItemRequest struct {
	Name           string  `json:"name" binding:"required"`
	Link           string  `json:"link" binding:"required"`
	Price          float64 `json:"price" binding:"required,gt=0"`
	QuantityNeeded int     `json:"quantityNeeded" binding:"required,min=1"`
	ImageURL       string  `json:"imageUrl"`
}

func AddRegistryItem(c *gin.Context) {
	var body AddItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "name, link, a positive price and quantityNeeded >= 1 are required")
		return
	}

	item := RegistryItem{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(body.Name),
		Link:           strings.TrimSpace(body.Link),
		Price:          body.Price,
		QuantityNeeded: body.QuantityNeeded,
		Status:         StatusAvailable,
		ImageURL:       strings.TrimSpace(body.ImageURL),
	}

	if err := DB.Create(&item).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not create item: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, item)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AVAILABLE FULFILLED"`
}

// UpdateItemStatus transitions an item between AVAILABLE and FULFILLED.
// Re-setting the current status is a no-op, not an error.
func UpdateItemStatus(c *gin.Context) {
	id := c.Param("id")
	if IsFundID(id) {
		jsonError(c, http.StatusBadRequest, "fund items have no status to update")
		return
	}

	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "status must be AVAILABLE or FULFILLED")
		return
	}

	var item RegistryItem
	if err := DB.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "registry item not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	if item.Status != body.Status {
		if err := DB.Model(&item).Update("status", body.Status).Error; err != nil {
			jsonError(c, http.StatusInternalServerError, "could not update status: "+err.Error())
			return
		}
	}

	c.JSON(http.StatusOK, item)
}

func DeleteRegistryItem(c *gin.Context) {
	id := c.Param("id")
	if IsFundID(id) {
		jsonError(c, http.StatusBadRequest, "fund items cannot be deleted")
		return
	}

	res := DB.Delete(&RegistryItem{}, "id = ?", id)
	if res.Error != nil {
		jsonError(c, http.StatusInternalServerError, "delete failed: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		jsonError(c, http.StatusNotFound, "registry item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}
