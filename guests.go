package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func guestIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid guest id")
		return 0, false
	}
	return uint(id64), true
}

// -----------------------------
// Admin guest CRUD
// -----------------------------

// ListGuests returns every guest, orderable by name, party id or attending
// status. Any sort key other than name tie-breaks on party id.
func ListGuests(c *gin.Context) {
	sortKey := c.DefaultQuery("sort", "name")
	dir := "asc"
	if c.DefaultQuery("dir", "asc") == "desc" {
		dir = "desc"
	}

	var order string
	switch sortKey {
	case "name":
		order = "last_name " + dir + ", first_name " + dir
	case "party":
		order = "party_id " + dir + ", last_name asc, first_name asc"
	case "attending":
		order = "attending " + dir + ", party_id asc"
	default:
		jsonError(c, http.StatusBadRequest, "sort must be one of: name, party, attending")
		return
	}

	var guests []Guest
	if err := DB.Order(order).Find(&guests).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, guests)
}

type GuestRequest struct {
	FirstName           string `json:"first_name" binding:"required"`
	LastName            string `json:"last_name" binding:"required"`
	PartyID             string `json:"party_id" binding:"required"`
	Attending           string `json:"attending"`
	DietaryRestrictions string `json:"dietary_restrictions"`
}

func AddGuest(c *gin.Context) {
	var body GuestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "first_name, last_name and party_id are required")
		return
	}

	if body.Attending == "" {
		body.Attending = AttendingUnknown
	}
	if !validAttending(body.Attending) {
		jsonError(c, http.StatusBadRequest, "attending must be one of: unknown, yes, no")
		return
	}
	if strings.TrimSpace(body.PartyID) == "" {
		jsonError(c, http.StatusBadRequest, "party_id must not be blank")
		return
	}

	guest := Guest{
		FirstName:           strings.TrimSpace(body.FirstName),
		LastName:            strings.TrimSpace(body.LastName),
		PartyID:             strings.TrimSpace(body.PartyID),
		Attending:           body.Attending,
		DietaryRestrictions: body.DietaryRestrictions,
	}

	if err := DB.Create(&guest).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not create guest: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, guest)
}

// UpdateGuest edits a single guest. Changing party_id here moves only this
// guest; renaming a whole party goes through RenameParty, which the admin
// client calls first when the cascade is confirmed.
func UpdateGuest(c *gin.Context) {
	id, ok := guestIDParam(c)
	if !ok {
		return
	}

	var body GuestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "first_name, last_name and party_id are required")
		return
	}
	if body.Attending == "" {
		body.Attending = AttendingUnknown
	}
	if !validAttending(body.Attending) {
		jsonError(c, http.StatusBadRequest, "attending must be one of: unknown, yes, no")
		return
	}
	if strings.TrimSpace(body.PartyID) == "" {
		jsonError(c, http.StatusBadRequest, "party_id must not be blank")
		return
	}

	var guest Guest
	if err := DB.First(&guest, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "guest not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	guest.FirstName = strings.TrimSpace(body.FirstName)
	guest.LastName = strings.TrimSpace(body.LastName)
	guest.PartyID = strings.TrimSpace(body.PartyID)
	guest.Attending = body.Attending
	guest.DietaryRestrictions = body.DietaryRestrictions

	if err := DB.Save(&guest).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not update guest: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, guest)
}

func DeleteGuest(c *gin.Context) {
	id, ok := guestIDParam(c)
	if !ok {
		return
	}

	res := DB.Delete(&Guest{}, id)
	if res.Error != nil {
		jsonError(c, http.StatusInternalServerError, "delete failed: "+res.Error.Error())
		return
	}
	if res.RowsAffected == 0 {
		jsonError(c, http.StatusNotFound, "guest not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "guest deleted"})
}

type MassDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// MassDeleteGuests deletes a set of guests as one transaction. If any id
// does not exist the whole operation is rejected and nothing is deleted --
// partial silent success is exactly what this endpoint must never report.
func MassDeleteGuests(c *gin.Context) {
	var body MassDeleteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "ids list is required")
		return
	}

	unique := make(map[uint]struct{}, len(body.IDs))
	for _, id := range body.IDs {
		unique[id] = struct{}{}
	}
	ids := make([]uint, 0, len(unique))
	for id := range unique {
		ids = append(ids, id)
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Guest{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(ids)) {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id IN ?", ids).Delete(&Guest{}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "one or more guests were not found; nothing was deleted")
			return
		}
		jsonError(c, http.StatusInternalServerError, "mass delete failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "guests deleted", "deleted": len(ids)})
}

type RenamePartyRequest struct {
	OldPartyID string `json:"old_party_id" binding:"required"`
	NewPartyID string `json:"new_party_id" binding:"required"`
}

// RenameParty re-keys every guest with the old party id onto the new one in
// a single transaction. The admin client runs this before saving an edited
// guest when the cascade is confirmed, so that guest can never end up
// orphaned from its renamed household.
func RenameParty(c *gin.Context) {
	var body RenamePartyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "old_party_id and new_party_id are required")
		return
	}

	oldID := strings.TrimSpace(body.OldPartyID)
	newID := strings.TrimSpace(body.NewPartyID)
	if oldID == "" || newID == "" {
		jsonError(c, http.StatusBadRequest, "party ids must not be blank")
		return
	}
	if oldID == newID {
		c.JSON(http.StatusOK, gin.H{"message": "party id unchanged", "updated": 0})
		return
	}

	var updated int64
	err := DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Guest{}).Where("party_id = ?", oldID).Update("party_id", newID)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "party rename failed: "+err.Error())
		return
	}
	if updated == 0 {
		jsonError(c, http.StatusNotFound, "no guests with that party id")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "party id updated", "updated": updated})
}

// -----------------------------
// Public RSVP flow
// -----------------------------

// SearchGuests matches a partial name against first and last names. Queries
// under two characters return an empty set rather than an error, keeping
// result sizes bounded.
func SearchGuests(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if len(name) < 2 {
		c.JSON(http.StatusOK, []Guest{})
		return
	}

	pattern := "%" + strings.ToLower(name) + "%"
	var guests []Guest
	if err := DB.
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", pattern, pattern).
		Order("last_name asc, first_name asc").
		Find(&guests).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, guests)
}

// GetPartyMembers returns the whole household for a party id so the RSVP
// form can present everyone together.
func GetPartyMembers(c *gin.Context) {
	partyID := strings.TrimSpace(c.Query("party_id"))
	if partyID == "" {
		jsonError(c, http.StatusBadRequest, "party_id query parameter is required")
		return
	}

	var guests []Guest
	if err := DB.
		Where("party_id = ?", partyID).
		Order("last_name asc, first_name asc").
		Find(&guests).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, guests)
}

type PublicRSVPRequest struct {
	Attending           string `json:"attending" binding:"required"`
	DietaryRestrictions string `json:"dietary_restrictions"`
}

// PublicRSVP lets a visitor answer for one guest of their party. Only the
// attendance and dietary fields are writable through this path; names and
// party membership stay admin-only.
func PublicRSVP(c *gin.Context) {
	id, ok := guestIDParam(c)
	if !ok {
		return
	}

	var body PublicRSVPRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "attending is required")
		return
	}
	if !validAttending(body.Attending) {
		jsonError(c, http.StatusBadRequest, "attending must be one of: unknown, yes, no")
		return
	}

	var guest Guest
	if err := DB.First(&guest, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			jsonError(c, http.StatusNotFound, "guest not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	updates := map[string]interface{}{
		"attending":            body.Attending,
		"dietary_restrictions": body.DietaryRestrictions,
	}
	if err := DB.Model(&guest).Updates(updates).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not save rsvp: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, guest)
}
