package main

import (
	"time"
)

// Attendance answers for a guest. Guests who have not responded yet stay
// at "unknown".
const (
	AttendingUnknown = "unknown"
	AttendingYes     = "yes"
	AttendingNo      = "no"
)

// Registry item statuses.
const (
	StatusAvailable = "AVAILABLE"
	StatusFulfilled = "FULFILLED"
)

// Fixed fund pseudo-items. Never persisted, no quantity/claim semantics.
const (
	FundHoneymoonID = "fund-honeymoon"
	FundHomeID      = "fund-home"
)

// Guest is a single invitee. A "party" is not a stored entity: it is the set
// of guests sharing one PartyID, and every party operation goes through that
// index.
type Guest struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	FirstName           string    `json:"first_name" gorm:"not null"`
	LastName            string    `json:"last_name" gorm:"not null"`
	PartyID             string    `json:"party_id" gorm:"index;not null"`
	Attending           string    `json:"attending" gorm:"type:varchar(16);not null;default:unknown"`
	DietaryRestrictions string    `json:"dietary_restrictions"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// RegistryItem is a gift on the registry. The server is the sole authority
// for QuantityClaimed; it only ever moves through the claim operation.
type RegistryItem struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Link            string    `json:"link" gorm:"not null"`
	Price           float64   `json:"price" gorm:"not null"`
	QuantityNeeded  int       `json:"quantityNeeded" gorm:"not null"`
	QuantityClaimed int       `json:"quantityClaimed" gorm:"not null;default:0"`
	Status          string    `json:"status" gorm:"type:varchar(16);not null;default:AVAILABLE"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	IsFund          bool      `json:"isFund" gorm:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// EffectivelyFulfilled reports whether the item can no longer be claimed:
// every needed unit is claimed, or an admin has forced FULFILLED. Funds are
// always open.
func (i *RegistryItem) EffectivelyFulfilled() bool {
	if i.IsFund {
		return false
	}
	return i.Status == StatusFulfilled || i.QuantityClaimed >= i.QuantityNeeded
}

func IsFundID(id string) bool {
	return id == FundHoneymoonID || id == FundHomeID
}

// fundItems returns the two always-available monetary pseudo-items, injected
// at the head of every registry listing.
func fundItems() []RegistryItem {
	return []RegistryItem{
		{
			ID:     FundHoneymoonID,
			Name:   "Honeymoon Fund",
			Status: StatusAvailable,
			IsFund: true,
		},
		{
			ID:     FundHomeID,
			Name:   "Home Upgrade Fund",
			Status: StatusAvailable,
			IsFund: true,
		},
	}
}

func validAttending(s string) bool {
	switch s {
	case AttendingUnknown, AttendingYes, AttendingNo:
		return true
	}
	return false
}
