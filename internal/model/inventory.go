package model

import "time"

// ItemLocation is where an inventory stack is held
type ItemLocation string

const (
	LocationInventory ItemLocation = "inventory"
	LocationSafe      ItemLocation = "safe"
)

// InventoryItem is one owned stack of an item.
// Invariants: 0 <= AssignedQuantity <= Quantity, and a stack in the safe
// has AssignedQuantity == 0.
type InventoryItem struct {
	ID               string         `json:"id"`
	ItemID           string         `json:"item_id"`
	Quantity         int            `json:"quantity"`
	AssignedQuantity int            `json:"assigned_quantity"`
	Location         ItemLocation   `json:"location"`
	SafeReleaseAt    *time.Time     `json:"safe_release_at,omitempty"`
	Item             ItemDefinition `json:"item"`
}

// Category returns the category of the underlying definition
func (i InventoryItem) Category() ItemCategory {
	return i.Item.Category
}

// InSafe reports whether the stack is secured in the safe
func (i InventoryItem) InSafe() bool {
	return i.Location == LocationSafe
}

// Unassigned is the quantity not currently arming crew
func (i InventoryItem) Unassigned() int {
	return i.Quantity - i.AssignedQuantity
}

// Releasable reports whether a safe stack may leave the safe at now
func (i InventoryItem) Releasable(now time.Time) bool {
	if !i.InSafe() {
		return false
	}
	return i.SafeReleaseAt == nil || !now.Before(*i.SafeReleaseAt)
}
