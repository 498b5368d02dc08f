// Package assign computes how many weapons and pieces of equipment the crew can carry.
// It is a planning aid only: the backend enforces the same limits authoritatively.
package assign

import (
	"fmt"

	"github.com/mcoot/mobboss/internal/model"
)

// Roles able to wield a weapon
var weaponCapable = map[model.CrewRole]bool{
	model.CrewRoleEnforcer: true,
	model.CrewRoleHitman:   true,
	model.CrewRoleSoldier:  true,
}

// Roles able to wear equipment
var armorCapable = map[model.CrewRole]bool{
	model.CrewRoleBodyguard: true,
	model.CrewRoleEnforcer:  true,
	model.CrewRoleSoldier:   true,
}

// CanCarry reports whether a crew role counts toward the capacity of a category
func CanCarry(role model.CrewRole, category model.ItemCategory) bool {
	switch category {
	case model.ItemCategoryWeapon:
		return weaponCapable[role]
	case model.ItemCategoryEquipment:
		return armorCapable[role]
	default:
		return false
	}
}

// Slots is the capacity and usage of one assignable category
type Slots struct {
	Capacity int `json:"capacity"`
	Used     int `json:"used"`
}

// Free is the unused capacity, never negative
func (s Slots) Free() int {
	return max(s.Capacity-s.Used, 0)
}

// Exceeded reports whether more is assigned than the crew can carry
func (s Slots) Exceeded() bool {
	return s.Used > s.Capacity
}

// Limits holds the slots for both assignable categories
type Limits struct {
	Weapon    Slots `json:"weapon"`
	Equipment Slots `json:"equipment"`
}

// For returns the slots of a category
func (l Limits) For(category model.ItemCategory) Slots {
	if category == model.ItemCategoryEquipment {
		return l.Equipment
	}
	return l.Weapon
}

// Capacity is the number of crew able to carry items of a category
func Capacity(crew []model.HiredCrewUnit, category model.ItemCategory) int {
	total := 0
	for _, c := range crew {
		if CanCarry(c.Role(), category) {
			total += c.Quantity
		}
	}
	return total
}

// Used is the quantity of a category currently assigned across the inventory
func Used(inventory []model.InventoryItem, category model.ItemCategory) int {
	total := 0
	for _, it := range inventory {
		if it.Category() == category {
			total += it.AssignedQuantity
		}
	}
	return total
}

// Compute returns the limits for the given crew and inventory
func Compute(crew []model.HiredCrewUnit, inventory []model.InventoryItem) Limits {
	return Limits{
		Weapon: Slots{
			Capacity: Capacity(crew, model.ItemCategoryWeapon),
			Used:     Used(inventory, model.ItemCategoryWeapon),
		},
		Equipment: Slots{
			Capacity: Capacity(crew, model.ItemCategoryEquipment),
			Used:     Used(inventory, model.ItemCategoryEquipment),
		},
	}
}

// MaxAssignable is the highest assigned quantity the given stack may be set to.
// The stack's own current assignment is excluded from usage so it is not counted twice.
func MaxAssignable(crew []model.HiredCrewUnit, inventory []model.InventoryItem, item model.InventoryItem) int {
	category := item.Category()
	if !category.Assignable() || item.InSafe() {
		return 0
	}

	usedByOthers := 0
	for _, it := range inventory {
		if it.ID == item.ID || it.Category() != category {
			continue
		}
		usedByOthers += it.AssignedQuantity
	}

	allowance := Capacity(crew, category) - usedByOthers
	return max(min(item.Quantity, allowance), 0)
}

// Check validates setting the assigned quantity of the stack with the given id to quantity
func Check(crew []model.HiredCrewUnit, inventory []model.InventoryItem, inventoryID string, quantity int) error {
	var item *model.InventoryItem
	for i := range inventory {
		if inventory[i].ID == inventoryID {
			item = &inventory[i]
			break
		}
	}
	if item == nil {
		return model.ErrItemNotFound
	}
	if quantity < 0 {
		return model.ErrInvalidQuantity
	}
	if !item.Category().Assignable() {
		return model.ErrNotAssignable
	}
	if item.InSafe() {
		return model.ErrItemInSafe
	}
	if limit := MaxAssignable(crew, inventory, *item); quantity > limit {
		return fmt.Errorf("%w: %d requested, at most %d", model.ErrAssignmentLimit, quantity, limit)
	}
	return nil
}
