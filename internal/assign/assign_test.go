package assign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mobboss/internal/model"
)

func crewUnit(id string, role model.CrewRole, qty int) model.HiredCrewUnit {
	return model.HiredCrewUnit{
		ID:       id,
		CrewID:   string(role),
		Quantity: qty,
		Crew:     model.CrewDefinition{ID: string(role), Role: role},
	}
}

func stack(id string, category model.ItemCategory, qty, assigned int) model.InventoryItem {
	return model.InventoryItem{
		ID:               id,
		ItemID:           id + "-def",
		Quantity:         qty,
		AssignedQuantity: assigned,
		Location:         model.LocationInventory,
		Item:             model.ItemDefinition{ID: id + "-def", Category: category},
	}
}

func TestEnforcersAndBodyguardsScenario(t *testing.T) {
	crew := []model.HiredCrewUnit{
		crewUnit("c1", model.CrewRoleEnforcer, 3),
		crewUnit("c2", model.CrewRoleBodyguard, 2),
	}
	gun := stack("i1", model.ItemCategoryWeapon, 5, 2)
	inventory := []model.InventoryItem{gun}

	limits := Compute(crew, inventory)
	assert.Equal(t, 3, limits.Weapon.Capacity)
	assert.Equal(t, 2, limits.Weapon.Used)
	assert.Equal(t, 5, limits.Equipment.Capacity)
	assert.Equal(t, 0, limits.Equipment.Used)

	assert.Equal(t, 3, MaxAssignable(crew, inventory, gun))
}

func TestCanCarry(t *testing.T) {
	tests := []struct {
		role     model.CrewRole
		category model.ItemCategory
		want     bool
	}{
		{model.CrewRoleEnforcer, model.ItemCategoryWeapon, true},
		{model.CrewRoleEnforcer, model.ItemCategoryEquipment, true},
		{model.CrewRoleHitman, model.ItemCategoryWeapon, true},
		{model.CrewRoleHitman, model.ItemCategoryEquipment, false},
		{model.CrewRoleBodyguard, model.ItemCategoryWeapon, false},
		{model.CrewRoleBodyguard, model.ItemCategoryEquipment, true},
		{model.CrewRoleSoldier, model.ItemCategoryEquipment, true},
		{model.CrewRoleDriver, model.ItemCategoryWeapon, false},
		{model.CrewRoleAccountant, model.ItemCategoryEquipment, false},
		{model.CrewRoleEnforcer, model.ItemCategoryConsumable, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, CanCarry(tt.role, tt.category))
		})
	}
}

func TestMaxAssignableDiscountsOtherStacks(t *testing.T) {
	crew := []model.HiredCrewUnit{crewUnit("c1", model.CrewRoleHitman, 4)}
	pistol := stack("pistol", model.ItemCategoryWeapon, 10, 1)
	rifle := stack("rifle", model.ItemCategoryWeapon, 2, 2)
	vest := stack("vest", model.ItemCategoryEquipment, 3, 0)
	inventory := []model.InventoryItem{pistol, rifle, vest}

	// Four hitmen, two already holding rifles
	assert.Equal(t, 2, MaxAssignable(crew, inventory, pistol))
	// The rifle stack only has two units
	assert.Equal(t, 2, MaxAssignable(crew, inventory, rifle))
	// Hitmen cannot wear vests
	assert.Equal(t, 0, MaxAssignable(crew, inventory, vest))
}

func TestMaxAssignableNeverNegative(t *testing.T) {
	// Crew was lost to upkeep, leaving more assigned than capacity
	crew := []model.HiredCrewUnit{crewUnit("c1", model.CrewRoleSoldier, 1)}
	a := stack("a", model.ItemCategoryWeapon, 3, 3)
	b := stack("b", model.ItemCategoryWeapon, 3, 0)
	inventory := []model.InventoryItem{a, b}

	assert.True(t, Compute(crew, inventory).Weapon.Exceeded())
	assert.Equal(t, 0, Compute(crew, inventory).Weapon.Free())
	assert.Equal(t, 0, MaxAssignable(crew, inventory, b))
}

func TestMaxAssignableSafeAndUnassignable(t *testing.T) {
	crew := []model.HiredCrewUnit{crewUnit("c1", model.CrewRoleEnforcer, 5)}
	safe := stack("safe", model.ItemCategoryWeapon, 3, 0)
	safe.Location = model.LocationSafe
	medkit := stack("medkit", model.ItemCategoryConsumable, 3, 0)
	inventory := []model.InventoryItem{safe, medkit}

	assert.Equal(t, 0, MaxAssignable(crew, inventory, safe))
	assert.Equal(t, 0, MaxAssignable(crew, inventory, medkit))
}

func TestCheck(t *testing.T) {
	crew := []model.HiredCrewUnit{
		crewUnit("c1", model.CrewRoleEnforcer, 3),
		crewUnit("c2", model.CrewRoleBodyguard, 2),
	}
	safe := stack("safe", model.ItemCategoryWeapon, 1, 0)
	safe.Location = model.LocationSafe
	inventory := []model.InventoryItem{
		stack("gun", model.ItemCategoryWeapon, 5, 2),
		stack("loot", model.ItemCategoryLoot, 5, 0),
		safe,
	}

	tests := []struct {
		name     string
		id       string
		quantity int
		wantErr  error
	}{
		{"within limit", "gun", 3, nil},
		{"unassign", "gun", 0, nil},
		{"over limit", "gun", 4, model.ErrAssignmentLimit},
		{"negative", "gun", -1, model.ErrInvalidQuantity},
		{"unknown stack", "nope", 1, model.ErrItemNotFound},
		{"not assignable", "loot", 1, model.ErrNotAssignable},
		{"in safe", "safe", 1, model.ErrItemInSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(crew, inventory, tt.id, tt.quantity)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAssignedNeverExceedsCapacityWhenChecked(t *testing.T) {
	crew := []model.HiredCrewUnit{
		crewUnit("c1", model.CrewRoleSoldier, 2),
		crewUnit("c2", model.CrewRoleBodyguard, 1),
		crewUnit("c3", model.CrewRoleDriver, 4),
	}
	inventory := []model.InventoryItem{
		stack("w1", model.ItemCategoryWeapon, 4, 0),
		stack("w2", model.ItemCategoryWeapon, 4, 0),
		stack("e1", model.ItemCategoryEquipment, 4, 0),
	}

	// Greedily assign as much as the calculator allows, one stack at a time
	for i := range inventory {
		limit := MaxAssignable(crew, inventory, inventory[i])
		require.NoError(t, Check(crew, inventory, inventory[i].ID, limit))
		inventory[i].AssignedQuantity = limit
	}

	limits := Compute(crew, inventory)
	assert.Equal(t, limits.Weapon.Capacity, limits.Weapon.Used)
	assert.Equal(t, limits.Equipment.Capacity, limits.Equipment.Used)
	assert.False(t, limits.Weapon.Exceeded())
	assert.False(t, limits.Equipment.Exceeded())
}
