package cache

import (
	"time"

	"github.com/mcoot/mobboss/internal/assign"
	"github.com/mcoot/mobboss/internal/model"
)

// Derived views. None of these are stored; each is computed from the current mirror.

// Power is combined attack and defense
type Power struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
}

// resolveBusiness fills in the definition of an owned business from the catalog
// when the backend sent the row without it
func (c *Cache) resolveBusiness(b model.OwnedBusiness) model.OwnedBusiness {
	if b.Business.ID != "" {
		return b
	}
	if defs := c.Definitions(); defs != nil {
		if def, ok := defs.Business(b.BusinessID); ok {
			b.Business = def
		}
	}
	return b
}

// resolveItem fills in the definition of an inventory stack from the catalog
func (c *Cache) resolveItem(it model.InventoryItem) model.InventoryItem {
	if it.Item.ID != "" {
		return it
	}
	if defs := c.Definitions(); defs != nil {
		if def, ok := defs.Item(it.ItemID); ok {
			it.Item = def
		}
	}
	return it
}

// resolveCrew fills in the definition of a hired crew stack from the catalog
func (c *Cache) resolveCrew(u model.HiredCrewUnit) model.HiredCrewUnit {
	if u.Crew.ID != "" {
		return u
	}
	if defs := c.Definitions(); defs != nil {
		if def, ok := defs.CrewType(u.CrewID); ok {
			u.Crew = def
		}
	}
	return u
}

func (c *Cache) resolvedInventory() []model.InventoryItem {
	inv := c.Inventory()
	for i, it := range inv {
		inv[i] = c.resolveItem(it)
	}
	return inv
}

func (c *Cache) resolvedCrew() []model.HiredCrewUnit {
	crew := c.Crew()
	for i, u := range crew {
		crew[i] = c.resolveCrew(u)
	}
	return crew
}

// ResolvedBusinesses returns the owned businesses with their definitions filled in
func (c *Cache) ResolvedBusinesses() []model.OwnedBusiness {
	owned := c.Businesses()
	for i, b := range owned {
		owned[i] = c.resolveBusiness(b)
	}
	return owned
}

// BusinessIncome is the hourly income of one business at its current level
func (c *Cache) BusinessIncome(b model.OwnedBusiness) float64 {
	return c.resolveBusiness(b).HourlyIncome()
}

// UpgradeCost is the price of the next level of one business
func (c *Cache) UpgradeCost(b model.OwnedBusiness) float64 {
	return c.resolveBusiness(b).UpgradeCost()
}

// HourlyIncome is the total hourly income of every owned business
func (c *Cache) HourlyIncome() float64 {
	total := 0.0
	for _, b := range c.Businesses() {
		total += c.BusinessIncome(b)
	}
	return total
}

// HourlyUpkeep is the total hourly upkeep of the hired crew
func (c *Cache) HourlyUpkeep() float64 {
	total := 0.0
	for _, u := range c.Crew() {
		total += u.HourlyUpkeep()
	}
	return total
}

// CrewPower is the crew's attack and defense including the gear assigned to them
func (c *Cache) CrewPower() Power {
	var p Power
	for _, u := range c.resolvedCrew() {
		p.Attack += u.Attack()
		p.Defense += u.Defense()
	}
	for _, it := range c.resolvedInventory() {
		if it.AssignedQuantity == 0 {
			continue
		}
		p.Attack += it.Item.Attack * it.AssignedQuantity
		p.Defense += it.Item.Defense * it.AssignedQuantity
	}
	return p
}

// CollectableBusinesses returns the businesses off cooldown at now
func (c *Cache) CollectableBusinesses(now time.Time) []model.OwnedBusiness {
	var out []model.OwnedBusiness
	for _, b := range c.Businesses() {
		b = c.resolveBusiness(b)
		if b.Collectable(now) {
			out = append(out, b)
		}
	}
	return out
}

// Limits returns the current assignment limits
func (c *Cache) Limits() assign.Limits {
	return assign.Compute(c.resolvedCrew(), c.resolvedInventory())
}

// MaxAssignable is the highest assigned quantity an inventory stack may be set to
func (c *Cache) MaxAssignable(inventoryID string) (int, error) {
	item, err := c.findInventory(inventoryID)
	if err != nil {
		return 0, err
	}
	return assign.MaxAssignable(c.resolvedCrew(), c.resolvedInventory(), c.resolveItem(item)), nil
}

// UnclaimedCount is how many achievements and tasks have a reward waiting
func (c *Cache) UnclaimedCount() int {
	n := 0
	for _, a := range c.Achievements() {
		if a.Claimable() {
			n++
		}
	}
	for _, t := range c.Tasks() {
		if t.Claimable() {
			n++
		}
	}
	return n
}
