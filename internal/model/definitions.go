package model

// Definitions is the static catalog loaded once per process
type Definitions struct {
	Jobs       []JobDefinition      `json:"jobs"`
	Businesses []BusinessDefinition `json:"businesses"`
	Crew       []CrewDefinition     `json:"crew"`
	Items      []ItemDefinition     `json:"items"`
}

// JobDefinition describes a repeatable job
type JobDefinition struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EnergyCost    int    `json:"energy_cost"`
	MinLevel      int    `json:"min_level"`
	RewardCashMin int64  `json:"reward_cash_min"`
	RewardCashMax int64  `json:"reward_cash_max"`
	RewardXP      int64  `json:"reward_xp"`
}

// BusinessDefinition carries the growth factors used for display-side income and cost
type BusinessDefinition struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	PurchaseCost    int64   `json:"purchase_cost"`
	BaseIncome      float64 `json:"base_income"`
	IncomeGrowth    float64 `json:"income_growth"`
	BaseUpgradeCost float64 `json:"base_upgrade_cost"`
	UpgradeGrowth   float64 `json:"upgrade_growth"`
	CooldownMinutes int     `json:"cooldown_minutes"`
	MaxLevel        int     `json:"max_level"`
}

// CrewRole classifies crew for assignment purposes
type CrewRole string

const (
	CrewRoleEnforcer   CrewRole = "enforcer"
	CrewRoleHitman     CrewRole = "hitman"
	CrewRoleSoldier    CrewRole = "soldier"
	CrewRoleBodyguard  CrewRole = "bodyguard"
	CrewRoleDriver     CrewRole = "driver"
	CrewRoleAccountant CrewRole = "accountant"
)

// CrewDefinition describes a hireable crew type
type CrewDefinition struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Role          CrewRole `json:"role"`
	HireCost      int64    `json:"hire_cost"`
	Attack        int      `json:"attack"`
	Defense       int      `json:"defense"`
	UpkeepPerHour float64  `json:"upkeep_per_hour"`
}

// ItemCategory classifies inventory items
type ItemCategory string

const (
	ItemCategoryWeapon     ItemCategory = "weapon"
	ItemCategoryEquipment  ItemCategory = "equipment"
	ItemCategoryConsumable ItemCategory = "consumable"
	ItemCategoryLoot       ItemCategory = "loot"
)

// Assignable reports whether items of this category can arm crew
func (c ItemCategory) Assignable() bool {
	return c == ItemCategoryWeapon || c == ItemCategoryEquipment
}

// ItemDefinition describes a purchasable or droppable item
type ItemDefinition struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Category  ItemCategory `json:"category"`
	Price     int64        `json:"price"`
	SellPrice int64        `json:"sell_price"`
	Attack    int          `json:"attack"`
	Defense   int          `json:"defense"`
}

// Item looks up an item definition by id
func (d *Definitions) Item(id string) (ItemDefinition, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ItemDefinition{}, false
}

// CrewType looks up a crew definition by id
func (d *Definitions) CrewType(id string) (CrewDefinition, bool) {
	for _, c := range d.Crew {
		if c.ID == id {
			return c, true
		}
	}
	return CrewDefinition{}, false
}

// Business looks up a business definition by id
func (d *Definitions) Business(id string) (BusinessDefinition, bool) {
	for _, b := range d.Businesses {
		if b.ID == id {
			return b, true
		}
	}
	return BusinessDefinition{}, false
}

// Job looks up a job definition by id
func (d *Definitions) Job(id string) (JobDefinition, bool) {
	for _, j := range d.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return JobDefinition{}, false
}
