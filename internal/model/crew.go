package model

// HiredCrewUnit is one hired stack of a crew type
type HiredCrewUnit struct {
	ID            string         `json:"id"`
	CrewID        string         `json:"crew_id"`
	Quantity      int            `json:"quantity"`
	AttackBonus   int            `json:"attack_bonus"`
	DefenseBonus  int            `json:"defense_bonus"`
	UpkeepPerHour float64        `json:"upkeep_per_hour"`
	Crew          CrewDefinition `json:"crew"`
}

// Role returns the role of the underlying definition
func (c HiredCrewUnit) Role() CrewRole {
	return c.Crew.Role
}

// Attack is the stack's total attack
func (c HiredCrewUnit) Attack() int {
	return (c.Crew.Attack + c.AttackBonus) * c.Quantity
}

// Defense is the stack's total defense
func (c HiredCrewUnit) Defense() int {
	return (c.Crew.Defense + c.DefenseBonus) * c.Quantity
}

// HourlyUpkeep is the stack's total upkeep per hour
func (c HiredCrewUnit) HourlyUpkeep() float64 {
	return c.UpkeepPerHour * float64(c.Quantity)
}
