package model

import (
	"math"
	"time"
)

// OwnedBusiness is one business the player owns
type OwnedBusiness struct {
	ID              string             `json:"id"`
	BusinessID      string             `json:"business_id"`
	Level           int                `json:"level"`
	LastCollectedAt *time.Time         `json:"last_collected_at,omitempty"`
	Business        BusinessDefinition `json:"business"`
}

// HourlyIncome grows exponentially with level
func (b OwnedBusiness) HourlyIncome() float64 {
	growth := b.Business.IncomeGrowth
	if growth <= 0 {
		growth = 1
	}
	level := max(b.Level, 1)
	return b.Business.BaseIncome * math.Pow(growth, float64(level-1))
}

// UpgradeCost grows exponentially with level
func (b OwnedBusiness) UpgradeCost() float64 {
	growth := b.Business.UpgradeGrowth
	if growth <= 0 {
		growth = 1
	}
	return math.Round(b.Business.BaseUpgradeCost * math.Pow(growth, float64(b.Level)))
}

// Cooldown is the minimum time between collections
func (b OwnedBusiness) Cooldown() time.Duration {
	return time.Duration(b.Business.CooldownMinutes) * time.Minute
}

// ReadyAt is the earliest time the business can be collected again
func (b OwnedBusiness) ReadyAt() time.Time {
	if b.LastCollectedAt == nil {
		return time.Time{}
	}
	return b.LastCollectedAt.Add(b.Cooldown())
}

// Collectable reports whether the cooldown has elapsed at now
func (b OwnedBusiness) Collectable(now time.Time) bool {
	return !now.Before(b.ReadyAt())
}

// MaxedOut reports whether the business is at its maximum level
func (b OwnedBusiness) MaxedOut() bool {
	return b.Business.MaxLevel > 0 && b.Level >= b.Business.MaxLevel
}
