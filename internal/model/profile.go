package model

import "time"

// PlayerProfile is the backend's numeric/state snapshot of a player.
// The client only ever holds a read-through copy.
type PlayerProfile struct {
	ID        PlayerID `json:"id"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Username  string   `json:"username,omitempty"`
	AvatarURL string   `json:"avatar_url,omitempty"`

	Cash       int64 `json:"cash"`
	BankedCash int64 `json:"banked_cash"`
	Diamonds   int64 `json:"diamonds"`

	Energy     int `json:"energy"`
	MaxEnergy  int `json:"max_energy"`
	Stamina    int `json:"stamina"`
	MaxStamina int `json:"max_stamina"`

	Level      int   `json:"level"`
	Experience int64 `json:"experience"`
	Respect    int64 `json:"respect"`

	ProtectionUntil *time.Time `json:"protection_until,omitempty"`
	ShieldUntil     *time.Time `json:"shield_until,omitempty"`

	DailyStreak        int        `json:"daily_streak"`
	LastDailyClaimAt   *time.Time `json:"last_daily_claim_at,omitempty"`
	StarterPackClaimed bool       `json:"starter_pack_claimed"`
}

// Identity extracts the identity fields carried on the profile
func (p PlayerProfile) Identity() Identity {
	return Identity{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
	}
}

// Protected reports whether attack protection is active at now
func (p PlayerProfile) Protected(now time.Time) bool {
	return p.ProtectionUntil != nil && now.Before(*p.ProtectionUntil)
}

// Shielded reports whether the shield is active at now
func (p PlayerProfile) Shielded(now time.Time) bool {
	return p.ShieldUntil != nil && now.Before(*p.ShieldUntil)
}

// NetWorth is cash on hand plus banked cash
func (p PlayerProfile) NetWorth() int64 {
	return p.Cash + p.BankedCash
}
