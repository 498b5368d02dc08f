package model

import "errors"

// Precondition errors. These short-circuit before any remote call is made.
var (
	// Session errors
	ErrNoIdentity       = errors.New("no active identity")
	ErrProofMissing     = errors.New("proof material is missing")
	ErrMustOpenFromHost = errors.New("client must be opened from the host")
	ErrReauthExhausted  = errors.New("automatic re-authentication disabled after repeated failures")

	// Storage errors
	ErrSessionNotFound  = errors.New("host session not found")
	ErrIdentityNotFound = errors.New("no last known identity")

	// Inventory errors
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrAssignmentLimit = errors.New("assignment exceeds crew capacity")
	ErrNotAssignable   = errors.New("item category cannot be assigned")
	ErrItemInSafe      = errors.New("item is secured in the safe")
	ErrItemAssigned    = errors.New("item is assigned to crew")
	ErrSafeLocked      = errors.New("item cannot leave the safe yet")

	// Crew / business errors
	ErrCrewNotFound     = errors.New("crew not found")
	ErrBusinessNotFound = errors.New("business not found")
	ErrOnCooldown       = errors.New("business is on cooldown")
	ErrMaxLevel         = errors.New("business is at its maximum level")
	ErrJobNotFound      = errors.New("job not found")

	// Progress errors
	ErrProgressNotFound = errors.New("achievement or task not found")
	ErrNotClaimable     = errors.New("reward is not claimable")
)
