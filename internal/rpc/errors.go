package rpc

import (
	"errors"
	"fmt"

	"github.com/mcoot/mobboss/internal/model"
)

// TransportError means the call itself could not be completed: the network
// failed, the service answered with a non-2xx status, or the body was unreadable.
type TransportError struct {
	Procedure  string
	StatusCode int // 0 when no response was received
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("rpc %s: HTTP %d: %s", e.Procedure, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("rpc %s: HTTP %d", e.Procedure, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("rpc %s: %s: %v", e.Procedure, e.Message, e.Cause)
	default:
		return fmt.Sprintf("rpc %s: %s", e.Procedure, e.Message)
	}
}

// Unwrap returns the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// LogicalError means the call completed but the backend reported success:false
type LogicalError struct {
	Procedure string
	Message   string
}

func (e *LogicalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rpc %s: rejected", e.Procedure)
	}
	return e.Message
}

// Kind classifies an error by the layer that produced it
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindLogical
	KindPrecondition
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindLogical:
		return "logical"
	case KindPrecondition:
		return "precondition"
	default:
		return "unknown"
	}
}

var preconditions = []error{
	model.ErrNoIdentity,
	model.ErrProofMissing,
	model.ErrMustOpenFromHost,
	model.ErrReauthExhausted,
	model.ErrItemNotFound,
	model.ErrInvalidQuantity,
	model.ErrAssignmentLimit,
	model.ErrNotAssignable,
	model.ErrItemInSafe,
	model.ErrItemAssigned,
	model.ErrSafeLocked,
	model.ErrCrewNotFound,
	model.ErrBusinessNotFound,
	model.ErrOnCooldown,
	model.ErrMaxLevel,
	model.ErrJobNotFound,
	model.ErrProgressNotFound,
	model.ErrNotClaimable,
}

// KindOf reports which of the three error kinds err belongs to
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var te *TransportError
	if errors.As(err, &te) {
		return KindTransport
	}
	var le *LogicalError
	if errors.As(err, &le) {
		return KindLogical
	}
	for _, p := range preconditions {
		if errors.Is(err, p) {
			return KindPrecondition
		}
	}
	return KindUnknown
}
