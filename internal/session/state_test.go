package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/mobboss/internal/model"
)

func TestTransition(t *testing.T) {
	notify := func(e model.HostEvent, present bool) model.HostNotification {
		return model.HostNotification{Event: e, SessionPresent: present}
	}

	tests := []struct {
		name      string
		from      State
		n         model.HostNotification
		proof     bool
		profile   bool
		wantState State
		wantCmds  []Command
	}{
		{
			name:      "signed in refetches",
			from:      StateUnauthenticated,
			n:         notify(model.HostEventSignedIn, true),
			wantState: StateValid,
			wantCmds:  []Command{CommandRefetch},
		},
		{
			name:      "token refreshed refetches",
			from:      StateStale,
			n:         notify(model.HostEventTokenRefreshed, true),
			wantState: StateValid,
			wantCmds:  []Command{CommandRefetch},
		},
		{
			name:      "signed in without session or profile is ignored",
			from:      StateUnauthenticated,
			n:         notify(model.HostEventSignedIn, false),
			wantState: StateUnauthenticated,
		},
		{
			name:      "token refreshed without session is ignored",
			from:      StateUnauthenticated,
			n:         notify(model.HostEventTokenRefreshed, false),
			wantState: StateUnauthenticated,
		},
		{
			name:      "token refreshed with a held profile refetches",
			from:      StateStale,
			n:         notify(model.HostEventTokenRefreshed, false),
			profile:   true,
			wantState: StateValid,
			wantCmds:  []Command{CommandRefetch},
		},
		{
			name:      "initial session with session refetches",
			from:      StateAuthenticating,
			n:         notify(model.HostEventInitialSession, true),
			wantState: StateValid,
			wantCmds:  []Command{CommandRefetch},
		},
		{
			name:      "initial session without session is ignored",
			from:      StateUnauthenticated,
			n:         notify(model.HostEventInitialSession, false),
			wantState: StateUnauthenticated,
		},
		{
			name:      "signed out with proof re-authenticates",
			from:      StateValid,
			n:         notify(model.HostEventSignedOut, false),
			proof:     true,
			wantState: StateStale,
			wantCmds:  []Command{CommandReauthenticate},
		},
		{
			name:      "signed out without proof clears",
			from:      StateValid,
			n:         notify(model.HostEventSignedOut, false),
			wantState: StateUnauthenticated,
			wantCmds:  []Command{CommandClearProfile, CommandStopRenewal},
		},
		{
			name:      "error state is terminal",
			from:      StateError,
			n:         notify(model.HostEventSignedIn, true),
			proof:     true,
			wantState: StateError,
		},
		{
			name:      "unknown event is ignored",
			from:      StateValid,
			n:         notify(model.HostEvent("user_updated"), true),
			wantState: StateValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, cmds := Transition(tt.from, tt.n, tt.proof, tt.profile)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantCmds, cmds)
		})
	}
}

func TestSignedOutWithProofNeverClearsProfile(t *testing.T) {
	states := []State{StateUnauthenticated, StateAuthenticating, StateValid, StateStale}
	for _, from := range states {
		for _, held := range []bool{false, true} {
			_, cmds := Transition(from, model.HostNotification{Event: model.HostEventSignedOut}, true, held)
			assert.NotContains(t, cmds, CommandClearProfile, "from %s", from)
		}
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "authenticated", StateValid.String())
	assert.Equal(t, "authenticated_stale", StateStale.String())
	assert.Equal(t, "error", StateError.String())
	assert.True(t, StateStale.Authenticated())
	assert.False(t, StateAuthenticating.Authenticated())
}
