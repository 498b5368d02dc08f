package factory

import (
	"time"

	"github.com/mcoot/mobboss/internal/config"
	"github.com/mcoot/mobboss/internal/dependencies/mocks"
	"github.com/mcoot/mobboss/internal/reconcile"
	"github.com/mcoot/mobboss/internal/storage/memory"
	"github.com/mcoot/mobboss/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockHost    *mocks.MockHost
	MockGateway *mocks.MockGateway
	Notices     *reconcile.Recorder
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The host starts out holding proof.
func NewTestApp(proof string) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockHost := mocks.NewMockHost(proof)
	mockGateway := mocks.NewMockGateway()
	recorder := &reconcile.Recorder{}

	cfg := config.Config{
		Storage:           config.StorageMemory,
		RenewInterval:     time.Minute,
		RenewAfter:        45 * time.Minute,
		ExpiryMargin:      5 * time.Minute,
		MaxReauthFailures: 3,
	}

	app := newWithDependencies(store, mockClock, mockHost, mockGateway, cfg, recorder, testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockHost:    mockHost,
		MockGateway: mockGateway,
		Notices:     recorder,
	}
}
