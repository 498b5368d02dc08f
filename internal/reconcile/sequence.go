// Package reconcile runs the steps that follow every new session: settle the upkeep
// that accrued while the player was away, tell the player what it cost, and only then
// load the game state so no pre-upkeep figures are ever shown.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/mobboss/internal/dependencies/clock"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
)

// Loader is the part of the game state cache the sequence drives
type Loader interface {
	SetIdentity(identity model.Identity)
	LoadAll(ctx context.Context) error
}

// Result describes one run
type Result struct {
	Report  *model.UpkeepReport
	Notices []Notice
	LoadErr error
}

// Sequence is the login reconciliation sequence
type Sequence struct {
	caller   rpc.Caller
	loader   Loader
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
}

// NewSequence creates a new Sequence
func NewSequence(caller rpc.Caller, loader Loader, notifier Notifier, clk clock.Clock, logger *slog.Logger) *Sequence {
	return &Sequence{
		caller:   caller,
		loader:   loader,
		notifier: notifier,
		clock:    clk,
		logger:   logger,
	}
}

// Run settles idle upkeep for identity, reports it, then loads every collection.
// A failed settlement is reported and the load still runs.
func (s *Sequence) Run(ctx context.Context, identity model.Identity) (*Result, error) {
	s.loader.SetIdentity(identity)
	result := &Result{}

	report, err := s.settle(ctx, identity.ID)
	if err != nil {
		s.logger.Warn("upkeep settlement failed",
			slog.String("player_id", string(identity.ID)),
			slog.String("error", err.Error()),
		)
		result.Notices = append(result.Notices, Notice{
			Kind:    NoticeUpkeepFailed,
			Message: "Could not settle crew upkeep: " + err.Error(),
			At:      s.clock.Now(),
		})
	} else {
		result.Report = report
		result.Notices = append(result.Notices, s.noticesFor(report)...)
		s.logger.Info("upkeep settled",
			slog.String("player_id", string(identity.ID)),
			slog.Int("hours_processed", report.HoursProcessed),
			slog.Float64("total_deducted", report.TotalDeducted),
			slog.Int("crew_lost", report.CrewLost),
		)
	}

	for _, n := range result.Notices {
		s.notifier.Notify(ctx, n)
	}

	if err := s.loader.LoadAll(ctx); err != nil {
		result.LoadErr = err
		return result, fmt.Errorf("initial load: %w", err)
	}
	return result, nil
}

// Hook adapts Run to a session establishment hook
func (s *Sequence) Hook() func(ctx context.Context, identity model.Identity) {
	return func(ctx context.Context, identity model.Identity) {
		if _, err := s.Run(ctx, identity); err != nil {
			s.logger.Warn("reconciliation incomplete", slog.String("error", err.Error()))
		}
	}
}

func (s *Sequence) settle(ctx context.Context, id model.PlayerID) (*model.UpkeepReport, error) {
	// A report without a success field is a success
	report := model.UpkeepReport{Success: true}
	if err := s.caller.Call(ctx, rpc.ProcSettleUpkeep, rpc.Args{"player_id": id}, &report); err != nil {
		return nil, err
	}
	if !report.Success {
		return nil, &rpc.LogicalError{Procedure: rpc.ProcSettleUpkeep, Message: report.Message}
	}
	return &report, nil
}

// noticesFor turns a report into notices: the deduction first, then any crew lost
func (s *Sequence) noticesFor(report *model.UpkeepReport) []Notice {
	now := s.clock.Now()
	var notices []Notice
	if report.TotalDeducted > 0 {
		msg := fmt.Sprintf("Paid %s in crew upkeep for %d %s away",
			formatCash(report.TotalDeducted), report.HoursProcessed, plural(report.HoursProcessed, "hour", "hours"))
		notices = append(notices, Notice{
			Kind:           NoticeUpkeepDeducted,
			Message:        msg,
			HoursProcessed: report.HoursProcessed,
			Amount:         report.TotalDeducted,
			At:             now,
		})
	}
	if report.CrewLost > 0 {
		msg := fmt.Sprintf("%d crew %s walked out unpaid",
			report.CrewLost, plural(report.CrewLost, "member", "members"))
		notices = append(notices, Notice{
			Kind:           NoticeCrewLost,
			Message:        msg,
			HoursProcessed: report.HoursProcessed,
			CrewLost:       report.CrewLost,
			At:             now,
		})
	}
	return notices
}
