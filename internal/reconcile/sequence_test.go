package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mobboss/internal/dependencies/mocks"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
	"github.com/mcoot/mobboss/internal/testutil"
)

// eventLog records the order in which things happened across goroutines
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeLoader struct {
	log      *eventLog
	identity model.Identity
	err      error
}

func (f *fakeLoader) SetIdentity(identity model.Identity) {
	f.identity = identity
	f.log.add("set_identity")
}

func (f *fakeLoader) LoadAll(context.Context) error {
	f.log.add("load_all")
	return f.err
}

type SequenceSuite struct {
	suite.Suite
	gateway  *mocks.MockGateway
	loader   *fakeLoader
	recorder *Recorder
	log      *eventLog
	sequence *Sequence
}

func TestSequenceSuite(t *testing.T) {
	suite.Run(t, new(SequenceSuite))
}

func (s *SequenceSuite) SetupTest() {
	s.log = &eventLog{}
	s.gateway = mocks.NewMockGateway()
	s.loader = &fakeLoader{log: s.log}
	s.recorder = &Recorder{}
	clk := mocks.NewMockClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	notifier := Multi{s.recorder, NotifierFunc(func(_ context.Context, n Notice) {
		s.log.add("notice:" + string(n.Kind))
	})}
	s.sequence = NewSequence(s.gateway, s.loader, notifier, clk, testutil.NopLogger())
}

func (s *SequenceSuite) settleWith(report map[string]any) {
	s.gateway.Handle(rpc.ProcSettleUpkeep, func(context.Context, rpc.Args) (any, error) {
		s.log.add("settle")
		return report, nil
	})
}

func (s *SequenceSuite) TestDeductionThenCrewLossBeforeLoad() {
	s.settleWith(map[string]any{
		"hours_processed": 4,
		"total_deducted":  1200,
		"crew_lost":       1,
		"message":         "Upkeep settled",
	})

	result, err := s.sequence.Run(context.Background(), model.Identity{ID: "p1"})

	s.Require().NoError(err)
	s.Equal([]NoticeKind{NoticeUpkeepDeducted, NoticeCrewLost}, s.recorder.Kinds())
	s.Equal([]string{
		"set_identity",
		"settle",
		"notice:upkeep_deducted",
		"notice:crew_lost",
		"load_all",
	}, s.log.all())

	s.Require().NotNil(result.Report)
	s.Equal(4, result.Report.HoursProcessed)
	s.Equal(1200.0, result.Report.TotalDeducted)
	s.Equal(1, result.Report.CrewLost)

	notices := s.recorder.Notices()
	s.Equal("Paid $1,200 in crew upkeep for 4 hours away", notices[0].Message)
	s.Equal("1 crew member walked out unpaid", notices[1].Message)
	s.Equal(model.PlayerID("p1"), s.gateway.Calls()[0].Args["player_id"])
}

func (s *SequenceSuite) TestNothingToReport() {
	s.settleWith(map[string]any{"success": true, "hours_processed": 0, "total_deducted": 0, "crew_lost": 0})

	result, err := s.sequence.Run(context.Background(), model.Identity{ID: "p1"})

	s.Require().NoError(err)
	s.Empty(result.Notices)
	s.Empty(s.recorder.Notices())
	s.Equal([]string{"set_identity", "settle", "load_all"}, s.log.all())
}

func (s *SequenceSuite) TestSettlementTransportFailureStillLoads() {
	s.gateway.Handle(rpc.ProcSettleUpkeep, func(context.Context, rpc.Args) (any, error) {
		s.log.add("settle")
		return nil, &rpc.TransportError{Procedure: rpc.ProcSettleUpkeep, StatusCode: 503}
	})

	result, err := s.sequence.Run(context.Background(), model.Identity{ID: "p1"})

	s.Require().NoError(err)
	s.Nil(result.Report)
	s.Equal([]NoticeKind{NoticeUpkeepFailed}, s.recorder.Kinds())
	s.Equal([]string{"set_identity", "settle", "notice:upkeep_failed", "load_all"}, s.log.all())
}

func (s *SequenceSuite) TestSettlementLogicalFailureStillLoads() {
	s.settleWith(map[string]any{"success": false, "message": "player not found"})

	_, err := s.sequence.Run(context.Background(), model.Identity{ID: "p1"})

	s.Require().NoError(err)
	s.Equal([]NoticeKind{NoticeUpkeepFailed}, s.recorder.Kinds())
	s.Contains(s.recorder.Notices()[0].Message, "player not found")
	s.Equal("load_all", s.log.all()[len(s.log.all())-1])
}

func (s *SequenceSuite) TestLoadWaitsForSettlement() {
	release := make(chan struct{})
	entered := make(chan struct{})
	s.gateway.Handle(rpc.ProcSettleUpkeep, func(context.Context, rpc.Args) (any, error) {
		close(entered)
		<-release
		s.log.add("settle")
		return map[string]any{"hours_processed": 1, "total_deducted": 10}, nil
	})

	done := make(chan error)
	go func() {
		_, err := s.sequence.Run(context.Background(), model.Identity{ID: "p1"})
		done <- err
	}()

	<-entered
	s.Never(func() bool {
		for _, e := range s.log.all() {
			if e == "load_all" {
				return true
			}
		}
		return false
	}, 50*time.Millisecond, 5*time.Millisecond)

	close(release)
	s.NoError(<-done)
	s.Equal([]string{"set_identity", "settle", "notice:upkeep_deducted", "load_all"}, s.log.all())
}

func (s *SequenceSuite) TestLoadFailureIsReturned() {
	s.settleWith(map[string]any{})
	s.loader.err = errors.New("inventory unavailable")

	result, err := s.sequence.Run(context.Background(), model.Identity{ID: "p1"})

	s.Error(err)
	s.ErrorIs(err, s.loader.err)
	s.Equal(s.loader.err, result.LoadErr)
}

func (s *SequenceSuite) TestHookRunsSequence() {
	s.settleWith(map[string]any{"crew_lost": 2})

	s.sequence.Hook()(context.Background(), model.Identity{ID: "p3"})

	s.Equal(model.PlayerID("p3"), s.loader.identity.ID)
	s.Equal([]NoticeKind{NoticeCrewLost}, s.recorder.Kinds())
	s.Equal("2 crew members walked out unpaid", s.recorder.Notices()[0].Message)
}
