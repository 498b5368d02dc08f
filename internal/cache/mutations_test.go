package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
)

func (s *CacheSuite) snapshotJSON() string {
	data, err := json.Marshal(s.cache.Snapshot())
	s.Require().NoError(err)
	return string(data)
}

func (s *CacheSuite) TestMutationWithoutIdentity() {
	_, err := s.cache.ClaimDailyReward(context.Background())

	s.ErrorIs(err, model.ErrNoIdentity)
	s.Equal(rpc.KindPrecondition, rpc.KindOf(err))
	s.Empty(s.gateway.Calls())
}

func (s *CacheSuite) TestSuccessfulMutationReloadsAffectedCollections() {
	s.loadAll()
	s.gateway.Respond(rpc.ProcBuyItem, map[string]any{"success": true, "message": "Bought 2 pistols", "cash_spent": 1000})
	refetches := s.profiles.Refetches()

	out, err := s.cache.BuyItem(context.Background(), "pistol", 2)

	s.Require().NoError(err)
	s.Equal("Bought 2 pistols", out.Message)
	spent, ok := out.Int("cash_spent")
	s.True(ok)
	s.Equal(int64(1000), spent)

	calls := s.gateway.Calls()
	s.Equal(rpc.ProcBuyItem, calls[0].Procedure)
	s.Equal(rpc.Args{"player_id": model.PlayerID("p1"), "item_id": "pistol", "quantity": 2}, calls[0].Args)
	s.ElementsMatch([]string{rpc.ProcBuyItem, rpc.ProcGetInventory}, s.gateway.Procedures())
	s.Equal(refetches+1, s.profiles.Refetches())
}

func (s *CacheSuite) TestLogicalFailureLeavesCacheUntouched() {
	s.loadAll()
	before := s.snapshotJSON()
	s.gateway.Respond(rpc.ProcHireCrew, map[string]any{"success": false, "message": "Not enough cash"})
	refetches := s.profiles.Refetches()

	out, err := s.cache.HireCrew(context.Background(), "enforcer", 50)

	s.Error(err)
	s.Equal(rpc.KindLogical, rpc.KindOf(err))
	s.Equal("Not enough cash", err.Error())
	s.Require().NotNil(out)
	s.False(out.Success)

	s.Equal([]string{rpc.ProcHireCrew}, s.gateway.Procedures())
	s.Equal(refetches, s.profiles.Refetches())
	s.Equal(before, s.snapshotJSON())
}

func (s *CacheSuite) TestTransportFailureLeavesCacheUntouched() {
	s.loadAll()
	before := s.snapshotJSON()
	s.gateway.Fail(rpc.ProcCollectAllBusinesses, &rpc.TransportError{Procedure: rpc.ProcCollectAllBusinesses, StatusCode: 502})

	_, err := s.cache.CollectAllBusinesses(context.Background())

	s.Error(err)
	s.Equal(rpc.KindTransport, rpc.KindOf(err))
	s.Equal([]string{rpc.ProcCollectAllBusinesses}, s.gateway.Procedures())
	s.Equal(before, s.snapshotJSON())
}

func (s *CacheSuite) TestEveryFailedMutationLeavesCacheUntouched() {
	s.loadAll()
	before := s.snapshotJSON()
	reject := map[string]any{"success": false, "message": "rejected"}
	for _, proc := range []string{
		rpc.ProcBuyItem, rpc.ProcSellItem, rpc.ProcAssignItem, rpc.ProcFireCrew,
		rpc.ProcBuyBusiness, rpc.ProcUpgradeBusiness, rpc.ProcCollectBusiness,
		rpc.ProcClaimAchievement, rpc.ProcClaimTask, rpc.ProcClaimDaily,
		rpc.ProcBankDeposit, rpc.ProcBankWithdraw, rpc.ProcDoJob,
	} {
		s.gateway.Respond(proc, reject)
	}
	ctx := context.Background()

	mutations := map[string]func() (*rpc.Outcome, error){
		"buy":          func() (*rpc.Outcome, error) { return s.cache.BuyItem(ctx, "vest", 1) },
		"sell":         func() (*rpc.Outcome, error) { return s.cache.SellItem(ctx, "inv-1", 3) },
		"assign":       func() (*rpc.Outcome, error) { return s.cache.AssignItem(ctx, "inv-1", 3) },
		"fire":         func() (*rpc.Outcome, error) { return s.cache.FireCrew(ctx, "hc-1", 1) },
		"buy business": func() (*rpc.Outcome, error) { return s.cache.BuyBusiness(ctx, "laundromat") },
		"upgrade":      func() (*rpc.Outcome, error) { return s.cache.UpgradeBusiness(ctx, "ob-1") },
		"collect":      func() (*rpc.Outcome, error) { return s.cache.CollectBusiness(ctx, "ob-1") },
		"achievement":  func() (*rpc.Outcome, error) { return s.cache.ClaimAchievement(ctx, "a-1") },
		"task":         func() (*rpc.Outcome, error) { return s.cache.ClaimTask(ctx, "t-1") },
		"daily":        func() (*rpc.Outcome, error) { return s.cache.ClaimDailyReward(ctx) },
		"deposit":      func() (*rpc.Outcome, error) { return s.cache.BankDeposit(ctx, 100) },
		"withdraw":     func() (*rpc.Outcome, error) { return s.cache.BankWithdraw(ctx, 100) },
		"job":          func() (*rpc.Outcome, error) { return s.cache.DoJob(ctx, "heist") },
	}

	for name, mutate := range mutations {
		_, err := mutate()
		s.Equal(rpc.KindLogical, rpc.KindOf(err), name)
		s.Equal(before, s.snapshotJSON(), name)
	}
	s.Equal(len(mutations), len(s.gateway.Calls()))
}

func (s *CacheSuite) TestPreconditionsShortCircuit() {
	s.loadAll()
	locked := s.clock.Now().Add(time.Hour)
	inventory := append(testInventory(),
		model.InventoryItem{ID: "inv-safe", ItemID: "pistol", Quantity: 1, Location: model.LocationSafe, SafeReleaseAt: &locked, Item: testDefinitions().Items[0]},
	)
	s.gateway.Respond(rpc.ProcGetInventory, inventory)
	s.Require().NoError(s.cache.LoadInventory(context.Background()))
	s.gateway.ResetCalls()
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func() (*rpc.Outcome, error)
		wantErr error
	}{
		{"buy zero", func() (*rpc.Outcome, error) { return s.cache.BuyItem(ctx, "pistol", 0) }, model.ErrInvalidQuantity},
		{"buy unknown item", func() (*rpc.Outcome, error) { return s.cache.BuyItem(ctx, "bazooka", 1) }, model.ErrItemNotFound},
		{"sell assigned units", func() (*rpc.Outcome, error) { return s.cache.SellItem(ctx, "inv-1", 4) }, model.ErrItemAssigned},
		{"sell too many", func() (*rpc.Outcome, error) { return s.cache.SellItem(ctx, "inv-1", 6) }, model.ErrInvalidQuantity},
		{"sell from safe", func() (*rpc.Outcome, error) { return s.cache.SellItem(ctx, "inv-safe", 1) }, model.ErrItemInSafe},
		{"assign over limit", func() (*rpc.Outcome, error) { return s.cache.AssignItem(ctx, "inv-1", 4) }, model.ErrAssignmentLimit},
		{"assign missing", func() (*rpc.Outcome, error) { return s.cache.AssignItem(ctx, "inv-9", 1) }, model.ErrItemNotFound},
		{"safe assigned stack", func() (*rpc.Outcome, error) { return s.cache.MoveToSafe(ctx, "inv-1") }, model.ErrItemAssigned},
		{"safe twice", func() (*rpc.Outcome, error) { return s.cache.MoveToSafe(ctx, "inv-safe") }, model.ErrItemInSafe},
		{"release locked", func() (*rpc.Outcome, error) { return s.cache.ReleaseFromSafe(ctx, "inv-safe") }, model.ErrSafeLocked},
		{"release not in safe", func() (*rpc.Outcome, error) { return s.cache.ReleaseFromSafe(ctx, "inv-1") }, model.ErrItemNotFound},
		{"hire unknown", func() (*rpc.Outcome, error) { return s.cache.HireCrew(ctx, "ninja", 1) }, model.ErrCrewNotFound},
		{"fire too many", func() (*rpc.Outcome, error) { return s.cache.FireCrew(ctx, "hc-1", 4) }, model.ErrInvalidQuantity},
		{"fire unknown", func() (*rpc.Outcome, error) { return s.cache.FireCrew(ctx, "hc-9", 1) }, model.ErrCrewNotFound},
		{"buy unknown business", func() (*rpc.Outcome, error) { return s.cache.BuyBusiness(ctx, "casino") }, model.ErrBusinessNotFound},
		{"upgrade maxed", func() (*rpc.Outcome, error) { return s.cache.UpgradeBusiness(ctx, "ob-2") }, model.ErrMaxLevel},
		{"collect on cooldown", func() (*rpc.Outcome, error) { return s.cache.CollectBusiness(ctx, "ob-2") }, model.ErrOnCooldown},
		{"claim locked achievement", func() (*rpc.Outcome, error) { return s.cache.ClaimAchievement(ctx, "a-2") }, model.ErrNotClaimable},
		{"claim claimed achievement", func() (*rpc.Outcome, error) { return s.cache.ClaimAchievement(ctx, "a-3") }, model.ErrNotClaimable},
		{"claim unknown task", func() (*rpc.Outcome, error) { return s.cache.ClaimTask(ctx, "t-9") }, model.ErrProgressNotFound},
		{"deposit nothing", func() (*rpc.Outcome, error) { return s.cache.BankDeposit(ctx, 0) }, model.ErrInvalidQuantity},
		{"withdraw negative", func() (*rpc.Outcome, error) { return s.cache.BankWithdraw(ctx, -5) }, model.ErrInvalidQuantity},
		{"unknown job", func() (*rpc.Outcome, error) { return s.cache.DoJob(ctx, "bake") }, model.ErrJobNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := tt.call()
			s.ErrorIs(err, tt.wantErr)
			s.Equal(rpc.KindPrecondition, rpc.KindOf(err))
		})
	}
	s.Empty(s.gateway.Calls())
}

func (s *CacheSuite) TestReleaseFromSafeAfterLock() {
	s.loadAll()
	released := s.clock.Now().Add(-time.Minute)
	s.gateway.Respond(rpc.ProcGetInventory, []model.InventoryItem{
		{ID: "inv-safe", ItemID: "pistol", Quantity: 1, Location: model.LocationSafe, SafeReleaseAt: &released},
	})
	s.Require().NoError(s.cache.LoadInventory(context.Background()))
	s.gateway.Respond(rpc.ProcReleaseFromSafe, map[string]any{"success": true})
	s.gateway.ResetCalls()

	_, err := s.cache.ReleaseFromSafe(context.Background(), "inv-safe")

	s.Require().NoError(err)
	s.Equal([]string{rpc.ProcReleaseFromSafe, rpc.ProcGetInventory}, s.gateway.Procedures())
}

func (s *CacheSuite) TestDoJobReloadsEverythingItTouches() {
	s.loadAll()
	s.gateway.Respond(rpc.ProcDoJob, map[string]any{"success": true, "cash_earned": 250.0})

	out, err := s.cache.DoJob(context.Background(), "heist")

	s.Require().NoError(err)
	earned, _ := out.Float("cash_earned")
	s.Equal(250.0, earned)
	s.ElementsMatch([]string{
		rpc.ProcDoJob, rpc.ProcGetInventory, rpc.ProcGetTasks, rpc.ProcGetAchievements,
	}, s.gateway.Procedures())
}
