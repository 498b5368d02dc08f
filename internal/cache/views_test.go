package cache

import (
	"context"
	"time"

	"github.com/mcoot/mobboss/internal/assign"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
)

func (s *CacheSuite) TestHourlyIncome() {
	s.loadAll()

	// Level 1 earns the base, level 3 earns base * 1.5^2
	s.InDelta(325.0, s.cache.HourlyIncome(), 0.0001)
}

func (s *CacheSuite) TestUpgradeCostResolvesDefinition() {
	s.loadAll()
	businesses := s.cache.Businesses()

	s.Equal(2000.0, s.cache.UpgradeCost(businesses[0]))
	// ob-2 was sent without its definition
	s.Equal(8000.0, s.cache.UpgradeCost(businesses[1]))
	s.InDelta(225.0, s.cache.BusinessIncome(businesses[1]), 0.0001)
}

func (s *CacheSuite) TestHourlyUpkeep() {
	s.loadAll()

	s.InDelta(55.0, s.cache.HourlyUpkeep(), 0.0001)
}

func (s *CacheSuite) TestCrewPowerIncludesAssignedGear() {
	s.loadAll()

	s.Equal(Power{Attack: 25, Defense: 26}, s.cache.CrewPower())
}

func (s *CacheSuite) TestCollectableBusinesses() {
	s.loadAll()

	ready := s.cache.CollectableBusinesses(s.clock.Now())
	s.Require().Len(ready, 1)
	s.Equal("ob-1", ready[0].ID)

	later := s.cache.CollectableBusinesses(s.clock.Now().Add(time.Hour))
	s.Len(later, 2)
}

func (s *CacheSuite) TestLimits() {
	s.loadAll()

	s.Equal(assign.Limits{
		Weapon:    assign.Slots{Capacity: 3, Used: 2},
		Equipment: assign.Slots{Capacity: 5, Used: 1},
	}, s.cache.Limits())

	limit, err := s.cache.MaxAssignable("inv-1")
	s.Require().NoError(err)
	s.Equal(3, limit)

	limit, err = s.cache.MaxAssignable("inv-2")
	s.Require().NoError(err)
	s.Equal(1, limit)

	_, err = s.cache.MaxAssignable("missing")
	s.ErrorIs(err, model.ErrItemNotFound)
}

func (s *CacheSuite) TestUnclaimedCount() {
	s.loadAll()

	s.Equal(2, s.cache.UnclaimedCount())
}

func (s *CacheSuite) TestViewsOnEmptyCache() {
	s.Zero(s.cache.HourlyIncome())
	s.Zero(s.cache.HourlyUpkeep())
	s.Equal(Power{}, s.cache.CrewPower())
	s.Empty(s.cache.CollectableBusinesses(s.clock.Now()))
	s.Equal(assign.Limits{}, s.cache.Limits())
	s.Zero(s.cache.UnclaimedCount())
}

func (s *CacheSuite) TestResolvedBusinessesFillsDefinitions() {
	s.loadAll()

	resolved := s.cache.ResolvedBusinesses()
	s.Require().Len(resolved, 2)
	s.NotEmpty(resolved[1].Business.ID)
	// the mirror itself is not rewritten
	s.Empty(s.cache.Businesses()[1].Business.ID)
}

func (s *CacheSuite) respondReferenceOnly() {
	s.gateway.Respond(rpc.ProcGetInventory, []model.InventoryItem{
		{ID: "inv-1", ItemID: "pistol", Quantity: 5, AssignedQuantity: 2, Location: model.LocationInventory},
	})
	s.gateway.Respond(rpc.ProcGetCrew, []model.HiredCrewUnit{
		{ID: "hc-1", CrewID: "enforcer", Quantity: 3},
		{ID: "hc-2", CrewID: "bodyguard", Quantity: 2},
	})
}

func (s *CacheSuite) TestLimitsResolveReferenceOnlyRows() {
	s.respondReferenceOnly()
	s.loadAll()

	s.Equal(assign.Slots{Capacity: 3, Used: 2}, s.cache.Limits().Weapon)
	s.Equal(assign.Slots{Capacity: 5, Used: 0}, s.cache.Limits().Equipment)

	limit, err := s.cache.MaxAssignable("inv-1")
	s.Require().NoError(err)
	s.Equal(3, limit)

	s.Equal(Power{Attack: 25, Defense: 21}, s.cache.CrewPower())
}

func (s *CacheSuite) TestAssignItemResolvesReferenceOnlyRows() {
	s.respondReferenceOnly()
	s.loadAll()
	s.gateway.Respond(rpc.ProcAssignItem, map[string]any{"success": true, "message": "Assigned"})

	_, err := s.cache.AssignItem(context.Background(), "inv-1", 4)
	s.ErrorIs(err, model.ErrAssignmentLimit)
	s.Zero(s.gateway.CallCount(rpc.ProcAssignItem))

	_, err = s.cache.AssignItem(context.Background(), "inv-1", 3)
	s.Require().NoError(err)
	s.Equal(1, s.gateway.CallCount(rpc.ProcAssignItem))
	// the mirror keeps the rows as sent
	s.Empty(s.cache.Inventory()[0].Item.ID)
}
