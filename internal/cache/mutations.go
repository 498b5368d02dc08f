package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/mobboss/internal/assign"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
)

// mutate sends one write to the backend. On success the affected collections are
// reloaded; on any failure the cache is left exactly as it was.
func (c *Cache) mutate(ctx context.Context, procedure string, args rpc.Args, affected ...Collection) (*rpc.Outcome, error) {
	id, ok := c.playerID()
	if !ok {
		return nil, model.ErrNoIdentity
	}
	if args == nil {
		args = rpc.Args{}
	}
	args["player_id"] = id

	out, err := rpc.Mutate(ctx, c.caller, procedure, args)
	if err != nil {
		c.logger.Info("mutation rejected",
			slog.String("procedure", procedure),
			slog.String("kind", rpc.KindOf(err).String()),
			slog.String("error", err.Error()),
		)
		return out, err
	}

	c.Reload(ctx, affected...)
	return out, nil
}

func (c *Cache) findInventory(inventoryID string) (model.InventoryItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.inventory {
		if it.ID == inventoryID {
			return it, nil
		}
	}
	return model.InventoryItem{}, fmt.Errorf("%w: %s", model.ErrItemNotFound, inventoryID)
}

func (c *Cache) findCrew(hiredID string) (model.HiredCrewUnit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, u := range c.crew {
		if u.ID == hiredID {
			return u, nil
		}
	}
	return model.HiredCrewUnit{}, fmt.Errorf("%w: %s", model.ErrCrewNotFound, hiredID)
}

func (c *Cache) findBusiness(ownedID string) (model.OwnedBusiness, error) {
	c.mu.RLock()
	var found *model.OwnedBusiness
	for _, b := range c.businesses {
		if b.ID == ownedID {
			found = &b
			break
		}
	}
	c.mu.RUnlock()
	if found == nil {
		return model.OwnedBusiness{}, fmt.Errorf("%w: %s", model.ErrBusinessNotFound, ownedID)
	}
	return c.resolveBusiness(*found), nil
}

// BuyItem buys quantity of a catalog item
func (c *Cache) BuyItem(ctx context.Context, itemID string, quantity int) (*rpc.Outcome, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if defs := c.Definitions(); defs != nil {
		if _, ok := defs.Item(itemID); !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrItemNotFound, itemID)
		}
	}
	return c.mutate(ctx, rpc.ProcBuyItem, rpc.Args{"item_id": itemID, "quantity": quantity},
		CollectionInventory, CollectionProfile)
}

// SellItem sells unassigned units of an inventory stack
func (c *Cache) SellItem(ctx context.Context, inventoryID string, quantity int) (*rpc.Outcome, error) {
	item, err := c.findInventory(inventoryID)
	if err != nil {
		return nil, err
	}
	switch {
	case quantity <= 0 || quantity > item.Quantity:
		return nil, model.ErrInvalidQuantity
	case item.InSafe():
		return nil, model.ErrItemInSafe
	case quantity > item.Unassigned():
		return nil, model.ErrItemAssigned
	}
	return c.mutate(ctx, rpc.ProcSellItem, rpc.Args{"inventory_id": inventoryID, "quantity": quantity},
		CollectionInventory, CollectionProfile)
}

// AssignItem sets how many units of a stack arm the crew
func (c *Cache) AssignItem(ctx context.Context, inventoryID string, quantity int) (*rpc.Outcome, error) {
	if err := assign.Check(c.resolvedCrew(), c.resolvedInventory(), inventoryID, quantity); err != nil {
		return nil, err
	}
	return c.mutate(ctx, rpc.ProcAssignItem, rpc.Args{"inventory_id": inventoryID, "quantity": quantity},
		CollectionInventory)
}

// MoveToSafe secures a stack in the safe
func (c *Cache) MoveToSafe(ctx context.Context, inventoryID string) (*rpc.Outcome, error) {
	item, err := c.findInventory(inventoryID)
	if err != nil {
		return nil, err
	}
	if item.InSafe() {
		return nil, model.ErrItemInSafe
	}
	if item.AssignedQuantity > 0 {
		return nil, model.ErrItemAssigned
	}
	return c.mutate(ctx, rpc.ProcMoveToSafe, rpc.Args{"inventory_id": inventoryID},
		CollectionInventory)
}

// ReleaseFromSafe takes a stack out of the safe once its lock has passed
func (c *Cache) ReleaseFromSafe(ctx context.Context, inventoryID string) (*rpc.Outcome, error) {
	item, err := c.findInventory(inventoryID)
	if err != nil {
		return nil, err
	}
	if !item.InSafe() {
		return nil, fmt.Errorf("%w: %s is not in the safe", model.ErrItemNotFound, inventoryID)
	}
	if !item.Releasable(c.clock.Now()) {
		return nil, model.ErrSafeLocked
	}
	return c.mutate(ctx, rpc.ProcReleaseFromSafe, rpc.Args{"inventory_id": inventoryID},
		CollectionInventory)
}

// HireCrew hires quantity of a crew type
func (c *Cache) HireCrew(ctx context.Context, crewID string, quantity int) (*rpc.Outcome, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	if defs := c.Definitions(); defs != nil {
		if _, ok := defs.CrewType(crewID); !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrCrewNotFound, crewID)
		}
	}
	return c.mutate(ctx, rpc.ProcHireCrew, rpc.Args{"crew_id": crewID, "quantity": quantity},
		CollectionCrew, CollectionProfile)
}

// FireCrew lets quantity of a hired stack go. Gear they carried returns to the inventory.
func (c *Cache) FireCrew(ctx context.Context, hiredID string, quantity int) (*rpc.Outcome, error) {
	unit, err := c.findCrew(hiredID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 || quantity > unit.Quantity {
		return nil, model.ErrInvalidQuantity
	}
	return c.mutate(ctx, rpc.ProcFireCrew, rpc.Args{"hired_id": hiredID, "quantity": quantity},
		CollectionCrew, CollectionInventory, CollectionProfile)
}

// BuyBusiness buys a catalog business
func (c *Cache) BuyBusiness(ctx context.Context, businessID string) (*rpc.Outcome, error) {
	if defs := c.Definitions(); defs != nil {
		if _, ok := defs.Business(businessID); !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrBusinessNotFound, businessID)
		}
	}
	return c.mutate(ctx, rpc.ProcBuyBusiness, rpc.Args{"business_id": businessID},
		CollectionBusinesses, CollectionProfile)
}

// UpgradeBusiness raises an owned business one level
func (c *Cache) UpgradeBusiness(ctx context.Context, ownedID string) (*rpc.Outcome, error) {
	b, err := c.findBusiness(ownedID)
	if err != nil {
		return nil, err
	}
	if b.MaxedOut() {
		return nil, model.ErrMaxLevel
	}
	return c.mutate(ctx, rpc.ProcUpgradeBusiness, rpc.Args{"owned_id": ownedID},
		CollectionBusinesses, CollectionProfile)
}

// CollectBusiness collects the income of one business
func (c *Cache) CollectBusiness(ctx context.Context, ownedID string) (*rpc.Outcome, error) {
	b, err := c.findBusiness(ownedID)
	if err != nil {
		return nil, err
	}
	if !b.Collectable(c.clock.Now()) {
		return nil, fmt.Errorf("%w until %s", model.ErrOnCooldown, b.ReadyAt().Format("15:04:05"))
	}
	return c.mutate(ctx, rpc.ProcCollectBusiness, rpc.Args{"owned_id": ownedID},
		CollectionBusinesses, CollectionProfile)
}

// CollectAllBusinesses collects every business off cooldown
func (c *Cache) CollectAllBusinesses(ctx context.Context) (*rpc.Outcome, error) {
	return c.mutate(ctx, rpc.ProcCollectAllBusinesses, nil,
		CollectionBusinesses, CollectionProfile)
}

// ClaimAchievement claims the reward of an unlocked achievement
func (c *Cache) ClaimAchievement(ctx context.Context, achievementID string) (*rpc.Outcome, error) {
	var found *model.Achievement
	for _, a := range c.Achievements() {
		if a.ID == achievementID {
			found = &a
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrProgressNotFound, achievementID)
	}
	if !found.Claimable() {
		return nil, fmt.Errorf("%w: achievement is %s", model.ErrNotClaimable, found.State())
	}
	return c.mutate(ctx, rpc.ProcClaimAchievement, rpc.Args{"achievement_id": achievementID},
		CollectionAchievements, CollectionProfile)
}

// ClaimTask claims the reward of an unlocked task
func (c *Cache) ClaimTask(ctx context.Context, taskID string) (*rpc.Outcome, error) {
	var found *model.Task
	for _, t := range c.Tasks() {
		if t.ID == taskID {
			found = &t
			break
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrProgressNotFound, taskID)
	}
	if !found.Claimable() {
		return nil, fmt.Errorf("%w: task is %s", model.ErrNotClaimable, found.State())
	}
	return c.mutate(ctx, rpc.ProcClaimTask, rpc.Args{"task_id": taskID},
		CollectionTasks, CollectionProfile)
}

// ClaimDailyReward claims today's login reward
func (c *Cache) ClaimDailyReward(ctx context.Context) (*rpc.Outcome, error) {
	return c.mutate(ctx, rpc.ProcClaimDaily, nil, CollectionProfile)
}

// BankDeposit moves cash into the bank
func (c *Cache) BankDeposit(ctx context.Context, amount int64) (*rpc.Outcome, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	return c.mutate(ctx, rpc.ProcBankDeposit, rpc.Args{"amount": amount}, CollectionProfile)
}

// BankWithdraw moves banked cash back to hand
func (c *Cache) BankWithdraw(ctx context.Context, amount int64) (*rpc.Outcome, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidQuantity
	}
	return c.mutate(ctx, rpc.ProcBankWithdraw, rpc.Args{"amount": amount}, CollectionProfile)
}

// DoJob runs a job. Jobs pay out cash, can drop loot and advance goals.
func (c *Cache) DoJob(ctx context.Context, jobID string) (*rpc.Outcome, error) {
	if defs := c.Definitions(); defs != nil {
		if _, ok := defs.Job(jobID); !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrJobNotFound, jobID)
		}
	}
	return c.mutate(ctx, rpc.ProcDoJob, rpc.Args{"job_id": jobID},
		CollectionProfile, CollectionInventory, CollectionTasks, CollectionAchievements)
}
