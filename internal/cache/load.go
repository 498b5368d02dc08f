package cache

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
)

// ticket identifies one in-flight load
type ticket struct {
	col        Collection
	playerID   model.PlayerID
	generation uint64
	seq        uint64
}

// begin registers a load of col. It reports false when there is no identity to load for.
func (c *Cache) begin(col Collection, needIdentity bool) (ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if needIdentity && c.identity == nil {
		return ticket{}, false
	}
	t := ticket{col: col, generation: c.generation}
	if c.identity != nil {
		t.playerID = c.identity.ID
	}
	c.loading[col]++
	c.issued[col]++
	t.seq = c.issued[col]
	return t, true
}

func (c *Cache) end(t ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading[t.col] > 0 {
		c.loading[t.col]--
	}
}

// acceptLocked decides whether a response may be applied. Responses for a previous
// identity are always dropped; with sequenced loads so are responses older than one
// already applied.
func (c *Cache) acceptLocked(t ticket) bool {
	if t.generation != c.generation {
		return false
	}
	if c.cfg.SequencedLoads && t.seq < c.applied[t.col] {
		return false
	}
	c.applied[t.col] = t.seq
	return true
}

// loadList fetches one player collection and hands it to apply under the write lock
func loadList[T any](ctx context.Context, c *Cache, col Collection, procedure string, apply func(items []T)) error {
	t, ok := c.begin(col, true)
	if !ok {
		return nil
	}
	defer c.end(t)

	var items []T
	if err := c.caller.Call(ctx, procedure, rpc.Args{"player_id": t.playerID}, &items); err != nil {
		c.logger.Warn("cache load failed",
			slog.String("collection", string(col)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("load %s: %w", col, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.acceptLocked(t) {
		c.logger.Debug("discarding superseded load",
			slog.String("collection", string(col)),
			slog.Uint64("seq", t.seq),
		)
		return nil
	}
	apply(items)
	return nil
}

// LoadInventory replaces the inventory
func (c *Cache) LoadInventory(ctx context.Context) error {
	return loadList(ctx, c, CollectionInventory, rpc.ProcGetInventory, func(items []model.InventoryItem) {
		c.inventory = items
	})
}

// LoadCrew replaces the hired crew
func (c *Cache) LoadCrew(ctx context.Context) error {
	return loadList(ctx, c, CollectionCrew, rpc.ProcGetCrew, func(items []model.HiredCrewUnit) {
		c.crew = items
	})
}

// LoadBusinesses replaces the owned businesses
func (c *Cache) LoadBusinesses(ctx context.Context) error {
	return loadList(ctx, c, CollectionBusinesses, rpc.ProcGetBusinesses, func(items []model.OwnedBusiness) {
		c.businesses = items
	})
}

// LoadAchievements replaces the achievements
func (c *Cache) LoadAchievements(ctx context.Context) error {
	return loadList(ctx, c, CollectionAchievements, rpc.ProcGetAchievements, func(items []model.Achievement) {
		prev := make(map[string]model.Progress, len(c.achievements))
		for _, a := range c.achievements {
			prev[a.ID] = a.Progress
		}
		for _, a := range items {
			if p, ok := prev[a.ID]; ok && a.RegressedFrom(p) {
				c.warnRegression(CollectionAchievements, a.ID, p, a.Progress)
			}
		}
		c.achievements = items
	})
}

// LoadTasks replaces the tasks
func (c *Cache) LoadTasks(ctx context.Context) error {
	return loadList(ctx, c, CollectionTasks, rpc.ProcGetTasks, func(items []model.Task) {
		prev := make(map[string]model.Progress, len(c.tasks))
		for _, t := range c.tasks {
			prev[t.ID] = t.Progress
		}
		for _, t := range items {
			if p, ok := prev[t.ID]; ok && t.RegressedFrom(p) {
				c.warnRegression(CollectionTasks, t.ID, p, t.Progress)
			}
		}
		c.tasks = items
	})
}

// warnRegression logs progress that moved backwards. The backend's data is applied regardless.
func (c *Cache) warnRegression(col Collection, id string, prev, next model.Progress) {
	c.logger.Warn("progress went backwards",
		slog.String("collection", string(col)),
		slog.String("id", id),
		slog.String("from", string(prev.State())),
		slog.String("to", string(next.State())),
	)
}

// LoadDefinitions loads the static catalog the first time it is called
func (c *Cache) LoadDefinitions(ctx context.Context) error {
	if c.Definitions() != nil {
		return nil
	}

	t, _ := c.begin(CollectionDefinitions, false)
	defer c.end(t)

	var defs model.Definitions
	if err := c.caller.Call(ctx, rpc.ProcGetDefinitions, nil, &defs); err != nil {
		c.logger.Warn("cache load failed",
			slog.String("collection", string(CollectionDefinitions)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("load %s: %w", CollectionDefinitions, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.definitions == nil {
		c.definitions = &defs
	}
	return nil
}

// LoadProfile asks the session to refetch the profile
func (c *Cache) LoadProfile(ctx context.Context) error {
	t, ok := c.begin(CollectionProfile, true)
	if !ok {
		return nil
	}
	defer c.end(t)
	c.profiles.Refetch(ctx)
	return nil
}

// Load reloads one collection
func (c *Cache) Load(ctx context.Context, col Collection) error {
	switch col {
	case CollectionProfile:
		return c.LoadProfile(ctx)
	case CollectionInventory:
		return c.LoadInventory(ctx)
	case CollectionCrew:
		return c.LoadCrew(ctx)
	case CollectionBusinesses:
		return c.LoadBusinesses(ctx)
	case CollectionAchievements:
		return c.LoadAchievements(ctx)
	case CollectionTasks:
		return c.LoadTasks(ctx)
	case CollectionDefinitions:
		return c.LoadDefinitions(ctx)
	default:
		return fmt.Errorf("unknown collection %q", col)
	}
}

// LoadAll loads every collection concurrently. One failing load does not cancel the
// others; the first error is returned. The cache is marked ready when all succeed.
func (c *Cache) LoadAll(ctx context.Context) error {
	_, ok := c.playerID()
	if !ok {
		return nil
	}

	c.mu.RLock()
	generation := c.generation
	c.mu.RUnlock()

	var g errgroup.Group
	for _, col := range Collections {
		g.Go(func() error {
			return c.Load(ctx, col)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.generation == generation {
		c.ready = true
	}
	c.mu.Unlock()
	return nil
}

// Reload reloads the given collections concurrently. Failures are logged.
func (c *Cache) Reload(ctx context.Context, cols ...Collection) {
	var g errgroup.Group
	for _, col := range cols {
		g.Go(func() error {
			return c.Load(ctx, col)
		})
	}
	_ = g.Wait()
}
