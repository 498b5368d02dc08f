// Package cache mirrors the player's server-side state. Every collection is replaced
// wholesale on load, mutations are sent to the backend and followed by a reload of
// whatever they touched, and nothing is ever changed locally on speculation.
package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/mobboss/internal/dependencies/clock"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/rpc"
)

// Collection names one mirrored collection
type Collection string

const (
	CollectionProfile      Collection = "profile"
	CollectionInventory    Collection = "inventory"
	CollectionCrew         Collection = "crew"
	CollectionBusinesses   Collection = "businesses"
	CollectionAchievements Collection = "achievements"
	CollectionTasks        Collection = "tasks"
	CollectionDefinitions  Collection = "definitions"
)

// Collections lists every collection in load order
var Collections = []Collection{
	CollectionDefinitions,
	CollectionProfile,
	CollectionInventory,
	CollectionCrew,
	CollectionBusinesses,
	CollectionAchievements,
	CollectionTasks,
}

// ProfileRefresher owns the player profile
type ProfileRefresher interface {
	Refetch(ctx context.Context)
	Profile() *model.PlayerProfile
}

// Config holds configuration for the cache
type Config struct {
	// SequencedLoads discards a load response when a later-issued load of the same
	// collection has already been applied. When off, whichever response arrives last wins.
	SequencedLoads bool
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{}
}

// Cache is the game state mirror
type Cache struct {
	caller   rpc.Caller
	profiles ProfileRefresher
	clock    clock.Clock
	cfg      Config
	logger   *slog.Logger

	mu           sync.RWMutex
	identity     *model.Identity
	generation   uint64
	inventory    []model.InventoryItem
	crew         []model.HiredCrewUnit
	businesses   []model.OwnedBusiness
	achievements []model.Achievement
	tasks        []model.Task
	definitions  *model.Definitions
	ready        bool

	loading map[Collection]int
	issued  map[Collection]uint64
	applied map[Collection]uint64
}

// New creates an empty Cache
func New(caller rpc.Caller, profiles ProfileRefresher, clk clock.Clock, cfg Config, logger *slog.Logger) *Cache {
	return &Cache{
		caller:   caller,
		profiles: profiles,
		clock:    clk,
		cfg:      cfg,
		logger:   logger,
		loading:  make(map[Collection]int),
		issued:   make(map[Collection]uint64),
		applied:  make(map[Collection]uint64),
	}
}

// SetIdentity scopes the cache to a player. Switching to a different player
// drops everything mirrored for the previous one.
func (c *Cache) SetIdentity(identity model.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity != nil && c.identity.ID == identity.ID {
		c.identity = &identity
		return
	}
	c.clearLocked()
	c.identity = &identity
}

// Reset clears every player collection and the identity. Definitions are reference
// data for the whole process and survive.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.identity = nil
	c.logger.Debug("cache reset")
}

func (c *Cache) clearLocked() {
	c.generation++
	c.inventory = nil
	c.crew = nil
	c.businesses = nil
	c.achievements = nil
	c.tasks = nil
	c.ready = false
	clear(c.applied)
}

// Identity returns the player the cache is scoped to, or nil
func (c *Cache) Identity() *model.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return nil
	}
	id := *c.identity
	return &id
}

func (c *Cache) playerID() (model.PlayerID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return "", false
	}
	return c.identity.ID, true
}

// Ready reports whether a full load has completed since the identity was set
func (c *Cache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// IsLoading reports whether a load of the collection is in flight
func (c *Cache) IsLoading(col Collection) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading[col] > 0
}

// Loading returns the collections with loads in flight
func (c *Cache) Loading() []Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Collection
	for _, col := range Collections {
		if c.loading[col] > 0 {
			out = append(out, col)
		}
	}
	return out
}

// Profile returns the player profile held by the session
func (c *Cache) Profile() *model.PlayerProfile {
	return c.profiles.Profile()
}

// Inventory returns a copy of the inventory
func (c *Cache) Inventory() []model.InventoryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.InventoryItem(nil), c.inventory...)
}

// Crew returns a copy of the hired crew
func (c *Cache) Crew() []model.HiredCrewUnit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.HiredCrewUnit(nil), c.crew...)
}

// Businesses returns a copy of the owned businesses
func (c *Cache) Businesses() []model.OwnedBusiness {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.OwnedBusiness(nil), c.businesses...)
}

// Achievements returns a copy of the achievements
func (c *Cache) Achievements() []model.Achievement {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Achievement(nil), c.achievements...)
}

// Tasks returns a copy of the tasks
func (c *Cache) Tasks() []model.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Task(nil), c.tasks...)
}

// Definitions returns the static catalog, or nil before it has loaded
func (c *Cache) Definitions() *model.Definitions {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.definitions
}

// Snapshot is a copy of every mirrored collection
type Snapshot struct {
	Identity     *model.Identity       `json:"identity,omitempty"`
	Profile      *model.PlayerProfile  `json:"profile,omitempty"`
	Inventory    []model.InventoryItem `json:"inventory"`
	Crew         []model.HiredCrewUnit `json:"crew"`
	Businesses   []model.OwnedBusiness `json:"businesses"`
	Achievements []model.Achievement   `json:"achievements"`
	Tasks        []model.Task          `json:"tasks"`
	Definitions  *model.Definitions    `json:"definitions,omitempty"`
	Ready        bool                  `json:"ready"`
}

// Snapshot returns a copy of every mirrored collection
func (c *Cache) Snapshot() Snapshot {
	s := Snapshot{
		Identity:     c.Identity(),
		Profile:      c.profiles.Profile(),
		Inventory:    c.Inventory(),
		Crew:         c.Crew(),
		Businesses:   c.Businesses(),
		Achievements: c.Achievements(),
		Tasks:        c.Tasks(),
		Definitions:  c.Definitions(),
	}
	s.Ready = c.Ready()
	return s
}
