// Package store holds the process-wide shared mutable state: topology
// (roads, junctions) and the per-car cache, guarded by a single read-write
// lock. Setup takes the writer role; dispatch takes the reader role.
package store

import (
	"sync"

	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

// CarCacheEntry is the long-lived per-car state populated by setup and
// consulted by every dispatch.
type CarCacheEntry struct {
	SecondsInTraffic float64
	TargetRoadID     string
}

// Store bundles the topology and car cache behind a single RWMutex.
// Dispatches take the reader role; setup takes the writer role.
type Store struct {
	mu sync.RWMutex

	roads     *topology.RoadNetwork
	junctions map[string]*topology.Junction
	cache     map[string]*CarCacheEntry

	slowdownZone float64
	slowdownRate float64
}

// New returns an empty store with the default hyperparameters.
func New() *Store {
	return &Store{
		roads:        topology.NewRoadNetwork(),
		junctions:    make(map[string]*topology.Junction),
		cache:        make(map[string]*CarCacheEntry),
		slowdownZone: 3.0,
		slowdownRate: 0.3,
	}
}

// SetupParams is the validated input to Setup, already decoded from the
// wire representation by the transport layer.
type SetupParams struct {
	Junctions    []*topology.Junction
	Roads        []*topology.Road
	CarTargets   map[string]string // car id -> target road id
	Overwrite    bool
	SlowdownZone float64
	SlowdownRate float64
}

// Setup mutates the store under the writer lock. If Overwrite, all three
// state bundles (junctions, roads, car cache) are replaced; otherwise the
// new data is appended/merged into the existing state. The two
// hyperparameters are always stored, overwrite or not.
//
// Snapshots hand the topology out by reference and read it after the lock
// is released, so setup never mutates a published road network or junction
// map in place: it builds replacements and swaps them in.
func (s *Store) Setup(p SetupParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Overwrite {
		s.cache = make(map[string]*CarCacheEntry)
	}

	if p.Overwrite || len(p.Roads) > 0 {
		roads := p.Roads
		if !p.Overwrite {
			roads = append(s.roads.Roads(), p.Roads...)
		}
		network := topology.NewRoadNetwork()
		network.AddRoads(roads)
		s.roads = network
	}

	if p.Overwrite || len(p.Junctions) > 0 {
		junctions := make(map[string]*topology.Junction, len(s.junctions)+len(p.Junctions))
		if !p.Overwrite {
			for id, j := range s.junctions {
				junctions[id] = j
			}
		}
		for _, j := range p.Junctions {
			junctions[j.ID] = j
		}
		s.junctions = junctions
	}

	for carID, targetRoadID := range p.CarTargets {
		entry, ok := s.cache[carID]
		if !ok {
			entry = &CarCacheEntry{}
			s.cache[carID] = entry
		}
		entry.TargetRoadID = targetRoadID
	}

	s.slowdownZone = p.SlowdownZone
	s.slowdownRate = p.SlowdownRate
}

// Snapshot is a read-only view of the store's state taken under the reader
// lock, safe for a dispatch tick to consult without holding the lock for
// the duration of the computation.
type Snapshot struct {
	Roads        *topology.RoadNetwork
	Junctions    map[string]*topology.Junction
	SlowdownZone float64
	SlowdownRate float64
}

// Snapshot takes a read lock and returns references to the current
// topology. A published road network or junction map is immutable: Setup
// swaps in replacements rather than mutating in place, and a dispatch tick
// only mutates its per-tick car copies. Sharing the references without
// copying is therefore safe even once the lock is released.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Roads:        s.roads,
		Junctions:    s.junctions,
		SlowdownZone: s.slowdownZone,
		SlowdownRate: s.slowdownRate,
	}
}

// CarCache looks up a car's cached state, if any.
func (s *Store) CarCache(carID string) (CarCacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.cache[carID]
	if !ok {
		return CarCacheEntry{}, false
	}
	return *e, true
}

// UpdateCarCache writes back a car's accumulated waiting time and target
// road after a tick, so the next dispatch sees continuity.
func (s *Store) UpdateCarCache(carID string, secondsInTraffic float64, targetRoadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[carID]
	if !ok {
		entry = &CarCacheEntry{}
		s.cache[carID] = entry
	}
	entry.SecondsInTraffic = secondsInTraffic
	if targetRoadID != "" {
		entry.TargetRoadID = targetRoadID
	}
}
