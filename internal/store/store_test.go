package store_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fib-lab/traffic-dispatcher/internal/store"
	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

func TestSetupAppendsByDefault(t *testing.T) {
	s := store.New()
	r1, err := topology.NewRoad("r1", []orb.Point{{0, 0}, {1, 0}}, 10, "", "")
	require.NoError(t, err)
	r2, err := topology.NewRoad("r2", []orb.Point{{0, 0}, {0, 1}}, 10, "", "")
	require.NoError(t, err)

	s.Setup(store.SetupParams{Roads: []*topology.Road{r1}, SlowdownZone: 3.0, SlowdownRate: 0.3})
	s.Setup(store.SetupParams{Roads: []*topology.Road{r2}, SlowdownZone: 3.0, SlowdownRate: 0.3})

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Roads.Len())
}

func TestSetupOverwriteReplacesState(t *testing.T) {
	s := store.New()
	r1, err := topology.NewRoad("r1", []orb.Point{{0, 0}, {1, 0}}, 10, "", "")
	require.NoError(t, err)
	s.Setup(store.SetupParams{Roads: []*topology.Road{r1}, SlowdownZone: 3.0, SlowdownRate: 0.3})

	r2, err := topology.NewRoad("r2", []orb.Point{{0, 0}, {0, 1}}, 10, "", "")
	require.NoError(t, err)
	s.Setup(store.SetupParams{Roads: []*topology.Road{r2}, Overwrite: true, SlowdownZone: 3.0, SlowdownRate: 0.3})

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Roads.Len())
	_, ok := snap.Roads.Get("r1")
	assert.False(t, ok)
	_, ok = snap.Roads.Get("r2")
	assert.True(t, ok)
}

func TestCarCacheRoundTrip(t *testing.T) {
	s := store.New()
	s.Setup(store.SetupParams{CarTargets: map[string]string{"c1": "r9"}})

	entry, ok := s.CarCache("c1")
	require.True(t, ok)
	assert.Equal(t, "r9", entry.TargetRoadID)

	s.UpdateCarCache("c1", 4.2, "")
	entry, ok = s.CarCache("c1")
	require.True(t, ok)
	assert.Equal(t, 4.2, entry.SecondsInTraffic)
	assert.Equal(t, "r9", entry.TargetRoadID, "empty targetRoadID must not clobber the cached value")
}

// TestConcurrentSetupAndSnapshotReads races appending setups against
// snapshot readers that keep using the topology after the lock is
// released, the way a dispatch tick does. Run with -race to catch any
// in-place mutation of a published road network or junction map.
func TestConcurrentSetupAndSnapshotReads(t *testing.T) {
	s := store.New()
	seed, err := topology.NewRoad("seed", []orb.Point{{0, 0}, {100, 0}}, 10, "", "")
	require.NoError(t, err)
	s.Setup(store.SetupParams{
		Roads:        []*topology.Road{seed},
		Junctions:    []*topology.Junction{topology.NewJunction("j-seed", 0, 0, 2, nil, nil, nil)},
		SlowdownZone: 3.0,
		SlowdownRate: 0.3,
	})

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				r, err := topology.NewRoad(
					fmt.Sprintf("r%d-%d", w, i),
					[]orb.Point{{float64(i), float64(w)}, {float64(i) + 1, float64(w)}},
					10, "", "",
				)
				if err != nil {
					t.Error(err)
					return
				}
				s.Setup(store.SetupParams{
					Roads:        []*topology.Road{r},
					Junctions:    []*topology.Junction{topology.NewJunction(fmt.Sprintf("j%d-%d", w, i), float64(i), float64(w), 2, nil, nil, nil)},
					SlowdownZone: 3.0,
					SlowdownRate: 0.3,
				})
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				snap := s.Snapshot()
				snap.Roads.GetRoadForPoint(50, 0, topology.DefaultProbeBuffer)
				for range snap.Junctions {
				}
			}
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 101, snap.Roads.Len())
	assert.Len(t, snap.Junctions, 101)
}

func TestSetupAlwaysStoresHyperparameters(t *testing.T) {
	s := store.New()
	s.Setup(store.SetupParams{SlowdownZone: 7, SlowdownRate: 0.9})
	snap := s.Snapshot()
	assert.Equal(t, 7.0, snap.SlowdownZone)
	assert.Equal(t, 0.9, snap.SlowdownRate)
}
