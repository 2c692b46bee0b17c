package dispatch_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fib-lab/traffic-dispatcher/internal/dispatch"
	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

func mustRoad(t *testing.T, id string, from, to orb.Point, speed float64) *topology.Road {
	t.Helper()
	r, err := topology.NewRoad(id, []orb.Point{from, to}, speed, "", "")
	require.NoError(t, err)
	return r
}

// TestPrioritySingleLaneQueue drives a single-lane approach where the
// leader sits inside the slowdown zone and is capped at
// recommended_speed * slowdown_rate, with followers bounded by it.
func TestPrioritySingleLaneQueue(t *testing.T) {
	j := topology.NewJunction("J", 0, 0, 2, nil, []string{"R"}, nil)
	junctions := map[string]*topology.Junction{"J": j}
	road := mustRoad(t, "R", orb.Point{0, -20}, orb.Point{0, 0}, 10)

	a := &dispatch.Car{ID: "A", X: 0, Y: -1.6, Speed: 0, Acceleration: 2, Breaking: 4, RoadID: "R", NextJunctionID: "J", Road: road}
	b := &dispatch.Car{ID: "B", X: 0, Y: -5, Speed: 0, Acceleration: 2, Breaking: 4, RoadID: "R", NextJunctionID: "J", Road: road}
	c := &dispatch.Car{ID: "C", X: 0, Y: -15, Speed: 0, Acceleration: 2, Breaking: 4, RoadID: "R", NextJunctionID: "J", Road: road}
	cars := []*dispatch.Car{a, b, c}

	alg := dispatch.Resolve("priority")
	hp := dispatch.Hyperparams{JunctionBufferZone: 1.5, SlowdownZone: 3.0, SlowdownRate: 0.3}
	err := alg.Dispatch(cars, junctions, 0.2, hp)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, a.Speed, 1e-9)
	assert.True(t, b.Speed > 0 && b.Speed <= a.Speed)
	assert.True(t, c.Speed >= 0 && c.Speed <= b.Speed)
}

// TestPrioritySegmentConflict puts two cars at the line on crossing roads
// contending for overlapping junction segments; only the higher-scoring
// car is admitted, the other is refused outright.
func TestPrioritySegmentConflict(t *testing.T) {
	ring := []string{"N", "E", "S", "W"}
	j := topology.NewJunction("J", 0, 0, 2, nil, ring, nil)
	junctions := map[string]*topology.Junction{"J": j}

	roadN := mustRoad(t, "N", orb.Point{0, -20}, orb.Point{0, -1}, 10)
	roadE := mustRoad(t, "E", orb.Point{20, 0}, orb.Point{1, 0}, 10)

	// Both just outside the footprint polygon but within the buffer zone.
	a := &dispatch.Car{ID: "A", X: 0, Y: -1.2, Speed: 0, RoadID: "N", TargetRoadID: "S", NextJunctionID: "J", Road: roadN, SecondsInTraffic: 100}
	b := &dispatch.Car{ID: "B", X: 1.2, Y: 0, Speed: 0, RoadID: "E", TargetRoadID: "W", NextJunctionID: "J", Road: roadE, SecondsInTraffic: 0}
	cars := []*dispatch.Car{a, b}

	alg := dispatch.Resolve("priority")
	hp := dispatch.Hyperparams{JunctionBufferZone: 1.5, SlowdownZone: 3.0, SlowdownRate: 0.3}
	err := alg.Dispatch(cars, junctions, 0.2, hp)
	require.NoError(t, err)

	assert.Equal(t, roadN.RecommendedSpeed, a.Speed)
	assert.Equal(t, 0.0, b.Speed)
}

// TestPriorityOccupantPresentDoesNotRunAdmission verifies that a car
// already inside the junction polygon is untouched by the admission step.
func TestPriorityOccupantPresentDoesNotRunAdmission(t *testing.T) {
	j := topology.NewJunction("J", 0, 0, 4, nil, []string{"N", "S"}, nil)
	junctions := map[string]*topology.Junction{"J": j}
	road := mustRoad(t, "N", orb.Point{0, -20}, orb.Point{0, -1}, 10)

	occupant := &dispatch.Car{ID: "IN", X: 0, Y: 0, Speed: 7, RoadID: "N", NextJunctionID: "J", Road: road}
	cars := []*dispatch.Car{occupant}

	alg := dispatch.Resolve("priority")
	err := alg.Dispatch(cars, junctions, 0.2, dispatch.Hyperparams{})
	require.NoError(t, err)

	assert.Equal(t, 7.0, occupant.Speed)
}

// TestPriorityDispatchIsDeterministic runs the same tick twice over fresh
// copies of the same fleet and expects identical output speeds.
func TestPriorityDispatchIsDeterministic(t *testing.T) {
	j := topology.NewJunction("J", 0, 0, 2, nil, []string{"R"}, nil)
	junctions := map[string]*topology.Junction{"J": j}
	road := mustRoad(t, "R", orb.Point{0, -20}, orb.Point{0, 0}, 10)

	makeCars := func() []*dispatch.Car {
		return []*dispatch.Car{
			{ID: "A", X: 0, Y: -1.2, Speed: 0, Acceleration: 2, Breaking: 4, RoadID: "R", TargetRoadID: "R", NextJunctionID: "J", Road: road, SecondsInTraffic: 3},
			{ID: "B", X: 0, Y: -6, Speed: 2, Acceleration: 2, Breaking: 4, RoadID: "R", NextJunctionID: "J", Road: road},
			{ID: "C", X: 0, Y: -12, Speed: 4, Acceleration: 2, Breaking: 4, RoadID: "R", NextJunctionID: "J", Road: road},
		}
	}

	alg := dispatch.Resolve("priority")
	first := makeCars()
	require.NoError(t, alg.Dispatch(first, junctions, 0.2, dispatch.Hyperparams{}))
	second := makeCars()
	require.NoError(t, alg.Dispatch(second, junctions, 0.2, dispatch.Hyperparams{}))

	for i := range first {
		assert.Equal(t, first[i].Speed, second[i].Speed, "car %s", first[i].ID)
	}
}

func TestPriorityLeavingCarResumesRecommendedSpeed(t *testing.T) {
	road := mustRoad(t, "R", orb.Point{0, 0}, orb.Point{10, 0}, 12)
	leaving := &dispatch.Car{ID: "L", X: 5, Y: 0, Speed: 3, RoadID: "R", Road: road}

	alg := dispatch.Resolve("priority")
	err := alg.Dispatch([]*dispatch.Car{leaving}, map[string]*topology.Junction{}, 0.2, dispatch.Hyperparams{})
	require.NoError(t, err)

	assert.Equal(t, 12.0, leaving.Speed)
}
