// Package dispatch implements the per-tick algorithms that turn a batch of
// car kinematic states into revised target speeds: the legacy FIFO queue
// decay and the default priority-scored admission controller.
package dispatch

import "github.com/fib-lab/traffic-dispatcher/internal/topology"

// Car is a car's kinematic state for one tick, plus the topology handles
// resolved for it at tick start. Cars are ephemeral: nothing here persists
// across ticks except what the caller copies back into CarCache.
type Car struct {
	ID string

	X, Y          float64
	Speed         float64
	WheelRotation float64
	Rotation      float64

	Acceleration float64
	Breaking     float64

	LaneID         string
	RoadID         string
	TargetRoadID   string
	NextJunctionID string

	SecondsInTraffic float64

	// Road and NextJunction are non-owning handles resolved by the caller
	// (via the topology spatial index) before the algorithm runs. Either
	// may be nil if resolution failed.
	Road         *topology.Road
	NextJunction *topology.Junction
}
