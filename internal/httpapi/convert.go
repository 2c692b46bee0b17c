package httpapi

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/fib-lab/traffic-dispatcher/internal/dispatch"
	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

const twoPi = 2 * math.Pi

func validateID(field, id string) error {
	if id == "" || len(id) > 64 {
		return newValidationError("%s must be 1..64 characters, got %q", field, id)
	}
	return nil
}

func validateAngle(field string, v float64) error {
	if v < 0 || v > twoPi {
		return newValidationError("%s must be within [0, 2*pi], got %f", field, v)
	}
	return nil
}

func validateNonNegative(field string, v float64) error {
	if v < 0 {
		return newValidationError("%s must be non-negative, got %f", field, v)
	}
	return nil
}

func roadFromDTO(d RoadDTO) (*topology.Road, error) {
	r, err := topology.NewRoad(d.ID, d.Polyline, d.RecommendedSpeed, d.JunctionStartID, d.JunctionEndID)
	if err != nil {
		return nil, newValidationError("%v", err)
	}
	return r, nil
}

func junctionFromDTO(d JunctionDTO) (*topology.Junction, error) {
	if err := validateID("junction_id", d.ID); err != nil {
		return nil, err
	}
	if err := validateNonNegative("junction_size", d.Size); err != nil {
		return nil, err
	}

	var polygon orb.Polygon
	if len(d.Polygon) > 0 {
		ring := make(orb.Ring, len(d.Polygon))
		copy(ring, d.Polygon)
		polygon = orb.Polygon{ring}
	}

	connections := make([]topology.RoadConnection, len(d.RoadConnections))
	for i, c := range d.RoadConnections {
		connections[i] = topology.RoadConnection{RoadAID: c.RoadAID, RoadBID: c.RoadBID}
	}

	return topology.NewJunction(d.ID, d.X, d.Y, d.Size, polygon, d.ConnectedRoadIDs, connections), nil
}

func carFromDTO(d CarDTO) (*dispatch.Car, error) {
	if err := validateID("car_id", d.ID); err != nil {
		return nil, err
	}
	if err := validateNonNegative("speed", d.Speed); err != nil {
		return nil, err
	}
	if err := validateNonNegative("acceleration", d.Acceleration); err != nil {
		return nil, err
	}
	if err := validateNonNegative("breaking", d.Breaking); err != nil {
		return nil, err
	}
	if err := validateAngle("rotation", d.Rotation); err != nil {
		return nil, err
	}
	if d.WheelRotation != 0 {
		if err := validateAngle("wheel_rotation", d.WheelRotation); err != nil {
			return nil, err
		}
	}

	return &dispatch.Car{
		ID:             d.ID,
		X:              d.X,
		Y:              d.Y,
		Speed:          d.Speed,
		WheelRotation:  d.WheelRotation,
		Rotation:       d.Rotation,
		Acceleration:   d.Acceleration,
		Breaking:       d.Breaking,
		LaneID:         d.LaneID,
		RoadID:         d.RoadID,
		TargetRoadID:   d.TargetRoadID,
		NextJunctionID: d.NextJunctionID,
	}, nil
}

func carToDTO(c *dispatch.Car) CarDTO {
	return CarDTO{
		ID:             c.ID,
		X:              c.X,
		Y:              c.Y,
		Speed:          c.Speed,
		WheelRotation:  c.WheelRotation,
		Rotation:       c.Rotation,
		Acceleration:   c.Acceleration,
		Breaking:       c.Breaking,
		NextJunctionID: c.NextJunctionID,
		LaneID:         c.LaneID,
		RoadID:         c.RoadID,
		TargetRoadID:   c.TargetRoadID,
	}
}
