// Package httpapi is the thin JSON RPC surface of the dispatcher: it
// decodes wire requests, resolves topology, invokes a dispatch algorithm,
// and encodes wire responses. No dispatch logic lives here.
package httpapi

import (
	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
)

// RoadConnectionDTO is the wire form of a junction's interior pseudo-road.
type RoadConnectionDTO struct {
	RoadAID string `json:"road_a_id"`
	RoadBID string `json:"road_b_id"`
}

// JunctionDTO is the wire form of topology.Junction.
type JunctionDTO struct {
	ID               string              `json:"junction_id"`
	X                float64             `json:"x"`
	Y                float64             `json:"y"`
	Size             float64             `json:"junction_size"`
	Polygon          []orb.Point         `json:"polygon,omitempty"`
	ConnectedRoadIDs []string            `json:"connected_roads_ids,omitempty"`
	RoadConnections  []RoadConnectionDTO `json:"road_connections,omitempty"`
}

// RoadDTO is the wire form of topology.Road.
type RoadDTO struct {
	ID               string      `json:"id"`
	Polyline         []orb.Point `json:"polyline"`
	RecommendedSpeed float64     `json:"recommended_speed"`
	JunctionStartID  string      `json:"junction_start_id,omitempty"`
	JunctionEndID    string      `json:"junction_end_id,omitempty"`
}

// CarDTO is the wire form of a car's kinematic state, both inbound
// (DispatchRequest) and outbound (DispatchResponse).
type CarDTO struct {
	ID string `json:"car_id"`

	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Speed         float64 `json:"speed"`
	WheelRotation float64 `json:"wheel_rotation,omitempty"`
	Rotation      float64 `json:"rotation"`

	Acceleration float64 `json:"acceleration"`
	Breaking     float64 `json:"breaking"`

	NextJunctionID string `json:"next_junction_id,omitempty"`
	LaneID         string `json:"lane_id,omitempty"`
	RoadID         string `json:"road_id,omitempty"`
	TargetRoadID   string `json:"target_road_id,omitempty"`
}

type carDTOWire struct {
	ID string `json:"car_id"`

	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Speed         float64  `json:"speed"`
	WheelRotation float64  `json:"wheel_rotation,omitempty"`
	Rotation      *float64 `json:"rotation"`
	Angle         *float64 `json:"angle"`

	Acceleration float64 `json:"acceleration"`
	Breaking     float64 `json:"breaking"`

	NextJunctionID string `json:"next_junction_id,omitempty"`
	LaneID         string `json:"lane_id,omitempty"`
	RoadID         string `json:"road_id,omitempty"`
	TargetRoadID   string `json:"target_road_id,omitempty"`
}

// UnmarshalJSON accepts the legacy "angle" field as an alias for
// "rotation"; rotation wins when both are present.
func (c *CarDTO) UnmarshalJSON(data []byte) error {
	var raw carDTOWire
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = CarDTO{
		ID:             raw.ID,
		X:              raw.X,
		Y:              raw.Y,
		Speed:          raw.Speed,
		WheelRotation:  raw.WheelRotation,
		Acceleration:   raw.Acceleration,
		Breaking:       raw.Breaking,
		NextJunctionID: raw.NextJunctionID,
		LaneID:         raw.LaneID,
		RoadID:         raw.RoadID,
		TargetRoadID:   raw.TargetRoadID,
	}

	switch {
	case raw.Rotation != nil:
		c.Rotation = *raw.Rotation
	case raw.Angle != nil:
		c.Rotation = *raw.Angle
	}
	return nil
}

// MarshalJSON encodes CarDTO by its struct tags, so Rotation is always
// written under its canonical name "rotation", never as the legacy "angle".
// The alias type carries no methods, so encoding does not recurse.
func (c CarDTO) MarshalJSON() ([]byte, error) {
	type alias CarDTO
	return json.Marshal(alias(c))
}

// SetupRequest is the decoded body of POST /setup.
type SetupRequest struct {
	Junctions    []JunctionDTO     `json:"junctions"`
	Roads        []RoadDTO         `json:"roads"`
	CarTargets   map[string]string `json:"car_targets"`
	Overwrite    bool              `json:"overwrite"`
	SlowdownZone *float64          `json:"slowdown_zone"`
	SlowdownRate *float64          `json:"slowdown_rate"`
}

// SetupResponse is the encoded body of a successful POST /setup.
type SetupResponse struct {
	Status string `json:"status"`
}

// DispatchRequest is the decoded body of POST /dispatch. AlgorithmName is
// populated from whichever of the accepted aliases (algorithm_name,
// alg_name, algorithm, alg) appears first in the payload.
type DispatchRequest struct {
	AlgorithmName        string
	Cars                 []CarDTO
	Junctions            []JunctionDTO
	NextRequestInSeconds *float64
}

type dispatchRequestWire struct {
	AlgorithmName        *string       `json:"algorithm_name"`
	AlgName              *string       `json:"alg_name"`
	Algorithm            *string       `json:"algorithm"`
	Alg                  *string       `json:"alg"`
	Cars                 []CarDTO      `json:"cars"`
	Junctions            []JunctionDTO `json:"junctions"`
	NextRequestInSeconds *float64      `json:"next_request_in_seconds"`
}

// UnmarshalJSON implements the algorithm-name aliasing: the first alias
// present, in the order algorithm_name, alg_name, algorithm, alg, wins.
func (r *DispatchRequest) UnmarshalJSON(data []byte) error {
	var raw dispatchRequestWire
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Cars = raw.Cars
	r.Junctions = raw.Junctions
	r.NextRequestInSeconds = raw.NextRequestInSeconds

	for _, alias := range []*string{raw.AlgorithmName, raw.AlgName, raw.Algorithm, raw.Alg} {
		if alias != nil && *alias != "" {
			r.AlgorithmName = *alias
			break
		}
	}
	return nil
}

// DispatchResponse is the encoded body of a successful POST /dispatch.
type DispatchResponse struct {
	Cars []CarDTO `json:"cars"`
}

// StatusResponse is the encoded body of GET /.
type StatusResponse struct {
	Status string `json:"status"`
}
