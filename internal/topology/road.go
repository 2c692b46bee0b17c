package topology

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Road is a static topology entity: an undirected polyline carrying a
// recommended speed, optionally anchored to junctions at either end. The
// polyline is cached as an orb.LineString for projection and distance
// queries.
type Road struct {
	ID               string
	RecommendedSpeed float64
	JunctionStartID  string // empty when unset
	JunctionEndID    string // empty when unset

	geometry orb.LineString
}

// NewRoad validates and constructs a Road from its polyline. The polyline
// must carry at least two points.
func NewRoad(id string, polyline []orb.Point, recommendedSpeed float64, junctionStartID, junctionEndID string) (*Road, error) {
	if id == "" || len(id) > 64 {
		return nil, fmt.Errorf("topology: road id must be 1..64 chars, got %q", id)
	}
	if len(polyline) < 2 {
		return nil, fmt.Errorf("topology: road %q polyline must have at least 2 points, got %d", id, len(polyline))
	}
	if recommendedSpeed < 0 {
		return nil, fmt.Errorf("topology: road %q recommended_speed must be non-negative, got %f", id, recommendedSpeed)
	}

	ls := make(orb.LineString, len(polyline))
	copy(ls, polyline)

	return &Road{
		ID:               id,
		RecommendedSpeed: recommendedSpeed,
		JunctionStartID:  junctionStartID,
		JunctionEndID:    junctionEndID,
		geometry:         ls,
	}, nil
}

// Geometry returns the road's cached line-string geometry.
func (r *Road) Geometry() orb.LineString {
	return r.geometry
}

// Bound returns the axis-aligned bounding box of the road's geometry, used
// to seed the spatial index.
func (r *Road) Bound() orb.Bound {
	return r.geometry.Bound()
}

// First returns the polyline's first point.
func (r *Road) First() orb.Point {
	return r.geometry[0]
}

// Last returns the polyline's last point.
func (r *Road) Last() orb.Point {
	return r.geometry[len(r.geometry)-1]
}
