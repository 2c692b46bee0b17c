package topology

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// RoadConnection is a pseudo-road traversing the junction interior,
// labeled with the two outer roads it joins. Undirected: (a,b) matches
// (b,a).
type RoadConnection struct {
	RoadAID string
	RoadBID string
}

// Matches reports whether this connection joins the given unordered pair
// of road ids.
func (c RoadConnection) Matches(roadAID, roadBID string) bool {
	return (c.RoadAID == roadAID && c.RoadBID == roadBID) ||
		(c.RoadAID == roadBID && c.RoadBID == roadAID)
}

// Junction is an intersection: a center point, a footprint polygon, the
// clockwise ring of roads that touch it, and the pseudo-roads connecting
// them across the interior.
type Junction struct {
	ID               string
	X, Y             float64
	Size             float64
	ConnectedRoadIDs []string // clockwise ring
	RoadConnections  []RoadConnection
	Polygon          orb.Polygon
}

// NewJunction constructs a Junction. When polygon is empty, the
// axis-aligned square [x-size/2, x+size/2] x [y-size/2, y+size/2] is
// derived.
func NewJunction(id string, x, y, size float64, polygon orb.Polygon, connectedRoadIDs []string, connections []RoadConnection) *Junction {
	if len(polygon) == 0 {
		half := size / 2
		ring := orb.Ring{
			{x - half, y - half},
			{x + half, y - half},
			{x + half, y + half},
			{x - half, y + half},
			{x - half, y - half},
		}
		polygon = orb.Polygon{ring}
	}

	return &Junction{
		ID:               id,
		X:                x,
		Y:                y,
		Size:             size,
		ConnectedRoadIDs: connectedRoadIDs,
		RoadConnections:  connections,
		Polygon:          polygon,
	}
}

// Center returns the junction's center point.
func (j *Junction) Center() orb.Point {
	return orb.Point{j.X, j.Y}
}

// IsPointInside reports whether (x, y) falls within the junction's
// footprint polygon.
func (j *Junction) IsPointInside(x, y float64) bool {
	if len(j.Polygon) == 0 {
		return false
	}
	return planar.RingContains(j.Polygon[0], orb.Point{x, y})
}

// RoadConnection looks up the pseudo-road joining the unordered pair of
// road ids, if any.
func (j *Junction) RoadConnection(roadAID, roadBID string) (RoadConnection, bool) {
	for _, c := range j.RoadConnections {
		if c.Matches(roadAID, roadBID) {
			return c, true
		}
	}
	return RoadConnection{}, false
}

// CrossingSegmentsCount returns the number of rotational segments of the
// junction interior a car occupies going from startRoadID to targetRoadID.
// Ring order matters: this is a directed count over the clockwise ring,
// not a symmetric shortest-arc measure, so CrossingSegmentsCount(a,b) +
// CrossingSegmentsCount(b,a) == len(ring) for any connected pair.
func (j *Junction) CrossingSegmentsCount(startRoadID, targetRoadID string) int {
	if len(j.ConnectedRoadIDs) == 0 {
		return 0
	}

	startIndex, targetIndex := -1, -1
	for i, id := range j.ConnectedRoadIDs {
		if id == startRoadID {
			startIndex = i
		}
		if id == targetRoadID {
			targetIndex = i
		}
	}
	if startIndex == -1 || targetIndex == -1 {
		return 0
	}
	if targetIndex >= startIndex {
		return targetIndex - startIndex
	}
	return len(j.ConnectedRoadIDs) - (startIndex - targetIndex)
}
