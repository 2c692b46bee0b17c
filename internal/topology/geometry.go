package topology

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultEndpointBuffer is the per-segment tolerance used when deciding
// which polyline segment a car is riding: the car counts as "on" a segment
// when its perpendicular distance to it is below this value. Kept tighter
// than DefaultProbeBuffer because by the time an endpoint query runs, the
// road itself is already known.
const DefaultEndpointBuffer = 0.5

// normalizeMod returns x mod m folded into [0, m). Go's math.Mod keeps the
// sign of its first operand (unlike Python's %), so angle arithmetic must
// normalize explicitly to get a usable bearing.
func normalizeMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// GetRoadEndCoordinates resolves which end of its current road a car at
// (x, y) with the given heading (radians) is travelling toward. The road is
// looked up via the spatial index, then the polyline segment under the car
// (perpendicular distance < buffer) supplies the local direction of travel:
// a heading within a quarter turn of the segment direction points at the
// polyline's last point, anything else at its first.
//
// Returns ErrNoRoadForPoint when no road is near (x, y) at all, and
// ErrPointNotOnSegment when a road was found but no individual segment of
// its polyline passes within buffer of the car.
func GetRoadEndCoordinates(network *RoadNetwork, x, y, heading, buffer float64) (orb.Point, error) {
	road, ok := network.GetRoadForPoint(x, y, DefaultProbeBuffer)
	if !ok {
		return orb.Point{}, ErrNoRoadForPoint
	}

	probe := orb.Point{x, y}
	ls := road.Geometry()
	for i := 0; i+1 < len(ls); i++ {
		if planar.DistanceFromSegment(ls[i], ls[i+1], probe) >= buffer {
			continue
		}

		segmentAngle := math.Atan2(ls[i+1][1]-ls[i][1], ls[i+1][0]-ls[i][0])
		delta := normalizeMod(heading-segmentAngle+math.Pi, 2*math.Pi) - math.Pi
		if math.Abs(delta) < math.Pi/2 {
			return road.Last(), nil
		}
		return road.First(), nil
	}

	return orb.Point{}, ErrPointNotOnSegment
}
