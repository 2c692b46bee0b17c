package topology

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DefaultProbeBuffer is the circular buffer radius used to resolve a car's
// current road from its (x, y) position.
const DefaultProbeBuffer = 1.0

// rtreeBoundPad keeps degenerate (perfectly horizontal/vertical) road
// bounding boxes from collapsing to zero width, which some R-tree
// implementations reject.
const rtreeBoundPad = 1e-6

// roadSpatial adapts *Road to rtreego.Spatial so roads can be indexed by
// their bounding box.
type roadSpatial struct {
	road *Road
}

func (rs *roadSpatial) Bounds() *rtreego.Rect {
	b := rs.road.Bound()
	width := (b.Max[0] - b.Min[0]) + 2*rtreeBoundPad
	height := (b.Max[1] - b.Min[1]) + 2*rtreeBoundPad
	rect, err := rtreego.NewRect(
		rtreego.Point{b.Min[0] - rtreeBoundPad, b.Min[1] - rtreeBoundPad},
		[]float64{width, height},
	)
	if err != nil {
		// Bound() always returns Min <= Max, so a negative-length rect
		// cannot occur; this would only fire on a malformed road.
		panic(err)
	}
	return rect
}

// RoadNetwork is an unordered collection of roads plus a bulk-rebuilt
// R-tree spatial index over their geometries.
type RoadNetwork struct {
	roads map[string]*Road
	order []string
	tree  *rtreego.Rtree
}

// NewRoadNetwork returns an empty network.
func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{
		roads: make(map[string]*Road),
		tree:  rtreego.NewTree(2, 25, 50),
	}
}

// AddRoad inserts a single road and rebuilds the spatial index.
func (n *RoadNetwork) AddRoad(r *Road) {
	n.AddRoads([]*Road{r})
}

// AddRoads inserts roads in bulk and rebuilds the spatial index once.
// Topology mutations are rare relative to dispatch ticks, so the index is
// always rebuilt eagerly rather than maintained incrementally.
func (n *RoadNetwork) AddRoads(roads []*Road) {
	for _, r := range roads {
		if _, exists := n.roads[r.ID]; !exists {
			n.order = append(n.order, r.ID)
		}
		n.roads[r.ID] = r
	}
	n.rebuild()
}

func (n *RoadNetwork) rebuild() {
	tree := rtreego.NewTree(2, 25, 50)
	for _, id := range n.order {
		tree.Insert(&roadSpatial{road: n.roads[id]})
	}
	n.tree = tree
}

// Get looks up a road by id.
func (n *RoadNetwork) Get(id string) (*Road, bool) {
	r, ok := n.roads[id]
	return r, ok
}

// Len returns the number of roads in the network.
func (n *RoadNetwork) Len() int {
	return len(n.roads)
}

// Roads returns the roads in insertion order.
func (n *RoadNetwork) Roads() []*Road {
	out := make([]*Road, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.roads[id])
	}
	return out
}

// GetRoadForPoint resolves the road carrying the probe point (x, y):
// candidates are roads whose bounding box intersects a bufferRadius square
// around the probe, refined by exact distance-to-geometry to pick the
// closest one. Returns false if no road's geometry comes within
// bufferRadius of the probe.
func (n *RoadNetwork) GetRoadForPoint(x, y, bufferRadius float64) (*Road, bool) {
	rect, err := rtreego.NewRect(
		rtreego.Point{x - bufferRadius, y - bufferRadius},
		[]float64{2 * bufferRadius, 2 * bufferRadius},
	)
	if err != nil {
		return nil, false
	}

	candidates := n.tree.SearchIntersect(rect)
	if len(candidates) == 0 {
		return nil, false
	}

	probe := orb.Point{x, y}
	var best *Road
	bestDist := math.Inf(1)
	for _, c := range candidates {
		rs := c.(*roadSpatial)
		d := distanceToLineString(probe, rs.road.geometry)
		if d > bufferRadius {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = rs.road
		}
	}
	return best, best != nil
}

// distanceToLineString returns the minimum perpendicular distance from p to
// any segment of ls.
func distanceToLineString(p orb.Point, ls orb.LineString) float64 {
	best := math.Inf(1)
	for i := 0; i+1 < len(ls); i++ {
		d := planar.DistanceFromSegment(ls[i], ls[i+1], p)
		if d < best {
			best = d
		}
	}
	return best
}

// NearestJunction returns the junction whose center is closest (by squared
// Euclidean distance) to point.
func NearestJunction(junctions []*Junction, point orb.Point) (*Junction, bool) {
	var best *Junction
	bestDist := math.Inf(1)
	for _, j := range junctions {
		d := sqDistance(j.Center(), point)
		if d < bestDist {
			bestDist = d
			best = j
		}
	}
	return best, best != nil
}

func sqDistance(a, b orb.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
