package topology

import "errors"

// ErrNoRoadForPoint indicates a point probe found no road within the
// buffer distance. Recoverable: the caller leaves the car's road unset and
// skips it when grouping by junction.
var ErrNoRoadForPoint = errors.New("topology: no road found within buffer of point")

// ErrPointNotOnSegment indicates a road was found near the point, but no
// individual segment of its polyline passes within the segment buffer, so
// no local direction of travel could be derived.
var ErrPointNotOnSegment = errors.New("topology: point does not lie on any road segment within the buffer")

// ErrNoJunctions describes a nearest-junction query made against an empty
// junction set. NearestJunction reports that case with a false result and
// does not return this error.
var ErrNoJunctions = errors.New("topology: no junctions available")
