package dispatch

import (
	"fmt"
	"math"
	"sort"

	"github.com/fib-lab/traffic-dispatcher/internal/container"
	"github.com/fib-lab/traffic-dispatcher/internal/kinematics"
	"github.com/fib-lab/traffic-dispatcher/internal/priority"
	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

// Priority is the default dispatch algorithm: cars leaving a junction
// resume their road's recommended speed, cars approaching a junction are
// admitted one at a time by a segment-exclusion controller scored by
// Scorer, and all other queued cars are advanced by the kinematics solver.
type Priority struct {
	Scorer *priority.Scorer
}

func (Priority) Name() string { return "priority" }

func (p Priority) Dispatch(cars []*Car, junctions map[string]*topology.Junction, dt float64, hp Hyperparams) error {
	hp = hp.WithDefaults()
	scorer := p.Scorer
	if scorer == nil {
		scorer = priority.NewScorer()
	}

	leaving := make(map[string][]*Car)
	approaching := make(map[string][]*Car)
	for _, c := range cars {
		if c.NextJunctionID == "" {
			leaving[c.RoadID] = append(leaving[c.RoadID], c)
			continue
		}
		approaching[c.NextJunctionID] = append(approaching[c.NextJunctionID], c)
	}

	// Step 2: leaving cars resume their road's recommended speed.
	for _, bucket := range leaving {
		for _, c := range bucket {
			if c.Road != nil {
				c.Speed = c.Road.RecommendedSpeed
			}
		}
	}

	for jid, cs := range approaching {
		j, ok := junctions[jid]
		if !ok {
			continue
		}

		occupantPresent := false
		perRoad := make(map[string][]*Car)
		for _, c := range cs {
			if j.IsPointInside(c.X, c.Y) {
				occupantPresent = true
				continue
			}
			perRoad[c.RoadID] = append(perRoad[c.RoadID], c)
		}

		for _, bucket := range perRoad {
			sort.Slice(bucket, func(i, k int) bool {
				return distanceTo(bucket[i], j) < distanceTo(bucket[k], j)
			})
		}

		if !occupantPresent {
			if err := runAdmission(perRoad, j, hp, scorer); err != nil {
				return err
			}
		}

		if err := runRoadFollowing(perRoad, j, dt, hp, occupantPresent); err != nil {
			return err
		}
	}

	return nil
}

// distanceTo is the plain (non-squared) Euclidean distance from c to j's
// center. Unlike FIFO's queue ordering it cannot stay squared, because the
// same value feeds the buffer-zone and slowdown-zone comparisons.
func distanceTo(c *Car, j *topology.Junction) float64 {
	return math.Hypot(c.X-j.X, c.Y-j.Y)
}

// runAdmission grants junction entry under segment exclusion. Candidates
// are the leader of each road bucket within the buffer zone; the set is
// fixed at the start of the round and drained, never replenished.
func runAdmission(perRoad map[string][]*Car, j *topology.Junction, hp Hyperparams, scorer *priority.Scorer) error {
	// Segment indices are absolute over the ring, not rotated to the
	// admitted car's entry road: every admission claims [0, w), so any
	// later admission of equal or greater width conflicts.
	taken := make(map[int]bool)

	var candidates []*Car
	for _, bucket := range perRoad {
		if len(bucket) == 0 {
			continue
		}
		lead := bucket[0]
		if distanceTo(lead, j) <= hp.JunctionBufferZone {
			candidates = append(candidates, lead)
		}
	}

	// Nothing a grant or refusal touches feeds back into the remaining
	// candidates' scores (queue lengths, wait times and speeds are all
	// fixed for the tick), so picking the highest-scoring remaining
	// candidate each round is a max-heap drain rather than a full resort.
	queue := container.NewPriorityQueue[*Car]()
	for _, c := range candidates {
		s, err := scoreFor(c, perRoad, j, scorer)
		if err != nil {
			return err
		}
		queue.HeapPush(c, -s)
	}

	for queue.Len() > 0 {
		c, _ := queue.HeapPop()

		w := j.CrossingSegmentsCount(c.RoadID, c.TargetRoadID)

		conflict := false
		for s := 0; s < w; s++ {
			if taken[s] {
				conflict = true
				break
			}
		}

		if !conflict {
			if c.Road != nil {
				c.Speed = c.Road.RecommendedSpeed
			}
			for s := 0; s < w; s++ {
				taken[s] = true
			}
		} else {
			c.Speed = 0
		}
	}

	return nil
}

func scoreFor(c *Car, perRoad map[string][]*Car, j *topology.Junction, scorer *priority.Scorer) (float64, error) {
	bucket := perRoad[c.RoadID]
	s, err := scorer.Score(priority.Attributes{
		QueueLengthAhead: float64(len(bucket) - 1),
		JunctionSegments: float64(j.CrossingSegmentsCount(c.RoadID, c.TargetRoadID)),
		WaitTime:         c.SecondsInTraffic,
		CurrentSpeed:     c.Speed,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCombineMode, err)
	}
	return s, nil
}

// runRoadFollowing advances every car in each road bucket that was not an
// admission candidate this tick, chained off the previous car's
// post-decision speed and distance. A bucket leader that was a candidate
// keeps the speed admission gave it, whether granted or refused.
func runRoadFollowing(perRoad map[string][]*Car, j *topology.Junction, dt float64, hp Hyperparams, occupantPresent bool) error {
	for _, bucket := range perRoad {
		if len(bucket) == 0 {
			continue
		}

		var road *topology.Road
		for _, c := range bucket {
			if c.Road != nil {
				road = c.Road
				break
			}
		}

		startIdx := 0
		hasRealLeader := false
		prevSpeed := 0.0
		if road != nil {
			prevSpeed = road.RecommendedSpeed
		}
		prevDistance := 0.0

		if !occupantPresent && distanceTo(bucket[0], j) <= hp.JunctionBufferZone {
			prevSpeed = bucket[0].Speed
			startIdx = 1
			hasRealLeader = true
		}

		for i := startIdx; i < len(bucket); i++ {
			c := bucket[i]
			d := distanceTo(c, j)
			dMax := d - prevDistance

			vLim := 0.0
			if c.Road != nil {
				vLim = c.Road.RecommendedSpeed
			}
			if d <= hp.SlowdownZone {
				vLim *= hp.SlowdownRate
			}

			// The very first car considered in a bucket that had no real
			// admitted leader (i.e. it was never close enough to be an
			// admission candidate) has nothing ahead of it to "inherit"
			// speed from, so it always goes through the solver rather than
			// the leader-is-faster shortcut below.
			if i == startIdx && !hasRealLeader {
				c.Speed = kinematics.MaxTargetSpeed(dt, dMax, vLim, c.Speed, c.Acceleration, c.Breaking)
			} else if prevSpeed > c.Speed {
				c.Speed = prevSpeed
			} else {
				c.Speed = kinematics.MaxTargetSpeed(dt, dMax, vLim, c.Speed, c.Acceleration, c.Breaking)
			}

			prevSpeed = c.Speed
			prevDistance = d
		}
	}

	return nil
}
