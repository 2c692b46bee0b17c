package dispatch

import (
	"sort"

	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

// FIFO is the legacy dispatch algorithm: cars approaching the same
// junction queue by squared distance, and each follower's speed decays
// linearly off its leader's, floored at fifoFloor regardless of road
// limits.
type FIFO struct{}

func (FIFO) Name() string { return "fifo" }

func (FIFO) Dispatch(cars []*Car, junctions map[string]*topology.Junction, dt float64, hp Hyperparams) error {
	hp = hp.WithDefaults()

	byJunction := make(map[string][]*Car)
	for _, c := range cars {
		if c.NextJunctionID == "" {
			continue
		}
		byJunction[c.NextJunctionID] = append(byJunction[c.NextJunctionID], c)
	}

	for jid, queue := range byJunction {
		j, ok := junctions[jid]
		if !ok {
			continue
		}

		sort.Slice(queue, func(i, k int) bool {
			return sqDistance(queue[i], j) < sqDistance(queue[k], j)
		})

		leaderSpeed := queue[0].Speed
		for i, c := range queue {
			if i == 0 {
				continue
			}
			speed := leaderSpeed - float64(i)*hp.SpeedDecay
			if speed < fifoFloor {
				speed = fifoFloor
			}
			c.Speed = speed
		}
	}
	return nil
}

func sqDistance(c *Car, j *topology.Junction) float64 {
	dx := c.X - j.X
	dy := c.Y - j.Y
	return dx*dx + dy*dy
}
