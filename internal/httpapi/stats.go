package httpapi

import (
	"github.com/montanaflynn/stats"

	"github.com/fib-lab/traffic-dispatcher/internal/dispatch"
)

// logTickStats emits per-tick fleet statistics at debug level: mean/median
// output speed and the 90th percentile accumulated wait time. Purely
// observational; never influences dispatch outcomes.
func logTickStats(algorithmName string, cars []*dispatch.Car) {
	if len(cars) == 0 {
		return
	}

	speeds := make(stats.Float64Data, len(cars))
	waits := make(stats.Float64Data, len(cars))
	for i, c := range cars {
		speeds[i] = c.Speed
		waits[i] = c.SecondsInTraffic
	}

	meanSpeed, err := speeds.Mean()
	if err != nil {
		return
	}
	medianSpeed, err := speeds.Median()
	if err != nil {
		return
	}
	p90Wait, err := waits.Percentile(90)
	if err != nil {
		return
	}

	log.WithField("algorithm", algorithmName).
		WithField("cars", len(cars)).
		WithField("mean_speed", meanSpeed).
		WithField("median_speed", medianSpeed).
		WithField("p90_wait", p90Wait).
		Debug("tick complete")
}
