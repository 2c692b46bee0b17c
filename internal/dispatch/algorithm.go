package dispatch

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/fib-lab/traffic-dispatcher/internal/priority"
	"github.com/fib-lab/traffic-dispatcher/internal/topology"
)

// Algorithm mutates the speed field of each car in place for one tick.
// junctions is keyed by junction id and need only contain junctions
// referenced by the cars passed in.
type Algorithm interface {
	Name() string
	Dispatch(cars []*Car, junctions map[string]*topology.Junction, dt float64, hp Hyperparams) error
}

// registry is the case-insensitive name → algorithm lookup. Unknown names
// fall back to FIFO silently.
var registry = map[string]Algorithm{
	"fifo":     FIFO{},
	"priority": Priority{Scorer: priority.NewScorer()},
}

// Resolve looks up an algorithm by name, normalizing case and separators
// (e.g. "PRIORITY" and "Priority" both resolve the same way a plain
// "priority" would, while "Priority-Based" normalizes to "priority_based",
// which is not registered). An unrecognized name resolves to FIFO, never
// an error.
func Resolve(name string) Algorithm {
	key := strings.ToLower(strcase.ToSnake(strings.TrimSpace(name)))
	if alg, ok := registry[key]; ok {
		return alg
	}
	return registry["fifo"]
}
