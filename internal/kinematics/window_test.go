package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Pinned values hand-computed from the bounded binary search: one case per
// exit path (iteration cap, interval collapse, close-enough tolerance).
func TestAccelerateToFitWindowPinnedValues(t *testing.T) {
	cases := []struct {
		name                              string
		vCurr, dt, dist, vLimit, a, brake float64
		want                              float64
	}{
		// Narrows to [1.875, 2.1875] over five iterations, then returns
		// the midpoint of the final bounds.
		{"iteration cap", 0, 1, 5, 10, 2, 4, 2.03125},
		// low reaches 0.9375, so low*(1+tol) > high collapses the
		// interval on the fifth iteration.
		{"interval collapse", 0, 10, 1000, 1, 1, 1, 0.96875},
		// traveled = 3.765625 lands inside the 10% tolerance band of
		// dist = 4.
		{"close enough", 4, 1, 4, 8, 2, 2, 3.75},
	}

	for _, tc := range cases {
		got := accelerateToFitWindow(tc.vCurr, tc.dt, tc.dist, tc.vLimit, tc.a, tc.brake)
		assert.InDelta(t, tc.want, got, 1e-12, tc.name)
	}
}
