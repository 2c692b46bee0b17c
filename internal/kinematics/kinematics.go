// Package kinematics computes the largest safe target speed a car may
// attempt over the next tick, given its current speed, the distance
// remaining to a constraint (a junction, a slower leader, a speed-zone
// change), the tick duration, and its acceleration/braking capacity.
package kinematics

import "math"

// DefaultBreakEpsilon is the leeway added to the computed braking distance
// to account for discretization error between ticks.
const DefaultBreakEpsilon = 0.25

const (
	binSearchMaxIterations = 5
	binSearchTolerance     = 0.1
)

// RequiredDistanceToSpeed returns the constant-acceleration distance needed
// to change speed from v0 to v1 using acceleration accel when speeding up
// and brake when slowing down.
//
// Returns +Inf when the required rate is non-positive (the car cannot make
// the change at all), and 0 when v1 == v0.
func RequiredDistanceToSpeed(v0, v1, accel, brake float64) float64 {
	if v1 == v0 {
		return 0
	}

	accelerating := v1 > v0
	if accelerating && accel <= 0 {
		return math.Inf(1)
	}
	if !accelerating && brake <= 0 {
		return math.Inf(1)
	}

	a := brake
	if accelerating {
		a = accel
	}
	return math.Abs(v1*v1-v0*v0) / (2 * a)
}

// accelerateToFitWindow searches for the target speed v in [0, vLimit] such
// that accelerating from vCurr to v and then cruising at v consumes dt
// seconds while covering dist. Bounded binary search: capped iterations,
// relative tolerance, early-exit on interval collapse.
func accelerateToFitWindow(vCurr, dt, dist, vLimit, accel, brake float64) float64 {
	low, high := 0.0, vLimit

	for itr := 0; itr < binSearchMaxIterations; itr++ {
		mid := (low + high) / 2

		if low*(1+binSearchTolerance) > high {
			return mid
		}

		accelDist := RequiredDistanceToSpeed(vCurr, mid, accel, brake)
		accelTime := accelDist / ((vCurr + mid) / 2)

		if accelTime > dt || accelDist > dist {
			high = mid
			continue
		}

		cruiseTime := dt - accelTime
		cruiseDist := mid * cruiseTime
		traveled := accelDist + cruiseDist

		if traveled < dist {
			if dist*(1-binSearchTolerance) < traveled {
				return mid
			}
			low = mid
			continue
		}
		high = mid
	}

	// One final refinement from the post-narrowing bounds: the iteration
	// cap bounds the number of test-and-narrow steps, not the midpoint
	// computation itself.
	return (low + high) / 2
}

// MaxTargetSpeed returns the largest speed the car may attempt this tick:
//
//  1. dt <= 0 is a defensive slow-stop: returns 0.
//  2. Fast path: if the car is below the limit and a full tick at the limit
//     still fits inside dMax, return the limit directly.
//  3. Compute the guaranteed-stop braking distance (with epsilon leeway);
//     refuse to proceed (return 0) if it already exceeds dMax.
//  4. Otherwise solve for the speed that covers the remaining distance
//     (dMax minus the braking reserve) within dt.
//  5. Clamp to [0, vLimit].
func MaxTargetSpeed(dt, dMax, vLimit, vCurr, accelCap, brakeCap float64) float64 {
	return MaxTargetSpeedEpsilon(dt, dMax, vLimit, vCurr, accelCap, brakeCap, DefaultBreakEpsilon)
}

// MaxTargetSpeedEpsilon is MaxTargetSpeed with an explicit break-epsilon,
// exposed so callers can tune the braking-reserve leeway.
func MaxTargetSpeedEpsilon(dt, dMax, vLimit, vCurr, accelCap, brakeCap, epsilon float64) float64 {
	if dt <= 0 {
		return 0
	}

	if vCurr < vLimit && vLimit*dt < dMax {
		return vLimit
	}

	brakeDist := RequiredDistanceToSpeed(vLimit, 0, 0, brakeCap) * (1 + epsilon)
	if brakeDist >= dMax {
		return 0
	}

	target := accelerateToFitWindow(vCurr, dt, dMax-brakeDist, vLimit, accelCap, brakeCap)

	if target < 0 {
		target = 0
	}
	if target > vLimit {
		target = vLimit
	}
	return target
}
