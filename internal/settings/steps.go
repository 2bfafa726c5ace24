package settings

import "math"

// SizeSteps are the detents of the max-size slider.
var SizeSteps = []int{100, 240, 480, 600, 720, 800, 1000, 1280, 1600, 1920, 2048}

// QualitySteps are the detents of the JPEG quality slider.
var QualitySteps = []int{30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100}

// NearestStepIndex returns the index of the step closest to value. The scan
// runs left to right and only a strictly smaller distance replaces the current
// candidate, so ties resolve to the earlier step. Values that compare to no
// step (NaN) resolve to the first one. It returns -1 for an empty table.
func NearestStepIndex(value float64, steps []int) int {
	if len(steps) == 0 {
		return -1
	}
	idx := 0
	best := math.Abs(float64(steps[0]) - value)
	for i, step := range steps[1:] {
		d := math.Abs(float64(step) - value)
		if d < best {
			idx = i + 1
			best = d
		}
	}
	return idx
}

// NearestStep snaps value to the closest entry of steps. With an empty table
// the value is rounded and returned unchanged.
func NearestStep(value float64, steps []int) int {
	idx := NearestStepIndex(value, steps)
	if idx < 0 {
		return int(math.Round(value))
	}
	return steps[idx]
}

// ClampToSteps limits v to the range spanned by the first and last step
// without snapping it.
func ClampToSteps(v int, steps []int) int {
	if len(steps) == 0 {
		return v
	}
	return clampInt(v, steps[0], steps[len(steps)-1])
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
