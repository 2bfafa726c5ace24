package settings

import (
	"math"
	"math/rand"
	"testing"
)

func TestNearestStepIsClosest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tables := [][]int{SizeSteps, QualitySteps, {5}, {1, 2, 4, 8, 16}}

	for _, steps := range tables {
		for i := 0; i < 500; i++ {
			value := rng.Float64()*2500 - 200
			got := NearestStep(value, steps)

			member := false
			for _, s := range steps {
				if s == got {
					member = true
				}
				if math.Abs(float64(got)-value) > math.Abs(float64(s)-value) {
					t.Fatalf("NearestStep(%v) = %d but %d is closer", value, got, s)
				}
			}
			if !member {
				t.Fatalf("NearestStep(%v) = %d not in %v", value, got, steps)
			}
		}
	}
}

func TestNearestStepTieKeepsEarlier(t *testing.T) {
	cases := []struct {
		value float64
		steps []int
		want  int
	}{
		{32.5, QualitySteps, 30},
		{97.5, QualitySteps, 95},
		{1100, []int{1000, 1200}, 1000},
		{540, SizeSteps, 480},
		{10, []int{20, 0}, 20},
	}
	for _, tc := range cases {
		if got := NearestStep(tc.value, tc.steps); got != tc.want {
			t.Fatalf("NearestStep(%v, %v) = %d, want %d", tc.value, tc.steps, got, tc.want)
		}
	}
}

func TestNearestStepExamples(t *testing.T) {
	if got := NearestStep(1750, SizeSteps); got != 1600 {
		t.Fatalf("1750 -> %d, want 1600", got)
	}
	if got := NearestStep(1780, SizeSteps); got != 1920 {
		t.Fatalf("1780 -> %d, want 1920", got)
	}
	if got := NearestStep(5000, SizeSteps); got != 2048 {
		t.Fatalf("5000 -> %d, want 2048", got)
	}
	if got := NearestStep(0, QualitySteps); got != 30 {
		t.Fatalf("0 -> %d, want 30", got)
	}
}

func TestNearestStepNonFiniteValues(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, steps := range [][]int{SizeSteps, QualitySteps} {
			if idx := NearestStepIndex(v, steps); idx != 0 {
				t.Fatalf("NearestStepIndex(%v) = %d, want 0", v, idx)
			}
			if got := NearestStep(v, steps); got != steps[0] {
				t.Fatalf("NearestStep(%v) = %d, want %d", v, got, steps[0])
			}
		}
	}
}

func TestNearestStepEmptyTable(t *testing.T) {
	if idx := NearestStepIndex(3, nil); idx != -1 {
		t.Fatalf("index = %d, want -1", idx)
	}
	if got := NearestStep(3.6, nil); got != 4 {
		t.Fatalf("got %d, want 4", got)
	}
}

func TestClampToSteps(t *testing.T) {
	if got := ClampToSteps(50, SizeSteps); got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
	if got := ClampToSteps(1234, SizeSteps); got != 1234 {
		t.Fatalf("got %d, want 1234 (no snapping)", got)
	}
	if got := ClampToSteps(4096, SizeSteps); got != 2048 {
		t.Fatalf("got %d, want 2048", got)
	}
}
