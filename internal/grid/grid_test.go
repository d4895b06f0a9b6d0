package grid

import (
	"errors"
	"math"
	"testing"
)

func equalSlices(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGenerateScenarios(t *testing.T) {
	cases := []struct {
		name           string
		min, max, step float64
		want           []float64
	}{
		{"drop percent", 5.0, 8.0, 1.0, []float64{5, 6, 7, 8}},
		{"hold days", 250, 255, 5, []float64{250, 255}},
		{"single value", 3, 3, 1, []float64{3}},
		{"step overshoots max", 1, 2.5, 1, []float64{1, 2}},
		{"decimal step keeps last", 0.1, 0.3, 0.1, []float64{0.1, 0.2, 0.3}},
		{"rounds output", 1.04, 1.3, 0.13, []float64{1.0, 1.2, 1.3}},
		{"negative bounds", -2, 0, 1, []float64{-2, -1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Generate(tc.min, tc.max, tc.step)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalSlices(got, tc.want) {
				t.Fatalf("Generate(%g, %g, %g) = %v, want %v", tc.min, tc.max, tc.step, got, tc.want)
			}
		})
	}
}

func TestGenerateEmptyWhenMinAboveMax(t *testing.T) {
	for _, step := range []float64{0.1, 1, 50} {
		got, err := Generate(8, 5, step)
		if err != nil {
			t.Fatalf("step %g: unexpected error: %v", step, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("step %g: want empty non-nil slice, got %#v", step, got)
		}
	}
}

func TestGenerateRejectsNonPositiveStep(t *testing.T) {
	for _, step := range []float64{0, -1, -0.5} {
		_, err := Generate(1, 5, step)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("step %g: want ErrInvalidArgument, got %v", step, err)
		}
	}
	// Bad step is rejected even when the range itself would be empty.
	if _, err := Generate(5, 1, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument for empty range with zero step, got %v", err)
	}
}

func TestGenerateRejectsNonFinite(t *testing.T) {
	if _, err := Generate(math.NaN(), 1, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("NaN min: got %v", err)
	}
	if _, err := Generate(0, math.Inf(1), 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Inf max: got %v", err)
	}
}

func TestGenerateRejectsHugeGrid(t *testing.T) {
	ranges := []Range{
		{Min: 0, Max: 1e6, Step: 0.1},
		{Min: 0, Max: 1e19, Step: 1},
		{Min: 0, Max: 3e19, Step: 1},
		{Min: 0, Max: 1.8446744073709552e19, Step: 1},
		{Min: 0, Max: 1e30, Step: 1e-10},
		{Min: -1e300, Max: 1e300, Step: 1},
	}
	for _, r := range ranges {
		if _, err := r.Values(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: Values() = %v, want ErrInvalidArgument", r, err)
		}
		if n, err := r.Count(); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: Count() = %d, %v, want ErrInvalidArgument", r, n, err)
		}
	}
}

func TestGenerateAtMaxValues(t *testing.T) {
	got, err := Generate(0, MaxValues-1, 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(got) != MaxValues || got[len(got)-1] != MaxValues-1 {
		t.Fatalf("len = %d last = %g", len(got), got[len(got)-1])
	}
	if _, err := Generate(0, MaxValues, 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("one past the cap: %v", err)
	}
}

func TestGenerateCountAndEndpoints(t *testing.T) {
	ranges := []Range{
		{Min: 0, Max: 10, Step: 3},
		{Min: 2.5, Max: 12, Step: 0.5},
		{Min: 1, Max: 100, Step: 7},
		{Min: 0.2, Max: 0.9, Step: 0.1},
	}
	for _, r := range ranges {
		got, err := r.Values()
		if err != nil {
			t.Fatalf("%s: %v", r, err)
		}
		want := int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1
		if len(got) != want {
			t.Fatalf("%s: len = %d, want %d", r, len(got), want)
		}
		n, err := r.Count()
		if err != nil || n != want {
			t.Fatalf("%s: Count() = %d, %v; want %d", r, n, err, want)
		}
		if got[0] != math.Round(r.Min*10)/10 {
			t.Fatalf("%s: first = %g", r, got[0])
		}
		last := math.Round((r.Min+float64(want-1)*r.Step)*10) / 10
		if got[len(got)-1] != last {
			t.Fatalf("%s: last = %g, want %g", r, got[len(got)-1], last)
		}
	}
}
