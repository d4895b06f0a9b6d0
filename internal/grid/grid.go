package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned for ranges that cannot produce a grid.
var ErrInvalidArgument = errors.New("invalid argument")

// MaxValues caps the number of candidates a single range may expand into.
const MaxValues = 10000

// Range is an inclusive min/max/step triple entered by the user.
type Range struct {
	Min  float64 `json:"min" mapstructure:"min"`
	Max  float64 `json:"max" mapstructure:"max"`
	Step float64 `json:"step" mapstructure:"step"`
}

// Values expands the range. See Generate.
func (r Range) Values() ([]float64, error) {
	return Generate(r.Min, r.Max, r.Step)
}

// Count returns the number of values the range expands into without
// allocating them.
func (r Range) Count() (int, error) {
	if err := check(r.Min, r.Max, r.Step); err != nil {
		return 0, err
	}
	if r.Max < r.Min {
		return 0, nil
	}
	n, err := count(r.Min, r.Max, r.Step)
	return int(n), err
}

// String renders the range as "min..max/step".
func (r Range) String() string {
	return fmt.Sprintf("%g..%g/%g", r.Min, r.Max, r.Step)
}

// Generate returns floor((max-min)/step)+1 candidates starting at min, each
// rounded to one decimal place. The sequence is empty when max < min.
//
// Arithmetic runs in decimal so that ranges like 0.1..0.3/0.1 keep their
// last element instead of losing it to binary drift.
func Generate(min, max, step float64) ([]float64, error) {
	if err := check(min, max, step); err != nil {
		return nil, err
	}
	if max < min {
		return []float64{}, nil
	}

	n, err := count(min, max, step)
	if err != nil {
		return nil, err
	}

	dMin := decimal.NewFromFloat(min)
	dStep := decimal.NewFromFloat(step)
	out := make([]float64, 0, n)
	for i := int64(0); i < n; i++ {
		v := dMin.Add(dStep.Mul(decimal.NewFromInt(i)))
		out = append(out, Round1(v))
	}
	return out, nil
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v decimal.Decimal) float64 {
	return v.Round(1).InexactFloat64()
}

// count returns floor((max-min)/step)+1 for max >= min. The quotient is
// compared in decimal before conversion so huge ranges cannot overflow int64.
func count(min, max, step float64) (int64, error) {
	q := decimal.NewFromFloat(max).Sub(decimal.NewFromFloat(min)).
		Div(decimal.NewFromFloat(step)).Floor()
	if q.GreaterThanOrEqual(decimal.NewFromInt(MaxValues)) {
		return 0, fmt.Errorf("%w: range %g..%g/%g expands to more than %d values",
			ErrInvalidArgument, min, max, step, MaxValues)
	}
	return q.IntPart() + 1, nil
}

func check(min, max, step float64) error {
	for _, v := range []float64{min, max, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: range bounds must be finite", ErrInvalidArgument)
		}
	}
	if step <= 0 {
		return fmt.Errorf("%w: step must be > 0, got %g", ErrInvalidArgument, step)
	}
	return nil
}
