package classifier_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"home_maintenance/internal/domain/service/classifier"
	"home_maintenance/internal/domain/value"
	"home_maintenance/pkg/tests"
)

func TestClassifyValidationData(t *testing.T) {
	rq := require.New(t)

	ph := value.RangeDefinition{Low: 7.2, High: 7.8, WarnFactor: 0.10}

	testCases := []struct {
		value float64
		want  value.Status
	}{
		{value: 7.6, want: value.StatusInRange},
		{value: 8.0, want: value.StatusSlightlyHigh},
		{value: 9.0, want: value.StatusHigh},
		{value: 7.0, want: value.StatusSlightlyLow},
		{value: 6.0, want: value.StatusLow},
	}

	for _, tc := range testCases {
		rq.Equal(tc.want, classifier.Classify(tc.value, ph), "value=%v", tc.value)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	r := value.RangeDefinition{Low: 80, High: 120, WarnFactor: 0.10}

	testCases := []struct {
		name  string
		value float64
		want  value.Status
	}{
		{name: "low edge", value: 80, want: value.StatusInRange},
		{name: "high edge", value: 120, want: value.StatusInRange},
		{name: "just above high", value: math.Nextafter(120, math.Inf(1)), want: value.StatusSlightlyHigh},
		{name: "acceptable high", value: r.AcceptableHigh(), want: value.StatusSlightlyHigh},
		{name: "past acceptable high", value: math.Nextafter(r.AcceptableHigh(), math.Inf(1)), want: value.StatusHigh},
		{name: "just below low", value: math.Nextafter(80, math.Inf(-1)), want: value.StatusSlightlyLow},
		{name: "acceptable low", value: r.AcceptableLow(), want: value.StatusSlightlyLow},
		{name: "past acceptable low", value: math.Nextafter(r.AcceptableLow(), math.Inf(-1)), want: value.StatusLow},
		{name: "zero", value: 0, want: value.StatusLow},
		{name: "negative", value: -5, want: value.StatusLow},
		{name: "NaN", value: math.NaN(), want: value.StatusUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, classifier.Classify(tc.value, r))
		})
	}
}

func TestClassifyZeroLow(t *testing.T) {
	rq := require.New(t)

	// Фосфаты: low=0, поэтому зоны slightly_low нет.
	r := value.RangeDefinition{Low: 0, High: 0.2, WarnFactor: 0.20}

	rq.Equal(value.StatusInRange, classifier.Classify(0, r))
	rq.Equal(value.StatusInRange, classifier.Classify(0.172, r))
	rq.Equal(value.StatusSlightlyHigh, classifier.Classify(0.24, r))
	rq.Equal(value.StatusHigh, classifier.Classify(0.25, r))
	rq.Equal(value.StatusLow, classifier.Classify(-0.01, r))
}

func TestClassifyNegativeBounds(t *testing.T) {
	rq := require.New(t)

	// Отрицательные границы считаются буквально: зона сжимается к нулю.
	r := value.RangeDefinition{Low: -10, High: -2, WarnFactor: 0.5}

	rq.Equal(value.StatusInRange, classifier.Classify(-10, r))
	rq.Equal(value.StatusInRange, classifier.Classify(-2, r))
	rq.Equal(value.StatusHigh, classifier.Classify(-1.5, r))
	rq.Equal(value.StatusLow, classifier.Classify(-10.5, r))
}

func TestClassifyField(t *testing.T) {
	rq := require.New(t)

	ranges := value.RangeTable{
		value.FieldPH: {Low: 7.2, High: 7.8, WarnFactor: 0.10},
	}

	rq.Equal(value.StatusSlightlyHigh, classifier.ClassifyField(value.FieldPH, 8.0, ranges))
	rq.Equal(value.StatusUnknown, classifier.ClassifyField(value.FieldCopper, 0.1, ranges))
	rq.Equal(value.StatusUnknown, classifier.ClassifyField(value.FieldCopper, 0.1, nil))
}

func TestClassifyProperties(t *testing.T) {
	rq := require.New(t)
	random := tests.NewRandomizer()
	t.Logf("seed %d", random.Seed)

	const iterations = 2000

	for i := 0; i < iterations; i++ {
		low := random.FloatIn(0.001, 100)
		high := low + random.FloatIn(0, 100)
		r := value.RangeDefinition{Low: low, High: high, WarnFactor: random.FloatIn(0.01, 0.51)}

		rq.Equal(value.StatusInRange, classifier.Classify(low, r), "low %+v", r)
		rq.Equal(value.StatusInRange, classifier.Classify(high, r), "high %+v", r)
		rq.Equal(value.StatusSlightlyHigh, classifier.Classify(r.AcceptableHigh(), r), "acceptable high %+v", r)

		// Уход от диапазона не приближает статус к in_range.
		step := random.FloatIn(0.001, 10)
		prev := classifier.Classify(high, r)

		for v := high + step; v < high+200; v += step {
			got := classifier.Classify(v, r)
			rq.GreaterOrEqual(got.Severity(), prev.Severity(), "v=%v %+v", v, r)
			rq.NotEqual(value.StatusUnknown, got)
			prev = got
		}

		prev = classifier.Classify(low, r)

		for v := low - step; v > low-200; v -= step {
			got := classifier.Classify(v, r)
			rq.GreaterOrEqual(got.Severity(), prev.Severity(), "v=%v %+v", v, r)
			rq.NotEqual(value.StatusUnknown, got)
			prev = got
		}
	}
}
