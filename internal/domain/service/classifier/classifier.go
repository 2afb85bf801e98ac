// Package classifier относит измерение к одной из пяти зон желаемого диапазона.
package classifier

import "home_maintenance/internal/domain/value"

// Classify оценивает значение относительно диапазона.
//
// Границы low и high входят в in_range, AcceptableHigh входит в slightly_high,
// AcceptableLow входит в slightly_low. Предусловия low <= high и
// warnFactor >= 0 проверяет владелец таблицы диапазонов.
func Classify(v float64, r value.RangeDefinition) value.Status {
	acceptableLow := r.AcceptableLow()
	acceptableHigh := r.AcceptableHigh()

	switch {
	case r.Low <= v && v <= r.High:
		return value.StatusInRange
	case r.High < v && v <= acceptableHigh:
		return value.StatusSlightlyHigh
	case v > acceptableHigh:
		return value.StatusHigh
	case acceptableLow <= v && v < r.Low:
		return value.StatusSlightlyLow
	case v < acceptableLow:
		return value.StatusLow
	}

	// Недостижимо при корректном диапазоне, срабатывает на NaN.
	return value.StatusUnknown
}

// ClassifyField ищет диапазон показателя в таблице и классифицирует значение.
// Показатель без диапазона получает unknown.
func ClassifyField(field value.PoolField, v float64, ranges value.RangeTable) value.Status {
	r, ok := ranges.Lookup(field)
	if !ok {
		return value.StatusUnknown
	}

	return Classify(v, r)
}
