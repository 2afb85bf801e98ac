package value

import (
	"errors"
	"fmt"
	"math"
)

// RangeDefinition желаемый диапазон показателя и доля предупредительной зоны.
type RangeDefinition struct {
	Low        float64 `json:"low"         yaml:"low"`
	High       float64 `json:"high"        yaml:"high"`
	WarnFactor float64 `json:"warn_factor" yaml:"warn_factor"`
}

// AcceptableLow нижняя граница зоны slightly_low. Знак low не корректируется.
func (r RangeDefinition) AcceptableLow() float64 {
	return r.Low - r.WarnFactor*r.Low
}

// AcceptableHigh верхняя граница зоны slightly_high.
func (r RangeDefinition) AcceptableHigh() float64 {
	return r.High + r.WarnFactor*r.High
}

// Validate проверяет предусловия классификатора. Вызывается при загрузке
// таблицы диапазонов, сам классификатор их не перепроверяет.
func (r RangeDefinition) Validate() error {
	for name, v := range map[string]float64{"low": r.Low, "high": r.High, "warn_factor": r.WarnFactor} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}

	if r.Low > r.High {
		return fmt.Errorf("low %v is greater than high %v", r.Low, r.High)
	}

	if r.WarnFactor < 0 {
		return errors.New("warn_factor must not be negative")
	}

	return nil
}

// RangeTable таблица желаемых диапазонов по показателям.
type RangeTable map[PoolField]RangeDefinition

// Lookup возвращает диапазон показателя; ok=false означает отсутствие определения.
func (t RangeTable) Lookup(field PoolField) (RangeDefinition, bool) {
	r, ok := t[field]
	return r, ok
}

// DefaultRangeTable исходные диапазоны, которыми заполняется пустая база.
func DefaultRangeTable() RangeTable {
	return RangeTable{
		FieldFreeChlorine:     {Low: 1.0, High: 3.0, WarnFactor: 0.10},
		FieldCombinedChlorine: {Low: 0.0, High: 0.2, WarnFactor: 0.10},
		FieldTotalChlorine:    {Low: 1.0, High: 3.2, WarnFactor: 0.10},
		FieldSaltLevel:        {Low: 4000, High: 6000, WarnFactor: 0.10},
		FieldAlkalinity:       {Low: 80, High: 120, WarnFactor: 0.10},
		FieldPH:               {Low: 7.2, High: 7.8, WarnFactor: 0.10},
		FieldSunscreen:        {Low: 30, High: 50, WarnFactor: 0.10},
		FieldHardness:         {Low: 150, High: 250, WarnFactor: 0.10},
		FieldPhosphates:       {Low: 0, High: 0.2, WarnFactor: 0.20},
		FieldCopper:           {Low: 0, High: 0.2, WarnFactor: 0.10},
	}
}
