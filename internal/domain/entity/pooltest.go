package entity

import (
	"cloud.google.com/go/civil"

	"home_maintenance/internal/domain/service/classifier"
	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/internal/domain/value"
)

// PoolTest один тест воды. NextTestDate и Classifications производные:
// пересчитываются при замене даты, показаний или таблицы диапазонов.
type PoolTest struct {
	ID           int64          `json:"id"`
	TestDate     civil.Date     `json:"test_date"`
	Readings     value.Readings `json:"readings"`
	ClarityNotes string         `json:"clarity_notes"`
	ActionsTaken string         `json:"actions_taken"`

	NextTestDate    civil.Date                       `json:"next_test_date"`
	Classifications map[value.PoolField]value.Status `json:"classifications"`
}

func NewPoolTest(testDate civil.Date, readings value.Readings) *PoolTest {
	t := &PoolTest{
		TestDate: testDate,
		Readings: readings,
	}
	t.NextTestDate = schedule.NextPlannedDate(testDate)

	return t
}

// SetTestDate заменяет дату теста и пересчитывает плановую дату.
func (t *PoolTest) SetTestDate(d civil.Date) {
	t.TestDate = d
	t.NextTestDate = schedule.NextPlannedDate(d)
}

// SetReadings заменяет показания целиком; классификация сбрасывается
// до следующего ApplyRanges.
func (t *PoolTest) SetReadings(readings value.Readings) {
	t.Readings = readings
	t.Classifications = nil
}

// ApplyRanges классифицирует все показатели по текущей таблице.
func (t *PoolTest) ApplyRanges(ranges value.RangeTable) {
	t.Classifications = ClassifyAll(t.Readings, ranges)
}

// Schedule плановая дата следующего теста.
func (t *PoolTest) Schedule() civil.Date {
	return schedule.NextPlannedDate(t.TestDate)
}

// Status статус показателя; unknown, если классификация не выполнялась.
func (t *PoolTest) Status(field value.PoolField) value.Status {
	if s, ok := t.Classifications[field]; ok {
		return s
	}

	return value.StatusUnknown
}

// OutOfRange показатели со статусом не in_range в порядке отображения.
// Показатели без диапазона не считаются отклонением.
func (t *PoolTest) OutOfRange() []value.PoolField {
	var fields []value.PoolField

	for _, f := range value.AllPoolFields() {
		s, ok := t.Classifications[f]
		if !ok || s == value.StatusInRange || s == value.StatusUnknown {
			continue
		}
		fields = append(fields, f)
	}

	return fields
}

// ClassifyAll классифицирует каждый показатель независимо. Показатель без
// определения диапазона получает unknown.
func ClassifyAll(readings value.Readings, ranges value.RangeTable) map[value.PoolField]value.Status {
	result := make(map[value.PoolField]value.Status, len(readings))

	for field, v := range readings {
		result[field] = classifier.ClassifyField(field, v, ranges)
	}

	return result
}
