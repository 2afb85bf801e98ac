package persistence

import (
	"database/sql"
	"fmt"

	"cloud.google.com/go/civil"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/value"
)

// wateredYes/wateredNo значения колонки rainfall.watered.
const (
	wateredYes = "Yes"
	wateredNo  = "No"
)

// desiredRangeSchema строка таблицы desired_ranges.
type desiredRangeSchema struct {
	ItemName   string  `db:"item_name"`
	LowValue   float64 `db:"low_value"`
	HighValue  float64 `db:"high_value"`
	FactorWarn float64 `db:"factor_warn"`
}

func fromRange(field value.PoolField, r value.RangeDefinition) desiredRangeSchema {
	return desiredRangeSchema{
		ItemName:   field.Key(),
		LowValue:   r.Low,
		HighValue:  r.High,
		FactorWarn: r.WarnFactor,
	}
}

func (s desiredRangeSchema) toDomain() (value.PoolField, value.RangeDefinition, error) {
	field, err := value.ParsePoolField(s.ItemName)
	if err != nil {
		return 0, value.RangeDefinition{}, err
	}

	return field, value.RangeDefinition{
		Low:        s.LowValue,
		High:       s.HighValue,
		WarnFactor: s.FactorWarn,
	}, nil
}

// poolTestSchema строка таблицы pool_tests.
type poolTestSchema struct {
	ID               int64          `db:"id"`
	TestDate         string         `db:"test_date"`
	FreeChlorine     float64        `db:"free_chlorine"`
	CombinedChlorine float64        `db:"combined_chlorine"`
	TotalChlorine    float64        `db:"total_chlorine"`
	SaltLevel        float64        `db:"salt_level"`
	Alkalinity       float64        `db:"alkalinity"`
	PH               float64        `db:"ph"`
	Sunscreen        float64        `db:"sunscreen"`
	Hardness         float64        `db:"hardness"`
	Phosphates       float64        `db:"phosphates"`
	Copper           float64        `db:"copper"`
	ClarityNotes     sql.NullString `db:"clarity_notes"`
	ActionsTaken     sql.NullString `db:"actions_taken"`
	NextTestDate     string         `db:"next_test_date"`
}

func fromPoolTest(t *entity.PoolTest) poolTestSchema {
	r := t.Readings

	return poolTestSchema{
		ID:               t.ID,
		TestDate:         t.TestDate.String(),
		FreeChlorine:     r[value.FieldFreeChlorine],
		CombinedChlorine: r[value.FieldCombinedChlorine],
		TotalChlorine:    r[value.FieldTotalChlorine],
		SaltLevel:        r[value.FieldSaltLevel],
		Alkalinity:       r[value.FieldAlkalinity],
		PH:               r[value.FieldPH],
		Sunscreen:        r[value.FieldSunscreen],
		Hardness:         r[value.FieldHardness],
		Phosphates:       r[value.FieldPhosphates],
		Copper:           r[value.FieldCopper],
		ClarityNotes:     nullString(t.ClarityNotes),
		ActionsTaken:     nullString(t.ActionsTaken),
		NextTestDate:     t.NextTestDate.String(),
	}
}

func (s poolTestSchema) toDomain() (*entity.PoolTest, error) {
	testDate, err := civil.ParseDate(s.TestDate)
	if err != nil {
		return nil, fmt.Errorf("pool test %d: test_date: %w", s.ID, err)
	}

	nextDate, err := civil.ParseDate(s.NextTestDate)
	if err != nil {
		return nil, fmt.Errorf("pool test %d: next_test_date: %w", s.ID, err)
	}

	return &entity.PoolTest{
		ID:       s.ID,
		TestDate: testDate,
		Readings: value.Readings{
			value.FieldFreeChlorine:     s.FreeChlorine,
			value.FieldCombinedChlorine: s.CombinedChlorine,
			value.FieldTotalChlorine:    s.TotalChlorine,
			value.FieldSaltLevel:        s.SaltLevel,
			value.FieldAlkalinity:       s.Alkalinity,
			value.FieldPH:               s.PH,
			value.FieldSunscreen:        s.Sunscreen,
			value.FieldHardness:         s.Hardness,
			value.FieldPhosphates:       s.Phosphates,
			value.FieldCopper:           s.Copper,
		},
		ClarityNotes: s.ClarityNotes.String,
		ActionsTaken: s.ActionsTaken.String,
		NextTestDate: nextDate,
	}, nil
}

// rainfallSchema строка таблицы rainfall.
type rainfallSchema struct {
	ID       int64           `db:"id"`
	Date     string          `db:"date"`
	RainMM   sql.NullFloat64 `db:"rain_mm"`
	BomMM    sql.NullFloat64 `db:"bom_mm"`
	Notes    sql.NullString  `db:"notes"`
	Watered  sql.NullString  `db:"watered"`
	Moisture sql.NullFloat64 `db:"moisture"`
}

func fromRainfall(r *entity.RainfallRecord) rainfallSchema {
	watered := wateredNo
	if r.Watered {
		watered = wateredYes
	}

	return rainfallSchema{
		ID:       r.ID,
		Date:     r.Date.String(),
		RainMM:   nullFloat(r.RainMM),
		BomMM:    nullFloat(r.BomMM),
		Notes:    nullString(r.Notes),
		Watered:  sql.NullString{String: watered, Valid: true},
		Moisture: nullFloat(r.Moisture),
	}
}

func (s rainfallSchema) toDomain() (*entity.RainfallRecord, error) {
	date, err := civil.ParseDate(s.Date)
	if err != nil {
		return nil, fmt.Errorf("rainfall %d: date: %w", s.ID, err)
	}

	return &entity.RainfallRecord{
		ID:       s.ID,
		Date:     date,
		RainMM:   floatPtr(s.RainMM),
		BomMM:    floatPtr(s.BomMM),
		Notes:    s.Notes.String,
		Watered:  s.Watered.String == wateredYes,
		Moisture: floatPtr(s.Moisture),
	}, nil
}

type settingSchema struct {
	Key   string         `db:"key"`
	Value sql.NullString `db:"value"`
}

func (s settingSchema) toDomain() entity.Setting {
	return entity.Setting{Key: s.Key, Value: s.Value.String}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}

	v := f.Float64

	return &v
}
