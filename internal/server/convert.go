package server

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/service/pool"
	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/internal/domain/value"
	"home_maintenance/pkg/lox"
	"home_maintenance/pkg/rest"
)

func newRESTColour(s value.Status) rest.Colour {
	c := s.Colour()
	return rest.Colour{Hex: c.Hex, Name: c.Name}
}

func newRESTFieldStatus(field value.PoolField, v *float64, s value.Status) rest.FieldStatus {
	return rest.FieldStatus{
		Field:  field.Key(),
		Column: field.Column(),
		Value:  v,
		Status: s.String(),
		Colour: newRESTColour(s),
	}
}

// newRESTStatuses статусы в порядке отображения показателей.
func newRESTStatuses(readings value.Readings, statuses map[value.PoolField]value.Status) []rest.FieldStatus {
	result := make([]rest.FieldStatus, 0, len(statuses))

	for _, f := range value.AllPoolFields() {
		s, ok := statuses[f]
		if !ok {
			continue
		}

		var v *float64
		if reading, ok := readings[f]; ok {
			v = lo.ToPtr(reading)
		}

		result = append(result, newRESTFieldStatus(f, v, s))
	}

	return result
}

func newRESTReadings(r value.Readings) rest.PoolReadings {
	get := func(f value.PoolField) *float64 {
		v, ok := r[f]
		if !ok {
			return nil
		}
		return lo.ToPtr(v)
	}

	return rest.PoolReadings{
		FreeChlorine:     get(value.FieldFreeChlorine),
		CombinedChlorine: get(value.FieldCombinedChlorine),
		TotalChlorine:    get(value.FieldTotalChlorine),
		SaltLevel:        get(value.FieldSaltLevel),
		Alkalinity:       get(value.FieldAlkalinity),
		PH:               get(value.FieldPH),
		Sunscreen:        get(value.FieldSunscreen),
		Hardness:         get(value.FieldHardness),
		Phosphates:       get(value.FieldPhosphates),
		Copper:           get(value.FieldCopper),
	}
}

// newDomainReadings вызывается после req.Read: все указатели заполнены.
func newDomainReadings(r rest.PoolReadings) value.Readings {
	readings := value.Readings{}

	set := func(f value.PoolField, v *float64) {
		if v != nil {
			readings[f] = *v
		}
	}

	set(value.FieldFreeChlorine, r.FreeChlorine)
	set(value.FieldCombinedChlorine, r.CombinedChlorine)
	set(value.FieldTotalChlorine, r.TotalChlorine)
	set(value.FieldSaltLevel, r.SaltLevel)
	set(value.FieldAlkalinity, r.Alkalinity)
	set(value.FieldPH, r.PH)
	set(value.FieldSunscreen, r.Sunscreen)
	set(value.FieldHardness, r.Hardness)
	set(value.FieldPhosphates, r.Phosphates)
	set(value.FieldCopper, r.Copper)

	return readings
}

// newDomainReadingsMap показатели по названию или колонке.
func newDomainReadingsMap(m map[string]float64) (value.Readings, error) {
	readings := make(value.Readings, len(m))

	for k, v := range m {
		f, err := parsePoolField(k)
		if err != nil {
			return nil, err
		}
		readings[f] = v
	}

	return readings, nil
}

func newRESTPoolTest(t *entity.PoolTest) rest.PoolTest {
	return rest.PoolTest{
		ID:           t.ID,
		TestDate:     t.TestDate.String(),
		Readings:     newRESTReadings(t.Readings),
		ClarityNotes: t.ClarityNotes,
		ActionsTaken: t.ActionsTaken,
		NextTestDate: t.NextTestDate.String(),
		Statuses:     newRESTStatuses(t.Readings, t.Classifications),
		OutOfRange: lox.Map(t.OutOfRange(), func(f value.PoolField) string {
			return f.Key()
		}),
	}
}

func newDomainPoolInput(r rest.PoolTestRequest) (pool.Input, error) {
	date, err := schedule.ParseTestDate(r.TestDate)
	if err != nil {
		return pool.Input{}, err
	}

	return pool.Input{
		TestDate:     date,
		Readings:     newDomainReadings(*r.Readings),
		ClarityNotes: r.ClarityNotes,
		ActionsTaken: r.ActionsTaken,
	}, nil
}

func newRESTRanges(table value.RangeTable) []rest.DesiredRange {
	result := make([]rest.DesiredRange, 0, len(table))

	for _, f := range value.AllPoolFields() {
		def, ok := table.Lookup(f)
		if !ok {
			continue
		}

		result = append(result, rest.DesiredRange{
			Item:           f.Key(),
			Column:         f.Column(),
			Low:            def.Low,
			High:           def.High,
			WarnFactor:     def.WarnFactor,
			AcceptableLow:  def.AcceptableLow(),
			AcceptableHigh: def.AcceptableHigh(),
		})
	}

	return result
}

func newDomainRange(r rest.RangeDefinition) value.RangeDefinition {
	return value.RangeDefinition{
		Low:        lo.FromPtr(r.Low),
		High:       lo.FromPtr(r.High),
		WarnFactor: lo.FromPtr(r.WarnFactor),
	}
}

func newRESTRainfall(r *entity.RainfallRecord) rest.Rainfall {
	out := rest.Rainfall{
		ID:       r.ID,
		Date:     r.Date.String(),
		RainMM:   r.RainMM,
		BomMM:    r.BomMM,
		Notes:    r.Notes,
		Watered:  r.Watered,
		Moisture: r.Moisture,
	}

	if mm, ok := r.EffectiveMM(); ok {
		out.EffectiveMM = lo.ToPtr(mm)
	}

	return out
}

func newDomainRainfall(r rest.RainfallRequest) (*entity.RainfallRecord, error) {
	date, err := schedule.ParseTestDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &entity.RainfallRecord{
		Date:     date,
		RainMM:   r.RainMM,
		BomMM:    r.BomMM,
		Notes:    r.Notes,
		Watered:  r.Watered,
		Moisture: r.Moisture,
	}, nil
}

func newRESTRainfallSummary(s entity.RainfallSummary) rest.RainfallSummary {
	dateString := func(d *civil.Date) *string {
		if d == nil {
			return nil
		}
		return lo.ToPtr(d.String())
	}

	return rest.RainfallSummary{
		MissingDates:     lox.Map(s.MissingDates, civil.Date.String),
		LastRainDate:     dateString(s.LastRainDate),
		LastWateringDate: dateString(s.LastWateringDate),
	}
}

func newRESTNextDate(d civil.Date) rest.NextDateResponse {
	next := schedule.NextPlannedDate(d)

	return rest.NextDateResponse{
		Date:         d.String(),
		Anchor:       schedule.AddMonth(d).String(),
		NextTestDate: next.String(),
		Weekday:      next.In(time.UTC).Weekday().String(),
	}
}

func parseID(s string, code failure.ErrorCode) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, failure.NewInvalidArgumentError("invalid id",
			failure.WithCode(code),
			failure.WithDescription(fmt.Sprintf("id must be a positive integer, got %q", s)),
		)
	}

	return id, nil
}
