package persistence_test

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"home_maintenance/internal/domain"
	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/value"
	"home_maintenance/internal/infrastructure/persistence"
	"home_maintenance/pkg/dbtest"
	"home_maintenance/pkg/errcodes"
)

func newDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db := dbtest.NewSQLite(t)
	require.NoError(t, persistence.Migrate(context.Background(), db))

	return db
}

func sampleReadings() value.Readings {
	return value.Readings{
		value.FieldFreeChlorine:     2.0,
		value.FieldCombinedChlorine: 0.1,
		value.FieldTotalChlorine:    2.1,
		value.FieldSaltLevel:        5000,
		value.FieldAlkalinity:       100,
		value.FieldPH:               7.5,
		value.FieldSunscreen:        40,
		value.FieldHardness:         200,
		value.FieldPhosphates:       0.1,
		value.FieldCopper:           0,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	rq := require.New(t)
	db := newDB(t)

	rq.NoError(persistence.Migrate(context.Background(), db))
}

func TestDesiredRangeRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewDesiredRangeRepository(newDB(t))

	table, err := repo.List(ctx)
	rq.NoError(err)
	rq.Empty(table)

	rq.NoError(repo.UpsertBatch(ctx, value.DefaultRangeTable()))

	table, err = repo.List(ctx)
	rq.NoError(err)
	rq.Equal(value.DefaultRangeTable(), table)

	ph := value.RangeDefinition{Low: 7.0, High: 7.6, WarnFactor: 0.05}
	rq.NoError(repo.Upsert(ctx, value.FieldPH, ph))

	got, err := repo.Get(ctx, value.FieldPH)
	rq.NoError(err)
	rq.Equal(ph, got)

	rq.NoError(repo.Delete(ctx, value.FieldPH))

	_, err = repo.Get(ctx, value.FieldPH)
	rq.True(domain.IsNotFound(err))

	err = repo.Delete(ctx, value.FieldPH)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.RangeNotFound, code)
}

func TestDesiredRangeRepository_SkipsUnknownItems(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	db := newDB(t)
	repo := persistence.NewDesiredRangeRepository(db)

	_, err := db.ExecContext(ctx,
		`INSERT INTO desired_ranges (item_name, low_value, high_value, factor_warn) VALUES ('Cyanuric', 1, 2, 0.1)`)
	rq.NoError(err)
	rq.NoError(repo.Upsert(ctx, value.FieldCopper, value.RangeDefinition{Low: 0, High: 0.2, WarnFactor: 0.1}))

	table, err := repo.List(ctx)
	rq.NoError(err)
	rq.Len(table, 1)
	rq.Contains(table, value.FieldCopper)
}

func TestPoolTestRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewPoolTestRepository(newDB(t))

	older := entity.NewPoolTest(civil.Date{Year: 2024, Month: 12, Day: 4}, sampleReadings())
	older.ClarityNotes = "Clear"
	newer := entity.NewPoolTest(civil.Date{Year: 2025, Month: 1, Day: 8}, sampleReadings())
	newer.ActionsTaken = "Added 1kg salt"

	rq.NoError(repo.Create(ctx, older))
	rq.NoError(repo.Create(ctx, newer))
	rq.NotZero(older.ID)
	rq.NotEqual(older.ID, newer.ID)

	got, err := repo.GetByID(ctx, older.ID)
	rq.NoError(err)
	rq.Equal(older.TestDate, got.TestDate)
	rq.Equal(older.NextTestDate, got.NextTestDate)
	rq.Equal(older.Readings, got.Readings)
	rq.Equal("Clear", got.ClarityNotes)
	rq.Empty(got.ActionsTaken)

	list, err := repo.List(ctx, 10, 0)
	rq.NoError(err)
	rq.Equal([]int64{newer.ID, older.ID}, lo.Map(list, func(p *entity.PoolTest, _ int) int64 { return p.ID }))

	list, err = repo.List(ctx, 1, 1)
	rq.NoError(err)
	rq.Len(list, 1)
	rq.Equal(older.ID, list[0].ID)

	older.SetTestDate(civil.Date{Year: 2025, Month: 1, Day: 31})
	older.Readings[value.FieldPH] = 8.2
	rq.NoError(repo.Update(ctx, older))

	got, err = repo.GetByID(ctx, older.ID)
	rq.NoError(err)
	rq.Equal(civil.Date{Year: 2025, Month: 3, Day: 4}, got.NextTestDate)
	rq.InDelta(8.2, got.Readings[value.FieldPH], 1e-9)

	rq.NoError(repo.Delete(ctx, older.ID))

	_, err = repo.GetByID(ctx, older.ID)
	rq.True(domain.IsNotFound(err))
	rq.True(domain.IsNotFound(repo.Update(ctx, older)))
	rq.True(domain.IsNotFound(repo.Delete(ctx, older.ID)))
}

func TestRainfallRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewRainfallRepository(newDB(t))

	recs := []*entity.RainfallRecord{
		{Date: civil.Date{Year: 2025, Month: 3, Day: 3}, BomMM: lo.ToPtr(4.2), Watered: true},
		{Date: civil.Date{Year: 2025, Month: 3, Day: 1}, RainMM: lo.ToPtr(12.5), Notes: "storm", Moisture: lo.ToPtr(0.4)},
	}
	rq.NoError(repo.CreateBatch(ctx, recs))

	list, err := repo.List(ctx, 0, 0)
	rq.NoError(err)
	rq.Len(list, 2)
	rq.Equal(recs[1].ID, list[0].ID)
	rq.Equal("storm", list[0].Notes)
	rq.Nil(list[0].BomMM)
	rq.InDelta(12.5, *list[0].RainMM, 1e-9)
	rq.False(list[0].Watered)
	rq.True(list[1].Watered)

	list, err = repo.List(ctx, 1, 1)
	rq.NoError(err)
	rq.Len(list, 1)
	rq.Equal(recs[0].ID, list[0].ID)

	recs[0].RainMM = lo.ToPtr(3.0)
	recs[0].Watered = false
	rq.NoError(repo.Update(ctx, recs[0]))

	got, err := repo.GetByID(ctx, recs[0].ID)
	rq.NoError(err)
	rq.InDelta(3.0, *got.RainMM, 1e-9)
	rq.False(got.Watered)

	rq.NoError(repo.Delete(ctx, recs[0].ID))
	_, err = repo.GetByID(ctx, recs[0].ID)
	rq.True(domain.IsNotFound(err))
}

func TestSettingsRepository(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	repo := persistence.NewSettingsRepository(newDB(t))

	_, err := repo.Get(ctx, "pool_volume")
	rq.True(domain.IsNotFound(err))

	rq.NoError(repo.SetMany(ctx, []entity.Setting{
		{Key: "pool_volume", Value: "50000"},
		{Key: "location", Value: "Brisbane"},
	}))
	rq.NoError(repo.Set(ctx, entity.Setting{Key: "pool_volume", Value: "52000"}))

	got, err := repo.Get(ctx, "pool_volume")
	rq.NoError(err)
	rq.Equal("52000", got.Value)

	all, err := repo.All(ctx)
	rq.NoError(err)
	rq.Equal([]entity.Setting{
		{Key: "location", Value: "Brisbane"},
		{Key: "pool_volume", Value: "52000"},
	}, all)
}

func TestLegacyRows(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	db := newDB(t)

	rq.NoError(dbtest.MigrateFromFile(ctx, db, "testdata/legacy_rows.sql"))

	table, err := persistence.NewDesiredRangeRepository(db).List(ctx)
	rq.NoError(err)
	rq.Len(table, 1)
	rq.Contains(table, value.FieldPH)

	tests, err := persistence.NewPoolTestRepository(db).List(ctx, 10, 0)
	rq.NoError(err)
	rq.Len(tests, 1)
	rq.Empty(tests[0].ClarityNotes)
	rq.Equal(civil.Date{Year: 2024, Month: 12, Day: 10}, tests[0].NextTestDate)
	rq.InDelta(7.9, tests[0].Readings[value.FieldPH], 1e-9)

	recs, err := persistence.NewRainfallRepository(db).List(ctx, 0, 0)
	rq.NoError(err)
	rq.Len(recs, 2)
	rq.Nil(recs[0].RainMM)
	rq.InDelta(3.2, lo.FromPtr(recs[0].BomMM), 1e-9)
	rq.False(recs[0].Watered)
	rq.True(recs[1].Watered)
	rq.Equal("dry", recs[1].Notes)
}
