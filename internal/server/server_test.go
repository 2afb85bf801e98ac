package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"home_maintenance/internal/domain/service/pool"
	"home_maintenance/internal/domain/service/rainfall"
	"home_maintenance/internal/domain/service/settings"
	"home_maintenance/internal/infrastructure/persistence"
	"home_maintenance/internal/server"
	"home_maintenance/pkg/dbtest"
	"home_maintenance/pkg/errcodes"
	"home_maintenance/pkg/rest"
	"home_maintenance/pkg/tests"
)

func newAPI(t *testing.T) tests.APIClient {
	t.Helper()

	db := dbtest.NewSQLite(t)
	require.NoError(t, persistence.Migrate(context.Background(), db))

	poolService := pool.NewService(
		persistence.NewPoolTestRepository(db),
		persistence.NewDesiredRangeRepository(db),
	)

	srv := server.NewServer(
		server.NewPoolServer(poolService),
		server.NewRainfallServer(rainfall.NewService(persistence.NewRainfallRepository(db))),
		server.NewSettingsServer(settings.NewService(persistence.NewSettingsRepository(db))),
	)

	r := chi.NewRouter()
	srv.RegisterRoutes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return tests.NewAPIClient(t, ts.URL, ts.Client())
}

func readings(ph float64) *rest.PoolReadings {
	return &rest.PoolReadings{
		FreeChlorine:     lo.ToPtr(2.0),
		CombinedChlorine: lo.ToPtr(0.1),
		TotalChlorine:    lo.ToPtr(2.1),
		SaltLevel:        lo.ToPtr(5000.0),
		Alkalinity:       lo.ToPtr(100.0),
		PH:               lo.ToPtr(ph),
		Sunscreen:        lo.ToPtr(40.0),
		Hardness:         lo.ToPtr(200.0),
		Phosphates:       lo.ToPtr(0.1),
		Copper:           lo.ToPtr(0.0),
	}
}

func seed(t *testing.T, api tests.APIClient) {
	t.Helper()

	var table []rest.DesiredRange

	resp, err := api.Post(context.Background(), "/v1/ranges/seed", nil, struct{}{}, &table, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, table, 10)
}

func TestClassifySingleValue(t *testing.T) {
	rq := require.New(t)
	api := newAPI(t)

	var out rest.ClassifyResponse

	resp, err := api.Post(context.Background(), "/v1/classify", nil, rest.ClassifyRequest{
		Value: lo.ToPtr(3.1),
		Range: &rest.RangeDefinition{Low: lo.ToPtr(1.0), High: lo.ToPtr(3.0), WarnFactor: lo.ToPtr(0.1)},
	}, &out, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(out.Results, 1)
	rq.Equal("slightly_high", out.Results[0].Status)
	rq.Equal("yellow", out.Results[0].Colour.Name)
}

func TestClassifyInvalidRange(t *testing.T) {
	rq := require.New(t)
	api := newAPI(t)

	var apiErr rest.Error

	resp, err := api.Post(context.Background(), "/v1/classify", nil, rest.ClassifyRequest{
		Value: lo.ToPtr(3.1),
		Range: &rest.RangeDefinition{Low: lo.ToPtr(5.0), High: lo.ToPtr(3.0), WarnFactor: lo.ToPtr(0.1)},
	}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidRange), apiErr.Code)
}

func TestClassifyReadingsAgainstStoredRanges(t *testing.T) {
	rq := require.New(t)
	api := newAPI(t)
	seed(t, api)

	var out rest.ClassifyResponse

	resp, err := api.Post(context.Background(), "/v1/classify", nil, rest.ClassifyRequest{
		Readings: map[string]float64{"pH": 8.0, "alkalinity": 60},
	}, &out, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(out.Results, 2)

	// Порядок отображения: щёлочность раньше pH.
	rq.Equal("alkalinity", out.Results[0].Column)
	rq.Equal("low", out.Results[0].Status)
	rq.Equal("ph", out.Results[1].Column)
	rq.Equal("slightly_high", out.Results[1].Status)
}

func TestClassifyUnknownField(t *testing.T) {
	rq := require.New(t)
	api := newAPI(t)

	var apiErr rest.Error

	resp, err := api.Post(context.Background(), "/v1/classify", nil, rest.ClassifyRequest{
		Readings: map[string]float64{"chlorophyll": 1},
	}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidPoolField), apiErr.Code)
}

func TestScheduleNext(t *testing.T) {
	rq := require.New(t)
	api := newAPI(t)

	var out rest.NextDateResponse

	resp, err := api.Get(context.Background(), "/v1/schedule/next?date=2025-01-31", nil, &out, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("2025-02-28", out.Anchor)
	rq.Equal("2025-03-04", out.NextTestDate)
	rq.Equal("Tuesday", out.Weekday)

	var apiErr rest.Error

	resp, err = api.Get(context.Background(), "/v1/schedule/next?date=2025-02-30", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidDate), apiErr.Code)
}

func TestPoolTestLifecycle(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)
	seed(t, api)

	var created rest.PoolTest

	resp, err := api.Post(ctx, "/v1/pool-tests", nil, rest.PoolTestRequest{
		TestDate:     "6/01/2025",
		Readings:     readings(8.0),
		ClarityNotes: "clear",
	}, &created, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Positive(created.ID)
	rq.Equal("2025-01-06", created.TestDate)
	rq.Equal("2025-02-11", created.NextTestDate)
	rq.Equal([]string{"pH"}, created.OutOfRange)
	rq.Len(created.Statuses, 10)

	var got rest.PoolTest

	resp, err = api.Get(ctx, "/v1/pool-tests/"+itoa(created.ID), nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(created.ID, got.ID)
	rq.Equal("clear", got.ClarityNotes)

	var updated rest.PoolTest

	resp, err = api.Put(ctx, "/v1/pool-tests/"+itoa(created.ID), nil, rest.PoolTestRequest{
		TestDate: "2025-01-31",
		Readings: readings(7.5),
	}, &updated, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("2025-03-04", updated.NextTestDate)
	rq.Empty(updated.OutOfRange)

	var list []rest.PoolTest

	resp, err = api.Get(ctx, "/v1/pool-tests?limit=10", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(list, 1)

	resp, err = api.Delete(ctx, "/v1/pool-tests/"+itoa(created.ID), nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	var apiErr rest.Error

	resp, err = api.Get(ctx, "/v1/pool-tests/"+itoa(created.ID), nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.PoolTestNotFound), apiErr.Code)
}

func TestPoolTestValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)

	partial := readings(7.5)
	partial.Copper = nil

	var apiErr rest.Error

	resp, err := api.Post(ctx, "/v1/pool-tests", nil, rest.PoolTestRequest{
		TestDate: "2025-01-06",
		Readings: partial,
	}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ValidationError), apiErr.Code)

	resp, err = api.Get(ctx, "/v1/pool-tests/abc", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidPoolTestID), apiErr.Code)

	resp, err = api.Get(ctx, "/v1/pool-tests?limit=x", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidPaging), apiErr.Code)
}

func TestRanges(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)

	var table []rest.DesiredRange

	resp, err := api.Put(ctx, "/v1/ranges/ph", nil, rest.RangeDefinition{
		Low: lo.ToPtr(7.0), High: lo.ToPtr(7.6), WarnFactor: lo.ToPtr(0.05),
	}, &table, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(table, 1)
	rq.Equal("pH", table[0].Item)
	rq.InDelta(7.98, table[0].AcceptableHigh, 1e-9)

	var apiErr rest.Error

	resp, err = api.Put(ctx, "/v1/ranges/ph", nil, rest.RangeDefinition{
		Low: lo.ToPtr(8.0), High: lo.ToPtr(7.0), WarnFactor: lo.ToPtr(0.05),
	}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidRange), apiErr.Code)

	resp, err = api.Delete(ctx, "/v1/ranges/ph", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	resp, err = api.Delete(ctx, "/v1/ranges/ph", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.RangeNotFound), apiErr.Code)
}

func TestRainfall(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)

	for _, r := range []rest.RainfallRequest{
		{Date: "2025-03-01", RainMM: lo.ToPtr(4.5)},
		{Date: "2025-03-03", BomMM: lo.ToPtr(0.0), Watered: true},
	} {
		var created rest.Rainfall

		resp, err := api.Post(ctx, "/v1/rainfall", nil, r, &created, nil)
		rq.NoError(err)
		rq.Equal(http.StatusCreated, resp.StatusCode)
		rq.Positive(created.ID)
	}

	var summary rest.RainfallSummary

	resp, err := api.Get(ctx, "/v1/rainfall/summary", nil, &summary, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]string{"2025-03-02"}, summary.MissingDates)
	rq.Equal("2025-03-01", lo.FromPtr(summary.LastRainDate))
	rq.Equal("2025-03-03", lo.FromPtr(summary.LastWateringDate))

	var list []rest.Rainfall

	resp, err = api.Get(ctx, "/v1/rainfall", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(list, 2)
	rq.InDelta(4.5, lo.FromPtr(list[0].EffectiveMM), 1e-9)

	var apiErr rest.Error

	resp, err = api.Get(ctx, "/v1/rainfall/999", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.RainfallNotFound), apiErr.Code)
}

func TestSettings(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	api := newAPI(t)

	var item rest.Setting

	resp, err := api.Put(ctx, "/v1/settings/pool_volume", nil, rest.SettingRequest{Value: "42000"}, &item, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	resp, err = api.Get(ctx, "/v1/settings/pool_volume", nil, &item, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("42000", item.Value)

	var all []rest.Setting

	resp, err = api.Get(ctx, "/v1/settings", nil, &all, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]rest.Setting{{Key: "pool_volume", Value: "42000"}}, all)

	var apiErr rest.Error

	resp, err = api.Get(ctx, "/v1/settings/missing", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.SettingNotFound), apiErr.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestMalformedBody(t *testing.T) {
	rq := require.New(t)
	api := newAPI(t)

	var apiErr rest.Error

	resp, err := api.PostJSON(context.Background(), "/v1/pool-tests", nil, `{"test_date": `, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ValidationError), apiErr.Code)

	resp, err = api.PostJSON(context.Background(), "/v1/rainfall", nil, `{"date": "2025-03-01", "rain": 4}`, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ValidationError), apiErr.Code)
}
