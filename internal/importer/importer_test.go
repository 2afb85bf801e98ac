package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"home_maintenance/internal/domain/value"
	"home_maintenance/internal/importer"
	"home_maintenance/pkg/errcodes"
)

func TestReadRainfallCSV(t *testing.T) {
	rq := require.New(t)

	input := "Date,Rain_mm,BOM_mm,Notes,Watered,Moisture\n" +
		"2025-03-01,12.5,,storm,No,0.4\n" +
		"not-a-date,1,2,,Yes,\n" +
		"3/03/2025,abc,4.2,,Yes,\n" +
		"2025-03-04\n"

	recs, res, err := importer.ReadRainfallCSV(context.Background(), strings.NewReader(input))
	rq.NoError(err)
	rq.Equal(4, res.Total)
	rq.Equal(1, res.Skipped)
	rq.Len(res.Errors, 1)
	rq.Contains(res.Errors[0], "line 3")
	rq.Len(recs, 3)

	rq.Equal(civil.Date{Year: 2025, Month: 3, Day: 1}, recs[0].Date)
	rq.InDelta(12.5, *recs[0].RainMM, 1e-9)
	rq.Nil(recs[0].BomMM)
	rq.Equal("storm", recs[0].Notes)
	rq.False(recs[0].Watered)
	rq.InDelta(0.4, *recs[0].Moisture, 1e-9)

	rq.Equal(civil.Date{Year: 2025, Month: 3, Day: 3}, recs[1].Date)
	rq.Nil(recs[1].RainMM)
	rq.InDelta(4.2, *recs[1].BomMM, 1e-9)
	rq.True(recs[1].Watered)

	rq.Equal(civil.Date{Year: 2025, Month: 3, Day: 4}, recs[2].Date)
	rq.Nil(recs[2].RainMM)
	rq.Nil(recs[2].Moisture)
}

func TestReadRainfallCSV_Header(t *testing.T) {
	rq := require.New(t)

	recs, res, err := importer.ReadRainfallCSV(context.Background(), strings.NewReader(""))
	rq.NoError(err)
	rq.Empty(recs)
	rq.Zero(res.Total)

	_, _, err = importer.ReadRainfallCSV(context.Background(), strings.NewReader("Rain_mm,BOM_mm\n1,2\n"))
	rq.True(failure.IsInvalidArgumentError(err))
	rq.Equal(errcodes.InvalidImportFile, failure.Code(err))
}

func TestReadSettingsJSON(t *testing.T) {
	rq := require.New(t)

	got, err := importer.ReadSettingsJSON(strings.NewReader(
		`{"pool_volume": 50000, "ratio": 0.25, "location": "Brisbane", "notify": true, "empty": null, "nested": {"a": 1}}`,
	))
	rq.NoError(err)
	rq.Equal(map[string]string{
		"pool_volume": "50000",
		"ratio":       "0.25",
		"location":    "Brisbane",
		"notify":      "true",
		"empty":       "",
		"nested":      `{"a":1}`,
	}, got)

	_, err = importer.ReadSettingsJSON(strings.NewReader(`[1, 2]`))
	rq.Equal(errcodes.InvalidImportFile, failure.Code(err))
}

func TestReadRangesYAML(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    value.RangeTable
		wantErr bool
	}{
		{
			name: "display keys and columns",
			input: `
ranges:
  - item: pH
    low: 7.2
    high: 7.8
    warn_factor: 0.1
  - item: copper
    low: 0
    high: 0.2
    warn_factor: 0.1
`,
			want: value.RangeTable{
				value.FieldPH:     {Low: 7.2, High: 7.8, WarnFactor: 0.1},
				value.FieldCopper: {Low: 0, High: 0.2, WarnFactor: 0.1},
			},
		},
		{
			name:    "unknown item",
			input:   "ranges:\n  - item: Cyanuric\n    low: 1\n    high: 2\n",
			wantErr: true,
		},
		{
			name:    "low above high",
			input:   "ranges:\n  - item: pH\n    low: 8\n    high: 7\n",
			wantErr: true,
		},
		{
			name:    "duplicate item",
			input:   "ranges:\n  - item: pH\n    low: 7\n    high: 8\n  - item: ph\n    low: 7\n    high: 8\n",
			wantErr: true,
		},
		{
			name:    "unknown key",
			input:   "ranges:\n  - item: pH\n    lo: 7\n",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			got, err := importer.ReadRangesYAML(strings.NewReader(tc.input))
			if tc.wantErr {
				rq.Error(err)
				rq.Equal(errcodes.InvalidImportFile, failure.Code(err))
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}

func TestWriteRangesYAML_RoundTripsDefaults(t *testing.T) {
	rq := require.New(t)

	var buf bytes.Buffer
	rq.NoError(importer.WriteRangesYAML(&buf, value.DefaultRangeTable()))
	rq.Contains(buf.String(), "item: Free Chlorine (ppm)")

	got, err := importer.ReadRangesYAML(&buf)
	rq.NoError(err)
	rq.Equal(value.DefaultRangeTable(), got)
}
