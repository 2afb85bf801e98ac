package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"home_maintenance/internal/domain/entity"
	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/pkg/contextx"
	"home_maintenance/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	colDate     = "date"
	colRainMM   = "rain_mm"
	colBomMM    = "bom_mm"
	colNotes    = "notes"
	colWatered  = "watered"
	colMoisture = "moisture"
)

// Result итог разбора файла.
type Result struct {
	Total   int      `json:"total"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ReadRainfallCSV разбирает журнал осадков с заголовком
// Date,Rain_mm,BOM_mm,Notes,Watered,Moisture. Строки с некорректной датой
// пропускаются, пустые и нечисловые значения становятся null.
func ReadRainfallCSV(ctx context.Context, r io.Reader) ([]*entity.RainfallRecord, Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var result Result

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, result, nil
		}
		return nil, result, invalidFile("read csv header", err)
	}

	headerMap := make(map[string]int, len(headers))
	for i, h := range headers {
		headerMap[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	if _, ok := headerMap[colDate]; !ok {
		return nil, result, invalidFile("validate csv header", fmt.Errorf("missing required column %q", "Date"))
	}

	var records []*entity.RainfallRecord

	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		result.Total++

		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		rec, err := parseRainfallRow(row, headerMap)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			logger(ctx).Warn("skip rainfall row", slog.Int("line", line), logx.Error(err))
			continue
		}

		records = append(records, rec)
	}

	return records, result, nil
}

func parseRainfallRow(row []string, headerMap map[string]int) (*entity.RainfallRecord, error) {
	get := func(col string) string {
		if idx, ok := headerMap[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	date, err := schedule.ParseTestDate(get(colDate))
	if err != nil {
		return nil, err
	}

	return &entity.RainfallRecord{
		Date:     date,
		RainMM:   parseOptionalFloat(get(colRainMM)),
		BomMM:    parseOptionalFloat(get(colBomMM)),
		Notes:    get(colNotes),
		Watered:  strings.EqualFold(get(colWatered), "yes"),
		Moisture: parseOptionalFloat(get(colMoisture)),
	}, nil
}

func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}

	return lo.ToPtr(v)
}
