// Package schedule вычисляет дату следующего планового теста воды.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"git.appkode.ru/pub/go/failure"

	"home_maintenance/pkg/errcodes"
)

// AnchorWeekday день недели, на который назначаются тесты.
const AnchorWeekday = time.Tuesday

const (
	layoutISO         = "2006-01-02"
	layoutSpreadsheet = "2/1/2006"
)

// AddMonth прибавляет календарный месяц. Если в следующем месяце нет такого
// дня, берётся последний день месяца (31 янв -> 28/29 фев).
func AddMonth(d civil.Date) civil.Date {
	year, month := d.Year, d.Month+1
	if month > time.December {
		month = time.January
		year++
	}

	return civil.Date{
		Year:  year,
		Month: month,
		Day:   min(d.Day, daysIn(year, month)),
	}
}

// NextPlannedDate первый вторник начиная с даты теста плюс один месяц,
// сам якорь включительно. Результат всегда позже d на 28..37 дней.
func NextPlannedDate(d civil.Date) civil.Date {
	next := AddMonth(d)
	for weekday(next) != AnchorWeekday {
		next = next.AddDays(1)
	}

	return next
}

// ParseTestDate разбирает дату теста на границе системы. Принимает ISO
// (2025-01-06) и формат журнала (6/01/2025, день/месяц/год).
func ParseTestDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)

	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}

	t, err := time.Parse(layoutSpreadsheet, s)
	if err != nil {
		return civil.Date{}, InvalidDateError(s, err)
	}

	return civil.DateOf(t), nil
}

// CheckDate отклоняет нулевые и несуществующие даты.
func CheckDate(d civil.Date) error {
	if !d.IsValid() {
		return InvalidDateError(d.String(), fmt.Errorf("date %s is not a calendar date", d))
	}

	return nil
}

// InvalidDateError ошибка некорректной календарной даты.
func InvalidDateError(input string, cause error) error {
	return failure.NewInvalidArgumentError(
		fmt.Errorf("invalid date %q: %w", input, cause).Error(),
		failure.WithCode(errcodes.InvalidDate),
		failure.WithDescription(fmt.Sprintf("expected date as %s or d/m/yyyy, got %q", layoutISO, input)),
	)
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
