package schedule_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"git.appkode.ru/pub/go/failure"
	"github.com/stretchr/testify/require"

	"home_maintenance/internal/domain/service/schedule"
	"home_maintenance/pkg/errcodes"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// Журнал тестов: дата теста -> плановая дата следующего.
func TestNextPlannedDateLog(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		testDate string
		want     civil.Date
	}{
		{testDate: "18/12/2024", want: date(2025, time.January, 21)},
		{testDate: "6/01/2025", want: date(2025, time.February, 11)},
		{testDate: "10/01/2025", want: date(2025, time.February, 11)},
		{testDate: "3/02/2025", want: date(2025, time.March, 4)},
		{testDate: "10/02/2025", want: date(2025, time.March, 11)},
		{testDate: "17/02/2025", want: date(2025, time.March, 18)},
		{testDate: "25/02/2025", want: date(2025, time.March, 25)},
		{testDate: "2/04/2025", want: date(2025, time.May, 6)},
		{testDate: "28/04/2025", want: date(2025, time.June, 3)},
		{testDate: "26/06/2025", want: date(2025, time.July, 29)},
		{testDate: "31/07/2025", want: date(2025, time.September, 2)},
		{testDate: "8/09/2025", want: date(2025, time.October, 14)},
		{testDate: "8/10/2025", want: date(2025, time.November, 11)},
		{testDate: "18/11/2025", want: date(2025, time.December, 23)},
		{testDate: "5/12/2025", want: date(2026, time.January, 6)},
		{testDate: "3/01/2026", want: date(2026, time.February, 3)},
		{testDate: "28/01/2026", want: date(2026, time.March, 3)},
	}

	for _, tc := range testCases {
		d, err := schedule.ParseTestDate(tc.testDate)
		rq.NoError(err, tc.testDate)
		rq.Equal(tc.want, schedule.NextPlannedDate(d), tc.testDate)
	}
}

func TestNextPlannedDateAnchorIsTuesday(t *testing.T) {
	rq := require.New(t)

	// 25 марта 2025 уже вторник: якорь возвращается без сдвига.
	rq.Equal(date(2025, time.March, 25), schedule.NextPlannedDate(date(2025, time.February, 25)))
}

func TestAddMonthClamp(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		in   civil.Date
		want civil.Date
	}{
		{in: date(2025, time.January, 31), want: date(2025, time.February, 28)},
		{in: date(2024, time.January, 31), want: date(2024, time.February, 29)},
		{in: date(2025, time.March, 31), want: date(2025, time.April, 30)},
		{in: date(2025, time.December, 31), want: date(2026, time.January, 31)},
		{in: date(2025, time.December, 15), want: date(2026, time.January, 15)},
		{in: date(2025, time.February, 28), want: date(2025, time.March, 28)},
	}

	for _, tc := range testCases {
		rq.Equal(tc.want, schedule.AddMonth(tc.in), tc.in.String())
	}

	// Зажатие меняет день недели якоря.
	rq.Equal(date(2025, time.March, 4), schedule.NextPlannedDate(date(2025, time.January, 31)))
	rq.Equal(date(2024, time.March, 5), schedule.NextPlannedDate(date(2024, time.January, 31)))
}

func TestNextPlannedDateProperties(t *testing.T) {
	rq := require.New(t)

	start := date(2023, time.January, 1)

	for i := 0; i < 4*366; i++ {
		d := start.AddDays(i)
		next := schedule.NextPlannedDate(d)

		rq.Equal(time.Tuesday, next.In(time.UTC).Weekday(), d.String())
		rq.True(next.After(d), d.String())

		anchor := schedule.AddMonth(d)
		gap := next.DaysSince(anchor)
		rq.GreaterOrEqual(gap, 0, d.String())
		rq.LessOrEqual(gap, 6, d.String())

		days := next.DaysSince(d)
		rq.GreaterOrEqual(days, 28, d.String())
		rq.LessOrEqual(days, 37, d.String())
	}
}

func TestParseTestDate(t *testing.T) {
	rq := require.New(t)

	d, err := schedule.ParseTestDate("2025-01-06")
	rq.NoError(err)
	rq.Equal(date(2025, time.January, 6), d)

	d, err = schedule.ParseTestDate(" 6/1/2025 ")
	rq.NoError(err)
	rq.Equal(date(2025, time.January, 6), d)

	for _, input := range []string{"", "2025-02-30", "31/02/2025", "tomorrow", "2025/01/06"} {
		_, err := schedule.ParseTestDate(input)
		rq.Error(err, input)
		rq.True(failure.IsInvalidArgumentError(err), input)
		rq.Equal(errcodes.InvalidDate, failure.Code(err), input)
	}
}

func TestCheckDate(t *testing.T) {
	rq := require.New(t)

	rq.NoError(schedule.CheckDate(date(2024, time.February, 29)))
	rq.Error(schedule.CheckDate(civil.Date{}))
	rq.Error(schedule.CheckDate(date(2025, time.February, 29)))
}
