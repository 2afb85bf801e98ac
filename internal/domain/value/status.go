package value

import (
	"fmt"
	"strings"
)

// Status результат классификации одного показателя относительно желаемого диапазона.
type Status string

const (
	StatusInRange      Status = "in_range"
	StatusSlightlyHigh Status = "slightly_high"
	StatusHigh         Status = "high"
	StatusSlightlyLow  Status = "slightly_low"
	StatusLow          Status = "low"
	StatusUnknown      Status = "unknown"
)

// Colour цвет ячейки таблицы для статуса.
type Colour struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

//nolint:gochecknoglobals
var statusColours = map[Status]Colour{
	StatusInRange:      {Hex: "#70AD47", Name: "green"},
	StatusSlightlyHigh: {Hex: "#FFD966", Name: "yellow"},
	StatusHigh:         {Hex: "#FFC000", Name: "orange"},
	StatusSlightlyLow:  {Hex: "#9DC3E6", Name: "lightblue"},
	StatusLow:          {Hex: "#5B9BD5", Name: "blue"},
	StatusUnknown:      {Hex: "#FFFFFF", Name: "white"},
}

func AllStatuses() []Status {
	return []Status{
		StatusInRange,
		StatusSlightlyHigh,
		StatusHigh,
		StatusSlightlyLow,
		StatusLow,
		StatusUnknown,
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusColours[status]; !ok {
		return StatusUnknown, fmt.Errorf("invalid status: %q", s)
	}

	return status, nil
}

func (s Status) String() string {
	return string(s)
}

// Severity расстояние от нормы: 0 в диапазоне, 1 слегка вне, 2 вне. Для unknown -1.
func (s Status) Severity() int {
	switch s {
	case StatusInRange:
		return 0
	case StatusSlightlyHigh, StatusSlightlyLow:
		return 1
	case StatusHigh, StatusLow:
		return 2 //nolint:mnd
	default:
		return -1
	}
}

func (s Status) IsInRange() bool {
	return s == StatusInRange
}

func (s Status) Colour() Colour {
	if c, ok := statusColours[s]; ok {
		return c
	}

	return statusColours[StatusUnknown]
}
