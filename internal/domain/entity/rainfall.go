package entity

import "cloud.google.com/go/civil"

// RainfallRecord наблюдение за день: собственный дождемер и данные BOM.
type RainfallRecord struct {
	ID       int64      `json:"id"`
	Date     civil.Date `json:"date"`
	RainMM   *float64   `json:"rain_mm,omitempty"`
	BomMM    *float64   `json:"bom_mm,omitempty"`
	Notes    string     `json:"notes"`
	Watered  bool       `json:"watered"`
	Moisture *float64   `json:"moisture,omitempty"`
}

// EffectiveMM осадки за день: сначала дождемер, затем BOM. Отрицательные
// значения означают отсутствие измерения.
func (r RainfallRecord) EffectiveMM() (float64, bool) {
	if r.RainMM != nil && *r.RainMM >= 0 {
		return *r.RainMM, true
	}

	if r.BomMM != nil && *r.BomMM >= 0 {
		return *r.BomMM, true
	}

	return 0, false
}

// RainfallSummary сводка по журналу осадков.
type RainfallSummary struct {
	MissingDates     []civil.Date `json:"missing_dates"`
	LastRainDate     *civil.Date  `json:"last_rain_date,omitempty"`
	LastWateringDate *civil.Date  `json:"last_watering_date,omitempty"`
}
