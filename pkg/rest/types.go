// Модели HTTP API. При появлении openapi-спецификации файл генерируется
// и называется types.gen.go.
package rest

// PoolReadings все десять показателей теста.
type PoolReadings struct {
	FreeChlorine     *float64 `json:"free_chlorine"     validate:"required"`
	CombinedChlorine *float64 `json:"combined_chlorine" validate:"required"`
	TotalChlorine    *float64 `json:"total_chlorine"    validate:"required"`
	SaltLevel        *float64 `json:"salt_level"        validate:"required"`
	Alkalinity       *float64 `json:"alkalinity"        validate:"required"`
	PH               *float64 `json:"ph"                validate:"required"`
	Sunscreen        *float64 `json:"sunscreen"         validate:"required"`
	Hardness         *float64 `json:"hardness"          validate:"required"`
	Phosphates       *float64 `json:"phosphates"        validate:"required"`
	Copper           *float64 `json:"copper"            validate:"required"`
}

type Colour struct {
	Hex  string `json:"hex"`
	Name string `json:"name"`
}

// FieldStatus результат классификации одного показателя.
type FieldStatus struct {
	Field  string   `json:"field"`
	Column string   `json:"column,omitempty"`
	Value  *float64 `json:"value,omitempty"`
	Status string   `json:"status"`
	Colour Colour   `json:"colour"`
}

type RangeDefinition struct {
	Low        *float64 `json:"low"         validate:"required"`
	High       *float64 `json:"high"        validate:"required"`
	WarnFactor *float64 `json:"warn_factor" validate:"required,gte=0"`
}

// ClassifyRequest либо одно значение с диапазоном, либо набор показателей
// (ключ: название или колонка) по текущей таблице диапазонов.
type ClassifyRequest struct {
	Value    *float64           `json:"value"    validate:"required_with=Range"`
	Range    *RangeDefinition   `json:"range"    validate:"required_with=Value"`
	Readings map[string]float64 `json:"readings" validate:"required_without=Value"`
}

type ClassifyResponse struct {
	Results []FieldStatus `json:"results"`
}

type NextDateResponse struct {
	Date         string `json:"date"`
	Anchor       string `json:"anchor"`
	NextTestDate string `json:"next_test_date"`
	Weekday      string `json:"weekday"`
}

type PoolTestRequest struct {
	TestDate     string        `json:"test_date" validate:"required"`
	Readings     *PoolReadings `json:"readings"  validate:"required"`
	ClarityNotes string        `json:"clarity_notes"`
	ActionsTaken string        `json:"actions_taken"`
}

type PoolTest struct {
	ID           int64         `json:"id"`
	TestDate     string        `json:"test_date"`
	Readings     PoolReadings  `json:"readings"`
	ClarityNotes string        `json:"clarity_notes"`
	ActionsTaken string        `json:"actions_taken"`
	NextTestDate string        `json:"next_test_date"`
	Statuses     []FieldStatus `json:"statuses"`
	OutOfRange   []string      `json:"out_of_range"`
}

type DesiredRange struct {
	Item           string  `json:"item"`
	Column         string  `json:"column"`
	Low            float64 `json:"low"`
	High           float64 `json:"high"`
	WarnFactor     float64 `json:"warn_factor"`
	AcceptableLow  float64 `json:"acceptable_low"`
	AcceptableHigh float64 `json:"acceptable_high"`
}

type RainfallRequest struct {
	Date     string   `json:"date" validate:"required"`
	RainMM   *float64 `json:"rain_mm"`
	BomMM    *float64 `json:"bom_mm"`
	Notes    string   `json:"notes"`
	Watered  bool     `json:"watered"`
	Moisture *float64 `json:"moisture"`
}

type Rainfall struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	RainMM      *float64 `json:"rain_mm"`
	BomMM       *float64 `json:"bom_mm"`
	Notes       string   `json:"notes"`
	Watered     bool     `json:"watered"`
	Moisture    *float64 `json:"moisture"`
	EffectiveMM *float64 `json:"effective_mm"`
}

type RainfallSummary struct {
	MissingDates     []string `json:"missing_dates"`
	LastRainDate     *string  `json:"last_rain_date"`
	LastWateringDate *string  `json:"last_watering_date"`
}

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SettingRequest struct {
	Value string `json:"value"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке
	Message string `json:"message"`

	// SupportID trace id запроса
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
