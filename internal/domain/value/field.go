package value

import (
	"fmt"
	"strings"
)

// PoolField закрытый перечень измеряемых показателей бассейна.
type PoolField int

const (
	FieldFreeChlorine PoolField = iota + 1
	FieldCombinedChlorine
	FieldTotalChlorine
	FieldSaltLevel
	FieldAlkalinity
	FieldPH
	FieldSunscreen
	FieldHardness
	FieldPhosphates
	FieldCopper
)

type fieldInfo struct {
	key    string
	column string
}

//nolint:gochecknoglobals
var fieldInfos = map[PoolField]fieldInfo{
	FieldFreeChlorine:     {key: "Free Chlorine (ppm)", column: "free_chlorine"},
	FieldCombinedChlorine: {key: "Combined Chlorine (ppm)", column: "combined_chlorine"},
	FieldTotalChlorine:    {key: "Total Chlorine (ppm)", column: "total_chlorine"},
	FieldSaltLevel:        {key: "Salt Level (ppm)", column: "salt_level"},
	FieldAlkalinity:       {key: "Alkalinity (ppm)", column: "alkalinity"},
	FieldPH:               {key: "pH", column: "ph"},
	FieldSunscreen:        {key: "Sunscreen (Stabiliser) (ppm)", column: "sunscreen"},
	FieldHardness:         {key: "Total Hardness (ppm)", column: "hardness"},
	FieldPhosphates:       {key: "Phosphates (ppm)", column: "phosphates"},
	FieldCopper:           {key: "Copper Total (ppm)", column: "copper"},
}

// AllPoolFields порядок отображения показателей.
func AllPoolFields() []PoolField {
	return []PoolField{
		FieldFreeChlorine,
		FieldCombinedChlorine,
		FieldTotalChlorine,
		FieldSaltLevel,
		FieldAlkalinity,
		FieldPH,
		FieldSunscreen,
		FieldHardness,
		FieldPhosphates,
		FieldCopper,
	}
}

// ParsePoolField принимает ключ таблицы диапазонов ("pH", "Alkalinity (ppm)")
// или имя колонки ("alkalinity"). Регистр не важен.
func ParsePoolField(s string) (PoolField, error) {
	s = strings.TrimSpace(s)
	for _, f := range AllPoolFields() {
		info := fieldInfos[f]
		if strings.EqualFold(s, info.key) || strings.EqualFold(s, info.column) {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown pool field: %q", s)
}

// Key стабильный ключ показателя в таблице диапазонов.
func (f PoolField) Key() string {
	if info, ok := fieldInfos[f]; ok {
		return info.key
	}

	return fmt.Sprintf("PoolField(%d)", int(f))
}

func (f PoolField) Column() string {
	return fieldInfos[f].column
}

func (f PoolField) String() string {
	return f.Key()
}

func (f PoolField) IsValid() bool {
	_, ok := fieldInfos[f]
	return ok
}

// Readings значения показателей одного теста.
type Readings map[PoolField]float64

func (f PoolField) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("invalid pool field %d", int(f))
	}

	return []byte(f.Key()), nil
}

func (f *PoolField) UnmarshalText(text []byte) error {
	parsed, err := ParsePoolField(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}
