package importer

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"home_maintenance/internal/domain/value"
)

// RangeItem элемент файла диапазонов.
type RangeItem struct {
	Item       string  `yaml:"item"`
	Low        float64 `yaml:"low"`
	High       float64 `yaml:"high"`
	WarnFactor float64 `yaml:"warn_factor"`
}

type rangesFile struct {
	Ranges []RangeItem `yaml:"ranges"`
}

// ReadRangesYAML читает таблицу диапазонов:
//
//	ranges:
//	  - item: pH
//	    low: 7.2
//	    high: 7.8
//	    warn_factor: 0.1
func ReadRangesYAML(r io.Reader) (value.RangeTable, error) {
	var file rangesFile

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&file); err != nil {
		return nil, invalidFile("decode ranges yaml", err)
	}

	table := make(value.RangeTable, len(file.Ranges))

	for i, item := range file.Ranges {
		field, err := value.ParsePoolField(item.Item)
		if err != nil {
			return nil, invalidFile(fmt.Sprintf("ranges[%d]", i), err)
		}

		if _, dup := table[field]; dup {
			return nil, invalidFile(fmt.Sprintf("ranges[%d]", i), fmt.Errorf("duplicate item %q", item.Item))
		}

		def := value.RangeDefinition{Low: item.Low, High: item.High, WarnFactor: item.WarnFactor}
		if err := def.Validate(); err != nil {
			return nil, invalidFile(fmt.Sprintf("ranges[%d] %s", i, field.Key()), err)
		}

		table[field] = def
	}

	return table, nil
}

// WriteRangesYAML выгружает таблицу в том же формате, в порядке отображения.
func WriteRangesYAML(w io.Writer, table value.RangeTable) error {
	var file rangesFile

	for _, field := range value.AllPoolFields() {
		def, ok := table[field]
		if !ok {
			continue
		}
		file.Ranges = append(file.Ranges, RangeItem{
			Item:       field.Key(),
			Low:        def.Low,
			High:       def.High,
			WarnFactor: def.WarnFactor,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2) //nolint:mnd

	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("encode ranges yaml: %w", err)
	}

	return encoder.Close()
}
