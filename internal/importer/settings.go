package importer

import (
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// ReadSettingsJSON разбирает плоский JSON-объект. Значения приводятся к
// строке: числа сохраняют исходную запись, вложенные объекты хранятся как JSON.
func ReadSettingsJSON(r io.Reader) (map[string]string, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, invalidFile("decode settings json", err)
	}

	result := make(map[string]string, len(raw))

	for k, v := range raw {
		s, err := stringify(v)
		if err != nil {
			return nil, invalidFile(fmt.Sprintf("setting %q", k), err)
		}
		result[k] = s
	}

	return result, nil
}

func stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case fmt.Stringer:
		// json.Number при UseNumber
		return val.String(), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
