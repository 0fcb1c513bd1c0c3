package parser

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExtractCustomProperties returns the custom document properties of a workbook
// rendered as strings.
func ExtractCustomProperties(f *excelize.File) (map[string]string, error) {
	props, err := f.GetCustomProps()
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, nil
	}

	result := make(map[string]string, len(props))
	for _, p := range props {
		result[p.Name] = propertyText(p.Value)
	}
	return result, nil
}

func propertyText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
