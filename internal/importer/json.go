package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"ausgaben/internal/common"
)

// ParseJSON parses a JSON batch: either a bare array of flat objects or an
// object wrapping that array under "expenses". Object keys are resolved
// through the same synonym table as CSV headers. Anything else is a batch
// format error.
func (p *Parser) ParseJSON(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBatchFormat, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: JSON input is empty", common.ErrBatchFormat)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		var wrapper struct {
			Expenses []map[string]any `json:"expenses"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil || wrapper.Expenses == nil {
			return nil, fmt.Errorf("%w: expected an array of objects or {\"expenses\": [...]}", common.ErrBatchFormat)
		}
		rows = wrapper.Expenses
	}

	result := &Result{}
	for i, raw := range rows {
		row := i + 1

		fields := make(map[string]string, len(raw))
		for key, value := range raw {
			canonical := p.resolveHeader(key)
			if canonical == "" {
				continue
			}
			fields[canonical] = stringifyJSONValue(value)
		}

		expense, err := p.parseRow(row, fields)
		if err != nil {
			result.addError(row, err)
			continue
		}
		result.Records = append(result.Records, expense)
		result.Imported++
	}

	return result, nil
}

// stringifyJSONValue renders a decoded JSON scalar so the shared row parser
// can apply one normalization path for both CSV and JSON input.
func stringifyJSONValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
