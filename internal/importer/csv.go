package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ausgaben/internal/common"
)

// ParseCSV parses a CSV batch with a header row. Column order is irrelevant;
// headers are resolved through the synonym table and unrecognized columns
// are ignored. Returns ErrBatchFormat when the input has no header row.
func (p *Parser) ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: CSV input is empty", common.ErrBatchFormat)
		}
		return nil, fmt.Errorf("%w: unreadable CSV header: %v", common.ErrBatchFormat, err)
	}

	// Strip a UTF-8 BOM some exports prepend to the first header cell.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	canonical := make([]string, len(header))
	for i, h := range header {
		canonical[i] = p.resolveHeader(h)
	}

	result := &Result{}
	row := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			result.addError(row, fmt.Errorf("malformed CSV row: %w", err))
			continue
		}

		fields := make(map[string]string, len(canonical))
		for i, value := range record {
			if i < len(canonical) && canonical[i] != "" {
				fields[canonical[i]] = value
			}
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
