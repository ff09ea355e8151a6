package products

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
)

const (
	importCreatePrefix = "for_create/"
	importDeletePrefix = "for_delete/"
)

// parseCreateRows reads a create-batch CSV. The first row must be a header;
// column order is free as long as product_id/item/price are present. Rows
// missing an item or price are skipped, not fatal.
func parseCreateRows(data []byte) ([]CreateProductInput, int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "import file is empty")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"item", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "import file is missing the "+required+" column")
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []CreateProductInput
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		input := CreateProductInput{
			ProductID:   field(record, "product_id"),
			Item:        field(record, "item"),
			Description: field(record, "description"),
			Price:       field(record, "price"),
			Brand:       field(record, "brand"),
			Category:    field(record, "category"),
		}
		if input.Item == "" || input.Price == "" {
			skipped++
			continue
		}
		rows = append(rows, input)
	}
	return rows, skipped, nil
}

// parseDeleteIDs reads a delete-batch CSV: one product_id per row, with an
// optional header row.
func parseDeleteIDs(data []byte) ([]string, int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var ids []string
	skipped := 0
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(record) == 0 {
			continue
		}
		id := strings.TrimSpace(record[0])
		if first {
			first = false
			if strings.EqualFold(id, "product_id") {
				continue
			}
		}
		if id == "" {
			skipped++
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 && skipped == 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "import file is empty")
	}
	return ids, skipped, nil
}
