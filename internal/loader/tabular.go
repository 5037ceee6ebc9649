package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/pracviz/internal/model"
)

func readCSV(path string) (model.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Table{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only source.
			_ = cerr
		}
	}()
	return parseCSV(file)
}

func parseCSV(r io.Reader) (model.Table, error) {
	reader := csv.NewReader(r)
	// Short rows are kept and read as empty cells; rows wider than the
	// header are rejected below.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Table{}, fmt.Errorf("no columns to parse")
		}
		return model.Table{}, err
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Table{}, err
		}
		if len(record) > len(columns) {
			line, _ := reader.FieldPos(0)
			return model.Table{}, fmt.Errorf("record on line %d: expected at most %d fields, saw %d", line, len(columns), len(record))
		}
		rows = append(rows, record)
	}
	return model.Table{Columns: columns, Rows: rows}, nil
}
