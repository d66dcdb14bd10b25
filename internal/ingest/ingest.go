package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/finledger/finledger-go/internal/model"
)

// RequiredColumns is the exact column set a transactions CSV must contain,
// order-insensitive. Extra columns are ignored.
var RequiredColumns = []string{"amount", "type", "category", "description", "transaction_date"}

var (
	ErrFileType      = errors.New("only CSV files are allowed")
	ErrMalformedFile = errors.New("could not parse CSV file")
	ErrEmptyFile     = errors.New("CSV file has no header row")
)

// MissingColumnsError reports required columns absent from the file header.
// It is raised before any data row is parsed.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s (required: %s)",
		strings.Join(e.Missing, ", "), strings.Join(RequiredColumns, ", "))
}

// ParseFile reads a transactions CSV and returns the fully validated batch.
// Semantics are all-or-nothing: the first invalid row aborts the parse and
// nothing is returned, so a caller never commits a partially valid file.
func ParseFile(r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Missing: missing}
	}

	rows := records[1:]
	transactions := make([]model.Transaction, 0, len(rows))
	for i, rec := range rows {
		fields := make(map[string]string, len(RequiredColumns))
		for _, col := range RequiredColumns {
			fields[col] = rec[colIndex[col]]
		}

		tx, err := ParseRow(fields, i)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}
