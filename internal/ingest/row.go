// Package ingest converts uploaded CSV files into validated transaction
// records. Parsing is pure: no I/O beyond the reader, no storage access,
// and any single invalid row fails the whole file.
package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/finledger/finledger-go/internal/model"
)

// RowErrorKind identifies which validation rule a CSV data row failed.
type RowErrorKind string

const (
	InvalidType   RowErrorKind = "invalid_type"
	InvalidDate   RowErrorKind = "invalid_date"
	InvalidAmount RowErrorKind = "invalid_amount"
)

// RowError is a validation failure scoped to a single CSV data row. Row is
// the 1-based row number as seen in the file including the header line, so
// the first data row reports as row 2.
type RowError struct {
	Kind  RowErrorKind
	Row   int
	Value string
}

func (e *RowError) Error() string {
	switch e.Kind {
	case InvalidType:
		return fmt.Sprintf("row %d: invalid transaction type %q (must be credit or debit)", e.Row, e.Value)
	case InvalidDate:
		return fmt.Sprintf("row %d: invalid transaction date %q", e.Row, e.Value)
	case InvalidAmount:
		return fmt.Sprintf("row %d: invalid amount %q", e.Row, e.Value)
	default:
		return fmt.Sprintf("row %d: invalid value %q", e.Row, e.Value)
	}
}

func newRowError(kind RowErrorKind, rowIndex int, value string) *RowError {
	return &RowError{Kind: kind, Row: rowIndex + 2, Value: value}
}

// ParseRow validates one raw CSV data row and converts it into a
// Transaction. rowIndex is the 0-based position of the row among the data
// rows. Checks run in a fixed order and the first failure wins: type,
// then date, then amount.
func ParseRow(record map[string]string, rowIndex int) (model.Transaction, error) {
	txType := strings.ToLower(strings.TrimSpace(record["type"]))
	if txType != model.TypeCredit && txType != model.TypeDebit {
		return model.Transaction{}, newRowError(InvalidType, rowIndex, record["type"])
	}

	rawDate := strings.TrimSpace(record["transaction_date"])
	parsed, err := dateparse.ParseAny(rawDate)
	if err != nil || rawDate == "" {
		return model.Transaction{}, newRowError(InvalidDate, rowIndex, record["transaction_date"])
	}
	// Date-only: drop any time and zone component.
	y, m, d := parsed.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	amount, err := strconv.ParseFloat(strings.TrimSpace(record["amount"]), 64)
	if err != nil {
		return model.Transaction{}, newRowError(InvalidAmount, rowIndex, record["amount"])
	}

	return model.Transaction{
		Amount:          amount,
		Type:            txType,
		Category:        record["category"],
		Description:     record["description"],
		TransactionDate: date,
	}, nil
}
