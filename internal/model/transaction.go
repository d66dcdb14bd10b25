package model

import "time"

// Transaction type values accepted by the importer and the query API.
const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Transaction represents a single bookkeeping entry in the database.
// TransactionDate carries only a calendar date; the time component is
// always midnight UTC.
type Transaction struct {
	ID              int64
	UserID          int64
	Amount          float64
	Type            string
	Category        string
	Description     string
	TransactionDate time.Time
	CreatedAt       time.Time
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID              int64   `json:"id"`
	Amount          float64 `json:"amount"`
	Type            string  `json:"type"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	TransactionDate string  `json:"transaction_date"`
	CreatedAt       string  `json:"created_at"`
}

// ImportResponse represents the result of a CSV import.
type ImportResponse struct {
	InsertedCount int    `json:"inserted_count"`
	Filename      string `json:"filename"`
}

// TransactionFilter holds the optional query criteria for listing
// transactions. Nil fields are not applied; set fields AND together.
type TransactionFilter struct {
	Type      string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *float64
	MaxAmount *float64
}
