package service

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/finledger/finledger-go/internal/ingest"
	"github.com/finledger/finledger-go/internal/model"
	"github.com/finledger/finledger-go/internal/repository"
)

// TransactionService handles CSV imports and filtered transaction queries.
type TransactionService struct {
	repo *repository.TransactionRepository
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(repo *repository.TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

// ImportCSV parses an uploaded transactions CSV and persists the batch for
// the given owner. Import is all-or-nothing: any file-level or row-level
// failure leaves the store untouched.
func (s *TransactionService) ImportCSV(ctx context.Context, ownerID int64, filename string, file io.Reader) (model.ImportResponse, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return model.ImportResponse{}, ingest.ErrFileType
	}

	txs, err := ingest.ParseFile(file)
	if err != nil {
		return model.ImportResponse{}, err
	}

	if err := s.repo.CreateBatch(ctx, ownerID, filename, txs); err != nil {
		return model.ImportResponse{}, err
	}

	return model.ImportResponse{
		InsertedCount: len(txs),
		Filename:      filename,
	}, nil
}

// List returns the owner's transactions matching the filter, newest
// transaction date first. Owner scoping happens in the repository before
// any filter is applied; the filter itself is a plain conjunctive
// predicate over the fetched rows.
func (s *TransactionService) List(ctx context.Context, ownerID int64, filter model.TransactionFilter) ([]model.TransactionResponse, error) {
	txs, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]model.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		if !matchesFilter(t, filter) {
			continue
		}
		result = append(result, model.TransactionResponse{
			ID:              t.ID,
			Amount:          t.Amount,
			Type:            t.Type,
			Category:        t.Category,
			Description:     t.Description,
			TransactionDate: t.TransactionDate.Format("2006-01-02"),
			CreatedAt:       t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return result, nil
}

// matchesFilter reports whether a transaction satisfies every set criterion.
// Category matching is a case-insensitive substring test done here rather
// than with a DB pattern operator, keeping the behavior portable across
// storage backends.
func matchesFilter(t model.Transaction, f model.TransactionFilter) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && !strings.Contains(strings.ToLower(t.Category), strings.ToLower(f.Category)) {
		return false
	}
	if f.StartDate != nil && t.TransactionDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.TransactionDate.After(*f.EndDate) {
		return false
	}
	if f.MinAmount != nil && t.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
		return false
	}
	return true
}
