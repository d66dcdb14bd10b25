package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/finledger/finledger-go/internal/model"
)

func newMockTransactionRepo(t *testing.T) (*TransactionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewTransactionRepository(db), mock
}

func sampleBatch() []model.Transaction {
	return []model.Transaction{
		{
			Amount:          100,
			Type:            "credit",
			Category:        "Food",
			TransactionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Amount:          50,
			Type:            "debit",
			Category:        "Transport",
			Description:     "bus fare",
			TransactionDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestCreateBatchCommits(t *testing.T) {
	repo, mock := newMockTransactionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(9), 100.0, "credit", "Food", "", "2024-01-01").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(int64(9), 50.0, "debit", "Transport", "bus fare", "2024-02-01").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO uploaded_files").
		WithArgs("jan.csv", int64(9)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateBatch(context.Background(), 9, "jan.csv", sampleBatch())
	if err != nil {
		t.Fatalf("CreateBatch() unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateBatchRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockTransactionRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), 9, "jan.csv", sampleBatch())
	if err == nil {
		t.Fatal("CreateBatch() expected error when an insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations (batch must roll back): %v", err)
	}
}

func TestCreateBatchEmpty(t *testing.T) {
	repo, mock := newMockTransactionRepo(t)

	// Header-only files commit zero transaction rows but still record the
	// upload provenance.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO uploaded_files").
		WithArgs("empty.csv", int64(9)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.CreateBatch(context.Background(), 9, "empty.csv", nil); err != nil {
		t.Fatalf("CreateBatch() unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByUser(t *testing.T) {
	repo, mock := newMockTransactionRepo(t)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "amount", "type", "category", "description", "transaction_date", "created_at",
	}).
		AddRow(2, 9, 50.0, "debit", "Transport", "bus fare",
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Now()).
		AddRow(1, 9, 100.0, "credit", "Food", nil,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE user_id = \\? ORDER BY transaction_date DESC, id DESC").
		WithArgs(int64(9)).
		WillReturnRows(rows)

	txs, err := repo.ListByUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByUser() unexpected error: %v", err)
	}

	if len(txs) != 2 {
		t.Fatalf("ListByUser() returned %d transactions, want 2", len(txs))
	}
	if txs[0].ID != 2 || txs[1].ID != 1 {
		t.Errorf("ListByUser() order = [%d, %d], want [2, 1]", txs[0].ID, txs[1].ID)
	}
	if txs[1].Description != "" {
		t.Errorf("ListByUser() NULL description = %q, want empty", txs[1].Description)
	}
}

func TestListByUserEmpty(t *testing.T) {
	repo, mock := newMockTransactionRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM transactions WHERE user_id").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "amount", "type", "category", "description", "transaction_date", "created_at",
		}))

	txs, err := repo.ListByUser(context.Background(), 9)
	if err != nil {
		t.Fatalf("ListByUser() unexpected error: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("ListByUser() returned %d transactions, want 0", len(txs))
	}
}
