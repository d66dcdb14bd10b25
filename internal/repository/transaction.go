package repository

import (
	"context"
	"database/sql"

	"github.com/finledger/finledger-go/internal/model"
)

// TransactionRepository handles transaction persistence operations.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const insertTransactionQuery = `
	INSERT INTO transactions (user_id, amount, type, category, description, transaction_date)
	VALUES (?, ?, ?, ?, ?, ?)`

const insertUploadedFileQuery = `
	INSERT INTO uploaded_files (filename, owner_id) VALUES (?, ?)`

// CreateBatch inserts a batch of transactions for one owner inside a single
// database transaction, together with the uploaded-file provenance row.
// Either every row is persisted or none: any failure rolls the whole batch
// back, including the provenance row.
func (r *TransactionRepository) CreateBatch(ctx context.Context, ownerID int64, filename string, txs []model.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range txs {
		_, err := tx.ExecContext(ctx, insertTransactionQuery,
			ownerID,
			t.Amount,
			t.Type,
			t.Category,
			t.Description,
			t.TransactionDate.Format("2006-01-02"),
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, insertUploadedFileQuery, filename, ownerID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListByUser retrieves all transactions owned by a user, newest transaction
// date first. Same-date rows tie-break on id descending so ordering stays
// deterministic.
func (r *TransactionRepository) ListByUser(ctx context.Context, ownerID int64) ([]model.Transaction, error) {
	query := `SELECT id, user_id, amount, type, category, description, transaction_date, created_at
		FROM transactions WHERE user_id = ? ORDER BY transaction_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var description sql.NullString
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category,
			&description, &t.TransactionDate, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.Description = description.String
		txs = append(txs, t)
	}

	return txs, rows.Err()
}
