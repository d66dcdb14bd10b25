package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/finledger/finledger-go/internal/ingest"
	"github.com/finledger/finledger-go/internal/middleware"
	"github.com/finledger/finledger-go/internal/model"
	"github.com/finledger/finledger-go/internal/service"
)

// maxUploadBytes bounds the size of an uploaded CSV file.
const maxUploadBytes = 10 << 20 // 10MB

// TransactionHandler handles HTTP requests for CSV imports and queries.
type TransactionHandler struct {
	service *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(svc *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: svc}
}

// HandleUploadCSV handles POST /upload-transactions-csv requests. The body
// is a multipart form with a single "file" part. Import is all-or-nothing;
// any rejection names the reason, including the offending row number for
// row-level failures.
func (h *TransactionHandler) HandleUploadCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing file upload"))
		return
	}
	defer file.Close()

	resp, err := h.service.ImportCSV(r.Context(), userID, header.Filename, file)
	if err != nil {
		var rowErr *ingest.RowError
		var missingErr *ingest.MissingColumnsError
		switch {
		case errors.Is(err, ingest.ErrFileType),
			errors.Is(err, ingest.ErrMalformedFile),
			errors.Is(err, ingest.ErrEmptyFile),
			errors.As(err, &rowErr),
			errors.As(err, &missingErr):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleListTransactions handles GET /my-transactions requests. Supported
// query parameters: type, category, start_date, end_date (YYYY-MM-DD),
// min_amount, max_amount. All are optional and AND together.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("could not validate credentials"))
		return
	}

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	txs, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, txs)
}

func parseFilter(q url.Values) (model.TransactionFilter, error) {
	var filter model.TransactionFilter

	if v := q.Get("type"); v != "" {
		if v != model.TypeCredit && v != model.TypeDebit {
			return filter, errors.New("type must be credit or debit")
		}
		filter.Type = v
	}

	filter.Category = q.Get("category")

	if v := q.Get("start_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("start_date must be formatted YYYY-MM-DD")
		}
		filter.StartDate = &d
	}
	if v := q.Get("end_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("end_date must be formatted YYYY-MM-DD")
		}
		filter.EndDate = &d
	}

	if v := q.Get("min_amount"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errors.New("min_amount must be a number")
		}
		filter.MinAmount = &f
	}
	if v := q.Get("max_amount"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errors.New("max_amount must be a number")
		}
		filter.MaxAmount = &f
	}

	return filter, nil
}
