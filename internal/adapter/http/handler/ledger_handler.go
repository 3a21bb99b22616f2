package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olviko/shiftledger/internal/adapter/http/dto"
	"github.com/olviko/shiftledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetTrialBalance(ctx context.Context, date time.Time) (*usecase.TrialBalance, error)
	CheckConsistency(ctx context.Context, date time.Time) (bool, error)
	ReplayAccount(ctx context.Context, accountNo string) (*usecase.ReplayResult, error)
}

// LedgerHandler handles ledger-wide HTTP requests: trial balance,
// consistency checks and replay verification.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// parseDateQuery parses a "date" query parameter; the current day is the
// default.
func parseDateQuery(r *http.Request) (time.Time, error) {
	val := r.URL.Query().Get("date")
	if val == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", val)
}

// TrialBalance returns every account's balance row for one date.
func (h *LedgerHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	tb, err := h.ledgerUC.GetTrialBalance(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build trial balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromUseCase(tb))
}

// CheckConsistency verifies the double-entry balance law for one date.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	ok, err := h.ledgerUC.CheckConsistency(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
		Date:       date.Format("2006-01-02"),
		Consistent: ok,
	})
}

// Replay re-derives an account's balance from its entry history and compares
// it with the stored snapshot.
func (h *LedgerHandler) Replay(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	result, err := h.ledgerUC.ReplayAccount(r.Context(), accountNo)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to replay account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ReplayFromUseCase(result))
}
