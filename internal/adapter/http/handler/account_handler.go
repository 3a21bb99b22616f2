package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olviko/shiftledger/internal/adapter/http/dto"
	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, accountNo string) (*domain.Account, error)
	ResolveAccount(ctx context.Context, accountNo string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	ListChildren(ctx context.Context, accountNo string) ([]*domain.Account, error)
	GetLatestBalance(ctx context.Context, accountNo string) (*domain.AccountBalance, error)
	ListBalances(ctx context.Context, input usecase.ListBalancesInput) ([]*domain.AccountBalance, error)
}

// AccountHandler handles chart-of-accounts HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create account", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by number.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), accountNo)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Resolve resolves an account number to the postable leaf account. Summary
// accounts answer 400.
func (h *AccountHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	account, err := h.accountUC.ResolveAccount(r.Context(), accountNo)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to resolve account", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// ListChildren lists the direct children of an account.
func (h *AccountHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	children, err := h.accountUC.ListChildren(r.Context(), accountNo)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list children", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(children))
}

// GetBalance returns the account's most recent balance row.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	balance, err := h.accountUC.GetLatestBalance(r.Context(), accountNo)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	if balance == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// ListBalances lists the account's balance history, newest first.
func (h *AccountHandler) ListBalances(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")

	balances, err := h.accountUC.ListBalances(r.Context(), usecase.ListBalancesInput{
		AccountNo: accountNo,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}
