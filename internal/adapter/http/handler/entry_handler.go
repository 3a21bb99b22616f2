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

// PostingService defines the behavior needed by EntryHandler.
type PostingService interface {
	PostEntry(ctx context.Context, req domain.PostEntryRequest) (*domain.Entry, error)
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
}

// EntryHandler handles posting-related HTTP requests.
type EntryHandler struct {
	postingUC PostingService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(postingUC PostingService) *EntryHandler {
	return &EntryHandler{postingUC: postingUC}
}

// Post records a new double-entry transaction.
func (h *EntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.postingUC.PostEntry(r.Context(), req.ToDomain())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post entry", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.postingUC.GetEntry(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get entry", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List lists entries, newest first.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.postingUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByAccount lists entries touching an account.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountNo := chi.URLParam(r, "no")
	if accountNo == "" {
		writeError(w, http.StatusBadRequest, "missing account number", "")
		return
	}

	entries, err := h.postingUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		AccountNo: accountNo,
		Limit:     parseIntQuery(r, "limit", 0),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
