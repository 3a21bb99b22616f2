package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olviko/shiftledger/internal/adapter/http/dto"
	"github.com/olviko/shiftledger/internal/domain"
)

// OperationService defines the behavior needed by OperationHandler.
type OperationService interface {
	CreateOperation(ctx context.Context, name string) (*domain.Operation, error)
	GetOperation(ctx context.Context, id int64) (*domain.Operation, error)
	ListOperations(ctx context.Context, limit, offset int) ([]*domain.Operation, error)
}

// OperationHandler handles operations dictionary HTTP requests.
type OperationHandler struct {
	operationUC OperationService
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(operationUC OperationService) *OperationHandler {
	return &OperationHandler{operationUC: operationUC}
}

// Create registers a new operation.
func (h *OperationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	operation, err := h.operationUC.CreateOperation(r.Context(), req.Name)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create operation", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.OperationFromDomain(operation))
}

// Get retrieves an operation by ID.
func (h *OperationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid operation ID", err.Error())
		return
	}

	operation, err := h.operationUC.GetOperation(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get operation", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.OperationFromDomain(operation))
}

// List lists operations.
func (h *OperationHandler) List(w http.ResponseWriter, r *http.Request) {
	operations, err := h.operationUC.ListOperations(r.Context(),
		parseIntQuery(r, "limit", 0),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list operations", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OperationsFromDomain(operations))
}
