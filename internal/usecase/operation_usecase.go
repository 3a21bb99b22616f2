package usecase

import (
	"context"

	"github.com/olviko/shiftledger/internal/domain"
	"github.com/olviko/shiftledger/internal/infrastructure/metrics"
)

// OperationUseCase handles the business operations dictionary.
type OperationUseCase struct {
	operationRepo OperationRepository
	metrics       *metrics.Metrics
}

// NewOperationUseCase creates a new OperationUseCase. metrics may be nil.
func NewOperationUseCase(operationRepo OperationRepository, metrics *metrics.Metrics) *OperationUseCase {
	return &OperationUseCase{operationRepo: operationRepo, metrics: metrics}
}

// CreateOperation registers a new business operation.
func (uc *OperationUseCase) CreateOperation(ctx context.Context, name string) (*domain.Operation, error) {
	if err := domain.ValidateOperationName(name); err != nil {
		return nil, err
	}

	operation := &domain.Operation{Name: name}
	if err := uc.operationRepo.Create(ctx, operation); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OperationsCreated.Inc()
	}

	return operation, nil
}

// GetOperation retrieves an operation by ID.
func (uc *OperationUseCase) GetOperation(ctx context.Context, id int64) (*domain.Operation, error) {
	return uc.operationRepo.GetByID(ctx, id)
}

// ListOperations lists operations with pagination.
func (uc *OperationUseCase) ListOperations(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.operationRepo.List(ctx, limit, offset)
}
