package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olviko/shiftledger/internal/domain"
)

// OperationRepository implements usecase.OperationRepository on the
// operations dictionary table.
type OperationRepository struct {
	pool *pgxpool.Pool
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{pool: pool}
}

// Create registers a new operation and fills in its assigned ID.
func (r *OperationRepository) Create(ctx context.Context, operation *domain.Operation) error {
	query := `INSERT INTO operations (operation_name) VALUES ($1) RETURNING id`

	err := r.pool.QueryRow(ctx, query, operation.Name).Scan(&operation.ID)
	if isUniqueViolation(err) {
		return domain.ErrOperationExists
	}

	return err
}

// GetByID retrieves an operation by ID.
func (r *OperationRepository) GetByID(ctx context.Context, id int64) (*domain.Operation, error) {
	query := `SELECT id, operation_name FROM operations WHERE id = $1`

	var operation domain.Operation
	err := r.pool.QueryRow(ctx, query, id).Scan(&operation.ID, &operation.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOperationNotFound
		}

		return nil, err
	}

	return &operation, nil
}

// List lists operations with pagination, in creation order.
func (r *OperationRepository) List(ctx context.Context, limit, offset int) ([]*domain.Operation, error) {
	query := `
		SELECT id, operation_name
		FROM operations
		ORDER BY id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operations []*domain.Operation
	for rows.Next() {
		var operation domain.Operation
		if err := rows.Scan(&operation.ID, &operation.Name); err != nil {
			return nil, err
		}
		operations = append(operations, &operation)
	}

	return operations, rows.Err()
}
