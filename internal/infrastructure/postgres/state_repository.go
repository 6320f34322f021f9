package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StatePersister = (*StateRepo)(nil)

// StateRepo implementación del puerto StatePersister sobre PostgreSQL: el snapshot completo vive
// en una fila JSONB de app_state y cada guardado reescribe la proyección product_stock.
type StateRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewStateRepository construye el adaptador de persistencia del estado.
func NewStateRepository(pool *pgxpool.Pool) *StateRepo {
	return &StateRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Load lee el documento de estado. Sin fila devuelve (nil, nil).
func (r *StateRepo) Load(ctx context.Context) (*entity.Snapshot, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `SELECT data FROM app_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select app_state: %w", err)
	}
	var snap entity.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decodificar app_state: %w", err)
	}
	return &snap, nil
}

// Save guarda el documento y la proyección de existencias en una misma transacción.
func (r *StateRepo) Save(ctx context.Context, s entity.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("codificar estado: %w", err)
	}
	return r.tx.Run(ctx, func(q Querier) error {
		var revision int64
		err := q.QueryRow(ctx, `
			INSERT INTO app_state (id, data, revision, updated_at)
			VALUES (1, $1, 1, now())
			ON CONFLICT (id) DO UPDATE
			SET data = EXCLUDED.data, revision = app_state.revision + 1, updated_at = now()
			RETURNING revision`, data).Scan(&revision)
		if err != nil {
			return fmt.Errorf("upsert app_state: %w", err)
		}
		return replaceProductStock(ctx, q, s.Products, revision)
	})
}

func replaceProductStock(ctx context.Context, q Querier, products []entity.Product, revision int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM product_stock`); err != nil {
		return fmt.Errorf("delete product_stock: %w", err)
	}
	if len(products) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{p.ID, p.Name, p.DepartmentID, p.Price, p.CurrentQty, p.MinThreshold, revision})
	}
	_, err := q.CopyFrom(ctx,
		pgx.Identifier{"product_stock"},
		[]string{"product_id", "name", "department_id", "price", "current_qty", "min_threshold", "revision"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product_stock: id de producto repetido: %w", err)
		}
		return fmt.Errorf("copy product_stock: %w", err)
	}
	return nil
}
