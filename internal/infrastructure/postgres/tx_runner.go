package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Restobar-api/internal/application/inventory"
	"github.com/jhoicas/Restobar-api/pkg/logger"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	isoLevel pgx.TxIsoLevel
	timeout  time.Duration
	log      *logger.Logger
}

// NewTxRunner construye el runner con el pool. isolation: "read committed", "repeatable read" o "serializable".
func NewTxRunner(pool *pgxpool.Pool, isolation string, timeout time.Duration, log *logger.Logger) (*TxRunner, error) {
	iso, err := ParseIsolation(isolation)
	if err != nil {
		return nil, err
	}
	return &TxRunner{pool: pool, isoLevel: iso, timeout: timeout, log: log}, nil
}

// ParseIsolation traduce el nombre del nivel de aislamiento de la config.
func ParseIsolation(s string) (pgx.TxIsoLevel, error) {
	switch s {
	case "read committed":
		return pgx.ReadCommitted, nil
	case "", "repeatable read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	}
	return "", fmt.Errorf("nivel de aislamiento desconocido: %q", s)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// El timeout por evento se aplica al ctx; si vence, la transacción se revierte completa.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isoLevel})
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		mapped := mapError("transaction", err)
		r.log.Debug().Err(mapped).Msg("transacción revertida")
		return mapped
	}
	if err := tx.Commit(ctx); err != nil {
		mapped := mapError("commit transaction", err)
		r.log.Error().Err(mapped).Msg("commit fallido")
		return mapped
	}
	return nil
}

// NewRepos arma el juego de repositorios sobre un pool o una tx.
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Movements:   NewMovementRepository(q),
		Inventory:   NewInventoryRepository(q),
		Products:    NewProductRepository(q),
		Locations:   NewLocationRepository(q),
		Recipes:     NewRecipeRepository(q),
		Orders:      NewOrderRepository(q),
		Tables:      NewTableRepository(q),
		Adjustments: NewAdjustmentRepository(q),
		Transfers:   NewTransferRepository(q),
		SaleEvents:  NewSaleEventRepository(q),
	}
}
