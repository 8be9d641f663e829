package journal

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry records how far a sync for one order got and which remote ids were
// created along the way. The pipeline consults it before re-running a step,
// so a redelivered webhook does not create duplicate remote objects.
type Entry struct {
	OrderID     int64
	OrderName   string
	Step        string
	CustomerID  int64
	LocationID  int64
	ShopOrderID string
	UpdatedAt   time.Time
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns the journal entry for an order, or nil when no sync has been
// attempted yet. A missing entry is a normal branch, not an error.
func (s *Store) Get(ctx context.Context, orderID int64) (*Entry, error) {
	const query = `
		SELECT order_id, order_name, step, customer_id, location_id, shop_order_id, updated_at
		FROM sync_journal
		WHERE order_id = $1`

	var e Entry
	err := s.pool.QueryRow(ctx, query, orderID).Scan(
		&e.OrderID, &e.OrderName, &e.Step, &e.CustomerID, &e.LocationID, &e.ShopOrderID, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Record upserts the journal entry for an order.
func (s *Store) Record(ctx context.Context, e Entry) error {
	const query = `
		INSERT INTO sync_journal (order_id, order_name, step, customer_id, location_id, shop_order_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (order_id) DO UPDATE SET
			step = EXCLUDED.step,
			customer_id = EXCLUDED.customer_id,
			location_id = EXCLUDED.location_id,
			shop_order_id = EXCLUDED.shop_order_id,
			updated_at = now()`

	_, err := s.pool.Exec(ctx, query,
		e.OrderID, e.OrderName, e.Step, e.CustomerID, e.LocationID, e.ShopOrderID,
	)
	return err
}
