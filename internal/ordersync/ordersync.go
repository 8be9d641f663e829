package ordersync

import (
	"context"
	"time"

	"github.com/enzy-delivery/carrier-sync/internal/journal"
	"github.com/enzy-delivery/carrier-sync/internal/shopify"
	"github.com/enzy-delivery/carrier-sync/internal/stopsuite"
)

// Sync states, terminal on the first unrecoverable failure.
const (
	StepReceived         = "RECEIVED"
	StepCustomerCreated  = "CUSTOMER_CREATED"
	StepLocationCreated  = "LOCATION_CREATED"
	StepShopOrderCreated = "SHOP_ORDER_CREATED"
	StepRouteAssigned    = "ROUTE_ASSIGNED"
	StepDone             = "DONE"
	StepFailed           = "FAILED"
)

// Journal tracks partial sync progress per order. A nil Journal disables
// tracking; duplicate webhook deliveries then race the way the remote API
// lets them.
type Journal interface {
	Get(ctx context.Context, orderID int64) (*journal.Entry, error)
	Record(ctx context.Context, e journal.Entry) error
}

// Notifier receives operator alerts about sync outcomes.
type Notifier interface {
	SyncFailed(orderName, step string, cause error)
	SyncDeferred(orderName string)
}

// RouteSource finds today's active route, if any.
type RouteSource interface {
	ActiveRouteForToday(ctx context.Context) (*stopsuite.Route, error)
}

// Config tunes the orchestrator.
type Config struct {
	// PollAttempts and PollInterval bound the Shopify routing-readiness
	// poll (step 0).
	PollAttempts int
	PollInterval time.Duration
	// Tolerate502 turns a transient 502 during shop-order creation into a
	// soft success with a placeholder id. Only for the StopSuite demo
	// environment; never enable in production.
	Tolerate502 bool
	// ProductTable maps line-item SKUs to StopSuite product ids. SKUs that
	// parse as integers are used directly; unknown SKUs fall back to the
	// Shopify product id.
	ProductTable map[string]int64
}

// Service drives the multi-step StopSuite object creation for a new Shopify
// order. Steps 1-3 are hard requirements; route assignment is best-effort.
// There is no rollback: a failure can leave earlier objects behind remotely,
// which the journal records for later inspection.
type Service struct {
	dispatch *stopsuite.Client
	shop     *shopify.Client
	journal  Journal
	notifier Notifier
	routes   RouteSource
	cfg      Config
}

func NewService(dispatch *stopsuite.Client, shop *shopify.Client, jrnl Journal, notifier Notifier, routes RouteSource, cfg Config) *Service {
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = 3
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	return &Service{
		dispatch: dispatch,
		shop:     shop,
		journal:  jrnl,
		notifier: notifier,
		routes:   routes,
		cfg:      cfg,
	}
}
