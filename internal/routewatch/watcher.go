package routewatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/enzy-delivery/carrier-sync/internal/stopsuite"
	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheKey        = "routes:active"
	cacheTTL        = 10 * time.Minute
	refreshInterval = 5 * time.Minute
)

// Watcher keeps a Redis snapshot of StopSuite's active routes so webhook
// handlers can attach orders to today's route without a live API call on the
// hot path.
type Watcher struct {
	dispatch  *stopsuite.Client
	rdb       *redis.Client
	scheduler gocron.Scheduler
}

func NewWatcher(dispatch *stopsuite.Client, rdb *redis.Client) (*Watcher, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Watcher{
		dispatch:  dispatch,
		rdb:       rdb,
		scheduler: scheduler,
	}, nil
}

// Start refreshes the snapshot once immediately, then on an interval.
func (w *Watcher) Start(ctx context.Context) error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(refreshInterval),
		gocron.NewTask(func() {
			refreshCtx, cancel := context.WithTimeout(ctx, time.Minute)
			defer cancel()
			w.refresh(refreshCtx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule route refresh: %w", err)
	}

	w.scheduler.Start()
	return nil
}

func (w *Watcher) Stop() {
	if err := w.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("failed to shut down route watcher")
	}
}

func (w *Watcher) refresh(ctx context.Context) {
	details, err := w.dispatch.ActiveRouteDetails(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("active route refresh failed, keeping stale snapshot")
		return
	}

	data, err := json.Marshal(details)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal route snapshot")
		return
	}

	if err := w.rdb.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache route snapshot")
		return
	}

	log.Debug().Int("routes", len(details)).Msg("refreshed active route snapshot")
}

// ActiveRouteForToday returns the first active route scheduled for today,
// preferring the cached snapshot and falling back to a live lookup when the
// cache is cold. A nil route with a nil error means no route runs today.
func (w *Watcher) ActiveRouteForToday(ctx context.Context) (*stopsuite.Route, error) {
	today := time.Now().Format("2006-01-02")

	if route := w.cachedRouteFor(ctx, today); route != nil {
		return route, nil
	}

	routes, err := w.dispatch.ListRoutes(ctx, today, today)
	if err != nil {
		return nil, err
	}
	for i := range routes {
		if !routes[i].Complete && !routes[i].Cancelled {
			return &routes[i], nil
		}
	}
	return nil, nil
}

func (w *Watcher) cachedRouteFor(ctx context.Context, date string) *stopsuite.Route {
	data, err := w.rdb.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("route snapshot read failed")
		}
		return nil
	}

	var details []stopsuite.RouteDetail
	if err := json.Unmarshal(data, &details); err != nil {
		log.Warn().Err(err).Msg("route snapshot corrupt, ignoring")
		return nil
	}

	return activeRouteFor(details, date)
}

// activeRouteFor picks the first route on the given date that is still
// running. Terminal state is re-checked here: the snapshot can lag a
// completion or cancellation by up to its TTL.
func activeRouteFor(details []stopsuite.RouteDetail, date string) *stopsuite.Route {
	for i := range details {
		if details[i].Date == date && !details[i].Complete && !details[i].Cancelled {
			return &details[i].Route
		}
	}
	return nil
}
