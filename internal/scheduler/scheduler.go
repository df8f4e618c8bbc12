// Package scheduler keeps the collection-size gauges current. The API
// exposes collection_users and collection_shoes; this refreshes them on
// a cron spec instead of counting on every scrape.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/solestash/solestash/internal/metrics"
	"github.com/solestash/solestash/internal/repo"
)

// Run refreshes the gauges once immediately, then on every tick of
// spec (e.g. "@every 1m"). It returns a stop function for shutdown.
func Run(users *repo.UserRepo, shoes *repo.ShoeRepo, spec string) (stop func(), err error) {
	refresh := func() {
		userCount, err := users.Count()
		if err != nil {
			slog.Error("stats refresh: count users", "err", err)
			return
		}
		shoeCount, err := shoes.Count()
		if err != nil {
			slog.Error("stats refresh: count shoes", "err", err)
			return
		}
		metrics.SetCollectionSizes(userCount, shoeCount)
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, refresh); err != nil {
		return nil, err
	}

	refresh()
	c.Start()
	return func() { c.Stop() }, nil
}
