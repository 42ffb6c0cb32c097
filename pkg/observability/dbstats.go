package observability

import (
	"database/sql"
	"fmt"

	"github.com/robfig/cron/v3"
)

// StatsSource exposes connection pool statistics, satisfied by *sql.DB
type StatsSource interface {
	Stats() sql.DBStats
}

// DBStatsCollector copies connection pool statistics into the DB gauges on a cron schedule
type DBStatsCollector struct {
	source  StatsSource
	metrics *Metrics
	logger  *Logger
	cron    *cron.Cron
}

// NewDBStatsCollector schedules pool sampling. The schedule uses standard cron syntax
// or a descriptor such as "@every 15s".
func NewDBStatsCollector(source StatsSource, metrics *Metrics, schedule string, logger *Logger) (*DBStatsCollector, error) {
	c := &DBStatsCollector{
		source:  source,
		metrics: metrics,
		logger:  logger,
		cron:    cron.New(),
	}

	if _, err := c.cron.AddFunc(schedule, c.Collect); err != nil {
		return nil, fmt.Errorf("invalid db stats schedule %q: %w", schedule, err)
	}

	return c, nil
}

// Collect samples the pool once
func (c *DBStatsCollector) Collect() {
	defer RecoverPanic(c.logger, "db stats collector")

	stats := c.source.Stats()
	c.metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
	c.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	c.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
	c.metrics.DBConnectionsWaitCount.Set(float64(stats.WaitCount))
	c.metrics.DBConnectionsWaitDuration.Set(stats.WaitDuration.Seconds())
}

// Start samples immediately and then on every tick
func (c *DBStatsCollector) Start() {
	c.Collect()
	c.cron.Start()
}

// Stop halts the schedule and waits for a running sample to finish
func (c *DBStatsCollector) Stop() {
	<-c.cron.Stop().Done()
}
