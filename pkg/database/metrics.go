package database

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStatsCollector implements prometheus.Collector for pgxpool connection metrics.
type PoolStatsCollector struct {
	pool    *pgxpool.Pool
	service string

	acquiredConns *prometheus.Desc
	idleConns     *prometheus.Desc
	totalConns    *prometheus.Desc
	maxConns      *prometheus.Desc
	acquireCount  *prometheus.Desc
	emptyAcquires *prometheus.Desc
}

// NewPoolStatsCollector creates a new Prometheus collector that exports pgxpool
// connection pool statistics as metrics.
func NewPoolStatsCollector(pool *pgxpool.Pool, service string) *PoolStatsCollector {
	labels := []string{"service"}
	return &PoolStatsCollector{
		pool:    pool,
		service: service,
		acquiredConns: prometheus.NewDesc(
			"db_pool_acquired_connections",
			"Number of currently acquired connections",
			labels, nil,
		),
		idleConns: prometheus.NewDesc(
			"db_pool_idle_connections",
			"Number of currently idle connections",
			labels, nil,
		),
		totalConns: prometheus.NewDesc(
			"db_pool_total_connections",
			"Total number of connections in the pool",
			labels, nil,
		),
		maxConns: prometheus.NewDesc(
			"db_pool_max_connections",
			"Maximum number of connections allowed",
			labels, nil,
		),
		acquireCount: prometheus.NewDesc(
			"db_pool_acquire_count_total",
			"Total number of connection acquires",
			labels, nil,
		),
		emptyAcquires: prometheus.NewDesc(
			"db_pool_empty_acquire_count_total",
			"Total number of acquires that had to wait for a connection",
			labels, nil,
		),
	}
}

// Describe sends metric descriptors to the channel.
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.emptyAcquires
}

// Collect gathers current pool statistics and sends them to the channel.
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(stats.AcquiredConns()), c.service)
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns()), c.service)
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns()), c.service)
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(stats.MaxConns()), c.service)
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(stats.AcquireCount()), c.service)
	ch <- prometheus.MustNewConstMetric(c.emptyAcquires, prometheus.CounterValue, float64(stats.EmptyAcquireCount()), c.service)
}
